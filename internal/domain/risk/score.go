package risk

import (
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
)

// velocityWeight is the contribution of stress velocity to the final score.
const velocityWeight = 0.10

// Risk level thresholds on the clamped score.
const (
	moderateThreshold = 0.40
	highThreshold     = 0.70
)

// RiskLevel is the discrete band a score falls into.
type RiskLevel string

const (
	LevelLow      RiskLevel = "Low"
	LevelModerate RiskLevel = "Moderate"
	LevelHigh     RiskLevel = "High"
)

// IsValid checks the level tag.
func (l RiskLevel) IsValid() bool {
	return l == LevelLow || l == LevelModerate || l == LevelHigh
}

// ComputeRiskScore combines the weighted deviations and the stress velocity
// term into a single clamped score.
func ComputeRiskScore(w Weights, dev Deviation, stressVelocity float64) float64 {
	score := w.Stress*dev.Stress +
		w.Sleep*dev.Sleep +
		w.Workload*dev.Workload +
		w.Mood*dev.Mood +
		w.Nutrition*dev.Nutrition +
		velocityWeight*stressVelocity
	return behavior.Clamp(score)
}

// LevelFor maps a score onto its risk level. The mapping is total and has no
// hysteresis: < 0.40 is Low, < 0.70 is Moderate, everything else is High.
func LevelFor(score float64) RiskLevel {
	if score < moderateThreshold {
		return LevelLow
	}
	if score < highThreshold {
		return LevelModerate
	}
	return LevelHigh
}

// StabilityIndex is the dashboard's inverse presentation of the score:
// round((1 - score) * 100).
func StabilityIndex(score float64) int {
	return int((1-score)*100 + 0.5)
}
