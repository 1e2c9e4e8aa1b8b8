// Package risk implements the behavioral risk scoring engine: personal
// baselines, day-over-day deviation, dynamic weighting, trend derivatives,
// score/level mapping, flag and state classification, and insight text.
// Everything in this package is a pure function of its inputs; persistence
// is behind the repository ports.
package risk

import (
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// BaselineWindow is how many daily logs are averaged into a baseline.
// Fewer logs than this keeps the user in the baseline phase.
const BaselineWindow = 4

// Baseline is a user's personal reference vector: the mean normalized value
// of each metric over their first BaselineWindow logs. It is computed exactly
// once per user and is read-only afterwards, even as history accumulates.
type Baseline struct {
	UserID    shared.UserID
	Stress    float64
	Sleep     float64
	Mood      float64
	Workload  float64
	Nutrition float64
	CreatedAt time.Time
}

// Get returns the baseline value for a named metric.
func (b Baseline) Get(metric behavior.Metric) float64 {
	switch metric {
	case behavior.MetricStress:
		return b.Stress
	case behavior.MetricSleep:
		return b.Sleep
	case behavior.MetricMood:
		return b.Mood
	case behavior.MetricWorkload:
		return b.Workload
	case behavior.MetricNutrition:
		return b.Nutrition
	default:
		return 0
	}
}

// ComputeBaseline averages the normalized metrics of the given logs.
// Callers must pass exactly the user's oldest BaselineWindow logs ordered
// oldest-to-newest; which four are averaged changes the baseline, so the
// ordering convention is part of the contract.
func ComputeBaseline(userID shared.UserID, logs []*behavior.DailyLog, now time.Time) (Baseline, error) {
	if len(logs) < BaselineWindow {
		return Baseline{}, shared.WrapError("risk", "ComputeBaseline", shared.ErrInvalidInput,
			"not enough logs to establish a baseline", nil)
	}

	window := logs[:BaselineWindow]
	var sum behavior.NormalizedVector
	for _, l := range window {
		v := l.Metrics.Normalized()
		sum.Stress += v.Stress
		sum.Sleep += v.Sleep
		sum.Mood += v.Mood
		sum.Workload += v.Workload
		sum.Nutrition += v.Nutrition
	}

	n := float64(BaselineWindow)
	return Baseline{
		UserID:    userID,
		Stress:    sum.Stress / n,
		Sleep:     sum.Sleep / n,
		Mood:      sum.Mood / n,
		Workload:  sum.Workload / n,
		Nutrition: sum.Nutrition / n,
		CreatedAt: now,
	}, nil
}

// Phase tags which stage of the two-phase lifecycle a user is in.
type Phase string

const (
	// PhaseBaseline - fewer than BaselineWindow logs exist; no score is computed.
	PhaseBaseline Phase = "baseline"

	// PhaseMonitoring - a baseline exists and every new log is scored against it.
	PhaseMonitoring Phase = "monitoring"
)

// IsValid checks the phase tag.
func (p Phase) IsValid() bool {
	return p == PhaseBaseline || p == PhaseMonitoring
}
