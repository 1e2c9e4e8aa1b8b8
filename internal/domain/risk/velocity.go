package risk

import (
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
)

// TrendWindow is how many ordered samples the derivative computations need.
// With fewer samples velocity is zero and both trend statuses stay Stable.
const TrendWindow = 3

// RecoveryStatus describes the direction of the last three risk scores.
type RecoveryStatus string

const (
	RecoveryStable    RecoveryStatus = "Stable"
	RecoveryImproving RecoveryStatus = "Improving"
	RecoveryWorsening RecoveryStatus = "Worsening"
)

// AccelerationStatus flags a second-order escalation of risk.
type AccelerationStatus string

const (
	AccelerationStable AccelerationStatus = "Stable"
	AccelerationRisk   AccelerationStatus = "Risk Accelerating"
)

// StressVelocity derives the short-horizon first derivative of stress from
// logs ordered most-recent-first: clamp((s1-s2) + (s2-s3)) over the three
// newest normalized stress values. Returns 0 with fewer than TrendWindow logs.
func StressVelocity(logs []*behavior.DailyLog) float64 {
	if len(logs) < TrendWindow {
		return 0
	}
	s1 := logs[0].Metrics.Stress.Normalized()
	s2 := logs[1].Metrics.Stress.Normalized()
	s3 := logs[2].Metrics.Stress.Normalized()
	return behavior.Clamp((s1 - s2) + (s2 - s3))
}

// Trend reduces the last three persisted risk scores (most-recent-first) to
// a recovery and an acceleration status. Both default to Stable unless
// exactly TrendWindow prior scores are available.
//
// The comparison direction is deliberate: with previous[0] the newest score,
// previous[0] < previous[1] < previous[2] means risk has fallen on each of
// the last three runs, i.e. the user is improving.
func Trend(previous []float64) (RecoveryStatus, AccelerationStatus) {
	recovery := RecoveryStable
	acceleration := AccelerationStable

	if len(previous) != TrendWindow {
		return recovery, acceleration
	}

	if previous[0] < previous[1] && previous[1] < previous[2] {
		recovery = RecoveryImproving
	}
	if previous[0] > previous[1] && previous[1] > previous[2] {
		recovery = RecoveryWorsening
	}

	d1 := previous[0] - previous[1]
	d2 := previous[1] - previous[2]
	if d1 > 0 && d2 > 0 && d1 > d2 {
		acceleration = AccelerationRisk
	}

	return recovery, acceleration
}
