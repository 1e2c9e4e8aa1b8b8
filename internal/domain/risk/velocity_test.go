package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
)

func stressLogs(ratings ...behavior.Rating) []*behavior.DailyLog {
	logs := make([]*behavior.DailyLog, len(ratings))
	for i, r := range ratings {
		logs[i] = &behavior.DailyLog{Metrics: behavior.Metrics{Stress: r, Sleep: 3, Mood: 3, Workload: 3, Nutrition: 3}}
	}
	return logs
}

func TestStressVelocity(t *testing.T) {
	// Newest first: 5, 3, 1. Velocity telescopes to s1-s3 = 1.0 - 0.0.
	v := StressVelocity(stressLogs(5, 3, 1))
	assert.InDelta(t, 1.0, v, 1e-9)

	// Falling stress clamps to zero; velocity never goes negative.
	v = StressVelocity(stressLogs(1, 3, 5))
	assert.Zero(t, v)
}

func TestStressVelocity_TooFewLogs(t *testing.T) {
	assert.Zero(t, StressVelocity(nil))
	assert.Zero(t, StressVelocity(stressLogs(5)))
	assert.Zero(t, StressVelocity(stressLogs(5, 1)))
}

func TestTrend_Improving(t *testing.T) {
	// Newest first, strictly falling risk.
	recovery, acceleration := Trend([]float64{0.2, 0.4, 0.6})
	assert.Equal(t, RecoveryImproving, recovery)
	assert.Equal(t, AccelerationStable, acceleration)
}

func TestTrend_Worsening(t *testing.T) {
	recovery, _ := Trend([]float64{0.6, 0.4, 0.2})
	assert.Equal(t, RecoveryWorsening, recovery)
}

func TestTrend_Accelerating(t *testing.T) {
	// Rising, and the most recent jump is bigger than the one before.
	recovery, acceleration := Trend([]float64{0.8, 0.5, 0.4})
	assert.Equal(t, RecoveryWorsening, recovery)
	assert.Equal(t, AccelerationRisk, acceleration)

	// Rising at a constant rate does not accelerate.
	_, acceleration = Trend([]float64{0.6, 0.4, 0.2})
	assert.Equal(t, AccelerationStable, acceleration)
}

func TestTrend_RequiresExactWindow(t *testing.T) {
	recovery, acceleration := Trend([]float64{0.1, 0.2})
	assert.Equal(t, RecoveryStable, recovery)
	assert.Equal(t, AccelerationStable, acceleration)

	recovery, _ = Trend([]float64{0.1, 0.2, 0.3, 0.4})
	assert.Equal(t, RecoveryStable, recovery)
}

func TestTrend_FlatIsStable(t *testing.T) {
	recovery, acceleration := Trend([]float64{0.5, 0.5, 0.5})
	assert.Equal(t, RecoveryStable, recovery)
	assert.Equal(t, AccelerationStable, acceleration)
}
