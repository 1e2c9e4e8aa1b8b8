package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
)

func TestComputeDeviation_Direction(t *testing.T) {
	baseline := Baseline{Stress: 0.5, Sleep: 0.5, Mood: 0.5, Workload: 0.5, Nutrition: 0.5}

	// Everything moves the "bad" way.
	worse := behavior.NormalizedVector{Stress: 0.75, Sleep: 0.25, Mood: 0.75, Workload: 1.0, Nutrition: 0.0}
	dev := ComputeDeviation(worse, baseline)

	assert.InDelta(t, 0.25, dev.Stress, 1e-9)
	assert.InDelta(t, 0.25, dev.Sleep, 1e-9)
	assert.InDelta(t, 0.25, dev.Mood, 1e-9)
	assert.InDelta(t, 0.5, dev.Workload, 1e-9)
	assert.InDelta(t, 0.5, dev.Nutrition, 1e-9)
}

func TestComputeDeviation_ImprovementClampsToZero(t *testing.T) {
	baseline := Baseline{Stress: 0.5, Sleep: 0.5, Mood: 0.5, Workload: 0.5, Nutrition: 0.5}

	// Less stress, more sleep, lighter workload, better nutrition.
	better := behavior.NormalizedVector{Stress: 0.25, Sleep: 0.75, Mood: 0.5, Workload: 0.25, Nutrition: 1.0}
	dev := ComputeDeviation(better, baseline)

	assert.Zero(t, dev.Stress)
	assert.Zero(t, dev.Sleep)
	assert.Zero(t, dev.Workload)
	assert.Zero(t, dev.Nutrition)
}

func TestComputeDeviation_MoodIsBidirectional(t *testing.T) {
	baseline := Baseline{Mood: 0.5}

	up := ComputeDeviation(behavior.NormalizedVector{Mood: 0.75}, baseline)
	down := ComputeDeviation(behavior.NormalizedVector{Mood: 0.25}, baseline)

	assert.InDelta(t, 0.25, up.Mood, 1e-9)
	assert.InDelta(t, 0.25, down.Mood, 1e-9)
}

func TestDeviation_Dominant(t *testing.T) {
	dev := Deviation{Stress: 0.1, Sleep: 0.4, Mood: 0.2, Workload: 0.3, Nutrition: 0.0}
	assert.Equal(t, behavior.MetricSleep, dev.Dominant())
}

func TestDeviation_Dominant_TieBreaksByMetricOrder(t *testing.T) {
	// stress and sleep tie; stress comes first in metric order.
	dev := Deviation{Stress: 0.4, Sleep: 0.4}
	assert.Equal(t, behavior.MetricStress, dev.Dominant())

	// workload beats mood on a tie for the same reason.
	dev = Deviation{Mood: 0.3, Workload: 0.3}
	assert.Equal(t, behavior.MetricWorkload, dev.Dominant())
}
