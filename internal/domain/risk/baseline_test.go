package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

func TestComputeBaseline(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	logs := []*behavior.DailyLog{
		{Metrics: behavior.Metrics{Stress: 1, Sleep: 5, Mood: 3, Workload: 2, Nutrition: 4}},
		{Metrics: behavior.Metrics{Stress: 2, Sleep: 4, Mood: 3, Workload: 2, Nutrition: 4}},
		{Metrics: behavior.Metrics{Stress: 1, Sleep: 5, Mood: 3, Workload: 3, Nutrition: 5}},
		{Metrics: behavior.Metrics{Stress: 2, Sleep: 4, Mood: 3, Workload: 3, Nutrition: 5}},
	}

	b, err := ComputeBaseline("user-1", logs, now)
	require.NoError(t, err)

	assert.Equal(t, shared.UserID("user-1"), b.UserID)
	assert.InDelta(t, 0.125, b.Stress, 1e-9)    // mean of 0, .25, 0, .25
	assert.InDelta(t, 0.875, b.Sleep, 1e-9)     // mean of 1, .75, 1, .75
	assert.InDelta(t, 0.5, b.Mood, 1e-9)        // all 3s
	assert.InDelta(t, 0.375, b.Workload, 1e-9)  // mean of .25, .25, .5, .5
	assert.InDelta(t, 0.875, b.Nutrition, 1e-9) // mean of .75, .75, 1, 1
	assert.Equal(t, now, b.CreatedAt)
}

func TestComputeBaseline_UsesOnlyFirstFourLogs(t *testing.T) {
	now := time.Now()
	logs := []*behavior.DailyLog{
		{Metrics: behavior.Metrics{Stress: 3, Sleep: 3, Mood: 3, Workload: 3, Nutrition: 3}},
		{Metrics: behavior.Metrics{Stress: 3, Sleep: 3, Mood: 3, Workload: 3, Nutrition: 3}},
		{Metrics: behavior.Metrics{Stress: 3, Sleep: 3, Mood: 3, Workload: 3, Nutrition: 3}},
		{Metrics: behavior.Metrics{Stress: 3, Sleep: 3, Mood: 3, Workload: 3, Nutrition: 3}},
		// A fifth, extreme log must not shift the baseline.
		{Metrics: behavior.Metrics{Stress: 5, Sleep: 1, Mood: 5, Workload: 5, Nutrition: 1}},
	}

	b, err := ComputeBaseline("user-1", logs, now)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, b.Stress, 1e-9)
	assert.InDelta(t, 0.5, b.Sleep, 1e-9)
}

func TestComputeBaseline_NotEnoughLogs(t *testing.T) {
	logs := []*behavior.DailyLog{
		{Metrics: behavior.Metrics{Stress: 3, Sleep: 3, Mood: 3, Workload: 3, Nutrition: 3}},
	}

	_, err := ComputeBaseline("user-1", logs, time.Now())
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
