package behavior

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

func TestRating_Normalized(t *testing.T) {
	assert.Equal(t, 0.0, Rating(1).Normalized())
	assert.Equal(t, 0.25, Rating(2).Normalized())
	assert.Equal(t, 0.5, Rating(3).Normalized())
	assert.Equal(t, 0.75, Rating(4).Normalized())
	assert.Equal(t, 1.0, Rating(5).Normalized())
}

func TestRating_IsValid(t *testing.T) {
	assert.False(t, Rating(0).IsValid())
	assert.True(t, Rating(1).IsValid())
	assert.True(t, Rating(5).IsValid())
	assert.False(t, Rating(6).IsValid())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-0.5))
	assert.Equal(t, 0.0, Clamp(0))
	assert.Equal(t, 0.37, Clamp(0.37))
	assert.Equal(t, 1.0, Clamp(1))
	assert.Equal(t, 1.0, Clamp(1.8))
}

func TestMetrics_Validate(t *testing.T) {
	valid := Metrics{Stress: 3, Sleep: 4, Mood: 2, Workload: 5, Nutrition: 1}
	assert.NoError(t, valid.Validate())

	invalid := Metrics{Stress: 3, Sleep: 0, Mood: 2, Workload: 5, Nutrition: 1}
	err := invalid.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)
}

func TestMetrics_Normalized(t *testing.T) {
	m := Metrics{Stress: 5, Sleep: 1, Mood: 3, Workload: 4, Nutrition: 2}
	v := m.Normalized()

	assert.Equal(t, 1.0, v.Stress)
	assert.Equal(t, 0.0, v.Sleep)
	assert.Equal(t, 0.5, v.Mood)
	assert.Equal(t, 0.75, v.Workload)
	assert.Equal(t, 0.25, v.Nutrition)
}

func TestNewDailyLog(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	day := shared.DayOf(now, time.UTC)
	metrics := Metrics{Stress: 2, Sleep: 4, Mood: 3, Workload: 3, Nutrition: 4}

	log, err := NewDailyLog("log-1", "user-1", day, metrics, "  long day  ", now)
	require.NoError(t, err)

	assert.Equal(t, "log-1", log.ID)
	assert.Equal(t, shared.UserID("user-1"), log.UserID)
	assert.Equal(t, "long day", log.Note, "note should be trimmed")
	assert.True(t, log.IsFor(day))
}

func TestNewDailyLog_Invalid(t *testing.T) {
	now := time.Now()
	day := shared.DayOf(now, time.UTC)

	_, err := NewDailyLog("log-1", "", day, Metrics{Stress: 3, Sleep: 3, Mood: 3, Workload: 3, Nutrition: 3}, "", now)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = NewDailyLog("log-1", "user-1", day, Metrics{Stress: 9, Sleep: 3, Mood: 3, Workload: 3, Nutrition: 3}, "", now)
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)
}
