package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureFlags_Defaults(t *testing.T) {
	ff := LoadFeatureFlags()
	ctx := &FeatureContext{UserID: "student-1"}

	assert.True(t, ff.IsEnabled(FeatureNotifyHighRiskAlert, ctx))
	assert.True(t, ff.IsEnabled(FeatureNotifyWeeklyDigest, ctx))
	assert.True(t, ff.IsEnabled(FeatureDashboardStreaks, ctx))
	assert.False(t, ff.IsEnabled(FeatureExperimentalTrendChart, ctx))
	assert.False(t, ff.IsEnabled("does.not.exist", ctx))
}

func TestFeatureFlags_CounselorsSeeEverything(t *testing.T) {
	ff := LoadFeatureFlags()
	counselor := &FeatureContext{UserID: "counselor-1", IsCounselor: true}

	assert.True(t, ff.IsEnabled(FeatureExperimentalTrendChart, counselor))
	assert.False(t, ff.IsEnabled("does.not.exist", counselor),
		"a counselor still cannot see a flag that was never registered")
}

func TestFeatureFlags_RolloutIsDeterministicPerUser(t *testing.T) {
	ff := LoadFeatureFlags()

	enrolled := 0
	for i := 0; i < 200; i++ {
		ctx := &FeatureContext{UserID: fmt.Sprintf("student-%d", i)}
		first := ff.IsEnabled(FeatureSchedulePredictor, ctx)
		for j := 0; j < 5; j++ {
			assert.Equal(t, first, ff.IsEnabled(FeatureSchedulePredictor, ctx),
				"a user never flips buckets between checks")
		}
		if first {
			enrolled++
		}
	}

	// 50% rollout: some in, some out.
	assert.Greater(t, enrolled, 0)
	assert.Less(t, enrolled, 200)
}

func TestFeatureFlags_RolloutBoundaries(t *testing.T) {
	ff := LoadFeatureFlags()
	ctx := &FeatureContext{UserID: "student-1"}

	require.NoError(t, ff.SetRolloutPercent(FeatureSchedulePredictor, 0))
	assert.False(t, ff.IsEnabled(FeatureSchedulePredictor, ctx))

	require.NoError(t, ff.SetRolloutPercent(FeatureSchedulePredictor, 100))
	assert.True(t, ff.IsEnabled(FeatureSchedulePredictor, ctx))

	assert.ErrorIs(t, ff.SetRolloutPercent(FeatureSchedulePredictor, 101), ErrInvalidRolloutPercent)
	assert.ErrorIs(t, ff.SetRolloutPercent("does.not.exist", 10), ErrFeatureNotFound)
}

func TestFeatureFlags_UserOverrideWins(t *testing.T) {
	ff := LoadFeatureFlags()
	ctx := &FeatureContext{UserID: "student-1"}

	ff.SetUserOverride("student-1", FeatureExperimentalTrendChart, true)
	assert.True(t, ff.IsEnabled(FeatureExperimentalTrendChart, ctx))
	assert.False(t, ff.IsEnabled(FeatureExperimentalTrendChart, &FeatureContext{UserID: "student-2"}),
		"the override is scoped to one user")

	ff.SetUserOverride("student-1", FeatureNotifyWeeklyDigest, false)
	assert.False(t, ff.IsEnabled(FeatureNotifyWeeklyDigest, ctx))

	ff.ClearUserOverrides("student-1")
	assert.False(t, ff.IsEnabled(FeatureExperimentalTrendChart, ctx))
	assert.True(t, ff.IsEnabled(FeatureNotifyWeeklyDigest, ctx))
}

func TestFeatureFlags_EnvironmentOverrides(t *testing.T) {
	t.Setenv("FEATURE_EXPERIMENTAL_TREND_CHART", "true")
	t.Setenv("FEATURE_NOTIFY_WEEKLY_DIGEST", "false")
	t.Setenv("FEATURE_SCHEDULE_PREDICTOR", "25")

	ff := LoadFeatureFlags()
	ctx := &FeatureContext{UserID: "student-1"}

	assert.True(t, ff.IsEnabled(FeatureExperimentalTrendChart, ctx))
	assert.False(t, ff.IsEnabled(FeatureNotifyWeeklyDigest, ctx))

	predictor := ff.GetAllFeatures()[FeatureSchedulePredictor]
	require.NotNil(t, predictor)
	assert.Equal(t, 25, predictor.RolloutPercent)
}

func TestFeatureFlags_EnableDisable(t *testing.T) {
	ff := LoadFeatureFlags()
	ctx := &FeatureContext{UserID: "student-1"}

	require.NoError(t, ff.DisableFeature(FeatureNotifyCheckinReminder))
	assert.False(t, ff.IsEnabled(FeatureNotifyCheckinReminder, ctx))

	require.NoError(t, ff.EnableFeature(FeatureNotifyCheckinReminder))
	assert.True(t, ff.IsEnabled(FeatureNotifyCheckinReminder, ctx))
}
