package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/risk"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

type brokenStreakTracker struct{}

func (brokenStreakTracker) RecordCheckin(context.Context, shared.UserID, shared.Day) (int, error) {
	return 0, errors.New("redis down")
}

func newSubmitHandler(env *evalEnv, streaks StreakTracker) *SubmitDailyLogHandler {
	return NewSubmitDailyLogHandler(env.logs, env.handler, streaks, env.bus, time.UTC).
		WithClock(func() time.Time { return evalNow })
}

func validCheckin() SubmitDailyLogCommand {
	return SubmitDailyLogCommand{
		UserID: "student-1",
		Stress: 3, Sleep: 3, Mood: 3, Workload: 3, Nutrition: 3,
		Note: "midterms week",
	}
}

func TestSubmitDailyLog_RejectsInvalidInput(t *testing.T) {
	env := newEvalEnv()
	h := newSubmitHandler(env, nil)

	cmd := validCheckin()
	cmd.UserID = ""
	_, err := h.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)

	cmd = validCheckin()
	cmd.Stress = 6
	_, err = h.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)

	assert.Empty(t, env.logs.logs, "nothing is stored on validation failure")
	assert.Empty(t, env.bus.events)
}

func TestSubmitDailyLog_FirstCheckin(t *testing.T) {
	env := newEvalEnv()
	streaks := &fakeStreakTracker{}
	h := newSubmitHandler(env, streaks)

	result, err := h.Handle(context.Background(), validCheckin())

	require.NoError(t, err)
	assert.NotEmpty(t, result.LogID)
	assert.Equal(t, "2026-03-10", result.Day)
	assert.False(t, result.Replaced)
	assert.Equal(t, 1, result.Streak)

	require.Len(t, env.logs.logs, 1)
	assert.Equal(t, "midterms week", env.logs.logs[0].Note)

	// One log is not enough history: the triggered evaluation stays in the
	// baseline phase.
	require.NotNil(t, result.Evaluation)
	assert.Equal(t, risk.PhaseBaseline, result.Evaluation.Phase)

	assert.Equal(t, []shared.EventType{shared.EventDailyLogSubmitted}, env.bus.typesPublished())
	submitted, ok := env.bus.events[0].(shared.DailyLogSubmittedEvent)
	require.True(t, ok)
	assert.Equal(t, "student-1", submitted.UserID)
	assert.False(t, submitted.Replaced)
}

func TestSubmitDailyLog_SameDayResubmissionReplaces(t *testing.T) {
	env := newEvalEnv()
	h := newSubmitHandler(env, nil)

	first, err := h.Handle(context.Background(), validCheckin())
	require.NoError(t, err)

	second := validCheckin()
	second.Stress = 5
	second.Note = "exam went badly"
	result, err := h.Handle(context.Background(), second)

	require.NoError(t, err)
	assert.True(t, result.Replaced)
	assert.NotEqual(t, first.LogID, result.LogID)

	// Still one log for the day, carrying the replacement's values.
	require.Len(t, env.logs.logs, 1)
	assert.Equal(t, 5, int(env.logs.logs[0].Metrics.Stress))
	assert.Equal(t, "exam went badly", env.logs.logs[0].Note)
}

func TestSubmitDailyLog_StreakFailureIsCosmetic(t *testing.T) {
	env := newEvalEnv()
	h := newSubmitHandler(env, brokenStreakTracker{})

	result, err := h.Handle(context.Background(), validCheckin())

	require.NoError(t, err)
	assert.Equal(t, 0, result.Streak)
	assert.Len(t, env.logs.logs, 1, "the check-in itself still lands")
}

func TestSubmitDailyLog_FourthCheckinEstablishesBaseline(t *testing.T) {
	env := newEvalEnv()
	h := newSubmitHandler(env, nil)
	seedLogs(env.logs, "student-1", steadyMetrics, 3, evalNow)

	result, err := h.Handle(context.Background(), validCheckin())

	require.NoError(t, err)
	require.NotNil(t, result.Evaluation)
	assert.True(t, result.Evaluation.BaselineCreated)
	assert.Equal(t, risk.PhaseMonitoring, result.Evaluation.Phase)

	assert.Equal(t, []shared.EventType{
		shared.EventDailyLogSubmitted,
		shared.EventBaselineEstablished,
	}, env.bus.typesPublished())
}
