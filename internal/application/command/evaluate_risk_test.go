package command

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/risk"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

var evalNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

var calmMetrics = behavior.Metrics{Stress: 1, Sleep: 5, Mood: 3, Workload: 1, Nutrition: 5}
var steadyMetrics = behavior.Metrics{Stress: 3, Sleep: 3, Mood: 3, Workload: 3, Nutrition: 3}

type evalEnv struct {
	handler     *EvaluateRiskHandler
	logs        *fakeLogRepo
	baselines   *fakeBaselineRepo
	assessments *fakeAssessmentRepo
	alerts      *fakeAlertRepo
	bus         *fakeBus
	journal     []string
}

func newEvalEnv() *evalEnv {
	env := &evalEnv{
		logs:      &fakeLogRepo{},
		baselines: newFakeBaselineRepo(),
		bus:       &fakeBus{},
	}
	env.assessments = &fakeAssessmentRepo{journal: &env.journal}
	env.alerts = &fakeAlertRepo{journal: &env.journal}

	seq := 0
	env.handler = NewEvaluateRiskHandler(env.logs, env.baselines, env.assessments, env.alerts, nil, env.bus).
		WithClock(func() time.Time { return evalNow }).
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		})
	return env
}

func TestEvaluateRisk_RejectsUnauthenticated(t *testing.T) {
	env := newEvalEnv()

	_, err := env.handler.Handle(context.Background(), EvaluateRiskCommand{UserID: ""})

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	assert.Empty(t, env.bus.events)
}

func TestEvaluateRisk_BaselinePhase(t *testing.T) {
	env := newEvalEnv()
	seedLogs(env.logs, "student-1", steadyMetrics, 3, evalNow)

	result, err := env.handler.Handle(context.Background(), EvaluateRiskCommand{UserID: "student-1"})

	require.NoError(t, err)
	assert.Equal(t, risk.PhaseBaseline, result.Phase)
	assert.Equal(t, "Baseline phase: continue logging for 4 days.", result.Message)
	assert.Nil(t, result.Assessment)

	// Nothing is persisted or published during the baseline phase.
	assert.Empty(t, env.baselines.baselines)
	assert.Empty(t, env.assessments.assessments)
	assert.Empty(t, env.bus.events)
}

func TestEvaluateRisk_EstablishesBaselineOnFourthLog(t *testing.T) {
	env := newEvalEnv()
	seedLogs(env.logs, "student-1", steadyMetrics, 4, evalNow)

	result, err := env.handler.Handle(context.Background(), EvaluateRiskCommand{UserID: "student-1"})

	require.NoError(t, err)
	assert.Equal(t, risk.PhaseMonitoring, result.Phase)
	assert.True(t, result.BaselineCreated)
	assert.Equal(t, "Baseline established. Monitoring activated.", result.Message)
	assert.Nil(t, result.Assessment, "the transition run records no assessment")

	stored, err := env.baselines.Get(context.Background(), "student-1")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, stored.Stress, 1e-9)
	assert.InDelta(t, 0.5, stored.Nutrition, 1e-9)
	assert.Equal(t, evalNow, stored.CreatedAt)

	assert.Equal(t, []shared.EventType{shared.EventBaselineEstablished}, env.bus.typesPublished())
	assert.Empty(t, env.assessments.assessments)
}

func TestEvaluateRisk_LostBaselineRaceFallsThroughToScoring(t *testing.T) {
	env := newEvalEnv()
	env.baselines.forceLoseRace = true
	seedLogs(env.logs, "student-1", steadyMetrics, 4, evalNow)

	result, err := env.handler.Handle(context.Background(), EvaluateRiskCommand{UserID: "student-1"})

	require.NoError(t, err)
	assert.False(t, result.BaselineCreated)
	assert.Equal(t, risk.PhaseMonitoring, result.Phase)
	require.NotNil(t, result.Assessment, "losing the race still scores against the surviving baseline")
	assert.Equal(t, risk.LevelLow, result.Assessment.RiskLevel)

	// No baseline-established event: this run did not create it.
	assert.Equal(t, []shared.EventType{shared.EventAssessmentRecorded}, env.bus.typesPublished())
}

func TestEvaluateRisk_MonitoringLowRisk(t *testing.T) {
	env := newEvalEnv()
	seedLogs(env.logs, "student-1", steadyMetrics, 4, evalNow)
	env.baselines.baselines["student-1"] = risk.Baseline{
		UserID: "student-1", Stress: 0.5, Sleep: 0.5, Mood: 0.5, Workload: 0.5, Nutrition: 0.5,
		CreatedAt: evalNow.AddDate(0, 0, -5),
	}

	result, err := env.handler.Handle(context.Background(), EvaluateRiskCommand{UserID: "student-1"})

	require.NoError(t, err)
	require.NotNil(t, result.Assessment)
	assert.Equal(t, "id-1", result.Assessment.ID)
	assert.InDelta(t, 0.0, result.Assessment.RiskScore, 1e-9)
	assert.Equal(t, risk.LevelLow, result.Assessment.RiskLevel)
	assert.Empty(t, result.Assessment.Flags)
	assert.Empty(t, result.AlertID)

	assert.Len(t, env.assessments.assessments, 1)
	assert.Empty(t, env.alerts.alerts)
	assert.Equal(t, []shared.EventType{shared.EventAssessmentRecorded}, env.bus.typesPublished())
}

func TestEvaluateRisk_HighRiskRaisesAlert(t *testing.T) {
	env := newEvalEnv()
	seedLogs(env.logs, "student-1", calmMetrics, 3, evalNow.AddDate(0, 0, -1))

	// Today's log is the opposite of the calm history on every metric.
	spike := behavior.Metrics{Stress: 5, Sleep: 1, Mood: 1, Workload: 5, Nutrition: 1}
	day := shared.DayOf(evalNow, time.UTC)
	log, err := behavior.NewDailyLog("log-spike", "student-1", day, spike, "", evalNow)
	require.NoError(t, err)
	env.logs.logs = append(env.logs.logs, log)

	env.baselines.baselines["student-1"] = risk.Baseline{
		UserID: "student-1", Stress: 0, Sleep: 1, Mood: 0.5, Workload: 0, Nutrition: 1,
		CreatedAt: evalNow.AddDate(0, 0, -5),
	}

	result, err := env.handler.Handle(context.Background(), EvaluateRiskCommand{UserID: "student-1"})

	require.NoError(t, err)
	require.NotNil(t, result.Assessment)
	assert.Equal(t, risk.LevelHigh, result.Assessment.RiskLevel)
	assert.InDelta(t, 1.0, result.Assessment.RiskScore, 1e-9, "maximum deviation everywhere clamps to 1")
	assert.Equal(t, risk.StateRapidEscalation, result.Assessment.BehavioralState,
		"velocity above 0.4 overrides the pattern states")

	// Assessment id-1, alert id-2; the assessment must land first.
	assert.Equal(t, "id-2", result.AlertID)
	assert.Equal(t, []string{"assessment", "alert"}, env.journal)

	require.Len(t, env.alerts.alerts, 1)
	assert.Equal(t, "id-1", env.alerts.alerts[0].AssessmentID)
	assert.False(t, env.alerts.alerts[0].Resolved)

	assert.Equal(t, []shared.EventType{
		shared.EventHighRiskDetected,
		shared.EventAssessmentRecorded,
	}, env.bus.typesPublished())

	high, ok := env.bus.events[0].(shared.HighRiskDetectedEvent)
	require.True(t, ok)
	assert.Equal(t, "id-2", high.AlertID)
	assert.Equal(t, "student-1", high.UserID)
}

type countingCache struct {
	setCalls int
}

func (c *countingCache) SetLatest(context.Context, *risk.Assessment) error {
	c.setCalls++
	return nil
}

func (c *countingCache) InvalidateLatest(context.Context, shared.UserID) error { return nil }

func TestEvaluateRisk_CachesLatestAssessment(t *testing.T) {
	env := newEvalEnv()
	cache := &countingCache{}
	env.handler.cache = cache

	seedLogs(env.logs, "student-1", steadyMetrics, 4, evalNow)
	env.baselines.baselines["student-1"] = risk.Baseline{
		UserID: "student-1", Stress: 0.5, Sleep: 0.5, Mood: 0.5, Workload: 0.5, Nutrition: 0.5,
		CreatedAt: evalNow.AddDate(0, 0, -5),
	}

	_, err := env.handler.Handle(context.Background(), EvaluateRiskCommand{UserID: "student-1"})

	require.NoError(t, err)
	assert.Equal(t, 1, cache.setCalls)
}
