// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/alert"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/risk"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVALUATE RISK COMMAND
// Runs the full scoring pipeline for one user: baseline phase handling,
// deviation → weights → velocity → score → flags → state → insight, then
// persists the assessment (and the alert, on High) and publishes events.
// One invocation per new daily log - evaluation is explicit, never reactive.
// ══════════════════════════════════════════════════════════════════════════════

// baselinePhaseMessage is returned while fewer than risk.BaselineWindow logs exist.
const baselinePhaseMessage = "Baseline phase: continue logging for 4 days."

// baselineEstablishedMessage is returned by the run that creates the baseline.
const baselineEstablishedMessage = "Baseline established. Monitoring activated."

// EvaluateRiskCommand identifies whose risk to evaluate.
type EvaluateRiskCommand struct {
	// UserID - the authenticated student. Empty means the caller never
	// authenticated; nothing is computed or persisted in that case.
	UserID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c EvaluateRiskCommand) Validate() error {
	if !shared.UserID(c.UserID).IsValid() {
		return shared.WrapError("risk", "Evaluate", shared.ErrUnauthenticated, "caller identity missing", nil)
	}
	return nil
}

// EvaluateRiskResult is the phase-tagged outcome of one evaluation.
// During the baseline phase only Phase and Message are set.
type EvaluateRiskResult struct {
	// Phase - baseline or monitoring.
	Phase risk.Phase

	// Message - status text for baseline-phase and transition runs.
	Message string

	// BaselineCreated - true on the single run that establishes the baseline.
	BaselineCreated bool

	// Assessment - the full immutable record; nil unless a score was computed.
	Assessment *risk.Assessment

	// AlertID - set when the evaluation raised a counselor alert.
	AlertID string
}

// AssessmentCache is an optional hot cache for the latest assessment.
// Cache failures never fail an evaluation.
type AssessmentCache interface {
	SetLatest(ctx context.Context, assessment *risk.Assessment) error
	InvalidateLatest(ctx context.Context, userID shared.UserID) error
}

// EvaluateRiskHandler handles EvaluateRiskCommand.
type EvaluateRiskHandler struct {
	logs        behavior.Repository
	baselines   risk.BaselineRepository
	assessments risk.AssessmentRepository
	alerts      alert.Repository
	cache       AssessmentCache
	bus         shared.EventBus

	newID func() string
	now   func() time.Time
}

// NewEvaluateRiskHandler creates a new EvaluateRiskHandler.
// cache and bus may be nil; both are optional collaborators.
func NewEvaluateRiskHandler(
	logs behavior.Repository,
	baselines risk.BaselineRepository,
	assessments risk.AssessmentRepository,
	alerts alert.Repository,
	cache AssessmentCache,
	bus shared.EventBus,
) *EvaluateRiskHandler {
	return &EvaluateRiskHandler{
		logs:        logs,
		baselines:   baselines,
		assessments: assessments,
		alerts:      alerts,
		cache:       cache,
		bus:         bus,
		newID:       uuid.NewString,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the handler's clock. Tests use this.
func (h *EvaluateRiskHandler) WithClock(now func() time.Time) *EvaluateRiskHandler {
	h.now = now
	return h
}

// WithIDGenerator overrides the handler's ID source. Tests use this.
func (h *EvaluateRiskHandler) WithIDGenerator(newID func() string) *EvaluateRiskHandler {
	h.newID = newID
	return h
}

// Handle executes the evaluate risk command.
func (h *EvaluateRiskHandler) Handle(ctx context.Context, cmd EvaluateRiskCommand) (*EvaluateRiskResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	userID := shared.UserID(cmd.UserID)
	now := h.now()

	// Fetch the recent-log window once; both phase detection and the
	// velocity analyzer read from it.
	logs, err := h.logs.ListRecent(ctx, userID, risk.BaselineWindow)
	if err != nil {
		return nil, shared.WrapStoreError("risk", "Evaluate.ListRecent", err)
	}

	// Baseline phase: not enough history, no score, nothing persisted.
	if len(logs) < risk.BaselineWindow {
		return &EvaluateRiskResult{
			Phase:   risk.PhaseBaseline,
			Message: baselinePhaseMessage,
		}, nil
	}

	baseline, err := h.baselines.Get(ctx, userID)
	switch {
	case err == nil:
		// Monitoring phase - the stored baseline is read-only from here on.
	case shared.IsNotFound(err):
		return h.establishBaseline(ctx, userID, cmd, now)
	default:
		return nil, shared.WrapStoreError("risk", "Evaluate.GetBaseline", err)
	}

	return h.evaluateMonitoring(ctx, userID, *baseline, logs, cmd, now)
}

// establishBaseline runs the one-time baseline-phase → monitoring transition.
// The store enforces first-write-wins; if another run got there first, this
// run falls through to normal monitoring against the surviving baseline.
func (h *EvaluateRiskHandler) establishBaseline(
	ctx context.Context,
	userID shared.UserID,
	cmd EvaluateRiskCommand,
	now time.Time,
) (*EvaluateRiskResult, error) {
	// The baseline averages the user's oldest four logs, oldest-to-newest.
	// Which four get averaged changes the baseline, so the ordering here is
	// part of the behavioral contract.
	oldest, err := h.logs.ListOldest(ctx, userID, risk.BaselineWindow)
	if err != nil {
		return nil, shared.WrapStoreError("risk", "Evaluate.ListOldest", err)
	}

	baseline, err := risk.ComputeBaseline(userID, oldest, now)
	if err != nil {
		return nil, fmt.Errorf("evaluate_risk: failed to compute baseline: %w", err)
	}

	created, err := h.baselines.CreateIfAbsent(ctx, baseline)
	if err != nil {
		return nil, shared.WrapStoreError("risk", "Evaluate.CreateBaseline", err)
	}

	if created {
		h.publish(ctx, shared.BaselineEstablishedEvent{
			BaseEvent: shared.NewBaseEvent(shared.EventBaselineEstablished, userID.String()),
			UserID:    userID.String(),
		})
		return &EvaluateRiskResult{
			Phase:           risk.PhaseMonitoring,
			Message:         baselineEstablishedMessage,
			BaselineCreated: true,
		}, nil
	}

	// Lost the creation race: a concurrent run persisted first. Score
	// against the surviving baseline instead.
	stored, err := h.baselines.Get(ctx, userID)
	if err != nil {
		return nil, shared.WrapStoreError("risk", "Evaluate.GetBaseline", err)
	}

	logs, err := h.logs.ListRecent(ctx, userID, risk.BaselineWindow)
	if err != nil {
		return nil, shared.WrapStoreError("risk", "Evaluate.ListRecent", err)
	}

	return h.evaluateMonitoring(ctx, userID, *stored, logs, cmd, now)
}

// evaluateMonitoring runs the scoring pipeline and persists its output.
// Write ordering is deliberate: the assessment lands before any alert, so
// risk history is never lost even if the alert write fails.
func (h *EvaluateRiskHandler) evaluateMonitoring(
	ctx context.Context,
	userID shared.UserID,
	baseline risk.Baseline,
	logs []*behavior.DailyLog,
	cmd EvaluateRiskCommand,
	now time.Time,
) (*EvaluateRiskResult, error) {
	previous, err := h.assessments.RecentScores(ctx, userID, risk.TrendWindow)
	if err != nil {
		return nil, shared.WrapStoreError("risk", "Evaluate.RecentScores", err)
	}

	assessment, err := risk.EvaluateDay(h.newID(), baseline, logs, previous, now)
	if err != nil {
		return nil, fmt.Errorf("evaluate_risk: pipeline failed: %w", err)
	}

	if err := h.assessments.Append(ctx, assessment); err != nil {
		return nil, shared.WrapStoreError("risk", "Evaluate.AppendAssessment", err)
	}

	result := &EvaluateRiskResult{
		Phase:      risk.PhaseMonitoring,
		Assessment: assessment,
	}

	if assessment.RequiresAlert() {
		a := alert.NewAlert(h.newID(), userID, assessment.ID, now)
		if err := h.alerts.Append(ctx, a); err != nil {
			// The assessment is already durable; surface the failed alert
			// write instead of pretending the run succeeded.
			return nil, shared.WrapStoreError("risk", "Evaluate.AppendAlert", err)
		}
		result.AlertID = a.ID

		h.publish(ctx, shared.HighRiskDetectedEvent{
			BaseEvent:       shared.NewBaseEvent(shared.EventHighRiskDetected, userID.String()),
			UserID:          userID.String(),
			AlertID:         a.ID,
			RiskScore:       assessment.RiskScore,
			BehavioralState: string(assessment.BehavioralState),
			Insight:         assessment.Insight,
		})
	}

	h.publish(ctx, shared.AssessmentRecordedEvent{
		BaseEvent:    shared.NewBaseEvent(shared.EventAssessmentRecorded, userID.String()),
		UserID:       userID.String(),
		AssessmentID: assessment.ID,
		RiskScore:    assessment.RiskScore,
		RiskLevel:    string(assessment.RiskLevel),
	})

	if h.cache != nil {
		// Best effort - a cold cache just means the next dashboard read
		// falls through to postgres.
		_ = h.cache.SetLatest(ctx, assessment)
	}

	return result, nil
}

func (h *EvaluateRiskHandler) publish(ctx context.Context, event shared.Event) {
	if h.bus == nil {
		return
	}
	_ = h.bus.Publish(ctx, event)
}
