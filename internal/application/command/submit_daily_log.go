package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT DAILY LOG COMMAND
// The daily check-in: validates the five ratings, upserts today's log (a
// same-day resubmission replaces, never duplicates), then triggers one
// explicit risk evaluation for the user.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitDailyLogCommand carries one day's self-reported metrics.
type SubmitDailyLogCommand struct {
	// UserID - the authenticated student.
	UserID string

	// The five 1..5 ratings.
	Stress    int
	Sleep     int
	Mood      int
	Workload  int
	Nutrition int

	// Note - optional free text from the check-in form.
	Note string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c SubmitDailyLogCommand) Validate() error {
	if !shared.UserID(c.UserID).IsValid() {
		return shared.WrapError("behavior", "Submit", shared.ErrUnauthenticated, "caller identity missing", nil)
	}
	metrics := c.metrics()
	return metrics.Validate()
}

func (c SubmitDailyLogCommand) metrics() behavior.Metrics {
	return behavior.Metrics{
		Stress:    behavior.Rating(c.Stress),
		Sleep:     behavior.Rating(c.Sleep),
		Mood:      behavior.Rating(c.Mood),
		Workload:  behavior.Rating(c.Workload),
		Nutrition: behavior.Rating(c.Nutrition),
	}
}

// SubmitDailyLogResult is the outcome of a check-in.
type SubmitDailyLogResult struct {
	// LogID - the stored log's ID.
	LogID string

	// Day - the calendar day the log covers.
	Day string

	// Replaced - true when a same-day entry was overwritten.
	Replaced bool

	// Streak - consecutive-day check-in count, 0 when tracking is off.
	Streak int

	// Evaluation - the risk evaluation triggered by this log.
	Evaluation *EvaluateRiskResult
}

// StreakTracker counts consecutive check-in days. Tracking failures are
// cosmetic and never fail a check-in.
type StreakTracker interface {
	RecordCheckin(ctx context.Context, userID shared.UserID, day shared.Day) (streak int, err error)
}

// SubmitDailyLogHandler handles SubmitDailyLogCommand.
type SubmitDailyLogHandler struct {
	logs      behavior.Repository
	evaluator *EvaluateRiskHandler
	streaks   StreakTracker
	bus       shared.EventBus
	location  *time.Location

	newID func() string
	now   func() time.Time
}

// NewSubmitDailyLogHandler creates a new SubmitDailyLogHandler.
// streaks and bus may be nil. location defaults to UTC and controls which
// calendar day a submission lands on.
func NewSubmitDailyLogHandler(
	logs behavior.Repository,
	evaluator *EvaluateRiskHandler,
	streaks StreakTracker,
	bus shared.EventBus,
	location *time.Location,
) *SubmitDailyLogHandler {
	if location == nil {
		location = time.UTC
	}
	return &SubmitDailyLogHandler{
		logs:      logs,
		evaluator: evaluator,
		streaks:   streaks,
		bus:       bus,
		location:  location,
		newID:     uuid.NewString,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the handler's clock. Tests use this.
func (h *SubmitDailyLogHandler) WithClock(now func() time.Time) *SubmitDailyLogHandler {
	h.now = now
	return h
}

// Handle executes the submit daily log command.
func (h *SubmitDailyLogHandler) Handle(ctx context.Context, cmd SubmitDailyLogCommand) (*SubmitDailyLogResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.now()
	day := shared.DayOf(now, h.location)

	log, err := behavior.NewDailyLog(h.newID(), shared.UserID(cmd.UserID), day, cmd.metrics(), cmd.Note, now)
	if err != nil {
		return nil, fmt.Errorf("submit_daily_log: %w", err)
	}

	replaced, err := h.logs.UpsertForDay(ctx, log)
	if err != nil {
		return nil, shared.WrapStoreError("behavior", "Submit.Upsert", err)
	}

	result := &SubmitDailyLogResult{
		LogID:    log.ID,
		Day:      day.String(),
		Replaced: replaced,
	}

	if h.streaks != nil {
		if streak, err := h.streaks.RecordCheckin(ctx, log.UserID, day); err == nil {
			result.Streak = streak
		}
	}

	if h.bus != nil {
		_ = h.bus.Publish(ctx, shared.DailyLogSubmittedEvent{
			BaseEvent: shared.NewBaseEvent(shared.EventDailyLogSubmitted, cmd.UserID),
			UserID:    cmd.UserID,
			Day:       day.Time(),
			Replaced:  replaced,
		})
	}

	// One explicit evaluation per new log (never a reactive recomputation).
	evaluation, err := h.evaluator.Handle(ctx, EvaluateRiskCommand{
		UserID:        cmd.UserID,
		CorrelationID: cmd.CorrelationID,
	})
	if err != nil {
		return nil, err
	}
	result.Evaluation = evaluation

	return result, nil
}
