package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DETECT MISSED CHECK-IN JOB
// ══════════════════════════════════════════════════════════════════════════════

// DetectMissedCheckinJob sweeps for users who have logged before but have no
// entry for today, and publishes a checkin-missed event for each. The schedule
// determines the cutoff: register it with a DailyAtSchedule at the campus
// cutoff hour and the sweep fires exactly then.
type DetectMissedCheckinJob struct {
	dailyLogs behavior.Repository
	eventBus  shared.EventBus
	logger    *slog.Logger

	config DetectMissedCheckinConfig

	lastRunStats atomic.Value // *DetectMissedCheckinStats
}

// DetectMissedCheckinConfig contains configuration for the missed check-in job.
type DetectMissedCheckinConfig struct {
	// Location is the campus timezone used to decide what "today" means.
	Location *time.Location

	// MaxUsers caps how many users a single sweep flags.
	MaxUsers int

	// Timeout is the maximum duration for the job.
	Timeout time.Duration
}

// DefaultDetectMissedCheckinConfig returns sensible defaults.
func DefaultDetectMissedCheckinConfig() DetectMissedCheckinConfig {
	return DetectMissedCheckinConfig{
		Location: time.UTC,
		MaxUsers: 10000,
		Timeout:  2 * time.Minute,
	}
}

// DetectMissedCheckinStats contains statistics from a sweep.
type DetectMissedCheckinStats struct {
	StartedAt       time.Time
	CompletedAt     time.Time
	Duration        time.Duration
	UsersFlagged    int
	EventsPublished int
	Errors          int
}

// NewDetectMissedCheckinJob creates a new missed check-in job.
func NewDetectMissedCheckinJob(
	dailyLogs behavior.Repository,
	eventBus shared.EventBus,
	logger *slog.Logger,
	config DetectMissedCheckinConfig,
) *DetectMissedCheckinJob {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Location == nil {
		config.Location = time.UTC
	}

	return &DetectMissedCheckinJob{
		dailyLogs: dailyLogs,
		eventBus:  eventBus,
		logger:    logger,
		config:    config,
	}
}

// Name returns the job name.
func (j *DetectMissedCheckinJob) Name() string {
	return "detect_missed_checkin"
}

// Description returns a human-readable description.
func (j *DetectMissedCheckinJob) Description() string {
	return "Flags users with no daily log for today and publishes reminder events"
}

// Run executes the sweep.
func (j *DetectMissedCheckinJob) Run(ctx context.Context) error {
	startedAt := time.Now()
	stats := &DetectMissedCheckinStats{StartedAt: startedAt}

	j.logger.Info("starting detect_missed_checkin job")

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	today := shared.DayOf(startedAt, j.config.Location)

	users, err := j.dailyLogs.ListUsersWithoutLogForDay(ctx, today, j.config.MaxUsers)
	if err != nil {
		return fmt.Errorf("failed to list users without log: %w", err)
	}
	stats.UsersFlagged = len(users)

	for _, userID := range users {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		event := shared.CheckinMissedEvent{
			BaseEvent: shared.NewBaseEvent(shared.EventCheckinMissed, userID.String()),
			UserID:    userID.String(),
			Day:       today.Time(),
		}
		if err := j.eventBus.Publish(ctx, event); err != nil {
			stats.Errors++
			j.logger.Error("failed to publish checkin missed event",
				"user_id", userID.String(),
				"error", err,
			)
			continue
		}
		stats.EventsPublished++
	}

	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(startedAt)
	j.lastRunStats.Store(stats)

	j.logger.Info("detect_missed_checkin job completed",
		"duration", stats.Duration.String(),
		"users_flagged", stats.UsersFlagged,
		"events_published", stats.EventsPublished,
		"errors", stats.Errors,
	)

	return nil
}

// LastRunStats returns statistics from the most recent sweep, or nil.
func (j *DetectMissedCheckinJob) LastRunStats() *DetectMissedCheckinStats {
	stats, _ := j.lastRunStats.Load().(*DetectMissedCheckinStats)
	return stats
}
