// Package jobs contains implementations of scheduled jobs for CampusPulse.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/risk"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// WEEKLY DIGEST JOB
// ══════════════════════════════════════════════════════════════════════════════

// ActiveUserSource lists users who have submitted logs recently. Implemented
// by the postgres daily log repository.
type ActiveUserSource interface {
	ListActiveUsers(ctx context.Context, since time.Time, limit int) ([]shared.UserID, error)
}

// WeeklyDigestJob rolls up each active user's recent risk scores into a
// weekly summary and publishes a summary-ready event per user. Subscribers
// (the notifier, for now) turn those into digests; the job itself never
// formats or sends anything.
type WeeklyDigestJob struct {
	activeUsers ActiveUserSource
	assessments risk.AssessmentRepository
	eventBus    shared.EventBus
	logger      *slog.Logger

	config WeeklyDigestConfig

	lastRunStats atomic.Value // *WeeklyDigestStats
}

// WeeklyDigestConfig contains configuration for the weekly digest job.
type WeeklyDigestConfig struct {
	// ActivityWindow bounds how far back a user's last log may be for them
	// to receive a digest.
	ActivityWindow time.Duration

	// MaxUsers caps how many users a single run processes.
	MaxUsers int

	// Timeout is the maximum duration for the job.
	Timeout time.Duration
}

// DefaultWeeklyDigestConfig returns sensible defaults.
func DefaultWeeklyDigestConfig() WeeklyDigestConfig {
	return WeeklyDigestConfig{
		ActivityWindow: 7 * 24 * time.Hour,
		MaxUsers:       10000,
		Timeout:        5 * time.Minute,
	}
}

// WeeklyDigestStats contains statistics from a digest run.
type WeeklyDigestStats struct {
	StartedAt          time.Time
	CompletedAt        time.Time
	Duration           time.Duration
	UsersChecked       int
	SummariesPublished int
	SkippedNoScores    int
	Errors             int
}

// NewWeeklyDigestJob creates a new weekly digest job.
func NewWeeklyDigestJob(
	activeUsers ActiveUserSource,
	assessments risk.AssessmentRepository,
	eventBus shared.EventBus,
	logger *slog.Logger,
	config WeeklyDigestConfig,
) *WeeklyDigestJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &WeeklyDigestJob{
		activeUsers: activeUsers,
		assessments: assessments,
		eventBus:    eventBus,
		logger:      logger,
		config:      config,
	}
}

// Name returns the job name.
func (j *WeeklyDigestJob) Name() string {
	return "weekly_digest"
}

// Description returns a human-readable description.
func (j *WeeklyDigestJob) Description() string {
	return "Rolls up recent risk scores into per-user weekly summaries"
}

// Run executes the digest job.
func (j *WeeklyDigestJob) Run(ctx context.Context) error {
	startedAt := time.Now()
	stats := &WeeklyDigestStats{StartedAt: startedAt}

	j.logger.Info("starting weekly_digest job")

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	since := startedAt.Add(-j.config.ActivityWindow)
	users, err := j.activeUsers.ListActiveUsers(ctx, since, j.config.MaxUsers)
	if err != nil {
		return fmt.Errorf("failed to list active users: %w", err)
	}

	for _, userID := range users {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		stats.UsersChecked++

		if err := j.digestUser(ctx, userID, stats); err != nil {
			// One user's failure must not starve the rest of the run.
			stats.Errors++
			j.logger.Error("weekly digest failed for user",
				"user_id", userID.String(),
				"error", err,
			)
		}
	}

	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(startedAt)
	j.lastRunStats.Store(stats)

	j.logger.Info("weekly_digest job completed",
		"duration", stats.Duration.String(),
		"users_checked", stats.UsersChecked,
		"summaries_published", stats.SummariesPublished,
		"skipped_no_scores", stats.SkippedNoScores,
		"errors", stats.Errors,
	)

	return nil
}

// digestUser summarizes one user's week and publishes the result.
func (j *WeeklyDigestJob) digestUser(ctx context.Context, userID shared.UserID, stats *WeeklyDigestStats) error {
	scores, err := j.assessments.RecentScores(ctx, userID, risk.WeeklySummaryWindow)
	if err != nil {
		return fmt.Errorf("failed to load recent scores: %w", err)
	}

	summary, ok := risk.SummarizeWeek(scores)
	if !ok {
		stats.SkippedNoScores++
		return nil
	}

	event := shared.WeeklySummaryReadyEvent{
		BaseEvent:      shared.NewBaseEvent(shared.EventWeeklySummaryReady, userID.String()),
		UserID:         userID.String(),
		AverageScore:   summary.Average,
		SampleCount:    summary.SampleCount,
		Classification: string(summary.Classification),
	}
	if err := j.eventBus.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish weekly summary event: %w", err)
	}

	stats.SummariesPublished++
	return nil
}

// LastRunStats returns statistics from the most recent run, or nil.
func (j *WeeklyDigestJob) LastRunStats() *WeeklyDigestStats {
	stats, _ := j.lastRunStats.Load().(*WeeklyDigestStats)
	return stats
}
