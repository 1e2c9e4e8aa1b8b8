// Package main is the entry point for the CampusPulse background worker.
//
// The worker owns the periodic jobs:
//   - weekly risk digest for active students
//   - end-of-day missed check-in sweep
//
// Jobs publish domain events; the dispatcher routes them to handlers that
// deliver notifications through the webhook notifier.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/oredonut/campuspulse-ai-v2/config"
	"github.com/oredonut/campuspulse-ai-v2/internal/application/eventhandler"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
	"github.com/oredonut/campuspulse-ai-v2/internal/infrastructure/messaging"
	"github.com/oredonut/campuspulse-ai-v2/internal/infrastructure/persistence/postgres"
	"github.com/oredonut/campuspulse-ai-v2/internal/infrastructure/scheduler"
	"github.com/oredonut/campuspulse-ai-v2/internal/infrastructure/scheduler/jobs"
	"github.com/oredonut/campuspulse-ai-v2/internal/infrastructure/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION + LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg)
	log.Info("starting CampusPulse worker",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	if !cfg.Scheduler.Enabled {
		log.Warn("scheduler disabled by configuration, nothing to do")
		return nil
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. DATABASE (PostgreSQL)
	// The API server owns migrations; the worker only verifies connectivity.
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	dailyLogRepo := postgres.NewDailyLogRepository(dbConn)
	assessmentRepo := postgres.NewAssessmentRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. EVENT BUS + DISPATCHER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(busConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	dispatcherConfig := messaging.DefaultDispatcherConfig(eventBus)
	dispatcherConfig.Logger = log
	dispatcher := messaging.NewDispatcher(dispatcherConfig)
	dispatcher.Use(messaging.RecoveryMiddleware(log))
	dispatcher.Use(messaging.LoggingMiddleware(log))
	defer func() {
		log.Info("stopping dispatcher...")
		_ = dispatcher.Stop()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. NOTIFICATION HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	notifierConfig := service.DefaultWebhookNotifierConfig()
	notifierConfig.CounselorURL = cfg.Notification.CounselorWebhookURL
	notifierConfig.StudentURL = cfg.Notification.StudentWebhookURL
	notifierConfig.AuthToken = cfg.Notification.AuthToken
	notifierConfig.Timeout = cfg.Notification.RequestTimeout
	notifierConfig.QuietHoursStart = cfg.Notification.QuietHoursStart
	notifierConfig.QuietHoursEnd = cfg.Notification.QuietHoursEnd
	notifierConfig.Location = cfg.App.Location
	notifier := service.NewWebhookNotifier(notifierConfig, log)

	reminderEnabled := cfg.Features.IsEnabled(config.FeatureNotifyCheckinReminder, nil)
	digestEnabled := cfg.Features.IsEnabled(config.FeatureNotifyWeeklyDigest, nil)

	if reminderEnabled {
		h := eventhandler.NewOnCheckinMissedHandler(notifier, log)
		if err := dispatcher.Register(shared.EventCheckinMissed, "checkin_reminder", h); err != nil {
			return fmt.Errorf("failed to register check-in reminder handler: %w", err)
		}
	}

	if digestEnabled {
		h := eventhandler.NewOnWeeklySummaryHandler(notifier, log)
		if err := dispatcher.Register(shared.EventWeeklySummaryReady, "weekly_digest", h); err != nil {
			return fmt.Errorf("failed to register weekly digest handler: %w", err)
		}
	}

	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. SCHEDULED JOBS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing scheduler...")
	schedConfig := scheduler.DefaultSchedulerConfig()
	schedConfig.Logger = log
	schedConfig.Timezone = cfg.App.Location
	sched := scheduler.NewScheduler(schedConfig)

	digestConfig := jobs.DefaultWeeklyDigestConfig()
	digestConfig.MaxUsers = cfg.Scheduler.MaxUsersPerRun
	digestConfig.Timeout = cfg.Scheduler.JobTimeout
	digestJob := jobs.NewWeeklyDigestJob(dailyLogRepo, assessmentRepo, eventBus, log, digestConfig)

	digestSchedule := scheduler.NewWeeklyOnSchedule(
		cfg.Scheduler.DigestWeekday,
		cfg.Scheduler.DigestHour,
		cfg.Scheduler.DigestMinute,
		cfg.App.Location,
	)
	if err := sched.Register(digestJob, digestSchedule); err != nil {
		return fmt.Errorf("failed to register weekly digest job: %w", err)
	}

	missedConfig := jobs.DefaultDetectMissedCheckinConfig()
	missedConfig.Location = cfg.App.Location
	missedConfig.MaxUsers = cfg.Scheduler.MaxUsersPerRun
	missedJob := jobs.NewDetectMissedCheckinJob(dailyLogRepo, eventBus, log, missedConfig)

	missedSchedule := scheduler.NewDailyAtSchedule(cfg.Scheduler.CheckinCutoffHour, 0, cfg.App.Location)
	if err := sched.Register(missedJob, missedSchedule); err != nil {
		return fmt.Errorf("failed to register missed check-in job: %w", err)
	}

	// Feature flags can park a job without redeploying.
	if !digestEnabled {
		_ = sched.DisableJob(digestJob.Name())
		log.Info("weekly digest job disabled by feature flag")
	}
	if !reminderEnabled {
		_ = sched.DisableJob(missedJob.Name())
		log.Info("missed check-in job disabled by feature flag")
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	for _, info := range sched.ListJobs() {
		log.Info("job scheduled",
			"job", info.Name,
			"schedule", info.Schedule,
			"next_run", info.NextRun,
			"enabled", info.Enabled,
		)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("CampusPulse worker is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("stopping scheduler...")
	if err := sched.Stop(); err != nil {
		log.Error("failed to stop scheduler gracefully", "error", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}

// setupLogger configures structured logging for the process.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	switch cfg.Observability.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
