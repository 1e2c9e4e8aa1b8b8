// Package main is the entry point for the CampusPulse API server.
//
// The server exposes the REST API for student check-ins, risk evaluation,
// dashboards, and the counselor alert surface. Architecture follows Clean
// Architecture and DDD:
//   - Domain: risk scoring and classification, no external dependencies
//   - Application: command/query handlers (CQRS)
//   - Infrastructure: postgres, redis, event bus, webhook delivery
//   - Interface: HTTP handlers
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/oredonut/campuspulse-ai-v2/config"
	"github.com/oredonut/campuspulse-ai-v2/internal/application/command"
	"github.com/oredonut/campuspulse-ai-v2/internal/application/eventhandler"
	"github.com/oredonut/campuspulse-ai-v2/internal/application/query"
	"github.com/oredonut/campuspulse-ai-v2/internal/infrastructure/messaging"
	"github.com/oredonut/campuspulse-ai-v2/internal/infrastructure/persistence/postgres"
	redisstore "github.com/oredonut/campuspulse-ai-v2/internal/infrastructure/persistence/redis"
	"github.com/oredonut/campuspulse-ai-v2/internal/infrastructure/service"
	httpserver "github.com/oredonut/campuspulse-ai-v2/internal/interface/http"
	"github.com/oredonut/campuspulse-ai-v2/pkg/logger"
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
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting CampusPulse API server",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
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

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		log.Warn("failed to get migration status", "error", err)
	} else {
		applied := 0
		for _, m := range status {
			if m.IsApplied {
				applied++
			}
		}
		log.Info("migrations completed", "applied", applied, "total", len(status))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (optional)
	// ─────────────────────────────────────────────────────────────────────────
	// Interface-typed so a missing Redis stays a true nil inside the handlers.
	var assessmentCache command.AssessmentCache
	var latestReader query.LatestAssessmentReader
	var streakTracker command.StreakTracker
	var redisCache *redisstore.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redisstore.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redisstore.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, caching and streaks disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			ac := redisstore.NewAssessmentCache(redisCache)
			assessmentCache = ac
			latestReader = ac
			streakTracker = redisstore.NewStreakTracker(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	dailyLogRepo := postgres.NewDailyLogRepository(dbConn)
	baselineRepo := postgres.NewBaselineRepository(dbConn)
	assessmentRepo := postgres.NewAssessmentRepository(dbConn)
	overrideRepo := postgres.NewOverrideRepository(dbConn)
	alertRepo := postgres.NewAlertRepository(dbConn)
	plannerRepo := postgres.NewPlannerRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(busConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. EVENT HANDLERS
	// High-risk assessments happen in this process, so counselor escalation
	// is registered here. The reminder and digest handlers live in the worker.
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

	if cfg.Features.IsEnabled(config.FeatureNotifyHighRiskAlert, nil) {
		highRiskHandler := eventhandler.NewOnHighRiskHandler(notifier, log)
		if err := highRiskHandler.Register(eventBus); err != nil {
			return fmt.Errorf("failed to register high risk handler: %w", err)
		}
		log.Info("high risk alert handler registered")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	evaluateRiskCmd := command.NewEvaluateRiskHandler(
		dailyLogRepo, baselineRepo, assessmentRepo, alertRepo, assessmentCache, eventBus)
	submitDailyLogCmd := command.NewSubmitDailyLogHandler(
		dailyLogRepo, evaluateRiskCmd, streakTracker, eventBus, cfg.App.Location)
	resolveAlertCmd := command.NewResolveAlertHandler(alertRepo, eventBus)
	overrideRiskCmd := command.NewOverrideRiskLevelHandler(overrideRepo)
	plannerCmd := command.NewPlannerHandler(plannerRepo, eventBus)

	dashboardQuery := query.NewGetDashboardHandler(assessmentRepo, alertRepo, plannerRepo, latestReader)
	weeklySummaryQuery := query.NewGetWeeklySummaryHandler(assessmentRepo)
	riskHistoryQuery := query.NewGetRiskHistoryHandler(assessmentRepo)
	schedulePredictQuery := query.NewPredictScheduleStressHandler()

	// ─────────────────────────────────────────────────────────────────────────
	// 10. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.Server.Host
	httpConfig.Port = cfg.Server.Port
	httpConfig.ReadTimeout = cfg.Server.ReadTimeout
	httpConfig.WriteTimeout = cfg.Server.WriteTimeout
	httpConfig.IdleTimeout = cfg.Server.IdleTimeout
	httpConfig.EnableCORS = cfg.Server.EnableCORS
	httpConfig.AllowedOrigins = cfg.Server.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.Server.RateLimitPerMinute
	httpConfig.CounselorKeyHashes = cfg.Server.CounselorKeyHashes

	healthCheckers := map[string]func(ctx context.Context) error{
		"postgres": dbConn.Ping,
	}
	if redisCache != nil {
		healthCheckers["redis"] = redisCache.Ping
	}

	httpDeps := httpserver.Dependencies{
		SubmitDailyLogHandler:        submitDailyLogCmd,
		EvaluateRiskHandler:          evaluateRiskCmd,
		ResolveAlertHandler:          resolveAlertCmd,
		OverrideRiskLevelHandler:     overrideRiskCmd,
		PlannerHandler:               plannerCmd,
		GetDashboardHandler:          dashboardQuery,
		GetWeeklySummaryHandler:      weeklySummaryQuery,
		GetRiskHistoryHandler:        riskHistoryQuery,
		PredictScheduleStressHandler: schedulePredictQuery,
		Alerts:                       alertRepo,
		HealthCheckers:               healthCheckers,
		Logger: logger.New(logger.Options{
			Level: logger.ParseLevel(cfg.Observability.LogLevel),
		}),
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 11. START + GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		log.Info("starting HTTP server", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("CampusPulse API server is running", "address", httpServer.Address())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		return err
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
		// JSON is the default; log aggregators want it
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
