// Package main is the entry point of the EmoClass backend.
//
// EmoClass records one emotional check-in per student per school day and
// watches for worrying streaks: three identical tracked emotions in a row
// raise a counselor alert on a Telegram channel. The architecture follows
// Clean Architecture and DDD:
//   - Domain: check-in, student, teacher, and alert models without external dependencies
//   - Application: use case orchestration (Commands/Queries/Event Handlers)
//   - Infrastructure: PostgreSQL, Redis, Telegram, metrics
//   - Interface: REST API for student devices and the teacher dashboard
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

	"github.com/joho/godotenv"

	"github.com/emoclass/emoclass-backend/config"

	// Application layer
	"github.com/emoclass/emoclass-backend/internal/application/command"
	"github.com/emoclass/emoclass-backend/internal/application/eventhandler"
	"github.com/emoclass/emoclass-backend/internal/application/query"

	// Infrastructure layer
	"github.com/emoclass/emoclass-backend/internal/infrastructure/external/telegram"
	"github.com/emoclass/emoclass-backend/internal/infrastructure/messaging"
	"github.com/emoclass/emoclass-backend/internal/infrastructure/metrics"
	"github.com/emoclass/emoclass-backend/internal/infrastructure/persistence/postgres"
	"github.com/emoclass/emoclass-backend/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/emoclass/emoclass-backend/internal/interface/http"

	// Packages
	"github.com/emoclass/emoclass-backend/pkg/logger"
	"github.com/emoclass/emoclass-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

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
	// 1. LOAD CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. SETUP LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting EmoClass backend",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"debug", cfg.App.Debug,
	)

	// All school-day boundaries use the fixed Jakarta timezone (UTC+7).
	log.Info("using Jakarta timezone", "offset", timeutil.JakartaTZ.String())

	// ─────────────────────────────────────────────────────────────────────────
	// 3. CONNECT TO DATABASE
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := connectDatabase(ctx, cfg)
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
	// 4. RUN MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	applied, err := migrator.GetAppliedMigrations(ctx)
	if err != nil {
		log.Warn("failed to read migration status", "error", err)
	} else {
		log.Info("migrations completed", "applied", len(applied))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. INITIALIZE REDIS (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var dashboardCache query.DashboardCache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, dashboard caching disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			dashboardCache = redis.NewDashboardCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. INITIALIZE REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	checkinRepo := postgres.NewCheckinRepository(dbConn)
	studentRepo := postgres.NewStudentRepository(dbConn)
	classRepo := postgres.NewClassRepository(dbConn)
	teacherRepo := postgres.NewTeacherRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. INITIALIZE EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBusConfig := messaging.DefaultInMemoryEventBusConfig()
	eventBusConfig.Logger = log
	eventBusConfig.AsyncMode = true
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. INITIALIZE EXTERNAL CLIENTS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing counselor alert channel...")
	notifier := telegram.NewAlertNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, log)
	if notifier.IsConfigured() {
		log.Info("Telegram alerts enabled", "chat_id", cfg.Telegram.ChatID)
	} else {
		log.Warn("Telegram alerts not configured, alerts will be classified but not sent")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. INITIALIZE APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	appMetrics := metrics.New()

	submitCheckin := command.NewSubmitCheckinHandler(checkinRepo, eventBus, log)
	evaluatePattern := command.NewEvaluatePatternHandler(checkinRepo, studentRepo, notifier, log)

	classDashboard := query.NewGetClassDashboardHandler(studentRepo, classRepo, checkinRepo, dashboardCache, log)
	weeklyTrend := query.NewGetWeeklyTrendHandler(studentRepo, checkinRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. REGISTER EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("registering event handlers...")
	checkinRecorded := eventhandler.NewCheckinRecordedHandler(evaluatePattern, appMetrics, log)
	if err := checkinRecorded.Register(eventBus); err != nil {
		return fmt.Errorf("failed to register event handlers: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. CREATE HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpConfig.EnableMetrics = cfg.Observability.MetricsEnabled
	httpConfig.JWTSecret = cfg.Auth.JWTSecret
	httpConfig.JWTIssuer = cfg.Auth.Issuer
	httpConfig.AccessTokenTTL = cfg.Auth.AccessTokenTTL
	httpConfig.RefreshTokenTTL = cfg.Auth.RefreshTokenTTL

	httpDeps := httpserver.Dependencies{
		SubmitCheckinHandler:     submitCheckin,
		GetClassDashboardHandler: classDashboard,
		GetWeeklyTrendHandler:    weeklyTrend,
		StudentRepo:              studentRepo,
		ClassRepo:                classRepo,
		TeacherRepo:              teacherRepo,
		Logger:                   logger.Default(),
		Metrics:                  appMetrics,
		HealthChecker: &healthChecker{
			db:       dbConn,
			cache:    redisCache,
			notifier: notifier,
		},
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 12. START SERVICES
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("starting services...")

	errCh := make(chan error, 1)

	go func() {
		log.Info("starting HTTP server", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 13. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("EmoClass backend is running", "http_address", httpServer.Address())

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

	var shutdownErr error

	// 1. Stop the HTTP server (no new check-ins accepted)
	log.Info("stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		shutdownErr = err
	}

	// 2. Event bus drains in-flight evaluations via defer

	// 3. Database and Redis close via defer

	if shutdownErr != nil {
		log.Warn("shutdown completed with errors")
	} else {
		log.Info("shutdown completed successfully")
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// connectDatabase opens the connection pool from either a URL or individual
// settings.
func connectDatabase(ctx context.Context, cfg *config.Config) (*postgres.Connection, error) {
	if cfg.Database.URL != "" {
		return postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	}

	dbCfg := postgres.DefaultConfig()
	dbCfg.Host = cfg.Database.Host
	dbCfg.Port = cfg.Database.Port
	dbCfg.User = cfg.Database.User
	dbCfg.Password = cfg.Database.Password
	dbCfg.Database = cfg.Database.Name
	dbCfg.SSLMode = cfg.Database.SSLMode
	dbCfg.MaxConns = int32(cfg.Database.MaxConns)
	dbCfg.MinConns = int32(cfg.Database.MinConns)
	dbCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	dbCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	return postgres.NewConnection(ctx, dbCfg)
}

// setupLogger configures structured logging.
func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	if cfg.Observability.LogFormat == "json" || cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

// healthChecker probes the backend's collaborators for the health endpoints.
type healthChecker struct {
	db       *postgres.Connection
	cache    *redis.Cache
	notifier *telegram.AlertNotifier
}

func (h *healthChecker) Check(ctx context.Context) httpserver.HealthReport {
	report := httpserver.HealthReport{
		Healthy:    true,
		Ready:      true,
		Components: make(map[string]string),
		CheckedAt:  timeutil.Now(),
	}

	if err := h.db.Ping(ctx); err != nil {
		report.Healthy = false
		report.Ready = false
		report.Message = "database unreachable"
		report.Components["postgres"] = "down"
	} else {
		report.Components["postgres"] = "up"
	}

	// Redis and Telegram are degradations, not outages.
	if h.cache == nil {
		report.Components["redis"] = "disabled"
	} else if err := h.cache.Ping(ctx); err != nil {
		report.Components["redis"] = "down"
	} else {
		report.Components["redis"] = "up"
	}

	if h.notifier != nil && h.notifier.IsConfigured() {
		report.Components["telegram"] = "configured"
	} else {
		report.Components["telegram"] = "disabled"
	}

	return report
}
