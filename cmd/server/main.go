// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/jobboard/internal/analytics"
	"github.com/tomtom215/jobboard/internal/api"
	"github.com/tomtom215/jobboard/internal/auth"
	"github.com/tomtom215/jobboard/internal/cache"
	"github.com/tomtom215/jobboard/internal/config"
	"github.com/tomtom215/jobboard/internal/database"
	"github.com/tomtom215/jobboard/internal/jobs"
	"github.com/tomtom215/jobboard/internal/logging"
	"github.com/tomtom215/jobboard/internal/notify"
	"github.com/tomtom215/jobboard/internal/points"
	"github.com/tomtom215/jobboard/internal/supervisor"
	"github.com/tomtom215/jobboard/internal/supervisor/services"
	"github.com/tomtom215/jobboard/internal/urlcanon"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("analytics_enabled", cfg.Analytics.Enabled).
		Msg("Starting Jobboard")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Jobboard stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()
	logging.Info().Bool("auto_migrate", cfg.Database.AutoMigrate).Msg("Database initialized")

	ledger, closeLedger, err := initPoints(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeLedger()

	pageCache, closeCache, err := cache.NewFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize page cache: %w", err)
	}
	defer func() {
		if err := closeCache(); err != nil {
			logging.Warn().Err(err).Msg("Error closing page cache")
		}
	}()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	sink, closeSink, err := initAnalytics(ctx, cfg, tree)
	if err != nil {
		return err
	}
	defer closeSink()

	canon := urlcanon.New(cfg.Site.AttributionParam, cfg.Site.AttributionValue)
	jobService := jobs.NewService(jobs.Deps{
		Jobs:          db,
		Profiles:      db,
		Points:        ledger,
		Analytics:     sink,
		Cache:         pageCache,
		Canonicalizer: canon,
		HomeURL:       cfg.HomeURL(),
	})

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("initialize authentication: %w", err)
	}

	checks := map[string]api.Pinger{"postgres": db}
	if p, ok := pageCache.(api.Pinger); ok {
		checks["redis"] = p
	}

	handler := api.NewHandler(api.HandlerConfig{
		Jobs:          jobService,
		Announcer:     notify.NewFromConfig(cfg, canon),
		WebhookSecret: cfg.Webhook.Secret,
		Analytics:     sink,
		Checks:        checks,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(middlewareConfig(cfg)), auth.NewJWTAuthenticator(jwtManager))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	err = tree.Serve(ctx)
	tree.LogUnstopped()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}

// initPoints connects the elevated pool used only for point increments.
// Without a separate service-role DSN the application pool is reused.
func initPoints(ctx context.Context, cfg *config.Config, db *database.DB) (*points.Ledger, func(), error) {
	if cfg.Database.ServiceRoleURL == "" {
		logging.Warn().Msg("DATABASE_SERVICE_ROLE_URL not set; points use the application role")
		return points.NewLedger(database.NewPointsStore(db.Pool())), func() {}, nil
	}

	pool, err := database.NewPool(ctx, cfg.ElevatedDatabaseURL(), cfg.Database.MaxConns)
	if err != nil {
		return nil, nil, fmt.Errorf("connect service role pool: %w", err)
	}
	return points.NewLedger(database.NewPointsStore(pool)), pool.Close, nil
}

// initAnalytics returns the DuckDB sink when analytics is enabled and
// registers its writer with the data layer. Otherwise events are dropped.
func initAnalytics(ctx context.Context, cfg *config.Config, tree *supervisor.SupervisorTree) (analytics.Sink, func(), error) {
	if !cfg.Analytics.Enabled {
		logging.Info().Msg("Analytics disabled (ANALYTICS_ENABLED=false)")
		return analytics.NullSink{}, func() {}, nil
	}

	conn, err := analytics.OpenDuckDB(cfg.Analytics.DuckDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open analytics store: %w", err)
	}
	sink := analytics.NewDuckDBSink(conn, cfg.Analytics.BufferSize, cfg.Analytics.FlushInterval)
	if err := sink.CreateTable(ctx); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("create analytics table: %w", err)
	}
	tree.AddDataService(sink)
	logging.Info().Str("path", cfg.Analytics.DuckDBPath).Msg("Analytics sink started")

	return sink, func() {
		if err := conn.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing analytics store")
		}
	}, nil
}

func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.RateLimitRequests = cfg.Security.RateLimitReqs
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled
	return mw
}
