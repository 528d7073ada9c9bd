// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-learning-progress/internal/bootstrap"
	"github.com/AccelByte/extend-learning-progress/internal/config"
	"github.com/AccelByte/extend-learning-progress/internal/server"
	"github.com/AccelByte/extend-learning-progress/pkg/bookmark"
	"github.com/AccelByte/extend-learning-progress/pkg/progress"
	"github.com/sirupsen/logrus"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	httpServer        *server.HTTPServer
	metricsServer     *server.MetricsServer
	storage           *bootstrap.Storage
	directory         *progress.Directory
	shutdownTelemetry func(context.Context) error
}

// New creates and initializes a new application instance.
//
// ============================================================
// DEVELOPER: Application initialization order
// ============================================================
// Components are initialized in dependency order:
// 1. Store (Redis, SQLite or memory)
// 2. Milestone engine (config/milestones.yaml)
// 3. Notifier (log, optional Redis pub/sub)
// 4. Progress directory and bookmark service
// 5. Servers (HTTP API, metrics)
// 6. Telemetry (OpenTelemetry tracing)
//
// If you add new external dependencies, initialize them before
// step 4 and pass them in as tracker options.
// ============================================================
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// ============================================================
	// Step 1: Initialize the store
	// ============================================================
	storage, err := bootstrap.InitStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.storage = storage

	// ============================================================
	// Step 2: Load milestones
	// ============================================================
	engine, err := bootstrap.InitMilestoneEngine(cfg.MilestonesConfigPath)
	if err != nil {
		app.closeStorage()
		return nil, fmt.Errorf("failed to init milestone engine: %w", err)
	}

	// ============================================================
	// Step 3: Notification sinks
	// ============================================================
	notifier := bootstrap.InitNotifier(storage.RedisClient, cfg.PublishNotifications)

	// ============================================================
	// Step 4: Progress and bookmarks
	// ============================================================
	loc, err := cfg.Location()
	if err != nil {
		app.closeStorage()
		return nil, err
	}

	app.directory = progress.NewDirectory(storage.Store,
		progress.WithClock(progress.SystemClock{Location: loc}),
		progress.WithDailyGoal(cfg.DailyGoal),
		progress.WithMilestoneEngine(engine),
		progress.WithNotifier(notifier),
	)
	bookmarks := bookmark.NewService(storage.Store)
	logrus.Infof("progress tracking ready (daily goal: %d, timezone: %s)", cfg.DailyGoal, loc)

	// ============================================================
	// Step 5: Setup servers
	// ============================================================
	api := server.NewAPI(app.directory, bookmarks, storage.Health)
	app.httpServer = server.NewHTTPServer(cfg.HTTPPort, api, cfg.CORSAllowedOrigins)
	if err := app.httpServer.Setup(); err != nil {
		app.closeStorage()
		return nil, fmt.Errorf("failed to setup http server: %w", err)
	}

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		app.closeStorage()
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	// ============================================================
	// Step 6: Setup telemetry
	// ============================================================
	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(ctx, server.TelemetryOptions{
			ServiceName:    cfg.ServiceName,
			Environment:    cfg.Environment,
			ZipkinEndpoint: cfg.ZipkinEndpoint,
		})
		if err != nil {
			app.closeStorage()
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	} else {
		logrus.Info("telemetry disabled")
	}

	logrus.Info("application initialized successfully")

	return app, nil
}

// Directory exposes the progress trackers.
func (a *App) Directory() *progress.Directory {
	return a.directory
}

func (a *App) closeStorage() {
	if a.storage == nil {
		return
	}
	if err := a.storage.Close(); err != nil {
		logrus.Errorf("store close error: %v", err)
	}
}
