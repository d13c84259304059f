package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wansatya/x.com/internal/api"
	"github.com/wansatya/x.com/internal/api/sse"
	"github.com/wansatya/x.com/internal/factory"
)

// sessionSweepInterval is how often expired sessions are dropped
const sessionSweepInterval = 10 * time.Minute

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// A .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error("failed to load .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Build factory config from environment
	cfg, err := factory.ConfigFromEnv(logger)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serverConfig, err := api.ServerConfigFromEnv()
	if err != nil {
		logger.Error("invalid server configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Live leaderboard stream
	hub := sse.NewHub(logger)
	go hub.Run()

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Storage:     app.Storage,
		ScoreHub:    hub,
	})

	server := api.NewServer(router, serverConfig, logger)
	server.OnShutdown(hub.Close)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, app, logger)

	go func() {
		select {
		case <-server.Ready():
			logger.Info("server started",
				slog.String("addr", server.Addr()),
				slog.String("storage", cfg.StorageType),
			)
		case <-ctx.Done():
		}
	}()

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func sweepSessions(ctx context.Context, app *factory.App, logger *slog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.AuthService.CleanExpiredSessions()
			logger.Debug("expired sessions swept")
		}
	}
}
