package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/songbook-catalog/internal/api/rest"
	"github.com/palemoky/songbook-catalog/internal/config"
	"github.com/palemoky/songbook-catalog/internal/database"
	"github.com/palemoky/songbook-catalog/internal/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logger.Init(os.Getenv("GIN_MODE") != "release")
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	logger.Warn("Failed to load config file, using defaults", zap.String("path", path), zap.Error(err))
	return config.Load("")
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("Starting songbook catalogue API server",
		zap.String("driver", cfg.Database.Driver),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
	)

	db, err := database.Open(cfg.Database.Driver, cfg.Database.Target(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           rest.SetupRouter(cfg, db, database.NewRepository(db)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("rest_api", fmt.Sprintf("http://localhost:%d/api/v1", cfg.Server.Port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
	return nil
}
