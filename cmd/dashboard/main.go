// Command dashboard serves the UFO sightings dashboard API from a read-only
// SQLite store.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/ufo-sightings/internal/adapter/boundary"
	httpadapter "github.com/couchcryptid/ufo-sightings/internal/adapter/http"
	"github.com/couchcryptid/ufo-sightings/internal/adapter/sqlite"
	"github.com/couchcryptid/ufo-sightings/internal/cache"
	"github.com/couchcryptid/ufo-sightings/internal/config"
	"github.com/couchcryptid/ufo-sightings/internal/observability"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.Open(ctx, cfg.DBPath, metrics)
	if err != nil {
		logger.Error("failed to open sightings store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	querier, err := cache.New(store, cfg.QueryCacheSize, metrics)
	if err != nil {
		logger.Error("failed to create query cache", "error", err)
		os.Exit(1)
	}

	geometry := boundary.NewClient(cfg.GeoJSONURL, cfg.GeoJSONTimeout, cfg.GeoJSONTTL, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, querier, geometry, store, logger, metrics)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	logger.Info("dashboard started", "db_path", cfg.DBPath, "query_cache_size", cfg.QueryCacheSize)
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
