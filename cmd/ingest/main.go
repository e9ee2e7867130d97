// Command ingest consumes raw sighting records from Kafka, transforms them and
// loads them into the SQLite sightings store.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/ufo-sightings/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/ufo-sightings/internal/adapter/kafka"
	"github.com/couchcryptid/ufo-sightings/internal/adapter/mapbox"
	"github.com/couchcryptid/ufo-sightings/internal/adapter/sqlite"
	"github.com/couchcryptid/ufo-sightings/internal/config"
	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/couchcryptid/ufo-sightings/internal/observability"
	"github.com/couchcryptid/ufo-sightings/internal/pipeline"
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

	// Reverse geocoding is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var resolver domain.CountryResolver
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		cached, err := mapbox.NewCachedResolver(client, cfg.MapboxCacheSize, metrics)
		if err != nil {
			logger.Error("failed to create geocode cache", "error", err)
			os.Exit(1)
		}
		resolver = cached
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	store, err := sqlite.OpenWritable(ctx, cfg.DBPath, metrics)
	if err != nil {
		logger.Error("failed to open sightings store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	reader := kafkaadapter.NewReader(cfg, logger)
	transformer := pipeline.NewTransformer(resolver, logger)

	p := pipeline.New(reader, transformer, store, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewOpsServer(cfg.HTTPAddr, p, logger, metrics)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}

	logger.Info("shutdown complete")
}
