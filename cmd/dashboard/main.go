package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/trip-analytics/internal/adapter/csvsource"
	"github.com/couchcryptid/trip-analytics/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/trip-analytics/internal/adapter/kafka"
	"github.com/couchcryptid/trip-analytics/internal/adapter/synthgeo"
	"github.com/couchcryptid/trip-analytics/internal/analysis"
	"github.com/couchcryptid/trip-analytics/internal/config"
	"github.com/couchcryptid/trip-analytics/internal/observability"
	"github.com/couchcryptid/trip-analytics/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	coords := synthgeo.New(cfg.CoordCacheSize, metrics)
	renderer := analysis.NewRenderer(coords, cfg.AnalysisOptions())
	logger.Info("coordinate cache ready", "max_entries", cfg.CoordCacheSize, "color_policy", cfg.ClusterColorPolicy)

	// Export of cleaned trips is feature-flagged via KAFKA_ENABLED.
	var loader pipeline.BatchLoader
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loader = writer
		logger.Info("kafka export enabled", "topic", cfg.KafkaSinkTopic, "batch_size", cfg.BatchSize)
	} else {
		logger.Info("kafka export disabled")
	}

	source := csvsource.NewSource(cfg.DataPath, logger, metrics)
	p := pipeline.New(source, pipeline.NewTransformer(logger), loader, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, renderer, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Load the dataset; a structural failure stops the service.
	runErr := make(chan error, 1)
	go func() { runErr <- p.Run(ctx) }()

	exitCode := 0
	select {
	case <-ctx.Done():
	case err := <-runErr:
		if err != nil {
			logger.Error("pipeline error", "error", err)
			exitCode = 1
		}
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return exitCode
}
