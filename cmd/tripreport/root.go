package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/trip-analytics/internal/adapter/csvsource"
	"github.com/couchcryptid/trip-analytics/internal/config"
	"github.com/couchcryptid/trip-analytics/internal/domain"
	"github.com/couchcryptid/trip-analytics/internal/observability"
	"github.com/couchcryptid/trip-analytics/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	dataPath string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "tripreport",
	Short: "Inspect a trip records file",
	Long: `tripreport cleans a trip records CSV the same way the dashboard does and
reports on the result without starting the HTTP server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "trip CSV file (default is $DATA_PATH or data/UberDataset.csv)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// loadDataset runs the load and clean stages once without exporting.
func loadDataset(ctx context.Context, cfg *config.Config) (*domain.Dataset, error) {
	logger := newLogger()
	metrics := observability.NewUnregisteredMetrics()
	p := pipeline.New(
		csvsource.NewSource(cfg.DataPath, logger, metrics),
		pipeline.NewTransformer(logger),
		nil,
		logger,
		metrics,
		cfg.BatchSize,
	)
	return p.Load(ctx)
}
