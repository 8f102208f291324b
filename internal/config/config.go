package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/couchcryptid/trip-analytics/internal/analysis"
	"github.com/couchcryptid/trip-analytics/internal/domain"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataPath        string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// View settings.
	RouteBounds        domain.Bounds
	RouteLimit         int
	ClusterBounds      domain.Bounds
	ClusterSeed        uint64
	ClusterCount       int
	ClusterColorPolicy analysis.ColorPolicy
	OutlierThreshold   float64
	CoordCacheSize     int

	// Optional export of cleaned trips.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSinkTopic     string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is read first when
// present; variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	routeBounds, err := parseBounds("ROUTE_BOUNDS", domain.RouteBounds)
	if err != nil {
		return nil, err
	}
	clusterBounds, err := parseBounds("CLUSTER_BOUNDS", domain.ClusterBounds)
	if err != nil {
		return nil, err
	}

	clusterSeed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("CLUSTER_SEED", "42"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid CLUSTER_SEED")
	}

	clusterCount, err := parsePositiveInt("CLUSTER_COUNT", analysis.DefaultClusterCount)
	if err != nil {
		return nil, err
	}

	routeLimit, err := parsePositiveInt("ROUTE_LIMIT", analysis.DefaultRouteLimit)
	if err != nil {
		return nil, err
	}

	policy, err := analysis.ParseColorPolicy(sharedcfg.EnvOrDefault("CLUSTER_COLOR_POLICY", string(analysis.PolicyCycle)))
	if err != nil {
		return nil, fmt.Errorf("invalid CLUSTER_COLOR_POLICY: %w", err)
	}

	threshold, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("OUTLIER_THRESHOLD", "3.0"), 64)
	if err != nil || threshold <= 0 {
		return nil, errors.New("invalid OUTLIER_THRESHOLD")
	}

	cacheSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("COORD_CACHE_SIZE", "0"))
	if err != nil || cacheSize < 0 {
		return nil, errors.New("invalid COORD_CACHE_SIZE")
	}

	cfg := &Config{
		DataPath:        sharedcfg.EnvOrDefault("DATA_PATH", "data/UberDataset.csv"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RouteBounds:        routeBounds,
		RouteLimit:         routeLimit,
		ClusterBounds:      clusterBounds,
		ClusterSeed:        clusterSeed,
		ClusterCount:       clusterCount,
		ClusterColorPolicy: policy,
		OutlierThreshold:   threshold,
		CoordCacheSize:     cacheSize,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "cleaned-trips"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if err := cfg.ClusterColorPolicy.CheckPalette(cfg.ClusterCount, analysis.DefaultPalette); err != nil {
		return nil, fmt.Errorf("CLUSTER_COUNT: %w", err)
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}

	return cfg, nil
}

// AnalysisOptions maps the view settings onto analysis.Options.
func (c *Config) AnalysisOptions() analysis.Options {
	opts := analysis.DefaultOptions()
	opts.RouteBounds = c.RouteBounds
	opts.RouteLimit = c.RouteLimit
	opts.OutlierThreshold = c.OutlierThreshold
	opts.Cluster.Bounds = c.ClusterBounds
	opts.Cluster.Seed = c.ClusterSeed
	opts.Cluster.K = c.ClusterCount
	opts.Cluster.Policy = c.ClusterColorPolicy
	return opts
}

func parseBounds(key string, def domain.Bounds) (domain.Bounds, error) {
	b, err := domain.ParseBounds(sharedcfg.EnvOrDefault(key, def.String()))
	if err != nil {
		return domain.Bounds{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, strconv.Itoa(def)))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
