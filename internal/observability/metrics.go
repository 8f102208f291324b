package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "trip_analytics"

// Metrics holds the Prometheus counters, histograms, and gauges for loading,
// rendering, and exporting trips.
type Metrics struct {
	RowsRead      prometheus.Counter
	RowsDropped   prometheus.Counter
	ParseFailures *prometheus.CounterVec // labels: column
	LoadDuration  prometheus.Histogram
	DatasetSize   prometheus.Gauge
	PipelineReady prometheus.Gauge

	// Synthetic coordinate metrics.
	CoordinateCache *prometheus.CounterVec // labels: method={key,dataset}, result={hit,miss}

	ViewRenders   *prometheus.CounterVec // labels: view
	TripsExported prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.RowsRead,
		m.RowsDropped,
		m.ParseFailures,
		m.LoadDuration,
		m.DatasetSize,
		m.PipelineReady,
		m.CoordinateCache,
		m.ViewRenders,
		m.TripsExported,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// NewUnregisteredMetrics creates Metrics that are never exposed, for one-shot
// commands that have no /metrics endpoint.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Total raw rows read from the source file.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Total rows dropped for unparseable timestamps.",
		}),
		ParseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Field values that failed to parse and were treated as null, by column.",
		}, []string{"column"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of a complete read-clean-publish load.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		DatasetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_trips",
			Help:      "Number of cleaned trips in the current dataset.",
		}),
		PipelineReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_ready",
			Help:      "1 once a dataset has been loaded, 0 otherwise.",
		}),
		CoordinateCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coordinate_cache_total",
			Help:      "Synthetic coordinate cache lookups by method and result.",
		}, []string{"method", "result"}),
		ViewRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_renders_total",
			Help:      "Analysis views rendered, by view.",
		}, []string{"view"}),
		TripsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trips_exported_total",
			Help:      "Total cleaned trips written to the sink topic.",
		}),
	}
}
