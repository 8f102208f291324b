package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/trip-analytics/internal/domain"
	"github.com/couchcryptid/trip-analytics/internal/observability"
)

// ErrExport marks a failure to publish cleaned trips. The dataset is still
// loaded and served when it occurs.
var ErrExport = errors.New("export cleaned trips")

// Extractor reads every raw row from the source.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.RawTrip, error)
	Path() string
}

// Transformer cleans raw rows into trips.
type Transformer interface {
	Transform(raw []domain.RawTrip) ([]domain.Trip, domain.CleanStats)
}

// BatchLoader writes a batch of cleaned trips to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, loadedAt time.Time, trips []domain.Trip) error
}

// Pipeline loads the source once, cleans it, and publishes the dataset for
// readers. Exporting to a BatchLoader is optional.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	batchSize   int
	dataset     atomic.Pointer[domain.Dataset]
}

// New creates a Pipeline with the given stages and observability. A nil
// loader disables export.
func New(e Extractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once a dataset has been loaded, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.dataset.Load() == nil {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Dataset returns the loaded dataset, or nil before the first load.
func (p *Pipeline) Dataset() *domain.Dataset {
	return p.dataset.Load()
}

// Run loads the dataset and then waits for the context to be cancelled.
// A load failure is returned immediately. An export failure is logged and
// the dataset stays available.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "source", p.extractor.Path(), "export", p.loader != nil)

	if _, err := p.Load(ctx); err != nil {
		if !errors.Is(err, ErrExport) {
			return err
		}
		p.logger.Error("export failed, serving dataset without it", "error", err)
	}

	<-ctx.Done()
	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	p.metrics.PipelineReady.Set(0)
	return nil
}

// Load extracts, cleans, and publishes one dataset, then exports it when a
// loader is configured. On ErrExport the returned dataset is still valid.
func (p *Pipeline) Load(ctx context.Context) (*domain.Dataset, error) {
	start := time.Now()

	raw, err := p.extractor.Extract(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract trips: %w", err)
	}
	p.metrics.RowsRead.Add(float64(len(raw)))

	trips, stats := p.transformer.Transform(raw)
	p.metrics.RowsDropped.Add(float64(stats.Dropped))
	p.metrics.ParseFailures.WithLabelValues(domain.ColumnStartDate).Add(float64(stats.StartParseFailures))
	p.metrics.ParseFailures.WithLabelValues(domain.ColumnEndDate).Add(float64(stats.EndParseFailures))

	ds := domain.NewDataset(p.extractor.Path(), trips, stats)
	p.dataset.Store(ds)
	p.metrics.DatasetSize.Set(float64(ds.Len()))
	p.metrics.PipelineReady.Set(1)
	p.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("dataset loaded", "load_id", ds.LoadID, "trips", ds.Len(), "dropped", ds.DroppedCount)

	if p.loader != nil {
		if err := p.export(ctx, ds); err != nil {
			return ds, err
		}
	}
	return ds, nil
}

// export writes the dataset in batches of batchSize. It stops at the first
// failed batch.
func (p *Pipeline) export(ctx context.Context, ds *domain.Dataset) error {
	exported := 0
	for i := 0; i < len(ds.Trips); i += p.batchSize {
		batch := ds.Trips[i:min(i+p.batchSize, len(ds.Trips))]
		if err := p.loader.LoadBatch(ctx, ds.LoadedAt, batch); err != nil {
			return fmt.Errorf("%w: batch at offset %d: %w", ErrExport, i, err)
		}
		exported += len(batch)
		p.metrics.TripsExported.Add(float64(len(batch)))
	}
	p.logger.Info("dataset exported", "load_id", ds.LoadID, "trips", exported)
	return nil
}
