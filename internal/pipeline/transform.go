package pipeline

import (
	"log/slog"

	"github.com/couchcryptid/trip-analytics/internal/domain"
)

// TripTransformer implements Transformer with domain.CleanWithStats and
// logs what the cleaning pass changed.
type TripTransformer struct {
	logger *slog.Logger
}

// NewTransformer creates a TripTransformer.
func NewTransformer(logger *slog.Logger) *TripTransformer {
	return &TripTransformer{logger: logger}
}

func (t *TripTransformer) Transform(raw []domain.RawTrip) ([]domain.Trip, domain.CleanStats) {
	trips, stats := domain.CleanWithStats(raw)

	attrs := []any{
		"raw", stats.RawCount,
		"kept", len(trips),
		"dropped", stats.Dropped,
		"start_labels_filled", stats.StartLabelsFilled,
		"stop_labels_filled", stats.StopLabelsFilled,
		"miles_filled", stats.MilesFilled,
	}
	if stats.MilesMedian != nil {
		attrs = append(attrs, "miles_median", *stats.MilesMedian)
	}
	t.logger.Info("trips cleaned", attrs...)

	if len(trips) == 0 && stats.RawCount > 0 {
		t.logger.Warn("every row was dropped, views will be empty")
	}
	return trips, stats
}
