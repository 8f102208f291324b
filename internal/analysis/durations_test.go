package analysis

import (
	"testing"

	"github.com/couchcryptid/trip-analytics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogram_EqualWidthBins(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	bins := Histogram(values, 5)

	require.Len(t, bins, 5)
	counts := make([]int, len(bins))
	for i, b := range bins {
		counts[i] = b.Count
	}
	assert.Equal(t, []int{2, 2, 2, 2, 3}, counts, "max value belongs to the last bin")
	assert.Equal(t, 0.0, bins[0].Lower)
	assert.Equal(t, 10.0, bins[4].Upper)
	assert.InDelta(t, 2.0, bins[1].Lower, 1e-12)
}

func TestHistogram_NegativeDurations(t *testing.T) {
	bins := Histogram([]float64{-10, 0, 10}, 2)

	require.Len(t, bins, 2)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 2, bins[1].Count)
	assert.Equal(t, -10.0, bins[0].Lower)
}

func TestHistogram_SingleValueWidensRange(t *testing.T) {
	bins := Histogram([]float64{30, 30, 30}, 50)

	require.Len(t, bins, 50)
	assert.Equal(t, 29.5, bins[0].Lower)
	assert.Equal(t, 30.5, bins[49].Upper)

	total, nonEmpty := 0, 0
	for _, b := range bins {
		total += b.Count
		if b.Count > 0 {
			nonEmpty++
		}
	}
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, nonEmpty)
}

func TestHistogram_Empty(t *testing.T) {
	assert.Empty(t, Histogram(nil, 50))
	assert.Empty(t, Histogram([]float64{1}, 0))
}

func TestDurationHistogram_CountsEveryTrip(t *testing.T) {
	trips := []domain.Trip{
		makeTrip(1, "A", "B", 1, 5),
		makeTrip(1, "A", "B", 1, 15),
		makeTrip(1, "A", "B", 1, 25),
		makeTrip(1, "A", "B", 1, 125),
	}

	bins := DurationHistogram(trips, DefaultHistogramBins)

	require.Len(t, bins, DefaultHistogramBins)
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, len(trips), total)
	assert.Equal(t, 1, bins[DefaultHistogramBins-1].Count)
}
