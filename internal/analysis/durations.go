package analysis

import (
	"slices"

	"github.com/couchcryptid/trip-analytics/internal/domain"
)

// DefaultHistogramBins is the bin count of the duration histogram.
const DefaultHistogramBins = 50

// HistogramBin counts values in [Lower, Upper). The last bin also includes
// its upper edge.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// DurationHistogram bins trip durations into equal-width bins spanning the
// observed range.
func DurationHistogram(trips []domain.Trip, bins int) []HistogramBin {
	values := make([]float64, len(trips))
	for i, t := range trips {
		values[i] = t.DurationMinutes
	}
	return Histogram(values, bins)
}

// Histogram bins values into bins equal-width bins over [min, max]. When every
// value is equal the range is widened by half a unit on each side.
func Histogram(values []float64, bins int) []HistogramBin {
	if len(values) == 0 || bins <= 0 {
		return []HistogramBin{}
	}

	lo, hi := slices.Min(values), slices.Max(values)
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi

	out := make([]HistogramBin, bins)
	for i := range out {
		out[i] = HistogramBin{Lower: edges[i], Upper: edges[i+1]}
	}

	for _, v := range values {
		out[binIndex(v, edges)].Count++
	}
	return out
}

// binIndex locates v among edges, correcting the arithmetic estimate against
// the stored edges so values sitting on an edge land in the upper bin.
func binIndex(v float64, edges []float64) int {
	bins := len(edges) - 1
	lo, hi := edges[0], edges[bins]

	idx := int((v - lo) / (hi - lo) * float64(bins))
	idx = max(0, min(idx, bins-1))

	if v < edges[idx] && idx > 0 {
		idx--
	} else if idx < bins-1 && v >= edges[idx+1] {
		idx++
	}
	return idx
}
