package analysis

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/trip-analytics/internal/domain"
)

// View names accepted by Render.
const (
	ViewPeakHours        = "peak-hours"
	ViewRoutes           = "routes"
	ViewDurations        = "durations"
	ViewDistanceDuration = "distance-duration"
	ViewClusters         = "clusters"
	ViewOutliers         = "outliers"
)

// ViewNames lists the views in dashboard order.
var ViewNames = []string{
	ViewPeakHours,
	ViewRoutes,
	ViewDurations,
	ViewDistanceDuration,
	ViewClusters,
	ViewOutliers,
}

// ErrUnknownView is returned by Render for a name not in ViewNames.
var ErrUnknownView = errors.New("unknown view")

// Options tunes every view.
type Options struct {
	RouteBounds      domain.Bounds
	RouteLimit       int
	HistogramBins    int
	Cluster          ClusterOptions
	OutlierThreshold float64
}

// DefaultOptions mirrors the dashboard defaults.
func DefaultOptions() Options {
	return Options{
		RouteBounds:      domain.RouteBounds,
		RouteLimit:       DefaultRouteLimit,
		HistogramBins:    DefaultHistogramBins,
		Cluster:          DefaultClusterOptions(),
		OutlierThreshold: DefaultOutlierThreshold,
	}
}

// Renderer produces views for a dataset using one coordinate source.
type Renderer struct {
	src  domain.CoordinateSource
	opts Options
}

// NewRenderer creates a Renderer. src is usually a memoizing generator so
// map views stay stable across renders.
func NewRenderer(src domain.CoordinateSource, opts Options) *Renderer {
	return &Renderer{src: src, opts: opts}
}

// Render computes the named view over trips. The result is JSON-encodable.
func (r *Renderer) Render(view string, trips []domain.Trip) (any, error) {
	switch view {
	case ViewPeakHours:
		return PeakHours(trips), nil
	case ViewRoutes:
		return Routes(trips, r.src, r.opts.RouteBounds, r.opts.RouteLimit), nil
	case ViewDurations:
		return DurationHistogram(trips, r.opts.HistogramBins), nil
	case ViewDistanceDuration:
		return DistanceVsDuration(trips), nil
	case ViewClusters:
		m, err := Clusters(trips, r.src, r.opts.Cluster)
		if err != nil {
			return nil, fmt.Errorf("render clusters: %w", err)
		}
		return m, nil
	case ViewOutliers:
		return Outliers(trips, r.opts.OutlierThreshold), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
}

// Outliers runs outlier detection with the configured threshold.
func (r *Renderer) Outliers(trips []domain.Trip) OutlierReport {
	return Outliers(trips, r.opts.OutlierThreshold)
}
