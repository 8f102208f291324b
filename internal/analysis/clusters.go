package analysis

import (
	"slices"

	"github.com/couchcryptid/trip-analytics/internal/domain"
)

// Cluster view defaults.
const (
	DefaultClusterSeed  = 42
	DefaultClusterCount = 5
)

// ClusterOptions configures the clustering view.
type ClusterOptions struct {
	Bounds  domain.Bounds
	Seed    uint64
	K       int
	Palette []string
	Policy  ColorPolicy
}

// DefaultClusterOptions returns five clusters over ClusterBounds seeded with 42.
func DefaultClusterOptions() ClusterOptions {
	return ClusterOptions{
		Bounds:  domain.ClusterBounds,
		Seed:    DefaultClusterSeed,
		K:       DefaultClusterCount,
		Palette: DefaultPalette,
		Policy:  PolicyCycle,
	}
}

// ClusterPoint is one trip's synthetic location and its cluster.
type ClusterPoint struct {
	At      domain.Coordinate `json:"at"`
	Cluster int               `json:"cluster"`
	Color   string            `json:"color"`
}

// ClusterMap is the clustering view.
type ClusterMap struct {
	Center     domain.Coordinate   `json:"center"`
	Zoom       int                 `json:"zoom"`
	K          int                 `json:"k"`
	Iterations int                 `json:"iterations"`
	Centroids  []domain.Coordinate `json:"centroids"`
	Points     []ClusterPoint      `json:"points"`
}

// Clusters assigns every trip a synthetic point drawn from src and groups the
// points with k-means. k is clamped to the number of trips; with no trips
// clustering is skipped and the map is empty.
func Clusters(trips []domain.Trip, src domain.CoordinateSource, opts ClusterOptions) (ClusterMap, error) {
	palette := opts.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	if err := opts.Policy.CheckPalette(opts.K, palette); err != nil {
		return ClusterMap{}, err
	}

	out := ClusterMap{
		Center:    domain.MapCenter,
		Zoom:      ClusterZoom,
		Centroids: []domain.Coordinate{},
		Points:    []ClusterPoint{},
	}

	k := min(opts.K, len(trips))
	if k <= 0 {
		return out, nil
	}

	points := src.CoordinatesForDataset(len(trips), opts.Bounds, opts.Seed)
	res := kmeans(points, k, opts.Seed)

	out.K = k
	out.Iterations = res.iterations
	out.Centroids = slices.Clone(res.centroids)
	out.Points = make([]ClusterPoint, len(points))
	for i, p := range points {
		out.Points[i] = ClusterPoint{
			At:      p,
			Cluster: res.labels[i],
			Color:   colorFor(res.labels[i], palette),
		}
	}
	return out, nil
}
