package analysis

import "github.com/couchcryptid/trip-analytics/internal/domain"

// ScatterPoint pairs a trip's distance with its duration.
type ScatterPoint struct {
	Miles           float64 `json:"miles"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// DistanceVsDuration returns one point per trip with a known distance.
func DistanceVsDuration(trips []domain.Trip) []ScatterPoint {
	points := make([]ScatterPoint, 0, len(trips))
	for _, t := range trips {
		if t.Miles == nil {
			continue
		}
		points = append(points, ScatterPoint{Miles: *t.Miles, DurationMinutes: t.DurationMinutes})
	}
	return points
}
