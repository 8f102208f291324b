package analysis

import (
	"github.com/couchcryptid/trip-analytics/internal/domain"
)

// DefaultRouteLimit caps the markers drawn per side of a route map.
const DefaultRouteLimit = 100

// Marker colours of the route map.
const (
	StartColor = "blue"
	StopColor  = "red"
)

// Map zoom hints returned with map views.
const (
	RouteZoom   = 10
	ClusterZoom = 11
)

// RoutePoint is one route marker: a location label with a distance and the
// synthetic coordinate derived from the label.
type RoutePoint struct {
	Label string            `json:"label"`
	Miles *float64          `json:"miles"`
	Color string            `json:"color"`
	At    domain.Coordinate `json:"at"`
}

// RouteMap is the route mapping view.
type RouteMap struct {
	Center domain.Coordinate `json:"center"`
	Zoom   int               `json:"zoom"`
	Starts []RoutePoint      `json:"starts"`
	Stops  []RoutePoint      `json:"stops"`
}

// Routes collects the first limit distinct (start label, miles) and
// (stop label, miles) pairs in trip order and places each label with src.
// Trips with a null label are skipped.
func Routes(trips []domain.Trip, src domain.CoordinateSource, b domain.Bounds, limit int) RouteMap {
	if limit <= 0 {
		limit = DefaultRouteLimit
	}
	return RouteMap{
		Center: domain.MapCenter,
		Zoom:   RouteZoom,
		Starts: routePoints(trips, func(t domain.Trip) *string { return t.StartLabel }, StartColor, src, b, limit),
		Stops:  routePoints(trips, func(t domain.Trip) *string { return t.StopLabel }, StopColor, src, b, limit),
	}
}

type routeKey struct {
	label   string
	miles   float64
	noMiles bool
}

func routePoints(trips []domain.Trip, label func(domain.Trip) *string, color string, src domain.CoordinateSource, b domain.Bounds, limit int) []RoutePoint {
	points := make([]RoutePoint, 0, min(limit, len(trips)))
	seen := make(map[routeKey]struct{})

	for _, t := range trips {
		if len(points) == limit {
			break
		}
		l := label(t)
		if l == nil {
			continue
		}
		key := routeKey{label: *l, noMiles: t.Miles == nil}
		if t.Miles != nil {
			key.miles = *t.Miles
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		points = append(points, RoutePoint{
			Label: *l,
			Miles: t.Miles,
			Color: color,
			At:    src.CoordinateForKey(*l, b),
		})
	}
	return points
}
