package analysis

import (
	"testing"

	"github.com/couchcryptid/trip-analytics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutes_DeduplicatesLabelAndMiles(t *testing.T) {
	trips := []domain.Trip{
		makeTrip(1, "Cary", "Durham", 5.1, 10),
		makeTrip(2, "Cary", "Durham", 5.1, 12), // duplicate pair on both sides
		makeTrip(3, "Cary", "Raleigh", 6.0, 15),
		makeTrip(4, "Apex", "Durham", 5.1, 20),
	}

	m := Routes(trips, domain.Generator{}, domain.RouteBounds, 100)

	require.Len(t, m.Starts, 3)
	assert.Equal(t, "Cary", m.Starts[0].Label)
	assert.Equal(t, 5.1, *m.Starts[0].Miles)
	assert.Equal(t, "Cary", m.Starts[1].Label)
	assert.Equal(t, 6.0, *m.Starts[1].Miles)
	assert.Equal(t, "Apex", m.Starts[2].Label)

	require.Len(t, m.Stops, 2)
	assert.Equal(t, "Durham", m.Stops[0].Label)
	assert.Equal(t, "Raleigh", m.Stops[1].Label)
}

func TestRoutes_CoordinatesFollowLabels(t *testing.T) {
	trips := []domain.Trip{
		makeTrip(1, "Cary", "Cary", 1, 10),
		makeTrip(2, "Cary", "Cary", 2, 10),
	}

	m := Routes(trips, domain.Generator{}, domain.RouteBounds, 100)

	want := domain.CoordinateForKey("Cary", domain.RouteBounds)
	for _, p := range append(m.Starts, m.Stops...) {
		assert.Equal(t, want, p.At)
	}
	assert.Equal(t, StartColor, m.Starts[0].Color)
	assert.Equal(t, StopColor, m.Stops[0].Color)
	assert.Equal(t, domain.MapCenter, m.Center)
	assert.Equal(t, RouteZoom, m.Zoom)
}

func TestRoutes_Limit(t *testing.T) {
	var trips []domain.Trip
	for i := range 10 {
		trips = append(trips, makeTrip(1, "Cary", "Durham", float64(i), 10))
	}

	m := Routes(trips, domain.Generator{}, domain.RouteBounds, 4)

	assert.Len(t, m.Starts, 4)
	assert.Len(t, m.Stops, 4)
	assert.Equal(t, 3.0, *m.Starts[3].Miles)
}

func TestRoutes_SkipsNullLabels(t *testing.T) {
	trip := makeTrip(1, "Cary", "Durham", 1, 10)
	trip.StartLabel = nil

	m := Routes([]domain.Trip{trip}, domain.Generator{}, domain.RouteBounds, 100)

	assert.Empty(t, m.Starts)
	assert.Len(t, m.Stops, 1)
}

func TestRoutes_NullMilesAreOneKey(t *testing.T) {
	a := makeTrip(1, "Cary", "Durham", 0, 10)
	a.Miles = nil
	b := makeTrip(2, "Cary", "Durham", 0, 10)
	b.Miles = nil
	c := makeTrip(3, "Cary", "Durham", 0, 10)

	m := Routes([]domain.Trip{a, b, c}, domain.Generator{}, domain.RouteBounds, 100)

	require.Len(t, m.Starts, 2)
	assert.Nil(t, m.Starts[0].Miles)
	assert.Equal(t, 0.0, *m.Starts[1].Miles)
}

func TestRoutes_Empty(t *testing.T) {
	m := Routes(nil, domain.Generator{}, domain.RouteBounds, 0)
	assert.NotNil(t, m.Starts)
	assert.Empty(t, m.Starts)
	assert.Empty(t, m.Stops)
}
