package synthgeo

import (
	"sync"
	"testing"

	"github.com/couchcryptid/trip-analytics/internal/domain"
	"github.com/couchcryptid/trip-analytics/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingSource struct {
	mu          sync.Mutex
	keyCalls    int
	datasetCall int
}

func (m *countingSource) CoordinateForKey(key string, b domain.Bounds) domain.Coordinate {
	m.mu.Lock()
	m.keyCalls++
	m.mu.Unlock()
	return domain.CoordinateForKey(key, b)
}

func (m *countingSource) CoordinatesForDataset(n int, b domain.Bounds, seed uint64) []domain.Coordinate {
	m.mu.Lock()
	m.datasetCall++
	m.mu.Unlock()
	return domain.CoordinatesForDataset(n, b, seed)
}

func newTestGenerator(inner domain.CoordinateSource) (*CachedGenerator, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	return NewCachedGenerator(inner, NewCache[domain.Coordinate](0), NewCache[[]domain.Coordinate](0), metrics), metrics
}

func TestCachedGenerator_KeyCacheHit(t *testing.T) {
	inner := &countingSource{}
	g, metrics := newTestGenerator(inner)

	c1 := g.CoordinateForKey("Boston", domain.RouteBounds)
	c2 := g.CoordinateForKey("Boston", domain.RouteBounds)

	assert.Equal(t, c1, c2)
	assert.Equal(t, domain.CoordinateForKey("Boston", domain.RouteBounds), c1)
	assert.Equal(t, 1, inner.keyCalls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CoordinateCache.WithLabelValues("key", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CoordinateCache.WithLabelValues("key", "miss")))
}

func TestCachedGenerator_BoundsArePartOfKey(t *testing.T) {
	inner := &countingSource{}
	g, _ := newTestGenerator(inner)

	a := g.CoordinateForKey("Boston", domain.RouteBounds)
	b := g.CoordinateForKey("Boston", domain.ClusterBounds)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, inner.keyCalls)
}

func TestCachedGenerator_DifferentKeysMiss(t *testing.T) {
	inner := &countingSource{}
	g, _ := newTestGenerator(inner)

	g.CoordinateForKey("Cary", domain.RouteBounds)
	g.CoordinateForKey("Durham", domain.RouteBounds)

	assert.Equal(t, 2, inner.keyCalls)
}

func TestCachedGenerator_DatasetCacheHit(t *testing.T) {
	inner := &countingSource{}
	g, _ := newTestGenerator(inner)

	a := g.CoordinatesForDataset(5, domain.ClusterBounds, 42)
	b := g.CoordinatesForDataset(5, domain.ClusterBounds, 42)

	require.Len(t, a, 5)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, inner.datasetCall)

	g.CoordinatesForDataset(6, domain.ClusterBounds, 42)
	g.CoordinatesForDataset(5, domain.ClusterBounds, 7)
	assert.Equal(t, 3, inner.datasetCall)
}

func TestCachedGenerator_DatasetReturnsCopies(t *testing.T) {
	g, _ := newTestGenerator(&countingSource{})

	first := g.CoordinatesForDataset(3, domain.ClusterBounds, 42)
	want := first[0]
	first[0] = domain.Coordinate{Lat: 999, Lon: 999}

	second := g.CoordinatesForDataset(3, domain.ClusterBounds, 42)
	assert.Equal(t, want, second[0])

	second[1] = domain.Coordinate{}
	third := g.CoordinatesForDataset(3, domain.ClusterBounds, 42)
	assert.NotEqual(t, domain.Coordinate{}, third[1])
}

func TestCachedGenerator_Reset(t *testing.T) {
	inner := &countingSource{}
	g, _ := newTestGenerator(inner)

	g.CoordinateForKey("Cary", domain.RouteBounds)
	g.CoordinatesForDataset(2, domain.ClusterBounds, 42)
	g.Reset()
	g.CoordinateForKey("Cary", domain.RouteBounds)
	g.CoordinatesForDataset(2, domain.ClusterBounds, 42)

	assert.Equal(t, 2, inner.keyCalls)
	assert.Equal(t, 2, inner.datasetCall)
}

func TestCachedGenerator_NilMetrics(t *testing.T) {
	g := New(10, nil)
	assert.Equal(t, domain.CoordinateForKey("Cary", domain.RouteBounds), g.CoordinateForKey("Cary", domain.RouteBounds))
}

func TestCachedGenerator_ConcurrentRenders(t *testing.T) {
	g, _ := newTestGenerator(&countingSource{})
	want := domain.CoordinateForKey("Apex", domain.RouteBounds)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				assert.Equal(t, want, g.CoordinateForKey("Apex", domain.RouteBounds))
				assert.Len(t, g.CoordinatesForDataset(10, domain.ClusterBounds, 42), 10)
			}
		}()
	}
	wg.Wait()
}
