package synthgeo

import (
	"fmt"
	"slices"

	"github.com/couchcryptid/trip-analytics/internal/domain"
	"github.com/couchcryptid/trip-analytics/internal/observability"
)

// CachedGenerator memoizes a domain.CoordinateSource so map views re-render
// with the same points. Safe for concurrent use.
type CachedGenerator struct {
	inner   domain.CoordinateSource
	points  *Cache[domain.Coordinate]
	sets    *Cache[[]domain.Coordinate]
	metrics *observability.Metrics
}

// NewCachedGenerator wraps inner with the given caches. Nil metrics disables
// hit/miss accounting.
func NewCachedGenerator(inner domain.CoordinateSource, points *Cache[domain.Coordinate], sets *Cache[[]domain.Coordinate], metrics *observability.Metrics) *CachedGenerator {
	return &CachedGenerator{
		inner:   inner,
		points:  points,
		sets:    sets,
		metrics: metrics,
	}
}

// New builds a CachedGenerator over domain.Generator with fresh caches of the
// given size.
func New(maxEntries int, metrics *observability.Metrics) *CachedGenerator {
	return NewCachedGenerator(
		domain.Generator{},
		NewCache[domain.Coordinate](maxEntries),
		NewCache[[]domain.Coordinate](maxEntries),
		metrics,
	)
}

func (g *CachedGenerator) CoordinateForKey(key string, b domain.Bounds) domain.Coordinate {
	cacheKey := fmt.Sprintf("key:%s|%s", key, b)
	if c, ok := g.points.Get(cacheKey); ok {
		g.observe("key", "hit")
		return c
	}
	g.observe("key", "miss")
	c := g.inner.CoordinateForKey(key, b)
	g.points.Put(cacheKey, c)
	return c
}

// CoordinatesForDataset returns a copy of the cached slice so callers cannot
// alter what later renders see.
func (g *CachedGenerator) CoordinatesForDataset(n int, b domain.Bounds, seed uint64) []domain.Coordinate {
	cacheKey := fmt.Sprintf("set:%d|%d|%s", n, seed, b)
	if cs, ok := g.sets.Get(cacheKey); ok {
		g.observe("dataset", "hit")
		return slices.Clone(cs)
	}
	g.observe("dataset", "miss")
	cs := g.inner.CoordinatesForDataset(n, b, seed)
	g.sets.Put(cacheKey, slices.Clone(cs))
	return cs
}

// Reset clears both caches.
func (g *CachedGenerator) Reset() {
	g.points.Reset()
	g.sets.Reset()
}

func (g *CachedGenerator) observe(method, result string) {
	if g.metrics == nil {
		return
	}
	g.metrics.CoordinateCache.WithLabelValues(method, result).Inc()
}
