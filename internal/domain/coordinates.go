package domain

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// SeedModulus bounds the integer seed derived from a location key.
const SeedModulus = 100_000_000

// Map defaults for the New York area.
var (
	// MapCenter is where map views are centred.
	MapCenter = Coordinate{Lat: 40.7128, Lon: -74.0060}

	// RouteBounds spreads per-label route markers.
	RouteBounds = Bounds{LatMin: 40.6, LatMax: 40.8, LonMin: -74.1, LonMax: -73.9}

	// ClusterBounds spreads the per-trip points fed to clustering.
	ClusterBounds = Bounds{LatMin: 40.5, LatMax: 40.9, LonMin: -74.2, LonMax: -73.7}
)

// Coordinate is a latitude/longitude pair. Synthetic coordinates carry no
// geographic meaning; they only keep map renders stable.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds is a rectangular latitude/longitude range.
type Bounds struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
}

// Validate reports whether the bounds describe a non-inverted box on the globe.
func (b Bounds) Validate() error {
	switch {
	case b.LatMin > b.LatMax:
		return errors.New("latitude minimum exceeds maximum")
	case b.LonMin > b.LonMax:
		return errors.New("longitude minimum exceeds maximum")
	case b.LatMin < -90 || b.LatMax > 90:
		return errors.New("latitude outside [-90, 90]")
	case b.LonMin < -180 || b.LonMax > 180:
		return errors.New("longitude outside [-180, 180]")
	}
	return nil
}

// String renders the bounds in the same order ParseBounds accepts.
func (b Bounds) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.LatMin, b.LatMax, b.LonMin, b.LonMax)
}

// ParseBounds reads "latMin,latMax,lonMin,lonMax".
func ParseBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, fmt.Errorf("parse bounds %q: want 4 comma-separated values, got %d", s, len(parts))
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("parse bounds %q: %w", s, err)
		}
		vals[i] = v
	}
	b := Bounds{LatMin: vals[0], LatMax: vals[1], LonMin: vals[2], LonMax: vals[3]}
	if err := b.Validate(); err != nil {
		return Bounds{}, fmt.Errorf("parse bounds %q: %w", s, err)
	}
	return b, nil
}

// CoordinateSource produces synthetic coordinates.
type CoordinateSource interface {
	// CoordinateForKey maps a location label to a stable coordinate.
	CoordinateForKey(key string, b Bounds) Coordinate

	// CoordinatesForDataset draws n coordinates from a fixed seed.
	CoordinatesForDataset(n int, b Bounds, seed uint64) []Coordinate
}

// KeySeed hashes a key's exact bytes with SHA-256 and reduces the digest,
// read as a big-endian integer, modulo SeedModulus.
func KeySeed(key string) uint64 {
	sum := sha256.Sum256([]byte(key))
	var r uint64
	for _, b := range sum {
		r = (r*256 + uint64(b)) % SeedModulus
	}
	return r
}

// CoordinateForKey draws one latitude then one longitude from a generator
// seeded by KeySeed(key).
func CoordinateForKey(key string, b Bounds) Coordinate {
	rng := newRand(KeySeed(key))
	return drawCoordinate(rng, b)
}

// CoordinatesForDataset draws n coordinates from a generator seeded with seed.
// Draws are per element: lat[i], lon[i], then lat[i+1].
func CoordinatesForDataset(n int, b Bounds, seed uint64) []Coordinate {
	if n <= 0 {
		return []Coordinate{}
	}
	rng := newRand(seed)
	out := make([]Coordinate, n)
	for i := range out {
		out[i] = drawCoordinate(rng, b)
	}
	return out
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func drawCoordinate(rng *rand.Rand, b Bounds) Coordinate {
	lat := uniform(rng, b.LatMin, b.LatMax)
	lon := uniform(rng, b.LonMin, b.LonMax)
	return Coordinate{Lat: lat, Lon: lon}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// Generator is the uncached CoordinateSource backed by the functions above.
type Generator struct{}

// CoordinateForKey implements CoordinateSource.
func (Generator) CoordinateForKey(key string, b Bounds) Coordinate {
	return CoordinateForKey(key, b)
}

// CoordinatesForDataset implements CoordinateSource.
func (Generator) CoordinatesForDataset(n int, b Bounds, seed uint64) []Coordinate {
	return CoordinatesForDataset(n, b, seed)
}
