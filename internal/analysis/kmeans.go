package analysis

import (
	"math/rand/v2"

	"github.com/couchcryptid/trip-analytics/internal/domain"
)

const (
	kmeansMaxIter   = 300
	kmeansTolerance = 1e-4
)

type kmeansResult struct {
	labels     []int
	centroids  []domain.Coordinate
	iterations int
}

// kmeans partitions points into k groups with k-means++ seeding followed by
// Lloyd iterations. The same points, k and seed always give the same result.
// Callers guarantee 0 < k <= len(points).
func kmeans(points []domain.Coordinate, k int, seed uint64) kmeansResult {
	rng := rand.New(rand.NewPCG(seed, 0))
	centers := seedCenters(points, k, rng)
	labels := make([]int, len(points))
	tolerance := kmeansTolerance * meanVariance(points)

	iterations := 0
	for iterations < kmeansMaxIter {
		iterations++
		changed := assign(points, centers, labels)
		next := recompute(points, labels, centers)

		shift := 0.0
		for j := range centers {
			shift += sqDist(centers[j], next[j])
		}
		centers = next

		if (!changed && iterations > 1) || shift <= tolerance {
			break
		}
	}
	assign(points, centers, labels)

	return kmeansResult{labels: labels, centroids: centers, iterations: iterations}
}

// seedCenters picks k initial centres: the first uniformly, each next one
// with probability proportional to its squared distance from the nearest
// centre already chosen.
func seedCenters(points []domain.Coordinate, k int, rng *rand.Rand) []domain.Coordinate {
	centers := make([]domain.Coordinate, 0, k)
	centers = append(centers, points[rng.IntN(len(points))])

	dist := make([]float64, len(points))
	for i, p := range points {
		dist[i] = sqDist(p, centers[0])
	}

	for len(centers) < k {
		total := 0.0
		for _, d := range dist {
			total += d
		}

		var pick int
		if total == 0 {
			pick = rng.IntN(len(points))
		} else {
			pick = weightedIndex(dist, rng.Float64()*total)
		}

		c := points[pick]
		centers = append(centers, c)
		for i, p := range points {
			dist[i] = min(dist[i], sqDist(p, c))
		}
	}
	return centers
}

func weightedIndex(weights []float64, r float64) int {
	for i, w := range weights {
		r -= w
		if r < 0 {
			return i
		}
	}
	return len(weights) - 1
}

// assign labels every point with its nearest centre and reports whether any
// label changed. Ties go to the lower centre index.
func assign(points, centers []domain.Coordinate, labels []int) bool {
	changed := false
	for i, p := range points {
		best, bestDist := 0, sqDist(p, centers[0])
		for j := 1; j < len(centers); j++ {
			if d := sqDist(p, centers[j]); d < bestDist {
				best, bestDist = j, d
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

// recompute moves each centre to the mean of its points. A centre with no
// points stays where it was.
func recompute(points []domain.Coordinate, labels []int, prev []domain.Coordinate) []domain.Coordinate {
	sums := make([]domain.Coordinate, len(prev))
	counts := make([]int, len(prev))
	for i, p := range points {
		sums[labels[i]].Lat += p.Lat
		sums[labels[i]].Lon += p.Lon
		counts[labels[i]]++
	}

	next := make([]domain.Coordinate, len(prev))
	for j := range next {
		if counts[j] == 0 {
			next[j] = prev[j]
			continue
		}
		next[j] = domain.Coordinate{
			Lat: sums[j].Lat / float64(counts[j]),
			Lon: sums[j].Lon / float64(counts[j]),
		}
	}
	return next
}

func meanVariance(points []domain.Coordinate) float64 {
	n := float64(len(points))
	var mLat, mLon float64
	for _, p := range points {
		mLat += p.Lat
		mLon += p.Lon
	}
	mLat /= n
	mLon /= n

	var vLat, vLon float64
	for _, p := range points {
		vLat += (p.Lat - mLat) * (p.Lat - mLat)
		vLon += (p.Lon - mLon) * (p.Lon - mLon)
	}
	return (vLat/n + vLon/n) / 2
}

func sqDist(a, b domain.Coordinate) float64 {
	dLat, dLon := a.Lat-b.Lat, a.Lon-b.Lon
	return dLat*dLat + dLon*dLon
}
