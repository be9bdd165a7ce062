package cluster

import (
	"math"
	"math/rand"

	"studypal/internal/embedding"
)

type kmeansResult struct {
	centroids [][]float64
	labels    []int
	inertia   float64
}

// kmeans runs nInit seeded k-means++ restarts and keeps the lowest inertia.
func kmeans(points [][]float64, k, maxIter, nInit int, rng *rand.Rand) kmeansResult {
	best := kmeansResult{inertia: math.Inf(1)}
	for run := 0; run < nInit; run++ {
		res := lloyd(points, seedPlusPlus(points, k, rng), maxIter)
		if res.inertia < best.inertia {
			best = res
		}
	}
	return best
}

// seedPlusPlus picks k initial centroids with D^2 weighting.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.Intn(len(points))]))

	dist := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centroids {
				if sd := embedding.SquaredDistance(p, c); sd < d {
					d = sd
				}
			}
			dist[i] = d
			total += d
		}
		next := 0
		if total == 0 {
			next = rng.Intn(len(points))
		} else {
			target := rng.Float64() * total
			for i, d := range dist {
				target -= d
				if target <= 0 {
					next = i
					break
				}
				next = i
			}
		}
		centroids = append(centroids, clone(points[next]))
	}
	return centroids
}

// lloyd iterates assignment and update steps until assignments settle or
// maxIter is reached. An emptied cluster keeps its previous centroid.
func lloyd(points [][]float64, centroids [][]float64, maxIter int) kmeansResult {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}
	dim := len(points[0])
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			if l := nearest(p, centroids); l != labels[i] {
				labels[i] = l
				changed = true
			}
		}
		if !changed {
			break
		}
		sums := make([][]float64, len(centroids))
		counts := make([]int, len(centroids))
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			l := labels[i]
			counts[l]++
			for j, v := range p {
				sums[l][j] += v
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				sums[c][j] /= float64(counts[c])
			}
			centroids[c] = sums[c]
		}
	}
	inertia := 0.0
	for i, p := range points {
		inertia += embedding.SquaredDistance(p, centroids[labels[i]])
	}
	return kmeansResult{centroids: centroids, labels: labels, inertia: inertia}
}

// nearest returns the closest centroid, ties to the lowest index.
func nearest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := embedding.SquaredDistance(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// silhouette is the mean silhouette coefficient of a labeling. Points in
// singleton clusters score 0. Fewer than two non-empty clusters score 0.
func silhouette(points [][]float64, labels []int, k int) float64 {
	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}
	nonEmpty := 0
	for _, s := range sizes {
		if s > 0 {
			nonEmpty++
		}
	}
	if nonEmpty < 2 || len(points) == 0 {
		return 0
	}

	total := 0.0
	sums := make([]float64, k)
	for i, p := range points {
		for c := range sums {
			sums[c] = 0
		}
		for j, q := range points {
			if i != j {
				sums[labels[j]] += embedding.Distance(p, q)
			}
		}
		own := labels[i]
		if sizes[own] <= 1 {
			continue
		}
		a := sums[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || sizes[c] == 0 {
				continue
			}
			if m := sums[c] / float64(sizes[c]); m < b {
				b = m
			}
		}
		if denom := math.Max(a, b); denom > 0 {
			total += (b - a) / denom
		}
	}
	return total / float64(len(points))
}

func clone(v []float64) []float64 { return append([]float64(nil), v...) }
