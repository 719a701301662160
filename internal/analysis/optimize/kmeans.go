package optimize

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrInvalidClusters = errors.New("invalid cluster count")

const kmeansMaxIter = 300

type KMeansResult struct {
	Labels     []int
	Centroids  [][]float64
	Inertia    float64
	Iterations int
}

// KMeans clusters points with Lloyd's algorithm from k-means++ seeds and
// keeps the run with the lowest inertia out of restarts.
func KMeans(points [][]float64, k int, seed uint64, restarts int) (KMeansResult, error) {
	if k < 1 || k > len(points) {
		return KMeansResult{}, fmt.Errorf("%w: k=%d for %d points", ErrInvalidClusters, k, len(points))
	}
	restarts = max(restarts, 1)
	rng := rand.New(rand.NewPCG(seed, seed>>3|1))

	var best KMeansResult
	for r := range restarts {
		res := lloyd(points, seedCentroids(rng, points, k))
		if r == 0 || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

// seedCentroids is the k-means++ initialisation: each next centre is drawn
// with probability proportional to its squared distance from the nearest
// centre chosen so far.
func seedCentroids(rng *rand.Rand, points [][]float64, k int) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.IntN(len(points))]))
	d2 := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d2[i] = math.Inf(1)
			for _, c := range centroids {
				d2[i] = math.Min(d2[i], sqDist(p, c))
			}
			total += d2[i]
		}
		next := rng.IntN(len(points))
		if total > 0 {
			r := rng.Float64() * total
			for i, d := range d2 {
				r -= d
				if r < 0 {
					next = i
					break
				}
			}
		}
		centroids = append(centroids, clone(points[next]))
	}
	return centroids
}

func lloyd(points [][]float64, centroids [][]float64) KMeansResult {
	k := len(centroids)
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}
	iter := 0
	for iter < kmeansMaxIter {
		iter++
		changed := false
		for i, p := range points {
			l := nearest(p, centroids)
			if l != labels[i] {
				labels[i] = l
				changed = true
			}
		}
		if !changed {
			break
		}
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, len(centroids[c]))
		}
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}
		for c := range centroids {
			// an empty cluster keeps its previous centre
			if counts[c] > 0 {
				floats.ScaleTo(centroids[c], 1/float64(counts[c]), sums[c])
			}
		}
	}
	inertia := 0.0
	for i, p := range points {
		inertia += sqDist(p, centroids[labels[i]])
	}
	return KMeansResult{Labels: labels, Centroids: centroids, Inertia: inertia, Iterations: iter}
}

func nearest(p []float64, centroids [][]float64) int {
	best, bestD := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func clone(p []float64) []float64 {
	return append([]float64(nil), p...)
}

// Standardize scales every column to zero mean and unit population
// variance. Constant columns become zero.
func Standardize(points [][]float64) [][]float64 {
	if len(points) == 0 {
		return nil
	}
	dim := len(points[0])
	out := make([][]float64, len(points))
	for i := range out {
		out[i] = make([]float64, dim)
	}
	col := make([]float64, len(points))
	for j := range dim {
		for i, p := range points {
			col[i] = p[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		for i := range points {
			if std > 0 {
				out[i][j] = (col[i] - mean) / std
			}
		}
	}
	return out
}
