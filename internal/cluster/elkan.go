// Package cluster implements Elkan's triangle-inequality-accelerated
// k-means over histogram.Histogram points, with a correctness contract:
// it must produce the same assignments and centroids as a naive
// argmin-over-all-centroids pass, just with fewer distance evaluations.
package cluster

import (
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/lox/holdem-solver/internal/histogram"
	"golang.org/x/sync/errgroup"
)

// DistanceFunc computes the ground distance between two histogram points
// (typically histogram.EMD against the next street's metric, or
// histogram.L2 over raw densities for cheaper approximations).
type DistanceFunc func(a, b *histogram.Histogram) float64

// Bounds is Elkan's per-point bookkeeping: the assigned centroid index j,
// an upper bound u on d(x, c_j), a lower bound per other centroid, and a
// staleness flag marking u as loose after a centroid shift.
type Bounds struct {
	J     int
	U     float64
	L     []float64
	Stale bool
}

// Engine runs Elkan k-means over a fixed point set.
type Engine struct {
	points    []*histogram.Histogram
	k         int
	centroids []*histogram.Histogram
	bounds    []Bounds
	distance  DistanceFunc
	rng       *rand.Rand
}

// New builds an engine ready to seed and iterate over points into k
// clusters using distance as the ground metric.
func New(points []*histogram.Histogram, k int, distance DistanceFunc, rng *rand.Rand) *Engine {
	return &Engine{points: points, k: k, distance: distance, rng: rng}
}

// InitKMeansPlusPlus seeds k centroids with k-means++: the first centroid
// is a uniform-random point; each subsequent one is drawn with probability
// proportional to its squared distance to the nearest already-chosen
// centroid.
func (e *Engine) InitKMeansPlusPlus() {
	n := len(e.points)
	e.centroids = make([]*histogram.Histogram, 0, e.k)
	first := e.points[e.rng.IntN(n)]
	e.centroids = append(e.centroids, first.Clone())

	minDist := make([]float64, n)
	for i, p := range e.points {
		minDist[i] = e.distance(p, first)
	}

	for len(e.centroids) < e.k {
		total := 0.0
		for _, d := range minDist {
			total += d * d
		}
		var chosen int
		if total <= 0 {
			chosen = e.rng.IntN(n)
		} else {
			target := e.rng.Float64() * total
			acc := 0.0
			for i, d := range minDist {
				acc += d * d
				if acc >= target {
					chosen = i
					break
				}
			}
		}
		next := e.points[chosen]
		e.centroids = append(e.centroids, next.Clone())
		for i, p := range e.points {
			d := e.distance(p, next)
			if d < minDist[i] {
				minDist[i] = d
			}
		}
	}
}

// InitBounds computes, for every point, its nearest centroid and fills in
// the initial Bounds (u tight, lower bounds from every other centroid).
func (e *Engine) InitBounds() {
	n := len(e.points)
	e.bounds = make([]Bounds, n)
	_ = parallelFor(n, func(i int) error {
		best := 0
		bestD := e.distance(e.points[i], e.centroids[0])
		ls := make([]float64, e.k)
		ls[0] = bestD
		for c := 1; c < e.k; c++ {
			d := e.distance(e.points[i], e.centroids[c])
			ls[c] = d
			if d < bestD {
				bestD = d
				best = c
			}
		}
		e.bounds[i] = Bounds{J: best, U: bestD, L: ls, Stale: false}
		return nil
	})
}

// pairwiseAndMidpoints computes the K×K centroid distance table and the
// per-centroid separation radius s(c) = half the distance to its nearest
// other centroid; points whose upper bound is within s(c(x)) can never be
// reassigned this round.
func (e *Engine) pairwiseAndMidpoints() ([][]float64, []float64) {
	k := e.k
	pairwise := make([][]float64, k)
	for i := range pairwise {
		pairwise[i] = make([]float64, k)
	}
	_ = parallelFor(k, func(i int) error {
		for j := 0; j < k; j++ {
			if i == j {
				continue
			}
			pairwise[i][j] = e.distance(e.centroids[i], e.centroids[j])
		}
		return nil
	})
	midpoints := make([]float64, k)
	for c := 0; c < k; c++ {
		min := math.Inf(1)
		for c2 := 0; c2 < k; c2++ {
			if c2 == c {
				continue
			}
			if pairwise[c][c2] < min {
				min = pairwise[c][c2]
			}
		}
		midpoints[c] = min / 2
	}
	return pairwise, midpoints
}

// Step runs one Elkan iteration, returning the per-centroid drift so the
// caller can decide convergence. It is algorithmically equivalent to
// StepNaive, just pruning most distance computations via the triangle
// inequality.
func (e *Engine) Step() []float64 {
	_, midpoints := e.pairwiseAndMidpoints()

	_ = parallelFor(len(e.points), func(i int) error {
		b := &e.bounds[i]
		if b.U <= midpoints[b.J] {
			return nil // triangle inequality proves current assignment optimal
		}
		if b.Stale {
			b.U = e.distance(e.points[i], e.centroids[b.J])
			b.Stale = false
		}
		for c := 0; c < e.k; c++ {
			if c == b.J {
				continue
			}
			if b.U <= b.L[c] {
				continue
			}
			bound := math.Max(b.L[c], midpoints[b.J])
			if b.U <= bound {
				continue
			}
			d := e.distance(e.points[i], e.centroids[c])
			b.L[c] = d
			if d < b.U {
				b.U = d
				b.J = c
			}
		}
		return nil
	})

	newCentroids := e.recomputeCentroids()
	drift := make([]float64, e.k)
	for c := 0; c < e.k; c++ {
		drift[c] = e.distance(e.centroids[c], newCentroids[c])
	}
	e.centroids = newCentroids

	for i := range e.bounds {
		b := &e.bounds[i]
		b.U += drift[b.J]
		b.Stale = true
		for c := 0; c < e.k; c++ {
			b.L[c] = math.Max(0, b.L[c]-drift[c])
		}
	}
	return drift
}

// StepNaive is the reference implementation: recompute every point's
// nearest centroid by brute-force argmin, with no bound bookkeeping. Used
// to verify Step's bit-for-bit equivalence.
func (e *Engine) StepNaive() []float64 {
	n := len(e.points)
	assign := make([]int, n)
	_ = parallelFor(n, func(i int) error {
		best := 0
		bestD := e.distance(e.points[i], e.centroids[0])
		for c := 1; c < e.k; c++ {
			d := e.distance(e.points[i], e.centroids[c])
			if d < bestD {
				bestD = d
				best = c
			}
		}
		assign[i] = best
		return nil
	})
	for i := range e.bounds {
		e.bounds[i].J = assign[i]
	}
	newCentroids := e.recomputeCentroids()
	drift := make([]float64, e.k)
	for c := 0; c < e.k; c++ {
		drift[c] = e.distance(e.centroids[c], newCentroids[c])
	}
	e.centroids = newCentroids
	return drift
}

// recomputeCentroids averages the histograms assigned to each cluster.
// Empty clusters are healed by reseeding with a uniformly random point,
// per spec.md §4.5/§7.
func (e *Engine) recomputeCentroids() []*histogram.Histogram {
	n := e.points[0].Len()
	sums := make([][]float64, e.k)
	counts := make([]int, e.k)
	for c := range sums {
		sums[c] = make([]float64, n)
	}
	for i, p := range e.points {
		c := e.bounds[i].J
		counts[c]++
		density := p.Density()
		for b := 0; b < n; b++ {
			sums[c][b] += density[b]
		}
	}
	out := make([]*histogram.Histogram, e.k)
	for c := 0; c < e.k; c++ {
		if counts[c] == 0 {
			out[c] = e.points[e.rng.IntN(len(e.points))].Clone()
			continue
		}
		h := histogram.New(n)
		for b := 0; b < n; b++ {
			h.Set(b, sums[c][b]/float64(counts[c]))
		}
		out[c] = h
	}
	return out
}

// RMS returns the root-mean-squared distance from every point to its
// assigned centroid.
func (e *Engine) RMS() float64 {
	sum := 0.0
	for i, p := range e.points {
		d := e.distance(p, e.centroids[e.bounds[i].J])
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(e.points)))
}

// Centroids returns the current centroid set.
func (e *Engine) Centroids() []*histogram.Histogram {
	return e.centroids
}

// Assignments returns each point's current cluster index.
func (e *Engine) Assignments() []int {
	out := make([]int, len(e.bounds))
	for i, b := range e.bounds {
		out[i] = b.J
	}
	return out
}

func parallelFor(n int, fn func(i int) error) error {
	var g errgroup.Group
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}
