package cluster_test

import (
	"testing"

	"github.com/lox/holdem-solver/internal/cluster"
	"github.com/lox/holdem-solver/internal/histogram"
	"github.com/lox/holdem-solver/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints(n, buckets int, seed int64) []*histogram.Histogram {
	rng := randutil.New(seed)
	points := make([]*histogram.Histogram, n)
	for i := 0; i < n; i++ {
		h := histogram.New(buckets)
		for j := 0; j < buckets; j++ {
			h.Set(j, rng.Float64())
		}
		points[i] = h
	}
	return points
}

func dist(a, b *histogram.Histogram) float64 {
	return histogram.L2(a.Density(), b.Density())
}

func TestElkanMatchesNaiveAssignments(t *testing.T) {
	points := samplePoints(60, 5, 7)
	k := 4

	elkan := cluster.New(points, k, dist, randutil.New(1))
	elkan.InitKMeansPlusPlus()
	elkan.InitBounds()

	naive := cluster.New(points, k, dist, randutil.New(1))
	naive.InitKMeansPlusPlus()
	naive.InitBounds()
	// force identical starting centroids/bounds
	copy(naive.Centroids(), elkan.Centroids())

	for iter := 0; iter < 5; iter++ {
		elkan.Step()
		naive.StepNaive()

		require.Equal(t, naive.Assignments(), elkan.Assignments(), "iteration %d assignment mismatch", iter)
		for c := 0; c < k; c++ {
			assert.InDelta(t, naive.RMS(), elkan.RMS(), 1e-9)
		}
	}
}

func TestElkanRMSDoesNotIncreaseMuch(t *testing.T) {
	points := samplePoints(80, 6, 11)
	e := cluster.New(points, 5, dist, randutil.New(2))
	e.InitKMeansPlusPlus()
	e.InitBounds()

	prev := e.RMS()
	worse := 0
	for i := 0; i < 10; i++ {
		e.Step()
		cur := e.RMS()
		if cur > prev+1e-9 {
			worse++
		}
		prev = cur
	}
	assert.LessOrEqual(t, worse, 2, "RMS should decrease on the vast majority of iterations")
}
