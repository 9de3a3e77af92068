package abstraction

import (
	"math/rand/v2"

	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/cluster"
	"github.com/lox/holdem-solver/internal/histogram"
)

// ChildObservations enumerates every next-street observation reachable by
// dealing the remaining cards for street from obs.
func ChildObservations(obs cards.Observation, street cards.Street) []cards.Observation {
	next, ok := street.Next()
	if !ok {
		return nil
	}
	n := next.RevealedThisStreet()
	used := obs.Hole.Union(obs.Board)
	remaining := used.Complement().Cards()

	var out []cards.Observation
	var pick func(start int, chosen []cards.Card)
	pick = func(start int, chosen []cards.Card) {
		if len(chosen) == n {
			board := cards.NewHand(append(append([]cards.Card{}, obs.Board.Cards()...), chosen...)...)
			out = append(out, cards.Observation{Street: next, Hole: obs.Hole, Board: board})
			return
		}
		for i := start; i < len(remaining); i++ {
			pick(i+1, append(chosen, remaining[i]))
		}
	}
	pick(0, nil)
	return out
}

// BuildTransitionHistograms computes, for every isomorphism class on
// street, the distribution of next-street buckets its children land in,
// using nextTable's already-built abstraction. Grounded on spec.md §4.6:
// "for each isomorphic observation, enumerate its children ... tally into
// a next-street histogram."
func BuildTransitionHistograms(registry *cards.Registry, street cards.Street, nextTable *Table, nextRegistry *cards.Registry) []*histogram.Histogram {
	n := registry.Len()
	out := make([]*histogram.Histogram, n)
	nBuckets := nextTable.NumBuckets()
	for i := 0; i < n; i++ {
		key, _ := registry.At(int64(i))
		obs := cards.Observation{Street: street, Hole: key[0], Board: key[1]}
		h := histogram.New(nBuckets)
		for _, child := range ChildObservations(obs, street) {
			iso := cards.From(child)
			idx := nextRegistry.Intern(iso)
			bucket := nextTable.Bucket(idx)
			h.Add(int(bucket), 1)
		}
		out[i] = h
	}
	return out
}

// ClusterStreet runs Elkan k-means over the per-observation transition
// histograms to assign this street's buckets, then derives the metric
// (EMD between cluster centroids, grounded on next street's metric as
// ground distance) and per-bucket population.
func ClusterStreet(street cards.Street, histograms []*histogram.Histogram, nBuckets int, nextMetric *histogram.Metric, rng *rand.Rand, iterations int) *Table {
	t := NewTable(street, len(histograms), nBuckets)
	t.Histograms = histograms

	opts := histogram.DefaultSinkhornOptions()
	dist := func(a, b *histogram.Histogram) float64 {
		return histogram.EMD(a, b, nextMetric, opts)
	}

	engine := cluster.New(histograms, nBuckets, dist, rng)
	engine.InitKMeansPlusPlus()
	engine.InitBounds()
	for i := 0; i < iterations; i++ {
		engine.Step()
	}

	assignments := engine.Assignments()
	for i, bucket := range assignments {
		t.BucketOf[i] = int32(bucket)
		t.Population[bucket]++
	}

	centroids := engine.Centroids()
	t.Centroids = centroids
	for i := 0; i < nBuckets; i++ {
		for j := i + 1; j < nBuckets; j++ {
			d := dist(centroids[i], centroids[j])
			t.Metric.Set(i, j, float32(d))
		}
	}
	return t
}
