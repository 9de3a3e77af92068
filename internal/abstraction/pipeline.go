package abstraction

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/histogram"
)

// ClusterIterations is the default number of Elkan k-means refinement
// steps run per learned street.
const ClusterIterations = 30

// BuildRiver constructs the river Table: equity-bin buckets, no learning.
// Every observation in obs is interned into registry and gets a bucket;
// the table covers exactly the classes registry holds afterwards. The
// caller chooses the observations (the `abstract` CLI subcommand samples
// river deals and deduplicates them by isomorphism class).
func BuildRiver(ctx context.Context, registry *cards.Registry, obs []cards.Observation, nBuckets int) (*Table, error) {
	equities, err := BatchRiverEquity(ctx, obs)
	if err != nil {
		return nil, fmt.Errorf("abstraction: river equity: %w", err)
	}
	idxs := make([]int64, len(obs))
	for i, o := range obs {
		idxs[i] = registry.Intern(cards.From(o))
	}
	t := NewTable(cards.River, registry.Len(), nBuckets)
	bucketEquitySum := make([]float64, nBuckets)
	for i := range obs {
		idx := idxs[i]
		bucket := EquityBucket(equities[i], nBuckets)
		t.BucketOf[idx] = bucket
		t.Population[bucket]++
		bucketEquitySum[bucket] += equities[i]
	}
	bucketEquity := make([]float64, nBuckets)
	for b := 0; b < nBuckets; b++ {
		if t.Population[b] > 0 {
			bucketEquity[b] = bucketEquitySum[b] / float64(t.Population[b])
			t.Equity[b] = float32(bucketEquity[b])
		}
	}
	t.Metric = histogram.RiverEquityMetric(bucketEquity)
	return t, nil
}

// BuildLearnedStreet clusters street's isomorphism classes by their
// next-street transition histograms, using nextTable's already-built
// abstraction and metric as the ground truth one level down. Pipeline
// order (river → turn → flop → preflop) is enforced by the caller.
func BuildLearnedStreet(street cards.Street, registry *cards.Registry, nextTable *Table, nextRegistry *cards.Registry, nBuckets int, rng *rand.Rand) *Table {
	histograms := BuildTransitionHistograms(registry, street, nextTable, nextRegistry)
	return ClusterStreet(street, histograms, nBuckets, nextTable.Metric, rng, ClusterIterations)
}

// BuildPreflop assembles the preflop Table: the 169 fixed starting-hand
// classes, each class's flop-transition histogram averaged across its
// member isomorphism classes, and an EMD metric over those averaged
// histograms using the flop's own metric as ground distance. This is the
// final stage of the river → turn → flop → preflop pipeline.
func BuildPreflop(registry *cards.Registry, flopTable *Table, flopRegistry *cards.Registry) *Table {
	t := BuildPreflopTable(registry)
	perIso := BuildTransitionHistograms(registry, cards.Preflop, flopTable, flopRegistry)

	classHist := make([]*histogram.Histogram, PreflopBucketCount)
	for b := range classHist {
		classHist[b] = histogram.New(flopTable.NumBuckets())
	}
	for i, h := range perIso {
		class := t.BucketOf[i]
		classHist[class].Merge(h)
		t.Population[class]++
	}
	t.Histograms = perIso
	t.Centroids = classHist

	opts := histogram.DefaultSinkhornOptions()
	for i := 0; i < PreflopBucketCount; i++ {
		for j := i + 1; j < PreflopBucketCount; j++ {
			d := histogram.EMD(classHist[i], classHist[j], flopTable.Metric, opts)
			t.Metric.Set(i, j, float32(d))
		}
	}
	return t
}
