// Package abstraction builds and serves the per-street (observation →
// bucket) lookup and (bucket, bucket → distance) metric that collapse
// No-Limit Hold'em's state space into a tractable number of strategically
// equivalent classes. The pipeline runs river → turn → flop → preflop,
// since each learned street depends on the next street's buckets.
package abstraction

import (
	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/histogram"
)

// Table is the built abstraction for one street: a dense isomorphism-index
// to bucket map, per-bucket equity and population, and the pairwise bucket
// distance metric.
type Table struct {
	Street     cards.Street
	BucketOf   []int32 // indexed by isomorphism dense index
	Equity     []float32
	Population []int64
	Metric     *histogram.Metric

	// Histograms holds, for every isomorphism dense index on this street,
	// the distribution of next-street buckets its child deals land in.
	// Nil on the river, which has no next street.
	Histograms []*histogram.Histogram

	// Centroids holds, per bucket rather than per observation, the
	// representative transition histogram used as that bucket's
	// position during clustering (the Elkan centroid for a learned
	// street, or the per-class average for preflop). Nil on the river.
	Centroids []*histogram.Histogram
}

// NewTable preallocates a Table sized for the given isomorphism count and
// bucket count.
func NewTable(street cards.Street, nIso, nBuckets int) *Table {
	return &Table{
		Street:     street,
		BucketOf:   make([]int32, nIso),
		Equity:     make([]float32, nBuckets),
		Population: make([]int64, nBuckets),
		Metric:     histogram.NewMetric(nBuckets),
	}
}

// NumBuckets reports the bucket count this table was built with.
func (t *Table) NumBuckets() int { return len(t.Equity) }

// Bucket returns the bucket assigned to an isomorphism dense index.
func (t *Table) Bucket(isoIndex int64) int32 { return t.BucketOf[isoIndex] }

// Distance returns the metric distance between two buckets on this street.
func (t *Table) Distance(a, b int32) float64 { return float64(t.Metric.Distance(int(a), int(b))) }

// KNearest returns the k buckets closest to abs, excluding itself.
func (t *Table) KNearest(abs int32, k int) []int { return t.Metric.KNearest(int(abs), k) }

// KFarthest returns the k buckets farthest from abs.
func (t *Table) KFarthest(abs int32, k int) []int { return t.Metric.KFarthest(int(abs), k) }

// Lookup holds every street's Table, the single table the NLHE Encoder
// loads at startup per spec.md §4.8.
type Lookup struct {
	byStreet [4]*Table
}

// NewLookup assembles a Lookup from one Table per street.
func NewLookup(preflop, flop, turn, river *Table) *Lookup {
	l := &Lookup{}
	l.byStreet[cards.Preflop] = preflop
	l.byStreet[cards.Flop] = flop
	l.byStreet[cards.Turn] = turn
	l.byStreet[cards.River] = river
	return l
}

// Table returns the built abstraction for a street.
func (l *Lookup) Table(street cards.Street) *Table { return l.byStreet[street] }

// BucketOf canonicalizes obs and returns its bucket on its own street.
func (l *Lookup) BucketOf(obs cards.Observation, registry *cards.Registry) int32 {
	iso := cards.From(obs)
	idx := registry.Intern(iso)
	return l.byStreet[obs.Street].Bucket(idx)
}

// ObsHistogram returns the next-street transition histogram recorded for
// obs's own canonical index, or nil on the river (no next street).
func (l *Lookup) ObsHistogram(obs cards.Observation, registry *cards.Registry) *histogram.Histogram {
	if obs.Street == cards.River {
		return nil
	}
	iso := cards.From(obs)
	idx := registry.Intern(iso)
	return l.byStreet[obs.Street].Histograms[idx]
}
