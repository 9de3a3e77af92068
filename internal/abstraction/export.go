package abstraction

import (
	"sort"

	"github.com/lox/holdem-solver/internal/artifact"
)

// ExportIsomorphism produces the isomorphism table rows for t: one row per
// isomorphism dense index, with position ranking observations sharing a
// bucket in ascending obs order, per spec.md §6.
func ExportIsomorphism(t *Table) []artifact.IsomorphismRow {
	byBucket := make(map[int32][]int64, t.NumBuckets())
	for idx, bucket := range t.BucketOf {
		byBucket[bucket] = append(byBucket[bucket], int64(idx))
	}
	position := make(map[int64]int64, len(t.BucketOf))
	for _, obsIdxs := range byBucket {
		sort.Slice(obsIdxs, func(i, j int) bool { return obsIdxs[i] < obsIdxs[j] })
		for rank, obs := range obsIdxs {
			position[obs] = int64(rank)
		}
	}
	rows := make([]artifact.IsomorphismRow, len(t.BucketOf))
	for idx, bucket := range t.BucketOf {
		rows[idx] = artifact.IsomorphismRow{Obs: int64(idx), Abs: int16(bucket), Position: position[int64(idx)]}
	}
	return rows
}

// ExportAbstraction produces the abstraction table rows for t.
func ExportAbstraction(t *Table) []artifact.AbstractionRow {
	rows := make([]artifact.AbstractionRow, t.NumBuckets())
	for b := 0; b < t.NumBuckets(); b++ {
		rows[b] = artifact.AbstractionRow{
			Abs:        int16(b),
			Street:     int16(t.Street),
			Equity:     t.Equity[b],
			Population: t.Population[b],
		}
	}
	return rows
}

// ExportMetric produces the upper-triangular pairwise distance rows for t.
func ExportMetric(t *Table) []artifact.MetricRow {
	n := t.NumBuckets()
	rows := make([]artifact.MetricRow, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			rows = append(rows, artifact.MetricRow{
				Street: int16(t.Street),
				Tri:    artifact.PairIndex(int32(i), int32(j)),
				Dx:     float32(t.Distance(int32(i), int32(j))),
			})
		}
	}
	return rows
}

// ExportTransitions produces the bucket-transition-histogram rows for t,
// using each bucket's Centroids representative histogram as "the transition
// histogram of prev" spec.md §6 describes. Empty on the river, which has no
// next street and therefore no Centroids.
func ExportTransitions(t *Table) []artifact.TransitionRow {
	if t.Centroids == nil {
		return nil
	}
	var rows []artifact.TransitionRow
	for prev, h := range t.Centroids {
		density := h.Density()
		for next, dx := range density {
			if dx == 0 {
				continue
			}
			rows = append(rows, artifact.TransitionRow{Prev: int16(prev), Next: int16(next), Dx: float32(dx)})
		}
	}
	return rows
}
