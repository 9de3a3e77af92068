package abstraction

import "github.com/lox/holdem-solver/internal/cards"

// PreflopBucketCount is the number of canonical starting-hand classes:
// 13 pocket pairs, 78 suited combos, 78 offsuit combos.
const PreflopBucketCount = 169

// PreflopClass maps two hole cards to their canonical starting-hand index
// in [0, PreflopBucketCount). Preflop needs no learned clustering: the
// class is deterministic from (high rank, low rank, suited).
func PreflopClass(a, b cards.Card) int {
	hi, lo := a.Rank(), b.Rank()
	if hi < lo {
		hi, lo = lo, hi
	}
	suited := a.Suit() == b.Suit()

	if hi == lo {
		return int(hi) // 13 pair classes, Two..Ace -> 0..12
	}

	// Off the diagonal: rank each unordered (hi, lo) pair with hi>lo by its
	// position in row-major order over the 13x13 grid, skipping the
	// diagonal and the lower triangle, then offset past the 13 pairs. Each
	// such rank pair gets two classes (suited, offsuit).
	pairIndex := 0
	for r := cards.Ace; r > cards.Two; r-- {
		for k := r - 1; k >= cards.Two; k-- {
			if r == hi && k == lo {
				goto found
			}
			pairIndex++
		}
	}
found:
	base := 13 + pairIndex*2
	if suited {
		return base
	}
	return base + 1
}

// BuildPreflopTable assembles the trivial preflop Table: bucket equals
// class, no clustering required. The pipeline fills in Histograms and
// Population/Metric afterward from the enumerated flop transitions.
func BuildPreflopTable(registry *cards.Registry) *Table {
	n := registry.Len()
	t := NewTable(cards.Preflop, n, PreflopBucketCount)
	for i := 0; i < n; i++ {
		key, _ := registry.At(int64(i))
		hole := key[0]
		cs := hole.Cards()
		if len(cs) != 2 {
			continue
		}
		t.BucketOf[i] = int32(PreflopClass(cs[0], cs[1]))
	}
	return t
}
