// Package evaluate implements the 7-card showdown strength evaluator and
// terminal-game settlement (side-pot splitting).
package evaluate

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/lox/holdem-solver/internal/cards"
)

// Strength packs a comparable hand ranking into a single uint32: the top
// nibble-group (bits 28-31) is the hand type, and each subsequent 4-bit
// group below it carries a tie-breaking rank or kicker, most significant
// first. Because every group is compared in the same direction, two
// Strength values compare correctly with a plain numeric comparison.
type Strength uint32

const (
	HighCard Strength = iota << 28
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// Type extracts the hand-type component of s.
func (s Strength) Type() Strength {
	return s &^ (Strength(1)<<28 - 1)
}

func (s Strength) String() string {
	names := map[Strength]string{
		HighCard: "high card", Pair: "pair", TwoPair: "two pair",
		ThreeOfAKind: "three of a kind", Straight: "straight", Flush: "flush",
		FullHouse: "full house", FourOfAKind: "four of a kind", StraightFlush: "straight flush",
	}
	return fmt.Sprintf("%s(%#x)", names[s.Type()], uint32(s))
}

// CompareHands returns -1, 0, 1 as a compares below, equal to, or above b.
func CompareHands(a, b Strength) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func pack(handType Strength, groups ...int) Strength {
	s := handType
	shift := uint(24)
	for _, g := range groups {
		s |= Strength(g&0xF) << shift
		if shift < 4 {
			break
		}
		shift -= 4
	}
	return s
}

// Evaluate7 returns the best 5-card Strength achievable from the 7 cards
// in hand.
func Evaluate7(hand cards.Hand) Strength {
	if hand.CountCards() != 7 {
		panic("evaluate: Evaluate7 requires exactly 7 cards")
	}

	// Flush / straight flush: scan each suit's rank mask.
	for s := cards.Clubs; s <= cards.Spades; s++ {
		suitMask := hand.GetSuitMask(s)
		if bits.OnesCount16(suitMask) >= 5 {
			if high, ok := straightHighMask(withWheelAlias(suitMask)); ok {
				return pack(StraightFlush, high)
			}
			return pack(Flush, topCardsOrdered(suitMask, 5)...)
		}
	}

	ranks := countRanks(hand)

	if q, ok := findNOfAKind(ranks, 4); ok {
		kicker, _ := findKicker(ranks, []int{q})
		return pack(FourOfAKind, q, kicker)
	}

	if trip, ok := findNOfAKind(ranks, 3); ok {
		if pair, ok := findNOfAKindExcept(ranks, 2, trip); ok {
			return pack(FullHouse, trip, pair)
		}
		if trip2, ok := findNOfAKindAtLeast(ranks, 3, trip); ok {
			return pack(FullHouse, trip, trip2)
		}
	}

	rankMask := hand.GetRankMask() & 0x1FFF // unused; the straight scan below takes the wheel-aliased mask
	if high, ok := straightHighMask(hand.GetRankMask()); ok {
		_ = rankMask
		return pack(Straight, high)
	}

	if trip, ok := findNOfAKind(ranks, 3); ok {
		kickers := findOrderedKickers(ranks, []int{trip}, 2)
		return pack(ThreeOfAKind, append([]int{trip}, kickers...)...)
	}

	if pairs := findAllNOfAKind(ranks, 2); len(pairs) >= 2 {
		sort.Sort(sort.Reverse(sort.IntSlice(pairs)))
		top2 := pairs[:2]
		kicker := findOrderedKickers(ranks, top2, 1)
		return pack(TwoPair, append(append([]int{}, top2...), kicker...)...)
	}

	if pair, ok := findNOfAKind(ranks, 2); ok {
		kickers := findOrderedKickers(ranks, []int{pair}, 3)
		return pack(Pair, append([]int{pair}, kickers...)...)
	}

	return pack(HighCard, getTopCardsOrderedFromRanks(ranks, 5)...)
}

// countRanks returns, for each of the 13 ranks, how many of the 4 suits
// hold that rank among hand's 7 cards.
func countRanks(hand cards.Hand) [13]int {
	var counts [13]int
	for _, c := range hand.Cards() {
		counts[c.Rank()]++
	}
	return counts
}

func findNOfAKind(ranks [13]int, n int) (int, bool) {
	for r := 12; r >= 0; r-- {
		if ranks[r] == n {
			return r, true
		}
	}
	return 0, false
}

func findNOfAKindExcept(ranks [13]int, n, except int) (int, bool) {
	for r := 12; r >= 0; r-- {
		if r != except && ranks[r] == n {
			return r, true
		}
	}
	return 0, false
}

func findNOfAKindAtLeast(ranks [13]int, n, except int) (int, bool) {
	for r := 12; r >= 0; r-- {
		if r != except && ranks[r] >= n {
			return r, true
		}
	}
	return 0, false
}

func findAllNOfAKind(ranks [13]int, n int) []int {
	var out []int
	for r := 0; r <= 12; r++ {
		if ranks[r] == n {
			out = append(out, r)
		}
	}
	return out
}

func findKicker(ranks [13]int, exclude []int) (int, bool) {
	res := findOrderedKickers(ranks, exclude, 1)
	if len(res) == 0 {
		return 0, false
	}
	return res[0], true
}

func findOrderedKickers(ranks [13]int, exclude []int, n int) []int {
	excluded := make(map[int]bool, len(exclude))
	for _, e := range exclude {
		excluded[e] = true
	}
	var out []int
	for r := 12; r >= 0 && len(out) < n; r-- {
		if excluded[r] {
			continue
		}
		for i := 0; i < ranks[r] && len(out) < n; i++ {
			out = append(out, r)
		}
	}
	return out
}

func getTopCardsOrderedFromRanks(ranks [13]int, n int) []int {
	return findOrderedKickers(ranks, nil, n)
}

// topCardsOrdered returns the top n ranks present in a 13-bit rank mask.
func topCardsOrdered(mask uint16, n int) []int {
	var out []int
	for r := 12; r >= 0 && len(out) < n; r-- {
		if mask&(1<<uint(r)) != 0 {
			out = append(out, r)
		}
	}
	return out
}

func withWheelAlias(mask uint16) uint16 {
	if mask&(1<<12) != 0 {
		mask |= 1 << 13
	}
	return mask
}

// straightHighMask scans a (possibly wheel-aliased) 14-bit rank mask for
// five consecutive set bits, returning the high card's rank ordinal (with
// the wheel straight, A-2-3-4-5, reporting a high card of Five=3).
func straightHighMask(mask uint16) (int, bool) {
	window := mask
	for high := 12; high >= 4; high-- {
		shifted := window >> uint(high-4)
		if shifted&0x1F == 0x1F {
			return high, true
		}
	}
	// wheel: A,2,3,4,5 -> bits 13(ace alias),0,1,2,3
	wheel := uint16(0x100F | (1 << 13))
	if mask&wheel == wheel {
		return int(cards.Five), true
	}
	return 0, false
}
