package abstraction

import (
	"math/rand/v2"

	"github.com/lox/holdem-solver/internal/cards"
)

// deck52 is the fixed ordinal deck [0,52) used by both enumeration modes.
func deck52() []cards.Card {
	deck := make([]cards.Card, 52)
	for i := range deck {
		deck[i] = cards.FromOrdinal(i)
	}
	return deck
}

// EnumerateExhaustive walks every distinct (hole, board) combination for
// street with no repeated cards, in ordinal order. This is only tractable
// for the preflop (C(52,2) = 1326) and flop (C(52,2)*C(50,3) ≈ 25.9M raw
// deals, collapsing to street.IsomorphicObservations() ≈ 1.29M classes
// once interned) streets; the `abstract` CLI subcommand uses
// EnumerateSample for turn and river, where even the isomorphic class
// count runs into the tens of millions to billions.
func EnumerateExhaustive(street cards.Street) []cards.Observation {
	deck := deck52()
	boardCards := street.ObservedSoFar() - 2

	var out []cards.Observation
	var chooseHole func(start int, hole []cards.Card)
	chooseHole = func(start int, hole []cards.Card) {
		if len(hole) == 2 {
			holeHand := cards.NewHand(hole...)
			chooseBoard(deck, start, holeHand, hole, boardCards, &out, street)
			return
		}
		for i := start; i < len(deck); i++ {
			chooseHole(i+1, append(hole, deck[i]))
		}
	}
	chooseHole(0, nil)
	return out
}

func chooseBoard(deck []cards.Card, holeEnd int, holeHand cards.Hand, hole []cards.Card, want int, out *[]cards.Observation, street cards.Street) {
	if want == 0 {
		*out = append(*out, cards.Observation{Street: street, Hole: holeHand, Board: cards.Hand(0)})
		return
	}
	var board []cards.Card
	var choose func(start int)
	choose = func(start int) {
		if len(board) == want {
			boardHand := cards.NewHand(board...)
			*out = append(*out, cards.Observation{Street: street, Hole: holeHand, Board: boardHand})
			return
		}
		for i := start; i < len(deck); i++ {
			c := deck[i]
			if c == hole[0] || c == hole[1] {
				continue
			}
			board = append(board, c)
			choose(i + 1)
			board = board[:len(board)-1]
		}
	}
	choose(0)
}

// EnumerateSample draws n uniformly random (hole, board) observations for
// street with no repeated cards, used by the `abstract` CLI subcommand for
// the turn and river where EnumerateExhaustive is intractable. Duplicate
// draws are possible and acceptable: the histogram/equity computations
// downstream are insensitive to a class being sampled more than once, and
// the population counts in the resulting Table simply reflect the sample
// distribution rather than the true isomorphic class sizes.
func EnumerateSample(street cards.Street, n int, rng *rand.Rand) []cards.Observation {
	deck := deck52()
	boardCards := street.ObservedSoFar() - 2
	out := make([]cards.Observation, 0, n)
	for len(out) < n {
		idx := rng.Perm(len(deck))[:2+boardCards]
		hole := cards.NewHand(deck[idx[0]], deck[idx[1]])
		boardSet := make([]cards.Card, boardCards)
		for i := 0; i < boardCards; i++ {
			boardSet[i] = deck[idx[2+i]]
		}
		board := cards.NewHand(boardSet...)
		out = append(out, cards.Observation{Street: street, Hole: hole, Board: board})
	}
	return out
}
