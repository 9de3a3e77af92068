package nlhe

import (
	"math/rand/v2"

	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/evaluate"
)

// Settle computes per-seat settlements for a terminal Game. Must only be
// called when IsTerminal() is true.
func (g *Game) Settle() []evaluate.Settlement {
	if !g.IsTerminal() {
		panic("nlhe: Settle called on a non-terminal Game")
	}
	contributors := make([]evaluate.Contributor, 2)
	for i, s := range g.Seats {
		contributors[i] = evaluate.Contributor{
			Seat:   i,
			Spent:  s.Spent,
			Folded: s.State == Folding,
		}
	}
	if g.liveSeats() > 1 {
		// Showdown: run out any missing board cards deterministically from
		// the hand's own deck so both players see a complete 7-card hand.
		board := g.Board
		deck := *g.deck
		for n := board.CountCards(); n < 5; n++ {
			c, ok := deck.DealOne()
			if !ok {
				break
			}
			board = board.AddCard(c)
		}
		for i := range contributors {
			if contributors[i].Folded {
				continue
			}
			seven := g.Seats[i].Hole.Union(board)
			contributors[i].Strength = evaluate.Evaluate7(seven)
		}
	}
	return evaluate.Settle(contributors)
}

// Continuation returns the next hand with the button rotated, or nil if a
// player cannot post the big blind (covers their remaining stack).
func (g *Game) Continuation(rng *rand.Rand) *Game {
	settlements := g.Settle()
	stacks := [2]int{g.Seats[0].Stack, g.Seats[1].Stack}
	for _, s := range settlements {
		stacks[s.Seat] += s.Reward
	}
	nextDealer := 1 - g.Dealer
	bbSeat := 1 - nextDealer
	if stacks[bbSeat] < g.cfg.BigBlind {
		return nil
	}
	next := Root(g.cfg, nextDealer, rng)
	next.Seats[0].Stack = stacks[0]
	next.Seats[1].Stack = stacks[1]
	// Root already posted blinds against cfg.StartingStack; rebase onto the
	// carried-over stacks net of blinds just posted.
	next.Seats[0].Stack = stacks[0] - next.Seats[0].Spent
	next.Seats[1].Stack = stacks[1] - next.Seats[1].Spent
	return next
}

// Assume reconstructs the Game as hero would see it, substituting hero's
// hole cards as observed. This is verified for the heads-up case only
// (dealer in {0,1}); per spec.md §9 open question (a), multi-seat
// dealer-relative positioning is out of scope.
func (g *Game) Assume(hero int, hole cards.Hand) *Game {
	if hero != 0 && hero != 1 {
		panic("nlhe: Assume supports heads-up seats only")
	}
	next := g.clone()
	next.Seats[hero].Hole = hole
	return next
}
