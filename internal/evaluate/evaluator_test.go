package evaluate_test

import (
	"testing"

	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/evaluate"
	"github.com/stretchr/testify/assert"
)

func hand(cs ...string) cards.Hand {
	h := cards.Hand(0)
	for _, s := range cs {
		c, err := cards.ParseCard(s)
		if err != nil {
			panic(err)
		}
		h = h.AddCard(c)
	}
	return h
}

func TestEvaluate7StraightFlushBeatsQuads(t *testing.T) {
	sf := evaluate.Evaluate7(hand("As", "Ks", "Qs", "Js", "Ts", "2c", "3d"))
	quads := evaluate.Evaluate7(hand("Ah", "Ac", "Ad", "As", "Kc", "2c", "3d"))
	assert.Equal(t, evaluate.StraightFlush, sf.Type())
	assert.Equal(t, evaluate.FourOfAKind, quads.Type())
	assert.Equal(t, 1, evaluate.CompareHands(sf, quads))
}

func TestEvaluate7WheelStraight(t *testing.T) {
	wheel := evaluate.Evaluate7(hand("Ah", "2c", "3d", "4s", "5h", "9c", "Kd"))
	assert.Equal(t, evaluate.Straight, wheel.Type())
}

func TestEvaluate7FullHouseBeatsFlush(t *testing.T) {
	full := evaluate.Evaluate7(hand("Ah", "Ac", "Ad", "Ks", "Kc", "2c", "3d"))
	flush := evaluate.Evaluate7(hand("2s", "4s", "7s", "9s", "Js", "Kd", "3h"))
	assert.Equal(t, evaluate.FullHouse, full.Type())
	assert.Equal(t, evaluate.Flush, flush.Type())
	assert.Equal(t, 1, evaluate.CompareHands(full, flush))
}

func TestSettleSinglePlayerLeft(t *testing.T) {
	settlements := evaluate.Settle([]evaluate.Contributor{
		{Seat: 0, Spent: 1, Folded: true},
		{Seat: 1, Spent: 2, Folded: false},
	})
	assert.Equal(t, 0, settlements[0].PnL()+1) // risked 1, reward 0 -> pnl -1
	assert.Equal(t, 3, settlements[1].Reward)
}

func TestSettleShowdownSplitPot(t *testing.T) {
	a := evaluate.Evaluate7(hand("Ah", "Ac", "2d", "3s", "4c", "5d", "9h"))
	b := evaluate.Evaluate7(hand("Ad", "As", "2c", "3h", "4d", "5s", "9c"))
	settlements := evaluate.Settle([]evaluate.Contributor{
		{Seat: 0, Spent: 10, Strength: a},
		{Seat: 1, Spent: 10, Strength: b},
	})
	assert.Equal(t, 10, settlements[0].Reward)
	assert.Equal(t, 10, settlements[1].Reward)
	total := 0
	for _, s := range settlements {
		total += s.PnL()
	}
	assert.Equal(t, 0, total)
}

func TestSettleSidePots(t *testing.T) {
	strong := evaluate.Evaluate7(hand("Ah", "Ac", "Ad", "As", "2d", "3s", "4c"))
	weak := evaluate.Evaluate7(hand("2h", "7c", "9d", "Js", "Kd", "3c", "4h"))
	mid := evaluate.Evaluate7(hand("Th", "Tc", "Td", "2s", "3d", "4s", "5c"))

	settlements := evaluate.Settle([]evaluate.Contributor{
		{Seat: 0, Spent: 5, Strength: weak},  // short stack, all-in
		{Seat: 1, Spent: 20, Strength: mid},  // covers main + side
		{Seat: 2, Spent: 20, Strength: strong},
	})
	total := 0
	for _, s := range settlements {
		total += s.PnL()
	}
	assert.Equal(t, 0, total)
	assert.Equal(t, 0, settlements[0].Reward)  // loses main pot to strong
	assert.Equal(t, 45, settlements[2].Reward) // wins every pot outright
}
