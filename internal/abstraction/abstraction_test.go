package abstraction_test

import (
	"context"
	"testing"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCard(t *testing.T, s string) cards.Card {
	t.Helper()
	c, err := cards.ParseCard(s)
	require.NoError(t, err)
	return c
}

func TestPreflopClassPairsAndSuitedness(t *testing.T) {
	aa1 := abstraction.PreflopClass(mustCard(t, "Ah"), mustCard(t, "Ad"))
	aa2 := abstraction.PreflopClass(mustCard(t, "Ad"), mustCard(t, "Ah"))
	assert.Equal(t, aa1, aa2, "class must not depend on argument order")

	akSuited := abstraction.PreflopClass(mustCard(t, "Ah"), mustCard(t, "Kh"))
	akOffsuit := abstraction.PreflopClass(mustCard(t, "Ah"), mustCard(t, "Kd"))
	assert.NotEqual(t, akSuited, akOffsuit)

	seen := map[int]bool{}
	for _, c := range []int{aa1, akSuited, akOffsuit} {
		assert.False(t, seen[c], "classes must be distinct")
		seen[c] = true
	}
	assert.Less(t, akSuited, abstraction.PreflopBucketCount)
	assert.Less(t, akOffsuit, abstraction.PreflopBucketCount)
}

func TestRiverEquityDominantHandWinsMost(t *testing.T) {
	hero := cards.NewHand(mustCard(t, "Ah"), mustCard(t, "Ad"))
	board := cards.NewHand(mustCard(t, "As"), mustCard(t, "Ac"), mustCard(t, "Kh"), mustCard(t, "7d"), mustCard(t, "2c"))
	equity := abstraction.RiverEquity(hero, board)
	assert.Greater(t, equity, 0.95) // hero's Ah Ad complete quad aces with the board's As Ac
}

func TestEquityBucketClampsToRange(t *testing.T) {
	assert.Equal(t, int32(0), abstraction.EquityBucket(0, 10))
	assert.Equal(t, int32(9), abstraction.EquityBucket(1, 10))
	assert.Equal(t, int32(9), abstraction.EquityBucket(1.5, 10))
	assert.Equal(t, int32(0), abstraction.EquityBucket(-1, 10))
}

func TestChildObservationsCountMatchesRemainingDeck(t *testing.T) {
	hole := cards.NewHand(mustCard(t, "Ah"), mustCard(t, "Kd"))
	board := cards.NewHand(mustCard(t, "2c"), mustCard(t, "7d"), mustCard(t, "9h"))
	obs := cards.Observation{Street: cards.Flop, Hole: hole, Board: board}

	children := abstraction.ChildObservations(obs, cards.Flop)
	assert.Len(t, children, 52-5) // one new card, from the 47 remaining
	for _, c := range children {
		assert.Equal(t, cards.Turn, c.Street)
		assert.Equal(t, 4, c.Board.CountCards())
	}
}

func TestBuildRiverAssignsPopulationAcrossBuckets(t *testing.T) {
	registry := cards.NewRegistry()
	obs := []cards.Observation{
		{Street: cards.River, Hole: cards.NewHand(mustCard(t, "Ah"), mustCard(t, "Ad")), Board: cards.NewHand(mustCard(t, "As"), mustCard(t, "Ac"), mustCard(t, "Kh"), mustCard(t, "7d"), mustCard(t, "2c"))},
		{Street: cards.River, Hole: cards.NewHand(mustCard(t, "2h"), mustCard(t, "3d")), Board: cards.NewHand(mustCard(t, "As"), mustCard(t, "Ac"), mustCard(t, "Kh"), mustCard(t, "7d"), mustCard(t, "9c"))},
	}
	table, err := abstraction.BuildRiver(context.Background(), registry, obs, 10)
	require.NoError(t, err)

	total := int64(0)
	for _, p := range table.Population {
		total += p
	}
	assert.EqualValues(t, len(obs), total)
}
