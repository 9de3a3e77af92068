package cards_test

import (
	"testing"

	"github.com/lox/holdem-solver/internal/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCardRoundTrip(t *testing.T) {
	c := cards.NewCard(cards.Ace, cards.Spades)
	assert.Equal(t, cards.Ace, c.Rank())
	assert.Equal(t, cards.Spades, c.Suit())
	assert.Equal(t, "As", c.String())
}

func TestParseCard(t *testing.T) {
	c, err := cards.ParseCard("Tc")
	require.NoError(t, err)
	assert.Equal(t, cards.Ten, c.Rank())
	assert.Equal(t, cards.Clubs, c.Suit())

	_, err = cards.ParseCard("Zz")
	assert.Error(t, err)
}

func TestHandCountAndComplement(t *testing.T) {
	h := cards.NewHand(cards.NewCard(cards.Two, cards.Clubs), cards.NewCard(cards.King, cards.Hearts))
	assert.Equal(t, 2, h.CountCards())
	assert.Equal(t, 50, h.Complement().CountCards())
	assert.False(t, h.Complement().HasCard(cards.NewCard(cards.Two, cards.Clubs)))
}

func TestGetSuitMaskAndRankMaskWheel(t *testing.T) {
	h := cards.NewHand(
		cards.NewCard(cards.Ace, cards.Spades),
		cards.NewCard(cards.Two, cards.Spades),
		cards.NewCard(cards.Three, cards.Hearts),
	)
	mask := h.GetRankMask()
	assert.NotZero(t, mask&(1<<12), "ace bit should be set")
	assert.NotZero(t, mask&(1<<13), "wheel alias bit should be set alongside ace")
}

func TestDeckDealsWithoutRepeats(t *testing.T) {
	rng := newDeterministicRand(t)
	d := cards.NewDeck(rng)
	seen := cards.Hand(0)
	for i := 0; i < 52; i++ {
		c, ok := d.DealOne()
		require.True(t, ok)
		assert.False(t, seen.HasCard(c), "card dealt twice")
		seen = seen.AddCard(c)
	}
	_, ok := d.DealOne()
	assert.False(t, ok)
}

func TestIsomorphismIdempotent(t *testing.T) {
	obs := cards.Observation{
		Street: cards.Flop,
		Hole:   cards.NewHand(cards.NewCard(cards.Ace, cards.Spades), cards.NewCard(cards.King, cards.Spades)),
		Board: cards.NewHand(
			cards.NewCard(cards.Two, cards.Hearts),
			cards.NewCard(cards.Seven, cards.Diamonds),
			cards.NewCard(cards.Nine, cards.Clubs),
		),
	}
	iso := cards.From(obs)
	assert.True(t, iso.Idempotent())
}

func TestIsomorphismSuitedOrbitsCollapse(t *testing.T) {
	a := cards.Observation{
		Street: cards.Preflop,
		Hole:   cards.NewHand(cards.NewCard(cards.Ace, cards.Spades), cards.NewCard(cards.King, cards.Spades)),
	}
	b := cards.Observation{
		Street: cards.Preflop,
		Hole:   cards.NewHand(cards.NewCard(cards.Ace, cards.Hearts), cards.NewCard(cards.King, cards.Hearts)),
	}
	assert.Equal(t, cards.From(a).Key(), cards.From(b).Key())
}

func TestRegistryAssignsDenseIndices(t *testing.T) {
	reg := cards.NewRegistry()
	a := cards.From(cards.Observation{Hole: cards.NewHand(cards.NewCard(cards.Two, cards.Clubs))})
	b := cards.From(cards.Observation{Hole: cards.NewHand(cards.NewCard(cards.Three, cards.Clubs))})
	i0 := reg.Intern(a)
	i1 := reg.Intern(b)
	i0Again := reg.Intern(a)
	assert.Equal(t, int64(0), i0)
	assert.Equal(t, int64(1), i1)
	assert.Equal(t, i0, i0Again)
	assert.Equal(t, 2, reg.Len())
}
