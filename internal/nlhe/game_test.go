package nlhe_test

import (
	"testing"

	"github.com/lox/holdem-solver/internal/nlhe"
	"github.com/lox/holdem-solver/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() nlhe.Config {
	return nlhe.Config{SmallBlind: 1, BigBlind: 2, StartingStack: 200}
}

func TestRootHasBlindsPostedAndLegalActions(t *testing.T) {
	g := nlhe.Root(testConfig(), 0, randutil.New(1))
	assert.Equal(t, 3, g.Pot)
	assert.Equal(t, 0, g.Board.CountCards())

	legal := g.Legal()
	kinds := map[nlhe.ActionKind]bool{}
	for _, a := range legal {
		kinds[a.Kind] = true
	}
	assert.True(t, kinds[nlhe.ActionFold])
	assert.True(t, kinds[nlhe.ActionCall])
	assert.True(t, kinds[nlhe.ActionRaise])
	assert.True(t, kinds[nlhe.ActionShove])
	assert.False(t, kinds[nlhe.ActionCheck])
}

func TestFoldEndsHandWithBlindPnL(t *testing.T) {
	g := nlhe.Root(testConfig(), 0, randutil.New(2))
	g2 := g.Apply(nlhe.Action{Kind: nlhe.ActionFold})
	require.True(t, g2.IsTerminal())

	settlements := g2.Settle()
	bySeat := map[int]int{}
	for _, s := range settlements {
		bySeat[s.Seat] = s.PnL()
	}
	assert.Equal(t, -1, bySeat[0])
	assert.Equal(t, 1, bySeat[1])
}

func TestFullHandToShowdown(t *testing.T) {
	g := nlhe.Root(testConfig(), 0, randutil.New(3))
	g = g.Apply(nlhe.Action{Kind: nlhe.ActionCall, Amount: 1})
	g = g.Apply(nlhe.Action{Kind: nlhe.ActionCheck})
	require.True(t, containsDraw(t, g))
	g = g.Apply(nlhe.Action{Kind: nlhe.ActionDraw})
	g = g.Apply(nlhe.Action{Kind: nlhe.ActionCheck})
	g = g.Apply(nlhe.Action{Kind: nlhe.ActionCheck})
	g = g.Apply(nlhe.Action{Kind: nlhe.ActionDraw})
	g = g.Apply(nlhe.Action{Kind: nlhe.ActionCheck})
	g = g.Apply(nlhe.Action{Kind: nlhe.ActionRaise, Amount: 4})
	g = g.Apply(nlhe.Action{Kind: nlhe.ActionCall, Amount: 4})
	g = g.Apply(nlhe.Action{Kind: nlhe.ActionDraw})
	g = g.Apply(nlhe.Action{Kind: nlhe.ActionCheck})
	g = g.Apply(nlhe.Action{Kind: nlhe.ActionCheck})

	require.True(t, g.IsTerminal())
	assert.Equal(t, 12, g.Pot)
}

func containsDraw(t *testing.T, g *nlhe.Game) bool {
	t.Helper()
	for _, a := range g.Legal() {
		if a.Kind == nlhe.ActionDraw {
			return true
		}
	}
	return false
}

func TestContinuationRotatesDealer(t *testing.T) {
	g := nlhe.Root(testConfig(), 0, randutil.New(4))
	g = g.Apply(nlhe.Action{Kind: nlhe.ActionFold})
	next := g.Continuation(randutil.New(5))
	require.NotNil(t, next)
	assert.Equal(t, 1, next.Dealer)
	assert.Equal(t, 0, next.Ticker)
	assert.Equal(t, 3, next.Pot)
}
