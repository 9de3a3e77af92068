package subgame_test

import (
	"testing"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/encoder"
	"github.com/lox/holdem-solver/internal/mccfr"
	"github.com/lox/holdem-solver/internal/nlhe"
	"github.com/lox/holdem-solver/internal/randutil"
	"github.com/lox/holdem-solver/internal/subgame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trivialLookup() *abstraction.Lookup {
	preflop := abstraction.NewTable(cards.Preflop, 169, abstraction.PreflopBucketCount)
	for i := 0; i < 169; i++ {
		preflop.BucketOf[i] = int32(i)
	}
	flop := abstraction.NewTable(cards.Flop, 1, 1)
	turn := abstraction.NewTable(cards.Turn, 1, 1)
	river := abstraction.NewTable(cards.River, 1, 1)
	return abstraction.NewLookup(preflop, flop, turn, river)
}

func TestSubgameFrontierUsesBlueprintValue(t *testing.T) {
	rng := randutil.New(11)
	g := nlhe.Root(nlhe.Config{SmallBlind: 1, BigBlind: 2, StartingStack: 200}, 0, rng)
	view := encoder.NewRoot(g)

	enc := encoder.NLHEEncoder{Registry: cards.NewRegistry(), Lookup: trivialLookup()}
	blueprint := mccfr.NewRegretTable()

	key := enc.Info(nil, view)
	entry := blueprint.Get(key, view.Actions())
	entry.EvalueSum = 4.0
	entry.Visits = 2

	root := subgame.NewRoot(view, 0, blueprint, enc, subgame.FixedDepthFrontier(0))
	require.Equal(t, mccfr.TerminalTurn, root.Turn())
	assert.InDelta(t, 2.0, root.Payoff(0), 1e-9)
	assert.InDelta(t, -2.0, root.Payoff(1), 1e-9)
}

func TestSubgameDescendsBeforeFrontier(t *testing.T) {
	rng := randutil.New(12)
	g := nlhe.Root(nlhe.Config{SmallBlind: 1, BigBlind: 2, StartingStack: 200}, 0, rng)
	view := encoder.NewRoot(g)
	enc := encoder.NLHEEncoder{Registry: cards.NewRegistry(), Lookup: trivialLookup()}
	blueprint := mccfr.NewRegretTable()

	root := subgame.NewRoot(view, 0, blueprint, enc, subgame.FixedDepthFrontier(2))
	assert.NotEqual(t, mccfr.TerminalTurn, root.Turn())
	assert.Equal(t, view.Actions(), root.Actions())
}
