package encoder_test

import (
	"testing"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/encoder"
	"github.com/lox/holdem-solver/internal/mccfr"
	"github.com/lox/holdem-solver/internal/nlhe"
	"github.com/lox/holdem-solver/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() nlhe.Config {
	return nlhe.Config{SmallBlind: 1, BigBlind: 2, StartingStack: 200}
}

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

func TestNodeViewRootHasFoldCallAndRaiseOptions(t *testing.T) {
	rng := randutil.New(1)
	g := nlhe.Root(testConfig(), 0, rng)
	root := encoder.NewRoot(g)

	assert.Equal(t, 0, root.Turn()) // dealer (seat 0) acts first preflop
	assert.Greater(t, root.Actions(), 2)
}

func TestNodeViewChildRespondsToGridEdges(t *testing.T) {
	rng := randutil.New(2)
	g := nlhe.Root(testConfig(), 0, rng)
	root := encoder.NewRoot(g)

	for i := 0; i < root.Actions(); i++ {
		child := root.Child(i)
		require.NotNil(t, child)
		assert.Contains(t, []int{0, 1, mccfr.TerminalTurn, mccfr.ChanceTurn}, child.Turn())
	}
}

func TestNLHEEncoderInfoIsStableForSameAbstractState(t *testing.T) {
	rng := randutil.New(3)
	g := nlhe.Root(testConfig(), 0, rng)
	root := encoder.NewRoot(g)
	enc := encoder.NLHEEncoder{Registry: cards.NewRegistry(), Lookup: trivialLookup()}

	key1 := enc.Info(nil, root)
	key2 := enc.Info(nil, root)
	assert.Equal(t, key1, key2)
}

func TestNLHEEncoderFallsBackForForeignNodes(t *testing.T) {
	enc := encoder.NLHEEncoder{Registry: cards.NewRegistry(), Lookup: trivialLookup()}
	key := enc.Info([]int{0, 1}, fakeNode{})
	assert.NotEmpty(t, key)
}

type fakeNode struct{}

func (fakeNode) Turn() int            { return 0 }
func (fakeNode) Actions() int         { return 0 }
func (fakeNode) Child(int) mccfr.Node { return nil }
func (fakeNode) Payoff(int) float64   { return 0 }
