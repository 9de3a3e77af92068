package encoder_test

import (
	"testing"

	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/edges"
	"github.com/lox/holdem-solver/internal/encoder"
	"github.com/lox/holdem-solver/internal/mccfr"
	"github.com/lox/holdem-solver/internal/nlhe"
	"github.com/lox/holdem-solver/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInfoKeyInvertsEncoderInfo(t *testing.T) {
	rng := randutil.New(21)
	g := nlhe.Root(testConfig(), 0, rng)
	root := encoder.NewRoot(g)
	enc := encoder.NLHEEncoder{Registry: cards.NewRegistry(), Lookup: trivialLookup()}

	key := enc.Info(nil, root)
	past, present, choices, err := encoder.ParseInfoKey(key)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, present, int32(0))
	assert.GreaterOrEqual(t, choices, int64(0))
	assert.Equal(t, int64(0), past) // root has an empty sincePath
}

func TestBlueprintRowsOneRowPerChoice(t *testing.T) {
	rng := randutil.New(22)
	g := nlhe.Root(testConfig(), 0, rng)
	root := encoder.NewRoot(g)
	enc := encoder.NLHEEncoder{Registry: cards.NewRegistry(), Lookup: trivialLookup()}
	table := mccfr.NewRegretTable()

	key := enc.Info(nil, root)
	entry := table.Get(key, root.Actions())
	entry.Update(make([]float64, root.Actions()), entry.Strategy(), 0, 1, mccfr.VanillaRegret{}, mccfr.ConstantPolicy{})

	rows, err := encoder.BlueprintRows(key, entry)
	require.NoError(t, err)
	require.Len(t, rows, root.Actions())
	for _, row := range rows {
		assert.Equal(t, int64(0), row.Past)
		assert.Equal(t, int32(1), row.Counts)
	}

	seen := map[int64]bool{}
	for _, row := range rows {
		assert.False(t, seen[row.Edge], "edge ids within one info must be distinct")
		seen[row.Edge] = true
		assert.NotPanics(t, func() { edges.EdgeFromU64(uint64(row.Edge)) })
	}
}
