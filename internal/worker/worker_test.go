package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/artifact"
	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/encoder"
	"github.com/lox/holdem-solver/internal/mccfr"
	"github.com/lox/holdem-solver/internal/worker"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu   sync.Mutex
	rows []artifact.BlueprintRow
}

func (f *fakeStore) UpsertBlueprintRows(_ context.Context, rows []artifact.BlueprintRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
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

func TestWorkerRunFlushesOnCancel(t *testing.T) {
	table := mccfr.NewRegretTable()
	enc := encoder.NLHEEncoder{Registry: cards.NewRegistry(), Lookup: trivialLookup()}
	store := &fakeStore{}
	cfg := worker.DefaultConfig()
	cfg.FlushInterval = time.Hour // rely on the final flush-on-cancel, not the ticker

	w := worker.New(cfg, table, enc, mccfr.ExternalSampler{}, mccfr.VanillaRegret{}, mccfr.ConstantPolicy{}, store, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := w.Run(ctx)
	require.NoError(t, err)
	assert.Greater(t, store.count(), 0, "cancellation should trigger a final flush of accumulated infosets")
}

func TestWorkerFlushOfEmptyTableWritesNoRows(t *testing.T) {
	table := mccfr.NewRegretTable()
	enc := encoder.NLHEEncoder{Registry: cards.NewRegistry(), Lookup: trivialLookup()}
	store := &fakeStore{}
	w := worker.New(worker.DefaultConfig(), table, enc, mccfr.ExternalSampler{}, mccfr.VanillaRegret{}, mccfr.ConstantPolicy{}, store, zerolog.Nop())

	require.NoError(t, w.Flush(context.Background()))
	assert.Equal(t, 0, store.count(), "an empty table has nothing to flush")
}
