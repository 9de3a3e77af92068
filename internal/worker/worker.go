// Package worker implements the async online MCCFR worker of spec.md §5:
// a long-running process that keeps sampling and updating a RegretTable
// the same way the offline trainer does, but periodically flushes the
// accumulated (Info, Edge) rows to a shared row-store instead of (or
// alongside) writing a single final checkpoint file, so multiple workers
// converge on one blueprint and a dashboard can watch progress live.
package worker

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/lox/holdem-solver/internal/artifact"
	"github.com/lox/holdem-solver/internal/encoder"
	"github.com/lox/holdem-solver/internal/mccfr"
	"github.com/lox/holdem-solver/internal/nlhe"
	"github.com/lox/holdem-solver/internal/randutil"
	"github.com/rs/zerolog"
)

// Store is the row-store surface the worker needs: batched blueprint
// upserts. internal/db.Store satisfies this; tests use a fake.
type Store interface {
	UpsertBlueprintRows(ctx context.Context, rows []artifact.BlueprintRow) error
}

// Config controls one Worker's sampling and flush cadence.
type Config struct {
	GameConfig    nlhe.Config
	Seed          int64
	FlushInterval time.Duration
	FlushBatch    int // max blueprint rows per upload batch
}

// DefaultConfig matches the teacher's general preference for a modest,
// non-chatty background cadence (cmd/solver's default checkpoint
// interval is similarly coarse-grained).
func DefaultConfig() Config {
	return Config{
		GameConfig:    nlhe.Config{SmallBlind: 1, BigBlind: 2, StartingStack: 200},
		Seed:          1,
		FlushInterval: 30 * time.Second,
		FlushBatch:    5000,
	}
}

// Worker owns a Solver plus the shared table it trains into, and drives
// both the iteration loop and a periodic flush to the row-store.
type Worker struct {
	cfg     Config
	solver  *mccfr.Solver
	table   *mccfr.RegretTable
	enc     encoder.NLHEEncoder
	store   Store
	rng     *rand.Rand
	logger  zerolog.Logger
	flushed int64 // rows flushed across the worker's lifetime
}

// New builds a Worker sharing table with any other worker or the offline
// trainer pointed at the same RegretTable, persisting through store.
func New(cfg Config, table *mccfr.RegretTable, enc encoder.NLHEEncoder, sampler mccfr.Sampler, regretSched mccfr.RegretSchedule, policySched mccfr.PolicyWeightSchedule, store Store, logger zerolog.Logger) *Worker {
	return &Worker{
		cfg:    cfg,
		solver: mccfr.New(table, enc, sampler, regretSched, policySched),
		table:  table,
		enc:    enc,
		store:  store,
		rng:    randutil.New(cfg.Seed),
		logger: logger,
	}
}

// Run iterates until ctx is canceled, flushing to the store every
// FlushInterval and once more on the way out so a cancellation never
// drops the last interval's work.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	var iterations int64
	for {
		select {
		case <-ctx.Done():
			if err := w.Flush(context.Background()); err != nil {
				w.logger.Error().Err(err).Msg("final flush failed")
				return err
			}
			w.logger.Info().Int64("iterations", iterations).Msg("worker stopped")
			return nil
		case <-ticker.C:
			if err := w.Flush(ctx); err != nil {
				w.logger.Error().Err(err).Msg("periodic flush failed")
			}
		default:
			root := encoder.NewRoot(nlhe.Root(w.cfg.GameConfig, int(iterations%2), w.rng))
			w.solver.Iterate(root, w.rng)
			iterations++
		}
	}
}

// Flush pushes every Info's current blueprint rows to the store in
// batches of at most FlushBatch rows, last-writer-wins via the table's
// ON CONFLICT upsert. Flushing the whole table each cycle (rather than
// tracking a dirty set since the last flush) is a deliberate
// simplification: spec.md's discounting schedules already make stale
// entries self-correct on the next genuine update, and a live dashboard
// only needs eventually-consistent numbers between flushes.
func (w *Worker) Flush(ctx context.Context) error {
	entries := w.table.Entries()
	batch := make([]artifact.BlueprintRow, 0, w.cfg.FlushBatch)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := w.store.UpsertBlueprintRows(ctx, batch); err != nil {
			return err
		}
		w.flushed += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for key, entry := range entries {
		rows, err := encoder.BlueprintRows(key, entry)
		if err != nil {
			w.logger.Warn().Err(err).Str("info", key).Msg("skipping malformed info during flush")
			continue
		}
		batch = append(batch, rows...)
		if len(batch) >= w.cfg.FlushBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	w.logger.Info().Int("infosets", len(entries)).Int64("rows_flushed_total", w.flushed).Msg("flushed blueprint")
	return nil
}
