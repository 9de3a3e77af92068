package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lox/holdem-solver/internal/artifact"
)

// UploadStreet replaces one street's isomorphism/abstraction/metric/
// transitions rows in a single transaction (delete-then-copy), so a
// re-upload after retraining a street never leaves stale and fresh rows
// mixed together. The blueprint table is append-only during training
// (spec.md §6) and is populated by the worker, not by this path.
func (s *Store) UploadStreet(ctx context.Context, street int16, iso []artifact.IsomorphismRow, abs []artifact.AbstractionRow, metric []artifact.MetricRow, transitions []artifact.TransitionRow) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db: begin upload: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, table := range []string{"isomorphism", "abstraction", "metric", "transitions"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE street = $1", table), street); err != nil {
			return fmt.Errorf("db: clear %s for street %d: %w", table, street, err)
		}
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"isomorphism"}, []string{"street", "obs", "abs", "position"},
		pgx.CopyFromSlice(len(iso), func(i int) ([]any, error) {
			r := iso[i]
			return []any{street, r.Obs, r.Abs, r.Position}, nil
		})); err != nil {
		return fmt.Errorf("db: copy isomorphism: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"abstraction"}, []string{"street", "abs", "equity", "population"},
		pgx.CopyFromSlice(len(abs), func(i int) ([]any, error) {
			r := abs[i]
			return []any{street, r.Abs, r.Equity, r.Population}, nil
		})); err != nil {
		return fmt.Errorf("db: copy abstraction: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"metric"}, []string{"street", "tri", "dx"},
		pgx.CopyFromSlice(len(metric), func(i int) ([]any, error) {
			r := metric[i]
			return []any{street, r.Tri, r.Dx}, nil
		})); err != nil {
		return fmt.Errorf("db: copy metric: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"transitions"}, []string{"street", "prev", "next", "dx"},
		pgx.CopyFromSlice(len(transitions), func(i int) ([]any, error) {
			r := transitions[i]
			return []any{street, r.Prev, r.Next, r.Dx}, nil
		})); err != nil {
		return fmt.Errorf("db: copy transitions: %w", err)
	}

	return tx.Commit(ctx)
}

// UpsertBlueprintRows batches the async worker's accumulated strategy
// rows into the append-only blueprint table,
// overwriting on conflict so a resumed run's latest values win.
func (s *Store) UpsertBlueprintRows(ctx context.Context, rows []artifact.BlueprintRow) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	const upsert = `
		INSERT INTO blueprint (past, present, choices, edge, weight, regret, evalue, counts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (past, present, choices, edge) DO UPDATE SET
			weight = EXCLUDED.weight,
			regret = EXCLUDED.regret,
			evalue = EXCLUDED.evalue,
			counts = EXCLUDED.counts
	`
	for _, r := range rows {
		batch.Queue(upsert, r.Past, r.Present, r.Choices, r.Edge, r.Weight, r.Regret, r.Evalue, r.Counts)
	}
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range rows {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("db: upsert blueprint row: %w", err)
		}
	}
	return nil
}
