// Package db provides the Postgres-backed store spec.md §6 describes: the
// on-disk binary tables get bulk-loaded here for the HTTP/JSON query
// surface, and the async worker reads/writes the blueprint table directly
// against the same pool. Grounded on the `jackc/pgx/v5` pgxpool usage
// pattern in the leanlp-BTC-coinjoin example's internal/db layer.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a connection pool to the abstraction/blueprint database.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against connStr and verifies connectivity.
func Connect(ctx context.Context, connStr string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases all pooled connections.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Pool exposes the underlying pool for callers that need direct access.
// The async worker does not use it; it writes through UpsertBlueprintRows.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}
