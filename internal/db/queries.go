package db

import (
	"context"
	"fmt"
)

// PolicyEntry is one edge's accumulated weight and visit count within an
// Info, the unit spec.md §6's policy(partial_recall) query returns.
type PolicyEntry struct {
	Edge   int64
	Weight float32
	Counts int32
}

// BucketDistance pairs a bucket with its distance from some reference
// bucket, the shape knn/kfn return.
type BucketDistance struct {
	Abs int16
	Dx  float32
}

// ObsToAbs resolves an observation's bucket on street via get_street_abs.
func (s *Store) ObsToAbs(ctx context.Context, street int16, obs int64) (int16, error) {
	var abs int16
	err := s.pool.QueryRow(ctx, `SELECT get_street_abs($1, $2)`, street, obs).Scan(&abs)
	if err != nil {
		return 0, fmt.Errorf("db: obs_to_abs(%d, %d): %w", street, obs, err)
	}
	return abs, nil
}

// ObsEquity resolves an observation's bucket equity, spec.md §6's
// obs_equity(obs) → probability query.
func (s *Store) ObsEquity(ctx context.Context, street int16, obs int64) (float64, error) {
	var equity float32
	const q = `
		SELECT a.equity FROM abstraction a
		JOIN isomorphism i ON i.street = a.street AND i.abs = a.abs
		WHERE i.street = $1 AND i.obs = $2
	`
	if err := s.pool.QueryRow(ctx, q, street, obs).Scan(&equity); err != nil {
		return 0, fmt.Errorf("db: obs_equity(%d, %d): %w", street, obs, err)
	}
	return float64(equity), nil
}

// ObsHistogram returns the density over next-street buckets recorded for
// an observation's own bucket, spec.md §6's obs_histogram(obs) query.
func (s *Store) ObsHistogram(ctx context.Context, street int16, obs int64) (map[int16]float64, error) {
	abs, err := s.ObsToAbs(ctx, street, obs)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `SELECT next, dx FROM transitions WHERE street = $1 AND prev = $2`, street, abs)
	if err != nil {
		return nil, fmt.Errorf("db: obs_histogram(%d, %d): %w", street, obs, err)
	}
	defer rows.Close()

	out := map[int16]float64{}
	for rows.Next() {
		var next int16
		var dx float32
		if err := rows.Scan(&next, &dx); err != nil {
			return nil, err
		}
		out[next] = float64(dx)
	}
	return out, rows.Err()
}

// AbsDistance resolves the precomputed Metric distance between two buckets
// on the same street, spec.md §6's abs_distance(a, b) query.
func (s *Store) AbsDistance(ctx context.Context, street int16, a, b int16) (float64, error) {
	if a == b {
		return 0, nil
	}
	var dx float32
	const q = `SELECT dx FROM metric WHERE street = $1 AND tri = get_pair_tri($2, $3)`
	if err := s.pool.QueryRow(ctx, q, street, a, b).Scan(&dx); err != nil {
		return 0, fmt.Errorf("db: abs_distance(%d, %d, %d): %w", street, a, b, err)
	}
	return float64(dx), nil
}

// KNearest returns the k buckets closest to abs on street, ascending by
// distance, spec.md §6's knn(abs) query.
func (s *Store) KNearest(ctx context.Context, street int16, abs int16, k int) ([]BucketDistance, error) {
	return s.kExtreme(ctx, street, abs, k, "ASC")
}

// KFarthest returns the k buckets farthest from abs on street, descending
// by distance, spec.md §6's kfn(abs) query.
func (s *Store) KFarthest(ctx context.Context, street int16, abs int16, k int) ([]BucketDistance, error) {
	return s.kExtreme(ctx, street, abs, k, "DESC")
}

func (s *Store) kExtreme(ctx context.Context, street int16, abs int16, k int, order string) ([]BucketDistance, error) {
	const query = `
		SELECT o.abs AS abs, m.dx AS dx
		FROM abstraction o
		JOIN metric m ON m.street = o.street AND m.tri = get_pair_tri(o.abs, $2)
		WHERE o.street = $1 AND o.abs != $2
		ORDER BY dx ` + order + `
		LIMIT $3
	`
	rows, err := s.pool.Query(ctx, query, street, abs, k)
	if err != nil {
		return nil, fmt.Errorf("db: k-extreme(%d, %d): %w", street, abs, err)
	}
	defer rows.Close()

	var out []BucketDistance
	for rows.Next() {
		var bd BucketDistance
		if err := rows.Scan(&bd.Abs, &bd.Dx); err != nil {
			return nil, err
		}
		out = append(out, bd)
	}
	return out, rows.Err()
}

// Policy resolves the strategy entries recorded for an Info triple,
// spec.md §6's policy(partial_recall) query; callers normalize the
// returned weights into averaged = max(w, eps) / sum(max(w, eps)).
func (s *Store) Policy(ctx context.Context, past int64, present int16, choices int64) ([]PolicyEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT edge, weight, counts FROM blueprint
		WHERE past = $1 AND present = $2 AND choices = $3
	`, past, present, choices)
	if err != nil {
		return nil, fmt.Errorf("db: policy(%d, %d, %d): %w", past, present, choices, err)
	}
	defer rows.Close()

	var out []PolicyEntry
	for rows.Next() {
		var e PolicyEntry
		if err := rows.Scan(&e.Edge, &e.Weight, &e.Counts); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
