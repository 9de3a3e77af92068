package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lox/holdem-solver/internal/artifact"
	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/db"
	"github.com/rs/zerolog/log"
)

// UploadCmd bulk-loads a directory of per-street artifact packs into
// Postgres, the spec.md §6 database contract's write path.
type UploadCmd struct {
	Abstraction string `help:"directory of per-street artifact packs from 'abstract'" required:""`
	Database    string `help:"Postgres connection string" required:""`
}

func (cmd *UploadCmd) Run(ctx context.Context) error {
	store, err := db.Connect(ctx, cmd.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	for _, street := range []cards.Street{cards.River, cards.Turn, cards.Flop, cards.Preflop} {
		iso, err := readIsomorphism(filepath.Join(cmd.Abstraction, streetFileName(street, "isomorphism")))
		if err != nil {
			return fmt.Errorf("read %s isomorphism: %w", street, err)
		}
		abs, err := readAbstraction(filepath.Join(cmd.Abstraction, streetFileName(street, "abstraction")))
		if err != nil {
			return fmt.Errorf("read %s abstraction: %w", street, err)
		}
		metricRaw, err := readRawMetric(filepath.Join(cmd.Abstraction, streetFileName(street, "metric")))
		if err != nil {
			return fmt.Errorf("read %s metric: %w", street, err)
		}
		var transitions []artifact.TransitionRow
		transitionsPath := filepath.Join(cmd.Abstraction, streetFileName(street, "transitions"))
		if _, statErr := os.Stat(transitionsPath); statErr == nil {
			transitions, err = readRawTransitions(transitionsPath)
			if err != nil {
				return fmt.Errorf("read %s transitions: %w", street, err)
			}
		}

		if err := store.UploadStreet(ctx, int16(street), iso, abs, metricRaw, transitions); err != nil {
			return fmt.Errorf("upload %s: %w", street, err)
		}
		log.Info().Str("street", street.String()).Int("isomorphism_rows", len(iso)).Int("abstraction_rows", len(abs)).Msg("street uploaded")
	}
	return nil
}

func readRawMetric(path string) ([]artifact.MetricRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_, rows, err := artifact.Decode(path, data, artifact.KindMetric)
	if err != nil {
		return nil, err
	}
	return artifact.DecodeMetric(rows)
}

func readRawTransitions(path string) ([]artifact.TransitionRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_, rows, err := artifact.Decode(path, data, artifact.KindTransitions)
	if err != nil {
		return nil, err
	}
	return artifact.DecodeTransitions(rows)
}
