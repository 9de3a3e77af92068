package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/artifact"
	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/randutil"
	"github.com/rs/zerolog/log"
)

// AbstractCmd runs the river → turn → flop → preflop abstraction pipeline
// and writes one artifact pack per street, the offline half of spec.md
// §4's information-abstraction pipeline.
type AbstractCmd struct {
	Out         string `help:"directory to write per-street artifact packs" required:""`
	RiverBuckets int   `help:"river equity buckets" default:"50"`
	TurnBuckets  int   `help:"turn learned buckets" default:"200"`
	FlopBuckets  int   `help:"flop learned buckets" default:"200"`
	TurnSamples  int   `help:"observations sampled on the turn" default:"200000"`
	RiverSamples int   `help:"observations sampled on the river" default:"500000"`
	Seed         int64 `help:"random seed" default:"1"`
}

func (cmd *AbstractCmd) Run(ctx context.Context) error {
	rng := randutil.New(cmd.Seed)

	log.Info().Int("samples", cmd.RiverSamples).Msg("sampling river observations")
	riverRegistry := cards.NewRegistry()
	riverObs := internRegistry(riverRegistry, abstraction.EnumerateSample(cards.River, cmd.RiverSamples, rng))

	river, err := abstraction.BuildRiver(ctx, riverRegistry, riverObs, cmd.RiverBuckets)
	if err != nil {
		return fmt.Errorf("build river: %w", err)
	}
	if err := saveStreet(cmd.Out, cards.River, river); err != nil {
		return err
	}
	log.Info().Int("buckets", river.NumBuckets()).Msg("river abstraction built")

	log.Info().Int("samples", cmd.TurnSamples).Msg("sampling turn observations")
	turnRegistry := cards.NewRegistry()
	turnObsRaw := abstraction.EnumerateSample(cards.Turn, cmd.TurnSamples, rng)
	internRegistry(turnRegistry, turnObsRaw)
	turn := abstraction.BuildLearnedStreet(cards.Turn, turnRegistry, river, riverRegistry, cmd.TurnBuckets, newSplitRand(rng))
	if err := saveStreet(cmd.Out, cards.Turn, turn); err != nil {
		return err
	}
	log.Info().Int("buckets", turn.NumBuckets()).Msg("turn abstraction built")

	log.Info().Msg("enumerating flop observations")
	flopRegistry := cards.NewRegistry()
	flopObsRaw := abstraction.EnumerateExhaustive(cards.Flop)
	internRegistry(flopRegistry, flopObsRaw)
	flop := abstraction.BuildLearnedStreet(cards.Flop, flopRegistry, turn, turnRegistry, cmd.FlopBuckets, newSplitRand(rng))
	if err := saveStreet(cmd.Out, cards.Flop, flop); err != nil {
		return err
	}
	log.Info().Int("buckets", flop.NumBuckets()).Msg("flop abstraction built")

	log.Info().Msg("building preflop abstraction")
	preflopRegistry := cards.NewRegistry()
	internRegistry(preflopRegistry, abstraction.EnumerateExhaustive(cards.Preflop))
	preflop := abstraction.BuildPreflop(preflopRegistry, flop, flopRegistry)
	if err := saveStreet(cmd.Out, cards.Preflop, preflop); err != nil {
		return err
	}
	log.Info().Int("buckets", preflop.NumBuckets()).Msg("preflop abstraction built")

	return nil
}

// internRegistry interns every observation's isomorphism class into
// registry, returning the deduplicated observation list in intern order.
func internRegistry(registry *cards.Registry, obs []cards.Observation) []cards.Observation {
	seen := make(map[int64]cards.Observation, len(obs))
	for _, o := range obs {
		idx := registry.Intern(cards.From(o))
		if _, ok := seen[idx]; !ok {
			seen[idx] = o
		}
	}
	out := make([]cards.Observation, registry.Len())
	for idx, o := range seen {
		out[idx] = o
	}
	return out
}

// newSplitRand derives a fresh RNG from rng so each street's clustering
// pass gets independent randomness without threading a shared *rand.Rand
// across goroutines.
func newSplitRand(rng *rand.Rand) *rand.Rand {
	return randutil.New(int64(rng.Uint64()))
}

func saveStreet(dir string, street cards.Street, t *abstraction.Table) error {
	iso := abstraction.ExportIsomorphism(t)
	abs := abstraction.ExportAbstraction(t)
	metric := abstraction.ExportMetric(t)
	transitions := abstraction.ExportTransitions(t)

	if err := artifact.Save(filepath.Join(dir, streetFileName(street, "isomorphism")), artifact.KindIsomorphism, artifact.EncodeIsomorphism(iso)); err != nil {
		return fmt.Errorf("save isomorphism: %w", err)
	}
	if err := artifact.Save(filepath.Join(dir, streetFileName(street, "abstraction")), artifact.KindAbstraction, artifact.EncodeAbstraction(abs)); err != nil {
		return fmt.Errorf("save abstraction: %w", err)
	}
	if err := artifact.Save(filepath.Join(dir, streetFileName(street, "metric")), artifact.KindMetric, artifact.EncodeMetric(metric)); err != nil {
		return fmt.Errorf("save metric: %w", err)
	}
	if transitions != nil {
		if err := artifact.Save(filepath.Join(dir, streetFileName(street, "transitions")), artifact.KindTransitions, artifact.EncodeTransitions(transitions)); err != nil {
			return fmt.Errorf("save transitions: %w", err)
		}
	}
	return nil
}

func streetFileName(street cards.Street, table string) string {
	return fmt.Sprintf("%s.%s.hsab", street.String(), table)
}
