package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lox/holdem-solver/internal/artifact"
	"github.com/lox/holdem-solver/internal/cards"
	edgespkg "github.com/lox/holdem-solver/internal/edges"
	"github.com/lox/holdem-solver/internal/encoder"
	"github.com/lox/holdem-solver/internal/mccfr"
	"github.com/lox/holdem-solver/internal/nlhe"
	"github.com/lox/holdem-solver/internal/randutil"
	"github.com/rs/zerolog/log"
)

// BenchCmd measures a trained blueprint's exploitability, carried over
// from the teacher's cmd/solver EvalCmd for blueprint quality measurement
// but computing exact best-response exploitability (mccfr.Exploitability)
// rather than a self-play win rate, since this solver's abstracted game
// tree is small enough for a full best-response walk.
type BenchCmd struct {
	Blueprint   string `help:"path to a blueprint artifact pack" required:""`
	Abstraction string `help:"directory of per-street artifact packs from 'abstract'" required:""`
	SmallBlind  int    `help:"small blind size" default:"1"`
	BigBlind    int    `help:"big blind size" default:"2"`
	Stack       int    `help:"starting stack size" default:"200"`
	Seed        int64  `help:"random seed for the sample root deal" default:"1"`
}

func (cmd *BenchCmd) Run(ctx context.Context) error {
	lookup, err := loadLookup(cmd.Abstraction)
	if err != nil {
		return fmt.Errorf("load abstraction: %w", err)
	}
	enc := encoder.NLHEEncoder{Registry: cards.NewRegistry(), Lookup: lookup}

	data, err := os.ReadFile(cmd.Blueprint)
	if err != nil {
		return fmt.Errorf("read blueprint: %w", err)
	}
	_, rows, err := artifact.Decode(cmd.Blueprint, data, artifact.KindBlueprint)
	if err != nil {
		return fmt.Errorf("decode blueprint: %w", err)
	}
	blueprintRows, err := artifact.DecodeBlueprint(rows)
	if err != nil {
		return fmt.Errorf("decode blueprint rows: %w", err)
	}

	table := rebuildTable(blueprintRows)
	log.Info().Int("rows", len(blueprintRows)).Int("infosets", table.Size()).Msg("blueprint loaded")

	rng := randutil.New(cmd.Seed)
	gameCfg := nlhe.Config{SmallBlind: cmd.SmallBlind, BigBlind: cmd.BigBlind, StartingStack: cmd.Stack}
	root := encoder.NewRoot(nlhe.Root(gameCfg, 0, rng))

	exploit := mccfr.Exploitability(table, enc, root)
	log.Info().Float64("exploitability", exploit).Msg("bench complete")
	return nil
}

// rebuildTable groups flat blueprint rows by their (Past, Present,
// Choices) Info key and loads each group's edges back into a RegretTable,
// in the order the Info's packed choices path lists them, which is the
// action-index order NodeView offers and encoder.BlueprintRows emits.
func rebuildTable(rows []artifact.BlueprintRow) *mccfr.RegretTable {
	type group struct {
		key     string
		choices int64
		regrets map[int64]float64
		policy  map[int64]float64
	}
	groups := make(map[string]*group)
	for _, row := range rows {
		key := fmt.Sprintf("%d|%d|%d", row.Past, row.Present, row.Choices)
		g, ok := groups[key]
		if !ok {
			g = &group{key: key, choices: int64(row.Choices), regrets: map[int64]float64{}, policy: map[int64]float64{}}
			groups[key] = g
		}
		g.regrets[row.Edge] = float64(row.Regret)
		g.policy[row.Edge] = float64(row.Weight)
	}

	table := mccfr.NewRegretTable()
	for _, g := range groups {
		edges := make([]int64, 0, len(g.regrets))
		for _, e := range edgespkg.Path(uint64(g.choices)).Edges() {
			edges = append(edges, int64(e.ToU64()))
		}

		regretSum := make([]float64, len(edges))
		policySum := make([]float64, len(edges))
		for i, e := range edges {
			regretSum[i] = g.regrets[e]
			policySum[i] = g.policy[e]
		}
		table.Load(g.key, regretSum, policySum)
	}
	return table
}
