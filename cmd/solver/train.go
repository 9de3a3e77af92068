package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/artifact"
	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/config"
	"github.com/lox/holdem-solver/internal/db"
	"github.com/lox/holdem-solver/internal/encoder"
	"github.com/lox/holdem-solver/internal/mccfr"
	"github.com/lox/holdem-solver/internal/nlhe"
	"github.com/lox/holdem-solver/internal/randutil"
	"github.com/lox/holdem-solver/internal/worker"
	"github.com/rs/zerolog/log"
)

// TrainCmd runs offline or online MCCFR training against a previously
// built abstraction, per spec.md §5's solver core and worker contracts.
type TrainCmd struct {
	Abstraction string `help:"directory of per-street artifact packs from 'abstract'" required:""`
	Config      string `help:"HCL config file (see internal/config)" default:""`
	Out         string `help:"path to write the final blueprint checkpoint"`
	Resume      bool   `help:"connect to --database and run as an online worker instead of a one-shot offline run"`
	Database    string `help:"Postgres connection string, overrides config" default:""`
	Sampler     string `help:"sampling scheme (external|vanilla|pluribus)" default:"external"`
	Regret      string `help:"regret schedule (vanilla|cfr_plus|linear|discounted|pluribus)" default:""`
	Policy      string `help:"policy weighting schedule (constant|linear|quadratic|exponential)" default:""`
	Iterations  int64  `help:"offline iteration count (ignored when --resume)" default:"1000000"`
	ProgressEvery int64 `help:"log progress every N iterations" default:"10000"`
}

func (cmd *TrainCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Database != "" {
		cfg.Database.ConnString = cmd.Database
	}

	lookup, err := loadLookup(cmd.Abstraction)
	if err != nil {
		return fmt.Errorf("load abstraction: %w", err)
	}
	enc := encoder.NLHEEncoder{Registry: cards.NewRegistry(), Lookup: lookup}

	sampler, err := resolveSampler(cmd.Sampler)
	if err != nil {
		return err
	}
	regretName := cmd.Regret
	if regretName == "" {
		regretName = cfg.Train.RegretSchedule
	}
	regretSched, err := resolveRegretSchedule(regretName)
	if err != nil {
		return err
	}
	policyName := cmd.Policy
	if policyName == "" {
		policyName = cfg.Train.PolicySchedule
	}
	policySched, err := resolvePolicySchedule(policyName)
	if err != nil {
		return err
	}

	table := mccfr.NewRegretTable()

	if cmd.Resume {
		return cmd.runOnline(ctx, cfg, table, enc, sampler, regretSched, policySched)
	}
	return cmd.runOffline(ctx, cfg, table, enc, sampler, regretSched, policySched)
}

func (cmd *TrainCmd) runOffline(ctx context.Context, cfg *config.Config, table *mccfr.RegretTable, enc encoder.NLHEEncoder, sampler mccfr.Sampler, regretSched mccfr.RegretSchedule, policySched mccfr.PolicyWeightSchedule) error {
	solver := mccfr.New(table, enc, sampler, regretSched, policySched)
	rng := randutil.New(cfg.Train.Seed)
	gameCfg := nlhe.Config{SmallBlind: cfg.Game.SmallBlind, BigBlind: cfg.Game.BigBlind, StartingStack: cfg.Game.StartingStack}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	var i int64
loop:
	for ; i < cmd.Iterations; i++ {
		select {
		case <-ctx.Done():
			log.Warn().Int64("iteration", i).Msg("interrupted, checkpointing before exit")
			break loop
		default:
		}
		root := encoder.NewRoot(nlhe.Root(gameCfg, int(i%2), rng))
		solver.Iterate(root, rng)
		if cmd.ProgressEvery > 0 && i%cmd.ProgressEvery == 0 {
			log.Info().Int64("iteration", i).Int("infosets", table.Size()).Dur("elapsed", time.Since(start)).Msg("training progress")
		}
	}

	log.Info().Int64("iterations", i).Dur("duration", time.Since(start)).Int("infosets", table.Size()).Msg("training run complete")

	if cmd.Out == "" {
		return nil
	}
	rows := blueprintRows(table)
	if err := artifact.Save(cmd.Out, artifact.KindBlueprint, artifact.EncodeBlueprint(rows)); err != nil {
		return fmt.Errorf("save blueprint: %w", err)
	}
	log.Info().Str("path", cmd.Out).Int("rows", len(rows)).Msg("blueprint saved")
	return nil
}

func (cmd *TrainCmd) runOnline(ctx context.Context, cfg *config.Config, table *mccfr.RegretTable, enc encoder.NLHEEncoder, sampler mccfr.Sampler, regretSched mccfr.RegretSchedule, policySched mccfr.PolicyWeightSchedule) error {
	store, err := db.Connect(ctx, cfg.Database.ConnString)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	wcfg := worker.Config{
		GameConfig:    nlhe.Config{SmallBlind: cfg.Game.SmallBlind, BigBlind: cfg.Game.BigBlind, StartingStack: cfg.Game.StartingStack},
		Seed:          cfg.Train.Seed,
		FlushInterval: cfg.Train.FlushInterval(),
		FlushBatch:    cfg.Train.FlushBatch,
	}
	w := worker.New(wcfg, table, enc, sampler, regretSched, policySched, store, log.Logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("database", cfg.Database.ConnString).Dur("flush_interval", wcfg.FlushInterval).Msg("starting online worker")
	return w.Run(ctx)
}

func blueprintRows(table *mccfr.RegretTable) []artifact.BlueprintRow {
	var rows []artifact.BlueprintRow
	for key, entry := range table.Entries() {
		r, err := encoder.BlueprintRows(key, entry)
		if err != nil {
			log.Warn().Err(err).Str("info", key).Msg("skipping malformed info")
			continue
		}
		rows = append(rows, r...)
	}
	return rows
}

func loadLookup(dir string) (*abstraction.Lookup, error) {
	preflop, err := loadTable(dir, cards.Preflop)
	if err != nil {
		return nil, err
	}
	flop, err := loadTable(dir, cards.Flop)
	if err != nil {
		return nil, err
	}
	turn, err := loadTable(dir, cards.Turn)
	if err != nil {
		return nil, err
	}
	river, err := loadTable(dir, cards.River)
	if err != nil {
		return nil, err
	}
	return abstraction.NewLookup(preflop, flop, turn, river), nil
}
