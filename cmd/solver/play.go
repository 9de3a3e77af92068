package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	charmlog "github.com/charmbracelet/log"

	"github.com/lox/holdem-solver/internal/artifact"
	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/encoder"
	"github.com/lox/holdem-solver/internal/nlhe"
	"github.com/lox/holdem-solver/internal/randutil"
	"github.com/lox/holdem-solver/internal/tui"
)

// PlayCmd launches an interactive heads-up session against a trained
// blueprint, matching the teacher's split between cmd/solver's zerolog
// CLI logging and internal/tui's charmbracelet/log TUI logging.
type PlayCmd struct {
	Blueprint   string `help:"path to a blueprint artifact pack" required:""`
	Abstraction string `help:"directory of per-street artifact packs from 'abstract'" required:""`
	SmallBlind  int    `help:"small blind size" default:"1"`
	BigBlind    int    `help:"big blind size" default:"2"`
	Stack       int    `help:"starting stack size" default:"200"`
	Seed        int64  `help:"random seed" default:"0"`
	History     string `help:"append each completed hand to this PHH-style TOML file"`
}

func (cmd *PlayCmd) Run(ctx context.Context) error {
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

	seed := cmd.Seed
	if seed == 0 {
		seed = 1
	}
	rng := randutil.New(seed)
	gameCfg := nlhe.Config{SmallBlind: cmd.SmallBlind, BigBlind: cmd.BigBlind, StartingStack: cmd.Stack}

	var history io.Writer
	if cmd.History != "" {
		f, err := os.OpenFile(cmd.History, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open history file: %w", err)
		}
		defer f.Close()
		history = f
	}

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{Level: charmlog.WarnLevel})
	model := tui.NewPlayModel(table, enc, gameCfg, rng, logger, history)

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
