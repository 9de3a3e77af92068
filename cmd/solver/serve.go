package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/lox/holdem-solver/internal/api"
	"github.com/lox/holdem-solver/internal/config"
	"github.com/lox/holdem-solver/internal/db"
	"github.com/rs/zerolog/log"
)

// ServeCmd runs the read-only HTTP/JSON query API plus /stream websocket
// over a previously uploaded Postgres database.
type ServeCmd struct {
	Config   string `help:"HCL config file (see internal/config)" default:""`
	Database string `help:"Postgres connection string, overrides config" default:""`
	Address  string `help:"listen address, overrides config" default:""`
}

func (cmd *ServeCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Database != "" {
		cfg.Database.ConnString = cmd.Database
	}
	if cmd.Address != "" {
		cfg.Server.Address = cmd.Address
	}

	store, err := db.Connect(ctx, cfg.Database.ConnString)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer store.Close()

	srv := api.NewServer(store, log.Logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.Addr())
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down api server")
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
