// Command solver is the operator-facing entrypoint for the abstraction,
// training, upload, serving, play, and benchmarking pipeline: each
// subcommand below wraps one stage of spec.md's offline build (abstract,
// train, upload) or runtime surface (serve, play, bench).
package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	Abstract AbstractCmd `cmd:"" help:"build a card-abstraction artifact pack from scratch"`
	Train    TrainCmd    `cmd:"" help:"run MCCFR training, offline or against a live worker queue"`
	Upload   UploadCmd   `cmd:"" help:"load an artifact pack into Postgres"`
	Serve    ServeCmd    `cmd:"" help:"run the read-only HTTP/JSON query API and policy stream"`
	Play     PlayCmd     `cmd:"" help:"play heads-up against a trained blueprint in a terminal UI"`
	Bench    BenchCmd    `cmd:"" help:"measure a blueprint's exploitability"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("solver"),
		kong.Description("heads-up no-limit hold'em MCCFR solver tooling"),
		kong.UsageOnError(),
	)

	setupLogger(cli.Debug)

	var err error
	switch ctx.Command() {
	case "abstract":
		err = cli.Abstract.Run(context.Background())
	case "train":
		err = cli.Train.Run(context.Background())
	case "upload":
		err = cli.Upload.Run(context.Background())
	case "serve":
		err = cli.Serve.Run(context.Background())
	case "play":
		err = cli.Play.Run(context.Background())
	case "bench":
		err = cli.Bench.Run(context.Background())
	default:
		log.Fatal().Msgf("unknown command: %s", ctx.Command())
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", ctx.Command()).Msg("command failed")
	}
}

func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}
