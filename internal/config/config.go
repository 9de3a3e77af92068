// Package config loads the solver's HCL daemon configuration, grounded on
// the teacher's internal/server/config.go: the same
// default-then-override-from-file shape, four unlabeled top-level blocks
// (game, train, server, database), package-level Default and Load
// functions, and a Validate method on Config.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete solver daemon configuration for the `serve` and
// `train` subcommands.
type Config struct {
	Game     GameSettings   `hcl:"game,block"`
	Train    TrainSettings  `hcl:"train,block"`
	Server   ServerSettings `hcl:"server,block"`
	Database DBSettings     `hcl:"database,block"`
}

// GameSettings fixes the stakes and table shape abstraction and training
// are built against.
type GameSettings struct {
	SmallBlind    int `hcl:"small_blind,optional"`
	BigBlind      int `hcl:"big_blind,optional"`
	StartingStack int `hcl:"starting_stack,optional"`
}

// TrainSettings controls an online worker's sampling, regret/policy
// schedule, and flush cadence, mirroring worker.Config.
type TrainSettings struct {
	Seed            int64  `hcl:"seed,optional"`
	RegretSchedule  string `hcl:"regret_schedule,optional"` // vanilla|cfr_plus|linear|discounted|pluribus
	PolicySchedule  string `hcl:"policy_schedule,optional"` // constant|linear|quadratic|exponential
	FlushIntervalMs int    `hcl:"flush_interval_ms,optional"`
	FlushBatch      int    `hcl:"flush_batch,optional"`
}

// ServerSettings configures the HTTP/JSON query API and websocket stream.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// DBSettings holds the Postgres connection string for the serve
// subcommand and the online worker row-store (the upload subcommand takes
// its own --database flag instead).
type DBSettings struct {
	ConnString string `hcl:"conn_string,optional"`
}

// Default returns the solver's baked-in defaults, used whenever a config
// file is absent or a field is left unset.
func Default() *Config {
	return &Config{
		Game: GameSettings{
			SmallBlind:    1,
			BigBlind:      2,
			StartingStack: 200,
		},
		Train: TrainSettings{
			Seed:            1,
			RegretSchedule:  "discounted",
			PolicySchedule:  "linear",
			FlushIntervalMs: 30000,
			FlushBatch:      5000,
		},
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Database: DBSettings{
			ConnString: "postgres://localhost:5432/holdem_solver",
		},
	}
}

// Load reads and decodes an HCL config file, falling back to Default when
// the file does not exist, and filling any zero-valued field left unset
// in the file with its default.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", path, diags.Error())
	}

	cfg := Default()
	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", path, diags.Error())
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(c *Config) {
	defaults := Default()
	if c.Game.SmallBlind == 0 {
		c.Game.SmallBlind = defaults.Game.SmallBlind
	}
	if c.Game.BigBlind == 0 {
		c.Game.BigBlind = defaults.Game.BigBlind
	}
	if c.Game.StartingStack == 0 {
		c.Game.StartingStack = defaults.Game.StartingStack
	}
	if c.Train.RegretSchedule == "" {
		c.Train.RegretSchedule = defaults.Train.RegretSchedule
	}
	if c.Train.PolicySchedule == "" {
		c.Train.PolicySchedule = defaults.Train.PolicySchedule
	}
	if c.Train.FlushIntervalMs == 0 {
		c.Train.FlushIntervalMs = defaults.Train.FlushIntervalMs
	}
	if c.Train.FlushBatch == 0 {
		c.Train.FlushBatch = defaults.Train.FlushBatch
	}
	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaults.Server.LogLevel
	}
	if c.Database.ConnString == "" {
		c.Database.ConnString = defaults.Database.ConnString
	}
}

// Validate rejects a config that would produce a nonsensical game or
// server setup.
func (c *Config) Validate() error {
	if c.Game.SmallBlind <= 0 {
		return fmt.Errorf("config: small_blind must be positive")
	}
	if c.Game.BigBlind <= c.Game.SmallBlind {
		return fmt.Errorf("config: big_blind must exceed small_blind")
	}
	if c.Game.StartingStack <= c.Game.BigBlind {
		return fmt.Errorf("config: starting_stack must exceed big_blind")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	}
	return nil
}

// FlushInterval converts the millisecond field to a time.Duration for
// worker.Config.
func (t TrainSettings) FlushInterval() time.Duration {
	return time.Duration(t.FlushIntervalMs) * time.Millisecond
}

// Addr returns "host:port" for api.Server.Start.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}
