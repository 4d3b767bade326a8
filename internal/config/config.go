// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New(ctx) builds a Config with defaults.
//   - Load(ctx) layers an optional YAML file and REPUTATION_* environment
//     variables on top of the defaults and validates the result.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Store selects the persistence backend: memory or postgres.
	Store string `koanf:"store"`

	// PostgresDSN is required when Store is postgres.
	PostgresDSN string `koanf:"postgres_dsn"`

	// QueueSize bounds the re-analysis job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the transaction ID deduplication window.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// DefaultTransactionLimit is used when GET /api/transactions has no limit.
	DefaultTransactionLimit int `koanf:"default_transaction_limit"`

	// RiskAveraging selects how pattern scores are averaged: active or fixed.
	RiskAveraging string `koanf:"risk_averaging"`

	// SeedDemoData loads the demo wallets into an empty store at startup.
	SeedDemoData bool `koanf:"seed_demo_data"`

	// WSBufferSize bounds the websocket broadcast buffer.
	WSBufferSize int `koanf:"ws_buffer_size"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":9080",
		Store:                   StoreMemory,
		QueueSize:               10_000,
		WorkerCount:             runtime.NumCPU() * 2,
		DedupeSize:              100_000,
		MaxLeaderboardLimit:     100,
		DefaultTransactionLimit: 10,
		RiskAveraging:           "active",
		SeedDemoData:            true,
		WSBufferSize:            256,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.DedupeSize <= 0:
		return fmt.Errorf("%w: dedupe_size must be positive", ErrInvalidConfig)
	case c.MaxLeaderboardLimit <= 0:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	case c.DefaultTransactionLimit <= 0:
		return fmt.Errorf("%w: default_transaction_limit must be positive", ErrInvalidConfig)
	case c.WSBufferSize <= 0:
		return fmt.Errorf("%w: ws_buffer_size must be positive", ErrInvalidConfig)
	}

	switch strings.ToLower(c.RiskAveraging) {
	case "", "active", "fixed":
	default:
		return fmt.Errorf("%w: unknown risk_averaging %q", ErrInvalidConfig, c.RiskAveraging)
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}

	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: postgres_dsn is required for the postgres store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	return nil
}
