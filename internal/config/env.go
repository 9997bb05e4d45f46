package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env holds the process settings read from the environment.
type Env struct {
	ConfigPath    string        `env:"ARENA_CONFIG" envDefault:"arena_config.json"`
	DatabasePath  string        `env:"ARENA_DB" envDefault:"arena.db"`
	Address       string        `env:"ARENA_ADDR"`
	SessionSecret string        `env:"SESSION_SECRET"`
	RoundTimeout  time.Duration `env:"ARENA_ROUND_TIMEOUT"`
	IdleTimeout   time.Duration `env:"ARENA_IDLE_TIMEOUT"`
	FinishedGrace time.Duration `env:"ARENA_FINISHED_GRACE"`
	RelayURL      string        `env:"ARENA_RELAY_URL"`
	RelayKey      string        `env:"ARENA_RELAY_KEY"`
	OTelEndpoint  string        `env:"ARENA_OTEL_ENDPOINT"`
	Debug         bool          `env:"ARENA_DEBUG" envDefault:"false"`
	SweepInterval time.Duration `env:"ARENA_SWEEP_INTERVAL" envDefault:"30s"`
	ScanInterval  time.Duration `env:"ARENA_TIMEOUT_SCAN_INTERVAL" envDefault:"5s"`
}

// ParseEnv loads Env from environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Apply overrides file settings with any environment value that is set.
func (e Env) Apply(c *LoadedConfig) {
	if e.Address != "" {
		c.ServerAddress = e.Address
	}
	if e.RoundTimeout > 0 {
		c.RoundTimeout = e.RoundTimeout
	}
	if e.IdleTimeout > 0 {
		c.IdleTimeout = e.IdleTimeout
	}
	if e.FinishedGrace > 0 {
		c.FinishedGrace = e.FinishedGrace
	}
}
