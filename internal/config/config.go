// internal/config/config.go
//
// Typed process configuration, read from the environment.
// main loads .env first (godotenv), so values from the file and the real
// environment are both visible here; the real environment wins.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/robalobadob/jeopardy/internal/game"
)

// Config holds every setting the server and the deal CLI read.
type Config struct {
	Port         string `env:"PORT" envDefault:"5175"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty    bool   `env:"LOG_PRETTY" envDefault:"false"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	TriviaAPIURL     string        `env:"TRIVIA_API_URL" envDefault:"https://jservice.io/api"`
	PoolSize         int           `env:"TRIVIA_POOL_SIZE" envDefault:"100"`
	FetchTimeout     time.Duration `env:"TRIVIA_FETCH_TIMEOUT" envDefault:"10s"`
	FetchConcurrency int           `env:"TRIVIA_FETCH_CONCURRENCY" envDefault:"6"`
	CycleTimeout     time.Duration `env:"TRIVIA_CYCLE_TIMEOUT" envDefault:"30s"`
	FixtureFile      string        `env:"TRIVIA_FIXTURE_FILE"`

	HistoryDB        string  `env:"HISTORY_DB"`
	OTLPEndpoint     string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TraceSampleRatio float64 `env:"OTEL_TRACES_SAMPLER_ARG" envDefault:"1"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a Config and checks it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings that would make every deal fail.
func (c Config) Validate() error {
	if c.PoolSize < game.NumCategories {
		return fmt.Errorf("TRIVIA_POOL_SIZE must be at least %d, got %d", game.NumCategories, c.PoolSize)
	}
	if c.FetchConcurrency <= 0 {
		return fmt.Errorf("TRIVIA_FETCH_CONCURRENCY must be positive, got %d", c.FetchConcurrency)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("TRIVIA_FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if c.CycleTimeout <= 0 {
		return fmt.Errorf("TRIVIA_CYCLE_TIMEOUT must be positive, got %s", c.CycleTimeout)
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		return fmt.Errorf("OTEL_TRACES_SAMPLER_ARG must be within [0, 1], got %g", c.TraceSampleRatio)
	}
	if c.FixtureFile == "" && c.TriviaAPIURL == "" {
		return fmt.Errorf("TRIVIA_API_URL is empty and no TRIVIA_FIXTURE_FILE is set")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return ":" + c.Port }
