// Package config loads the operational settings of a settlement deployment
// from the environment: where the listing mirror lives, how chatty the logs
// are, and when an open settlement counts as stale.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

// Config holds every externally tunable setting.
type Config struct {
	// DataDir is the directory holding the bbolt listing mirror.
	DataDir string `env:"OPENTRADE_DATA_DIR" envDefault:"./data"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"OPENTRADE_LOG_LEVEL" envDefault:"info"`

	// StaleThreshold is how long a settlement may stay open before the
	// monitor flags it.
	StaleThreshold time.Duration `env:"OPENTRADE_STALE_THRESHOLD" envDefault:"1h"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level parses the configured log level into a logrus level.
func (c Config) Level() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return level, nil
}
