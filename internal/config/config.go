// Package config loads settings from SLPSTATS_* environment variables.
// Command-line flags override them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
)

// Config holds the settings shared by every command.
type Config struct {
	DBPath    string `env:"SLPSTATS_DB"`
	Workers   int    `env:"SLPSTATS_WORKERS" envDefault:"0"`
	LogLevel  string `env:"SLPSTATS_LOG_LEVEL" envDefault:"info"`
	ReplayDir string `env:"SLPSTATS_REPLAY_DIR"`
}

// Load parses the environment and fills the derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, fmt.Errorf("SLPSTATS_LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// DefaultDBPath is ~/.slpstats/stats.db, or a path in the working directory
// when there is no home directory.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".slpstats", "stats.db")
}
