// Package config loads process configuration from the environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds the daemon settings. Everything has a default suitable for
// a desktop install; the UI's own tunables live in the settings table, not
// here.
type Config struct {
	// Addr is the listen address; the server is local-first and should
	// stay bound to loopback.
	Addr string `env:"ARCANA_ADDR" envDefault:"127.0.0.1:8090"`

	// DataDir holds the SQLite database.
	DataDir string `env:"ARCANA_DATA_DIR"`

	// DownloadsDir receives exported backup files on the download
	// fallback path.
	DownloadsDir string `env:"ARCANA_DOWNLOADS_DIR"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"ARCANA_LOG_LEVEL" envDefault:"info"`

	// Compact forces the compact-device classification for default
	// settings and export ordering, overriding per-client detection.
	Compact bool `env:"ARCANA_COMPACT" envDefault:"false"`

	// AllowedOrigin is the SPA origin permitted by CORS.
	AllowedOrigin string `env:"ARCANA_ALLOWED_ORIGIN" envDefault:"http://localhost:3000"`
}

// Load parses the environment and fills in home-relative defaults for the
// directory fields.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(home, ".local", "share", "arcana")
	}
	if cfg.DownloadsDir == "" {
		cfg.DownloadsDir = filepath.Join(home, "Downloads")
	}

	return cfg, nil
}
