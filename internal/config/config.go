// Package config loads the application configuration from an optional
// TOML file layered over built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the runtime settings for the server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`
	// Database is the path to the SQLite database file.
	Database string `toml:"database"`
	// SessionHours is the lifetime of a login session cookie.
	SessionHours int `toml:"session_hours"`
}

// Default returns the built-in configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:         ":8080",
		Database:     "microblog.db",
		SessionHours: 24,
	}
}

// Load returns the defaults overlaid with the TOML file at path, if any.
// An empty path means defaults only. The PORT environment variable, when
// set, overrides the listen address.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// SessionLifetime returns the configured session duration.
func (c Config) SessionLifetime() time.Duration {
	return time.Duration(c.SessionHours) * time.Hour
}

func (c Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr must not be empty")
	}
	if c.Database == "" {
		return fmt.Errorf("config: database must not be empty")
	}
	if c.SessionHours <= 0 {
		return fmt.Errorf("config: session_hours must be positive, got %d", c.SessionHours)
	}
	return nil
}
