package mongodb

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds MongoDB connection parameters.
type Config struct {
	URI         string `toml:"uri"`
	Database    string `toml:"database"`
	Collection  string `toml:"collection"`
	MaxPoolSize uint64 `toml:"max_pool_size"`
	ConnTimeout string `toml:"conn_timeout"`
}

// Env maps config fields to environment variable names.
type Env struct {
	URI         string
	Database    string
	Collection  string
	MaxPoolSize string
	ConnTimeout string
}

// ConnTimeoutDuration returns ConnTimeout as a time.Duration.
func (c *Config) ConnTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.URI != "" {
		c.URI = overlay.URI
	}
	if overlay.Database != "" {
		c.Database = overlay.Database
	}
	if overlay.Collection != "" {
		c.Collection = overlay.Collection
	}
	if overlay.MaxPoolSize != 0 {
		c.MaxPoolSize = overlay.MaxPoolSize
	}
	if overlay.ConnTimeout != "" {
		c.ConnTimeout = overlay.ConnTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.URI == "" {
		c.URI = "mongodb://localhost:27017"
	}
	if c.Database == "" {
		c.Database = "moodlog"
	}
	if c.Collection == "" {
		c.Collection = "mood_entries"
	}
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = 25
	}
	if c.ConnTimeout == "" {
		c.ConnTimeout = "5s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.URI); env.URI != "" && v != "" {
		c.URI = v
	}
	if v := os.Getenv(env.Database); env.Database != "" && v != "" {
		c.Database = v
	}
	if v := os.Getenv(env.Collection); env.Collection != "" && v != "" {
		c.Collection = v
	}
	if v := os.Getenv(env.MaxPoolSize); env.MaxPoolSize != "" && v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.MaxPoolSize = n
		}
	}
	if v := os.Getenv(env.ConnTimeout); env.ConnTimeout != "" && v != "" {
		c.ConnTimeout = v
	}
}

func (c *Config) validate() error {
	if c.Database == "" {
		return fmt.Errorf("database required")
	}
	if c.Collection == "" {
		return fmt.Errorf("collection required")
	}
	if _, err := time.ParseDuration(c.ConnTimeout); err != nil {
		return fmt.Errorf("invalid conn_timeout: %w", err)
	}
	return nil
}
