package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"

	EnvStoreDriver  = "MOODLOG_STORE_DRIVER"
	EnvStoreMaxScan = "MOODLOG_STORE_MAX_SCAN"
)

// StoreConfig selects the mood record backend and bounds full scans.
type StoreConfig struct {
	Driver  string `toml:"driver"`
	MaxScan int    `toml:"max_scan"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *StoreConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *StoreConfig) Merge(overlay *StoreConfig) {
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
	if overlay.MaxScan != 0 {
		c.MaxScan = overlay.MaxScan
	}
}

func (c *StoreConfig) loadDefaults() {
	if c.Driver == "" {
		c.Driver = DriverPostgres
	}
	if c.MaxScan == 0 {
		c.MaxScan = 1000
	}
}

func (c *StoreConfig) loadEnv() {
	if v := os.Getenv(EnvStoreDriver); v != "" {
		c.Driver = v
	}
	if v := os.Getenv(EnvStoreMaxScan); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxScan = n
		}
	}
}

func (c *StoreConfig) validate() error {
	switch c.Driver {
	case DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("unsupported driver %q (want %s or %s)", c.Driver, DriverPostgres, DriverMongo)
	}
	if c.MaxScan < 1 {
		return fmt.Errorf("max_scan must be positive: %d", c.MaxScan)
	}
	return nil
}
