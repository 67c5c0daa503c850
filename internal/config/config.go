package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/moodlog/pkg/database"
	"github.com/JaimeStill/moodlog/pkg/mongodb"
	"github.com/JaimeStill/moodlog/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvMoodlogEnv             = "MOODLOG_ENV"
	EnvMoodlogShutdownTimeout = "MOODLOG_SHUTDOWN_TIMEOUT"
	EnvMoodlogVersion         = "MOODLOG_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "MOODLOG_DB_HOST",
	Port:            "MOODLOG_DB_PORT",
	Name:            "MOODLOG_DB_NAME",
	User:            "MOODLOG_DB_USER",
	Password:        "MOODLOG_DB_PASSWORD",
	SSLMode:         "MOODLOG_DB_SSL_MODE",
	ApplicationName: "MOODLOG_DB_APPLICATION_NAME",
	MaxOpenConns:    "MOODLOG_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "MOODLOG_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "MOODLOG_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "MOODLOG_DB_CONN_TIMEOUT",
}

var mongoEnv = &mongodb.Env{
	URI:         "MOODLOG_MONGO_URI",
	Database:    "MOODLOG_MONGO_DATABASE",
	Collection:  "MOODLOG_MONGO_COLLECTION",
	MaxPoolSize: "MOODLOG_MONGO_MAX_POOL_SIZE",
	ConnTimeout: "MOODLOG_MONGO_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Enabled:          "MOODLOG_STORAGE_ENABLED",
	ContainerName:    "MOODLOG_STORAGE_CONTAINER_NAME",
	ConnectionString: "MOODLOG_STORAGE_CONNECTION_STRING",
	ServiceURL:       "MOODLOG_STORAGE_SERVICE_URL",
	MaxListSize:      "MOODLOG_STORAGE_MAX_LIST_SIZE",
}

// Config is the root configuration for the moodlog service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Logging         LoggingConfig    `toml:"logging"`
	Store           StoreConfig      `toml:"store"`
	Database        database.Config  `toml:"database"`
	Mongo           mongodb.Config   `toml:"mongo"`
	Storage         storage.Config   `toml:"storage"`
	Classifier      ClassifierConfig `toml:"classifier"`
	API             APIConfig        `toml:"api"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the MOODLOG_ENV value, defaulting to "local".
func (c *Config) Env() string {
	return cmp.Or(os.Getenv(EnvMoodlogEnv), "local")
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load builds the service configuration in three layers: config.toml when
// present, the config.<env>.toml overlay, then defaults and environment
// variables applied per section.
func Load() (*Config, error) {
	cfg, err := loadOptional(BaseConfigFile)
	if err != nil {
		return nil, err
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	c.ShutdownTimeout = cmp.Or(overlay.ShutdownTimeout, c.ShutdownTimeout)
	c.Version = cmp.Or(overlay.Version, c.Version)

	c.Server.Merge(&overlay.Server)
	c.Logging.Merge(&overlay.Logging)
	c.Store.Merge(&overlay.Store)
	c.Database.Merge(&overlay.Database)
	c.Mongo.Merge(&overlay.Mongo)
	c.Storage.Merge(&overlay.Storage)
	c.Classifier.Merge(&overlay.Classifier)
	c.API.Merge(&overlay.API)
}

// section pairs a config table with its finalizer.
type section struct {
	name     string
	finalize func() error
}

// sections lists finalizers in dependency order: store runs before the
// record backends because the driver decides which one must be valid.
func (c *Config) sections() []section {
	return []section{
		{"server", c.Server.Finalize},
		{"logging", c.Logging.Finalize},
		{"store", c.Store.Finalize},
		{"database", func() error {
			if c.Store.Driver != DriverPostgres {
				return nil
			}
			return c.Database.Finalize(databaseEnv)
		}},
		{"mongo", func() error {
			if c.Store.Driver != DriverMongo {
				return nil
			}
			return c.Mongo.Finalize(mongoEnv)
		}},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"classifier", c.Classifier.Finalize},
		{"api", c.API.Finalize},
	}
}

func (c *Config) finalize() error {
	c.ShutdownTimeout = cmp.Or(os.Getenv(EnvMoodlogShutdownTimeout), c.ShutdownTimeout, "30s")
	c.Version = cmp.Or(os.Getenv(EnvMoodlogVersion), c.Version, "0.1.0")

	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}

	for _, s := range c.sections() {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func loadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return load(path)
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func overlayPath() string {
	env := os.Getenv(EnvMoodlogEnv)
	if env == "" {
		return ""
	}
	path := fmt.Sprintf(OverlayConfigPattern, env)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
