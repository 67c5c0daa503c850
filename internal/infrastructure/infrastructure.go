// Package infrastructure builds the shared systems every domain module
// depends on: the logger, the lifecycle coordinator, the record store
// connection for the configured driver, and optional archive storage.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/moodlog/internal/config"
	"github.com/JaimeStill/moodlog/pkg/database"
	"github.com/JaimeStill/moodlog/pkg/lifecycle"
	"github.com/JaimeStill/moodlog/pkg/mongodb"
	"github.com/JaimeStill/moodlog/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Exactly one of Database and Mongo is non-nil, matching the store driver.
// Storage is nil unless archive storage is enabled.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Mongo     mongodb.System
	Storage   storage.System
}

// starter is the lifecycle registration shared by every backing system.
type starter interface {
	Start(lc *lifecycle.Coordinator) error
}

// New constructs every configured system without connecting to any of
// them. Connections are attempted by the startup hooks registered in Start.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := NewLogger(&cfg.Logging, os.Stderr)

	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
	}

	var err error
	switch cfg.Store.Driver {
	case config.DriverMongo:
		infra.Mongo, err = mongodb.New(&cfg.Mongo, logger)
	default:
		infra.Database, err = database.New(&cfg.Database, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("%s store: %w", cfg.Store.Driver, err)
	}

	if cfg.Storage.Enabled {
		if infra.Storage, err = storage.New(&cfg.Storage, logger); err != nil {
			return nil, fmt.Errorf("archive storage: %w", err)
		}
	}

	return infra, nil
}

// NewLogger returns the service logger for cfg, writing to w.
func NewLogger(cfg *config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Start registers each configured system's startup and shutdown hooks.
func (i *Infrastructure) Start() error {
	systems := []struct {
		name string
		sys  starter
	}{
		{"database", i.Database},
		{"mongodb", i.Mongo},
		{"storage", i.Storage},
	}

	for _, s := range systems {
		if s.sys == nil {
			continue
		}
		if err := s.sys.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("%s start failed: %w", s.name, err)
		}
	}
	return nil
}
