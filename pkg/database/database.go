// Package database manages the PostgreSQL pool behind the mood store. The
// pgx stdlib driver is registered through otelsql so queries are traced.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/JaimeStill/moodlog/pkg/lifecycle"
)

var registerDriver = sync.OnceValues(func() (string, error) {
	return otelsql.Register(
		"pgx",
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
	)
})

// pingInterval spaces connection attempts during startup.
const pingInterval = 500 * time.Millisecond

// System is a pooled PostgreSQL connection tied to the service lifecycle.
type System interface {
	Connection() *sql.DB
	// Start registers a startup hook that waits for the server to answer
	// and a shutdown hook that closes the pool.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
}

// New opens the pool without connecting. Pool limits come from cfg.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	driver, err := registerDriver()
	if err != nil {
		return nil, fmt.Errorf("register instrumented driver: %w", err)
	}

	db, err := sql.Open(driver, cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		logger:      logger.With("system", "database", "host", cfg.Host, "db", cfg.Name),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup("database", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, d.connTimeout)
		defer cancel()

		if err := d.waitForServer(ctx); err != nil {
			d.logger.Error("database unreachable", "error", err)
			return err
		}

		if err := otelsql.RecordStats(d.conn); err != nil {
			d.logger.Warn("database stats instrumentation failed", "error", err)
		}

		d.logger.Info("database connection established")
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		stats := d.conn.Stats()
		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database connection closed",
			"open", stats.OpenConnections,
			"wait_count", stats.WaitCount,
			"wait", stats.WaitDuration,
		)
	})

	return nil
}

// waitForServer pings until the server answers or ctx ends, so a database
// container that starts alongside the service is not reported as failed.
func (d *database) waitForServer(ctx context.Context) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		err := d.conn.PingContext(ctx)
		if err == nil {
			return nil
		}
		d.logger.Debug("database ping failed", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("ping after %d attempts: %w", attempt, err)
		case <-ticker.C:
		}
	}
}
