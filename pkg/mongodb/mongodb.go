// Package mongodb provides MongoDB client management with lifecycle coordination.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/JaimeStill/moodlog/pkg/lifecycle"
)

// System manages a MongoDB client and lifecycle coordination.
type System interface {
	// Collection returns the configured collection handle.
	Collection() *mongo.Collection
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type client struct {
	client      *mongo.Client
	collection  *mongo.Collection
	logger      *slog.Logger
	connTimeout time.Duration
}

// New creates a MongoDB system. The driver connects lazily, so New only
// fails on an invalid URI or options.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetConnectTimeout(cfg.ConnTimeoutDuration())

	c, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}

	return &client{
		client:      c,
		collection:  c.Database(cfg.Database).Collection(cfg.Collection),
		logger:      logger.With("system", "mongodb"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (c *client) Collection() *mongo.Collection {
	return c.collection
}

func (c *client) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting mongodb connection")

	lc.OnStartup("mongodb", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, c.connTimeout)
		defer cancel()

		if err := c.client.Ping(pingCtx, readpref.Primary()); err != nil {
			c.logger.Error("mongodb ping failed", "error", err)
			return fmt.Errorf("ping: %w", err)
		}

		c.logger.Info("mongodb connection established", "collection", c.collection.Name())
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		c.logger.Info("closing mongodb connection")

		ctx, cancel := context.WithTimeout(context.Background(), c.connTimeout)
		defer cancel()

		if err := c.client.Disconnect(ctx); err != nil {
			c.logger.Error("mongodb disconnect failed", "error", err)
			return
		}

		c.logger.Info("mongodb connection closed")
	})

	return nil
}
