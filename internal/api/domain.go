package api

import (
	"context"
	"fmt"

	"github.com/JaimeStill/moodlog/internal/config"
	"github.com/JaimeStill/moodlog/internal/detection"
	"github.com/JaimeStill/moodlog/internal/moods"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Moods     moods.System
	Detection detection.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	store, err := newStore(runtime)
	if err != nil {
		return nil, err
	}

	backend, err := newBackend(runtime.Classifier)
	if err != nil {
		return nil, err
	}

	moodsSystem := moods.New(
		store,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	detectionSystem := detection.New(
		backend,
		moodsSystem,
		runtime.Logger,
		runtime.Classifier.TimeoutDuration(),
	)

	return &Domain{
		Moods:     moodsSystem,
		Detection: detectionSystem,
	}, nil
}

func newStore(runtime *Runtime) (moods.Store, error) {
	switch runtime.Store.Driver {
	case config.DriverPostgres:
		if runtime.Database == nil {
			return nil, fmt.Errorf("store driver %q has no database connection", runtime.Store.Driver)
		}
		return moods.NewPostgresStore(runtime.Database.Connection(), runtime.Store.MaxScan), nil
	case config.DriverMongo:
		if runtime.Mongo == nil {
			return nil, fmt.Errorf("store driver %q has no mongodb connection", runtime.Store.Driver)
		}
		coll := runtime.Mongo.Collection()
		logger := runtime.Logger

		runtime.Lifecycle.OnStartup("mood indexes", func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, indexTimeout)
			defer cancel()
			if err := moods.EnsureMongoIndexes(ctx, coll); err != nil {
				logger.Error("mood entry index creation failed", "error", err)
				return err
			}
			return nil
		})

		return moods.NewMongoStore(coll, runtime.Store.MaxScan, logger), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", runtime.Store.Driver)
	}
}

func newBackend(cfg config.ClassifierConfig) (detection.Backend, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return detection.NewOpenAIBackend(cfg.Token, cfg.BaseURL, cfg.Model, cfg.MaxTokens), nil
	case config.ProviderAnthropic:
		return detection.NewAnthropicBackend(cfg.Token, cfg.BaseURL, cfg.Model, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unsupported classifier provider %q", cfg.Provider)
	}
}
