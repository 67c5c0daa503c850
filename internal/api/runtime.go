package api

import (
	"github.com/JaimeStill/moodlog/internal/config"
	"github.com/JaimeStill/moodlog/internal/infrastructure"
	"github.com/JaimeStill/moodlog/pkg/pagination"
)

// Runtime is the slice of service state the API module builds from: the
// shared infrastructure with an api-scoped logger plus the settings the
// mood and detection systems read.
type Runtime struct {
	*infrastructure.Infrastructure
	Store      config.StoreConfig
	Classifier config.ClassifierConfig
	Pagination pagination.Config
}

func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Store:          cfg.Store,
		Classifier:     cfg.Classifier,
		Pagination:     cfg.API.Pagination,
	}
}
