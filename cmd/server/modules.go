package main

import (
	"maps"
	"net/http"
	"slices"

	"github.com/JaimeStill/moodlog/internal/api"
	"github.com/JaimeStill/moodlog/internal/config"
	"github.com/JaimeStill/moodlog/internal/infrastructure"
	"github.com/JaimeStill/moodlog/pkg/handlers"
	"github.com/JaimeStill/moodlog/pkg/middleware"
	"github.com/JaimeStill/moodlog/pkg/module"
	"github.com/JaimeStill/moodlog/web/scalar"
)

// Modules holds the mounted HTTP modules.
type Modules struct {
	API    *module.Module
	Scalar *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	scalarModule := scalar.NewModule(
		"/scalar",
		cfg.API.OpenAPI.Title,
		cfg.API.BasePath+"/openapi.json",
	)
	scalarModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:    apiModule,
		Scalar: scalarModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Scalar)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
			return
		}

		handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not ready",
			"failed": slices.Sorted(maps.Keys(infra.Lifecycle.Failures())),
		})
	})

	return router
}
