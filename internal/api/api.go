// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"
	"time"

	"github.com/JaimeStill/moodlog/internal/config"
	"github.com/JaimeStill/moodlog/internal/infrastructure"
	"github.com/JaimeStill/moodlog/pkg/middleware"
	"github.com/JaimeStill/moodlog/pkg/module"
)

const indexTimeout = 10 * time.Second

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.RequestID())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))

	return m, nil
}
