package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/moodlog/internal/config"
	"github.com/JaimeStill/moodlog/pkg/handlers"
	"github.com/JaimeStill/moodlog/pkg/openapi"
	"github.com/JaimeStill/moodlog/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	spec := openapi.NewSpec(&cfg.API.OpenAPI, cfg.Version)

	groups := []routes.Group{
		domain.Moods.Handler().Routes(),
		domain.Detection.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
	}

	if runtime.Storage != nil {
		groups = append(groups, newStorageHandler(
			runtime.Storage,
			runtime.Logger,
			cfg.Storage.MaxListSize,
		).routes())
	}

	if err := routes.Register(mux, cfg.API.BasePath, spec, groups...); err != nil {
		return fmt.Errorf("publish routes: %w", err)
	}

	serveSpec, err := spec.Handler()
	if err != nil {
		return err
	}

	mux.HandleFunc("GET /openapi.json", serveSpec)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "Mood Tracker API",
			"version": cfg.Version,
		})
	})

	return nil
}
