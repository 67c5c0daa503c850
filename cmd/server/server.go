package main

import (
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/JaimeStill/moodlog/internal/config"
	"github.com/JaimeStill/moodlog/internal/infrastructure"
)

// Server owns the process-wide subsystems and the listener in front of them.
type Server struct {
	infra  *infrastructure.Infrastructure
	logger *slog.Logger
	http   *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info("moodlog configured",
		"version", cfg.Version,
		"env", cfg.Env(),
		"addr", cfg.Server.Addr(),
		"store", cfg.Store.Driver,
		"classifier", cfg.Classifier.Provider,
		"modules", router.Prefixes(),
	)

	return &Server{
		infra:  infra,
		logger: infra.Logger,
		http:   newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start launches subsystem startup hooks and the listener, then reports
// readiness in the background once every hook has returned.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go s.reportReadiness()
	return nil
}

func (s *Server) reportReadiness() {
	lc := s.infra.Lifecycle
	lc.WaitForStartup()

	failures := lc.Failures()
	if len(failures) == 0 {
		s.logger.Info("all subsystems ready")
		return
	}
	for _, name := range slices.Sorted(maps.Keys(failures)) {
		s.logger.Error("subsystem failed to start", "subsystem", name, "error", failures[name])
	}
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.logger.Info("shutting down", "timeout", timeout)
	return s.infra.Lifecycle.Shutdown(timeout)
}
