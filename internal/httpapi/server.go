package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ytget/ytweb/internal/config"
	"github.com/ytget/ytweb/internal/download"
	"github.com/ytget/ytweb/internal/logging"
	"github.com/ytget/ytweb/internal/sizing"
	"github.com/ytget/ytweb/internal/ui"
)

// APIPrefix is where the JSON API is mounted
const APIPrefix = "/api"

// Deps are the services the handlers drive
type Deps struct {
	Extractor sizing.Extractor
	Analyzer  sizing.Analyzer
	Downloads download.Downloader
	Renderer  *ui.Renderer
	// Preset is used when a download form names neither a selector nor a mode
	Preset config.QualityPreset
}

// Server represents the HTTP server.
type Server struct {
	config     config.ServerConfig
	deps       Deps
	router     *chi.Mux
	api        huma.API
	httpServer *http.Server
	version    string
	startTime  time.Time
}

// NewServer builds the router with every route registered
func NewServer(cfg config.ServerConfig, deps Deps, version string) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{
		config:    cfg,
		deps:      deps,
		router:    chi.NewRouter(),
		version:   version,
		startTime: time.Now(),
	}

	s.router.Use(chimiddleware.RealIP)
	s.router.Use(requestID)
	s.router.Use(accessLog)
	s.router.Use(recovery)

	heavy := rateLimit(cfg.RateLimit, cfg.RateWindow)

	s.router.Get("/", s.handleIndex)
	s.router.Post("/inspect", s.handleInspect)
	s.router.With(heavy).Post("/analyze", s.handleAnalyze)
	s.router.With(heavy).Post("/download", s.handleDownload)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route(APIPrefix, func(r chi.Router) {
		r.Use(corsHandler(cfg.CORSOrigins))
		r.Use(limitPosts(heavy))

		humaConfig := huma.DefaultConfig("ytweb API", version)
		humaConfig.Info.Description = "Format inspection, playlist size estimation and download status"
		humaConfig.Servers = []*huma.Server{{URL: APIPrefix}}
		s.api = humachi.New(r, humaConfig)
		s.registerAPI(s.api)
	})

	s.httpServer = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// API returns the Huma API instance
func (s *Server) API() huma.API {
	return s.api
}

// Start listens on the configured address and blocks until the server stops.
func (s *Server) Start() error {
	addr := s.httpServer.Addr
	logging.Info().Str("address", addr).Str("version", s.version).Msg("starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info().Dur("timeout", s.config.ShutdownTimeout).Msg("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	logging.Info().Msg("HTTP server stopped")
	return nil
}

// ListenAndServe runs the server until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}
