package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/openrevenue/harrier/internal/domain"
	"github.com/openrevenue/harrier/internal/rules"
)

// Server represents the HTTP API server.
type Server struct {
	router  *chi.Mux
	handler *Handler
	server  *http.Server
	config  domain.ServerConfig
}

// NewServer creates a new API server.
func NewServer(cfg domain.ServerConfig, repo domain.Repository, cache domain.Cache, bus domain.EventBus, engine *rules.Engine, runner Runner, version string) *Server {
	handler := NewHandler(repo, cache, bus, engine, runner, version)
	router := chi.NewRouter()

	// Global middleware stack
	router.Use(CORSMiddleware)         // CORS for browser clients
	router.Use(RecoverMiddleware)      // Recover from panics
	router.Use(TracingMiddleware)      // OpenTelemetry tracing
	router.Use(LoggingMiddleware)      // Request logging
	router.Use(middleware.RealIP)      // Extract real IP
	router.Use(middleware.Compress(5)) // Gzip compression

	// Health endpoints
	router.Get("/health", handler.Health)
	router.Get("/ready", handler.Ready)

	// Run lifecycle
	router.Post("/runs", handler.TriggerRun)
	router.Get("/runs/{id}", handler.GetRun)

	// Alert queries and investigation workflow
	router.Get("/alerts", handler.ListAlerts)
	router.Get("/alerts/{key}", handler.GetAlert)
	router.Patch("/alerts/{key}", handler.UpdateAlert)

	// Derived data
	router.Get("/compliance/{taxpayerID}", handler.GetCompliance)
	router.Get("/cohorts", handler.ListCohorts)

	// Screening rule management
	router.Get("/screening-rules", handler.ListScreeningRules)
	router.Post("/screening-rules", handler.CreateScreeningRule)
	router.Post("/screening-rules/reload", handler.ReloadScreeningRules)

	return &Server{
		router:  router,
		handler: handler,
		config:  cfg,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Handler returns the handler for testing.
func (s *Server) Handler() *Handler {
	return s.handler
}
