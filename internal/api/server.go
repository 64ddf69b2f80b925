// Package api serves the HTTP surface the campaign wizard talks to.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marden/adrival/internal/config"
	"github.com/marden/adrival/internal/jobs"
	"github.com/marden/adrival/internal/metrics"
	"github.com/marden/adrival/internal/notify"
	"github.com/marden/adrival/internal/repository"
)

// Server is the HTTP API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     *config.ServerConfig
	runner     *jobs.Runner
	jobs       *repository.JobRepository
	campaigns  *repository.CampaignRepository
	variants   *repository.VariantRepository
	recipients *repository.RecipientRepository
	sends      *repository.SendRepository
	notifier   *notify.Notifier
	logger     *slog.Logger
	startTime  time.Time
}

// NewServer creates a new API server
func NewServer(
	cfg *config.ServerConfig,
	runner *jobs.Runner,
	jobsRepo *repository.JobRepository,
	campaigns *repository.CampaignRepository,
	variants *repository.VariantRepository,
	recipients *repository.RecipientRepository,
	sends *repository.SendRepository,
	notifier *notify.Notifier,
	logger *slog.Logger,
) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		config:     cfg,
		runner:     runner,
		jobs:       jobsRepo,
		campaigns:  campaigns,
		variants:   variants,
		recipients: recipients,
		sends:      sends,
		notifier:   notifier,
		logger:     logger,
		startTime:  time.Now(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(metrics.HTTPMiddleware)
	s.router.Use(middleware.Recoverer)

	// Health and metrics (no auth required)
	s.router.Get("/health", s.handleHealth)
	if m := metrics.Global(); m != nil {
		s.router.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
	}

	// API routes (auth required when an API key is configured)
	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/generate", s.handleGenerate)
		r.Post("/send", s.handleSend)
		r.Get("/job/{id}", s.handleJob)
		r.Get("/status", s.handleStatus)

		r.Post("/validate/phone", s.handleValidatePhone)
		r.Post("/validate/email", s.handleValidateEmail)
		r.Post("/parse-competitor-url", s.handleParseCompetitorURL)

		r.Get("/campaigns", s.handleListCampaigns)
		r.Get("/campaigns/{id}", s.handleGetCampaign)
		r.Delete("/campaigns/{id}", s.handleDeleteCampaign)
	})
}

// Router exposes the configured handler for tests.
func (s *Server) Router() http.Handler { return s.router }

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting HTTP API server", "addr", s.config.ListenAddr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP API server")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
