// Package app wires configuration, storage, providers, the background
// worker and the HTTP API into one runnable unit.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marden/adrival/internal/adgen"
	"github.com/marden/adrival/internal/api"
	"github.com/marden/adrival/internal/config"
	"github.com/marden/adrival/internal/db"
	"github.com/marden/adrival/internal/intel"
	"github.com/marden/adrival/internal/jobs"
	"github.com/marden/adrival/internal/metrics"
	"github.com/marden/adrival/internal/models"
	"github.com/marden/adrival/internal/notify"
	"github.com/marden/adrival/internal/repository"
)

// Options selects which components Run starts.
type Options struct {
	API    bool
	Worker bool
}

// App is the main application
type App struct {
	config    *config.Config
	db        *db.DB
	redis     *redis.Client
	apiServer *api.Server
	worker    *jobs.Worker
	logger    *slog.Logger
	opts      Options
}

// New creates a new application
func New(cfg *config.Config, opts Options) (*App, error) {
	logger := setupLogger(cfg.Logging)

	m := metrics.New()
	metrics.SetGlobal(m)

	database, err := db.New(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	// Optional generation cache
	var cache adgen.Cache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache = adgen.NewRedisCache(redisClient, cfg.Redis.CacheTTL, logger.With("component", "cache"))
		logger.Info("generation cache enabled", "addr", cfg.Redis.Addr)
	}

	// Ad generation provider
	var provider adgen.Provider
	if cfg.AIConfigured() {
		provider = adgen.NewOpenAIProvider(adgen.OpenAIConfig{
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			MaxRetries:  cfg.AI.MaxRetries,
			RetryDelay:  cfg.AI.RetryDelay,
		}, logger.With("component", "adgen"))
	} else {
		logger.Warn("AI provider not configured, generation will use fallback ads")
		provider = unavailableProvider{}
	}
	generator := adgen.New(provider, cache, cfg.AI.RequestGap, logger.With("component", "adgen"))

	// Delivery channels
	var smsSender notify.SMSSender
	if cfg.SMSConfigured() {
		smsSender = notify.NewTwilioSender(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.FromNumber)
	}
	var emailSender notify.EmailSender
	if cfg.EmailConfigured() {
		emailSender = notify.NewSendGridSender(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	}
	notifier := notify.New(smsSender, emailSender, logger.With("component", "notify"))

	// Competitor site scraping for prompt enrichment
	gatherer := intel.NewScraper(0, logger)

	// Repositories
	campaigns := repository.NewCampaignRepository(database.DB)
	variants := repository.NewVariantRepository(database.DB)
	recipients := repository.NewRecipientRepository(database.DB)
	sends := repository.NewSendRepository(database.DB)
	jobsRepo := repository.NewJobRepository(database.DB)

	handlers := jobs.NewHandlers(generator, gatherer, notifier, campaigns, variants, recipients, sends,
		logger.With("component", "jobs"))
	runner := jobs.NewRunner(handlers, jobsRepo, cfg.Worker.Enabled, logger.With("component", "runner"))

	var worker *jobs.Worker
	if opts.Worker && cfg.Worker.Enabled {
		worker = jobs.NewWorker(jobs.WorkerConfig{
			PollInterval: cfg.Worker.PollInterval,
			Concurrency:  cfg.Worker.Concurrency,
		}, jobsRepo, handlers, logger)
	}

	var apiServer *api.Server
	if opts.API {
		apiServer = api.NewServer(&cfg.Server, runner, jobsRepo,
			campaigns, variants, recipients, sends, notifier,
			logger.With("component", "api"))
	}

	return &App{
		config:    cfg,
		db:        database,
		redis:     redisClient,
		apiServer: apiServer,
		worker:    worker,
		logger:    logger,
		opts:      opts,
	}, nil
}

// Run starts the selected components and waits for shutdown
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting adrival",
		"api", a.opts.API,
		"worker", a.worker != nil,
		"listen_addr", a.config.Server.ListenAddr,
	)

	// Create context that listens for signals
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if a.worker != nil {
		a.worker.Start()
	}

	errCh := make(chan error, 1)
	if a.apiServer != nil {
		go func() {
			if err := a.apiServer.ListenAndServe(); err != nil {
				errCh <- fmt.Errorf("api server: %w", err)
			}
		}()
	}

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.logger.Error("server error", "error", err)
		cancel()
	}

	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down all components
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Stop the worker first so in-flight jobs finish cleanly.
	if a.worker != nil {
		a.worker.Stop()
	}

	if a.apiServer != nil {
		if err := a.apiServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("api server shutdown error", "error", err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("database close error", "error", err)
	}

	a.logger.Info("shutdown complete")
	return nil
}

// Migrate opens the database and applies the schema.
func Migrate(cfg *config.Config) error {
	logger := setupLogger(cfg.Logging)

	database, err := db.New(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := database.Ping(context.Background()); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if err := database.Migrate(); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}

// unavailableProvider fails every call so the generator serves its
// fallback ads when no AI key is configured.
type unavailableProvider struct{}

func (unavailableProvider) GenerateAd(context.Context, adgen.Prompt) (models.Ad, error) {
	return models.Ad{}, errors.New("ai provider not configured")
}

// setupLogger creates a logger based on configuration
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
