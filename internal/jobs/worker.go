package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/marden/adrival/internal/metrics"
	"github.com/marden/adrival/internal/models"
	"github.com/marden/adrival/internal/repository"
)

// WorkerConfig holds worker tuning parameters.
type WorkerConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// DefaultWorkerConfig returns sane defaults.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 2 * time.Second,
		Concurrency:  4,
	}
}

// Worker polls the jobs table and executes claimed jobs. Claims use
// FOR UPDATE SKIP LOCKED, so multiple workers can share one database.
type Worker struct {
	cfg      WorkerConfig
	jobs     *repository.JobRepository
	handlers *Handlers
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	sem    chan struct{}
}

func NewWorker(cfg WorkerConfig, jobs *repository.JobRepository, handlers *Handlers, logger *slog.Logger) *Worker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultWorkerConfig().PollInterval
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultWorkerConfig().Concurrency
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		cfg:      cfg,
		jobs:     jobs,
		handlers: handlers,
		logger:   logger.With("component", "worker"),
		ctx:      ctx,
		cancel:   cancel,
		sem:      make(chan struct{}, cfg.Concurrency),
	}
}

// Start launches the poll loop.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
	w.logger.Info("worker started",
		"poll_interval", w.cfg.PollInterval,
		"concurrency", w.cfg.Concurrency)
}

// Stop signals the worker to stop and waits for in-flight jobs.
func (w *Worker) Stop() {
	w.cancel()
	w.wg.Wait()
	w.logger.Info("worker stopped")
}

func (w *Worker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.drain()
		}
	}
}

// drain claims and dispatches pending jobs until the queue is empty or
// the worker is stopping.
func (w *Worker) drain() {
	for {
		if w.ctx.Err() != nil {
			return
		}

		job, err := w.jobs.ClaimNext()
		if err != nil {
			w.logger.Error("failed to claim job", "error", err)
			return
		}
		if job == nil {
			return
		}

		select {
		case w.sem <- struct{}{}:
		case <-w.ctx.Done():
			// Leave the claimed job for crash recovery tooling.
			w.logger.Warn("shutting down with claimed job", "job_id", job.ID)
			return
		}

		w.wg.Add(1)
		go func(id, kind string, payload json.RawMessage) {
			defer w.wg.Done()
			defer func() { <-w.sem }()
			w.process(id, kind, payload)
		}(job.ID, job.Kind, job.Payload)
	}
}

func (w *Worker) process(id, kind string, payload json.RawMessage) {
	start := time.Now()
	w.logger.Info("processing job", "job_id", id, "kind", kind)

	result, err := w.handlers.Handle(w.ctx, kind, payload)
	if err != nil {
		w.logger.Error("job failed", "job_id", id, "kind", kind, "error", err)
		metrics.IncJobsProcessed(kind, models.JobStatusFailed)
		if ferr := w.jobs.Fail(id, err.Error()); ferr != nil {
			w.logger.Error("failed to mark job failed", "job_id", id, "error", ferr)
		}
		return
	}

	metrics.IncJobsProcessed(kind, models.JobStatusFinished)
	if err := w.jobs.Finish(id, result); err != nil {
		w.logger.Error("failed to mark job finished", "job_id", id, "error", err)
		return
	}
	w.logger.Info("job finished", "job_id", id, "kind", kind,
		"duration", time.Since(start).Round(time.Millisecond).String())
}
