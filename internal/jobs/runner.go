package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/marden/adrival/internal/repository"
)

// Outcome is what Do returns: a job ID when the work was queued for the
// background worker, or the inline result when it was not.
type Outcome struct {
	JobID  string
	Result any
}

// Queued reports whether the work was handed to the background worker.
func (o Outcome) Queued() bool { return o.JobID != "" }

// Runner routes work to the job queue when the background worker is
// enabled and falls back to running it inline otherwise, so the API
// behaves the same with or without a worker.
type Runner struct {
	handlers *Handlers
	jobs     *repository.JobRepository
	async    bool
	logger   *slog.Logger
}

func NewRunner(handlers *Handlers, jobs *repository.JobRepository, async bool, logger *slog.Logger) *Runner {
	if jobs == nil {
		async = false
	}
	return &Runner{
		handlers: handlers,
		jobs:     jobs,
		async:    async,
		logger:   logger,
	}
}

// Async reports whether work is queued rather than run inline.
func (r *Runner) Async() bool { return r.async }

// Do executes or enqueues one unit of work of the given kind.
func (r *Runner) Do(ctx context.Context, kind string, payload any) (Outcome, error) {
	if r.async {
		job, err := r.jobs.Enqueue(kind, payload)
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to enqueue %s job: %w", kind, err)
		}
		r.logger.Info("job enqueued", "job_id", job.ID, "kind", kind)
		return Outcome{JobID: job.ID}, nil
	}

	raw, err := marshalPayload(payload)
	if err != nil {
		return Outcome{}, err
	}
	result, err := r.handlers.Handle(ctx, kind, raw)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Result: result}, nil
}

func marshalPayload(payload any) (json.RawMessage, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return raw, nil
}
