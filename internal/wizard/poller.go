package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/marden/adrival/internal/models"
)

// ErrPollTimeout is reported when a job never reaches a terminal status
// within the attempt ceiling.
var ErrPollTimeout = errors.New("job did not finish within the polling window")

// Policy controls poll pacing. Backoff multiplies the interval after
// every attempt; 1.0 keeps it fixed.
type Policy struct {
	Interval    time.Duration
	MaxAttempts int
	Backoff     float64
}

// DefaultPolicy polls every 5 seconds for up to 60 attempts, a five
// minute ceiling.
func DefaultPolicy() Policy {
	return Policy{
		Interval:    5 * time.Second,
		MaxAttempts: 60,
		Backoff:     1.0,
	}
}

// FetchJob retrieves the current job state. Returning an error means a
// transport failure and ends the poll immediately.
type FetchJob func(ctx context.Context) (*models.Job, error)

// Poll is a handle on one running poll loop.
type Poll struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel stops the loop; no further requests are issued. It is safe to
// call after the loop has already finished.
func (p *Poll) Cancel() {
	p.cancel()
	<-p.done
}

// Wait blocks until the loop ends for any reason.
func (p *Poll) Wait() { <-p.done }

// StartPoll launches a poll loop for one job. Exactly one of onResult or
// onError fires unless the poll is cancelled first:
//   - job finished: onResult with the job's result payload
//   - job failed: onError with the job's recorded error
//   - transport failure: onError immediately, no retry
//   - attempts exhausted: onError with ErrPollTimeout
func StartPoll(ctx context.Context, policy Policy, fetch FetchJob, onResult func(json.RawMessage), onError func(error)) *Poll {
	if policy.Interval <= 0 {
		policy.Interval = DefaultPolicy().Interval
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultPolicy().MaxAttempts
	}
	if policy.Backoff < 1.0 {
		policy.Backoff = 1.0
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Poll{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		defer cancel()

		interval := policy.Interval
		for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
			select {
			case <-ctx.Done():
				return
			case <-time.After(interval):
			}
			interval = time.Duration(float64(interval) * policy.Backoff)

			job, err := fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				onError(err)
				return
			}
			if job == nil {
				onError(errors.New("job not found"))
				return
			}

			switch job.Status {
			case models.JobStatusFinished:
				onResult(job.Result)
				return
			case models.JobStatusFailed:
				onError(errors.New(job.Error))
				return
			}
		}
		onError(ErrPollTimeout)
	}()

	return p
}
