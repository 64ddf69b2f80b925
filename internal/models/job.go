package models

import (
	"encoding/json"
	"time"
)

// Job kinds
const (
	JobKindGenerate = "generate"
	JobKindSend     = "send"
)

// Job statuses
const (
	JobStatusPending  = "pending"
	JobStatusRunning  = "running"
	JobStatusFinished = "finished"
	JobStatusFailed   = "failed"
)

// Job is one asynchronous unit of server-side work (generation or dispatch),
// persisted so clients can poll it to completion.
type Job struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Status     string          `json:"status"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// Terminal reports whether the job has reached a final state.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusFinished || j.Status == JobStatusFailed
}
