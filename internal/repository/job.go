package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marden/adrival/internal/models"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Enqueue persists a new pending job with the given payload.
func (r *JobRepository) Enqueue(kind string, payload any) (*models.Job, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := &models.Job{
		ID:        uuid.New().String(),
		Kind:      kind,
		Status:    models.JobStatusPending,
		Payload:   data,
		CreatedAt: time.Now(),
	}

	_, err = r.db.Exec(`
		INSERT INTO jobs (id, kind, status, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		job.ID, job.Kind, job.Status, job.Payload, job.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}
	return job, nil
}

// GetByID returns a job by ID, or nil when it does not exist.
func (r *JobRepository) GetByID(id string) (*models.Job, error) {
	job := &models.Job{}
	var result []byte
	var errMsg sql.NullString
	var startedAt, finishedAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, kind, status, payload, result, error, created_at, started_at, finished_at
		FROM jobs WHERE id = $1`, id,
	).Scan(&job.ID, &job.Kind, &job.Status, &job.Payload, &result, &errMsg, &job.CreatedAt, &startedAt, &finishedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	job.Result = result
	job.Error = errMsg.String
	if startedAt.Valid {
		t := startedAt.Time
		job.StartedAt = &t
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		job.FinishedAt = &t
	}
	return job, nil
}

// ClaimNext atomically claims the oldest pending job and marks it running.
// Returns nil when the queue is empty. FOR UPDATE SKIP LOCKED keeps
// concurrent workers from claiming the same row.
func (r *JobRepository) ClaimNext() (*models.Job, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	job := &models.Job{}
	err = tx.QueryRow(`
		SELECT id, kind, status, payload, created_at
		FROM jobs
		WHERE status = $1
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED`, models.JobStatusPending,
	).Scan(&job.ID, &job.Kind, &job.Status, &job.Payload, &job.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = tx.Exec(
		"UPDATE jobs SET status = $1, started_at = $2 WHERE id = $3",
		models.JobStatusRunning, now, job.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit job claim: %w", err)
	}

	job.Status = models.JobStatusRunning
	job.StartedAt = &now
	return job, nil
}

// Finish marks a job finished and stores its result payload.
func (r *JobRepository) Finish(id string, result any) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal job result: %w", err)
	}

	_, err = r.db.Exec(
		"UPDATE jobs SET status = $1, result = $2, finished_at = $3 WHERE id = $4",
		models.JobStatusFinished, data, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish job: %w", err)
	}
	return nil
}

// Fail marks a job failed with an error message.
func (r *JobRepository) Fail(id string, errorMessage string) error {
	_, err := r.db.Exec(
		"UPDATE jobs SET status = $1, error = $2, finished_at = $3 WHERE id = $4",
		models.JobStatusFailed, errorMessage, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}
