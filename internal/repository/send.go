package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marden/adrival/internal/models"
)

type SendRepository struct {
	db *sql.DB
}

func NewSendRepository(db *sql.DB) *SendRepository {
	return &SendRepository{db: db}
}

// Create records one delivery attempt. A send created in the "sent" state
// gets its sent_at stamped immediately.
func (r *SendRepository) Create(s *models.Send) error {
	s.ID = uuid.New().String()
	s.CreatedAt = time.Now()
	if s.Status == "" {
		s.Status = models.SendStatusPending
	}
	if s.Status == models.SendStatusSent && s.SentAt == nil {
		now := time.Now()
		s.SentAt = &now
	}

	_, err := r.db.Exec(`
		INSERT INTO sends (id, campaign_id, ad_variant_id, recipient_id, channel, status, sent_at, delivered_at, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.CampaignID, s.AdVariantID, s.RecipientID, s.Channel, s.Status,
		s.SentAt, s.DeliveredAt, nullIfEmpty(s.ErrorMessage), s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create send: %w", err)
	}
	return nil
}

// UpdateStatus advances a send along its state machine. Moving to
// "delivered" stamps delivered_at.
func (r *SendRepository) UpdateStatus(id, status, errorMessage string) error {
	var err error
	if status == models.SendStatusDelivered {
		_, err = r.db.Exec(
			"UPDATE sends SET status = $1, delivered_at = $2 WHERE id = $3",
			status, time.Now(), id,
		)
	} else {
		_, err = r.db.Exec(
			"UPDATE sends SET status = $1, error_message = $2 WHERE id = $3",
			status, nullIfEmpty(errorMessage), id,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update send status: %w", err)
	}
	return nil
}

// AppendEvent writes one analytics signal for a send.
func (r *SendRepository) AppendEvent(sendID, eventType string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT INTO events (send_id, event_type, event_data, created_at)
		VALUES ($1, $2, $3, $4)`,
		sendID, eventType, payload, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// ListByCampaign returns a campaign's sends, newest first.
func (r *SendRepository) ListByCampaign(campaignID string) ([]models.Send, error) {
	rows, err := r.db.Query(`
		SELECT id, campaign_id, ad_variant_id, recipient_id, channel, status, sent_at, delivered_at, error_message, created_at
		FROM sends
		WHERE campaign_id = $1
		ORDER BY created_at DESC`, campaignID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sends := []models.Send{}
	for rows.Next() {
		var s models.Send
		var sentAt, deliveredAt sql.NullTime
		var errMsg sql.NullString
		err := rows.Scan(&s.ID, &s.CampaignID, &s.AdVariantID, &s.RecipientID, &s.Channel, &s.Status, &sentAt, &deliveredAt, &errMsg, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		if sentAt.Valid {
			t := sentAt.Time
			s.SentAt = &t
		}
		if deliveredAt.Valid {
			t := deliveredAt.Time
			s.DeliveredAt = &t
		}
		s.ErrorMessage = errMsg.String
		sends = append(sends, s)
	}

	return sends, rows.Err()
}

// StatusCounts aggregates a campaign's sends by (channel, status) for
// reporting.
func (r *SendRepository) StatusCounts(campaignID string) (map[string]map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT channel, status, COUNT(*)
		FROM sends
		WHERE campaign_id = $1
		GROUP BY channel, status`, campaignID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]map[string]int{}
	for rows.Next() {
		var channel, status string
		var n int
		if err := rows.Scan(&channel, &status, &n); err != nil {
			return nil, err
		}
		if counts[channel] == nil {
			counts[channel] = map[string]int{}
		}
		counts[channel][status] = n
	}

	return counts, rows.Err()
}
