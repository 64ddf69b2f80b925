package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marden/adrival/internal/models"
)

type RecipientRepository struct {
	db *sql.DB
}

func NewRecipientRepository(db *sql.DB) *RecipientRepository {
	return &RecipientRepository{db: db}
}

// Upsert inserts a recipient, or returns the existing row's ID when the
// contact is already on the campaign. Idempotency rides on the partial
// unique indexes over (campaign_id, email) and (campaign_id, phone).
func (r *RecipientRepository) Upsert(rec *models.Recipient) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	tags, err := marshalStrings(rec.Tags)
	if err != nil {
		return "", err
	}

	var conflict string
	switch rec.Channel {
	case models.ChannelSMS:
		conflict = "(campaign_id, phone) WHERE phone IS NOT NULL"
	case models.ChannelEmail:
		conflict = "(campaign_id, email) WHERE email IS NOT NULL"
	default:
		return "", fmt.Errorf("unknown channel: %s", rec.Channel)
	}

	var id string
	err = r.db.QueryRow(fmt.Sprintf(`
		INSERT INTO recipients (id, campaign_id, name, email, phone, channel, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT %s DO NOTHING
		RETURNING id`, conflict),
		rec.ID, rec.CampaignID, nullIfEmpty(rec.Name),
		nullIfEmpty(rec.Email), nullIfEmpty(rec.Phone),
		rec.Channel, tags, rec.CreatedAt,
	).Scan(&id)

	if err == sql.ErrNoRows {
		// Conflict: the contact already exists, fetch its ID.
		return r.findExisting(rec)
	}
	if err != nil {
		return "", fmt.Errorf("failed to upsert recipient: %w", err)
	}
	return id, nil
}

func (r *RecipientRepository) findExisting(rec *models.Recipient) (string, error) {
	var id string
	var err error
	if rec.Channel == models.ChannelSMS {
		err = r.db.QueryRow(
			"SELECT id FROM recipients WHERE campaign_id = $1 AND phone = $2",
			rec.CampaignID, rec.Phone,
		).Scan(&id)
	} else {
		err = r.db.QueryRow(
			"SELECT id FROM recipients WHERE campaign_id = $1 AND email = $2",
			rec.CampaignID, rec.Email,
		).Scan(&id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to find existing recipient: %w", err)
	}
	return id, nil
}

// UpsertBatch upserts every recipient and returns their IDs in input order.
func (r *RecipientRepository) UpsertBatch(recs []models.Recipient) ([]string, error) {
	ids := make([]string, 0, len(recs))
	for i := range recs {
		id, err := r.Upsert(&recs[i])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ListByCampaign returns a campaign's recipients in insertion order.
func (r *RecipientRepository) ListByCampaign(campaignID string) ([]models.Recipient, error) {
	rows, err := r.db.Query(`
		SELECT id, campaign_id, name, email, phone, channel, tags, created_at
		FROM recipients
		WHERE campaign_id = $1
		ORDER BY created_at`, campaignID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipients := []models.Recipient{}
	for rows.Next() {
		var rec models.Recipient
		var name, email, phone sql.NullString
		var tags []byte
		err := rows.Scan(&rec.ID, &rec.CampaignID, &name, &email, &phone, &rec.Channel, &tags, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		rec.Name = name.String
		rec.Email = email.String
		rec.Phone = phone.String
		rec.Tags = unmarshalStrings(tags)
		recipients = append(recipients, rec)
	}

	return recipients, rows.Err()
}
