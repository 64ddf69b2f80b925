package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marden/adrival/internal/models"
)

type CampaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create creates a new campaign
func (r *CampaignRepository) Create(c *models.Campaign) error {
	c.ID = uuid.New().String()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	if c.Status == "" {
		c.Status = models.CampaignStatusDraft
	}

	_, err := r.db.Exec(`
		INSERT INTO campaigns (id, name, brand_name, competitor_name, zipcode, industry, audience_type, offer_type, goal, scheduled_at, timezone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		c.ID, c.Name, c.BrandName, c.CompetitorName,
		nullIfEmpty(c.Zipcode), nullIfEmpty(c.Industry), nullIfEmpty(c.AudienceType),
		nullIfEmpty(c.OfferType), nullIfEmpty(c.Goal), c.ScheduledAt, nullIfEmpty(c.Timezone),
		c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

// GetByID returns a campaign by ID, or nil when it does not exist
func (r *CampaignRepository) GetByID(id string) (*models.Campaign, error) {
	c := &models.Campaign{}
	var zipcode, industry, audienceType, offerType, goal, timezone sql.NullString
	var scheduledAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, name, brand_name, competitor_name, zipcode, industry, audience_type, offer_type, goal, scheduled_at, timezone, status, created_at, updated_at
		FROM campaigns WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.BrandName, &c.CompetitorName,
		&zipcode, &industry, &audienceType, &offerType, &goal, &scheduledAt, &timezone,
		&c.Status, &c.CreatedAt, &c.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.Zipcode = zipcode.String
	c.Industry = industry.String
	c.AudienceType = audienceType.String
	c.OfferType = offerType.String
	c.Goal = goal.String
	c.Timezone = timezone.String
	if scheduledAt.Valid {
		t := scheduledAt.Time
		c.ScheduledAt = &t
	}
	return c, nil
}

// List returns campaigns with aggregate counts, newest first
func (r *CampaignRepository) List(filter models.CampaignFilter) ([]models.CampaignWithStats, int, error) {
	countQuery := "SELECT COUNT(*) FROM campaigns WHERE 1=1"
	args := []any{}
	n := 0

	if filter.Status != "" {
		n++
		countQuery += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		n++
		countQuery += fmt.Sprintf(" AND (name ILIKE $%d OR brand_name ILIKE $%d OR competitor_name ILIKE $%d)", n, n, n)
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT c.id, c.name, c.brand_name, c.competitor_name, c.zipcode, c.industry, c.audience_type, c.offer_type, c.goal, c.scheduled_at, c.timezone, c.status, c.created_at, c.updated_at,
			COALESCE((SELECT COUNT(*) FROM ad_variants WHERE campaign_id = c.id), 0) AS variant_count,
			COALESCE((SELECT COUNT(*) FROM recipients WHERE campaign_id = c.id), 0) AS recipient_count,
			COALESCE((SELECT COUNT(*) FROM sends WHERE campaign_id = c.id), 0) AS send_count
		FROM campaigns c
		WHERE 1=1`

	args = []any{}
	n = 0
	if filter.Status != "" {
		n++
		query += fmt.Sprintf(" AND c.status = $%d", n)
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		n++
		query += fmt.Sprintf(" AND (c.name ILIKE $%d OR c.brand_name ILIKE $%d OR c.competitor_name ILIKE $%d)", n, n, n)
		args = append(args, "%"+filter.Search+"%")
	}

	query += " ORDER BY c.updated_at DESC"

	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	campaigns := []models.CampaignWithStats{}
	for rows.Next() {
		var c models.CampaignWithStats
		var zipcode, industry, audienceType, offerType, goal, timezone sql.NullString
		var scheduledAt sql.NullTime

		err := rows.Scan(
			&c.ID, &c.Name, &c.BrandName, &c.CompetitorName,
			&zipcode, &industry, &audienceType, &offerType, &goal, &scheduledAt, &timezone,
			&c.Status, &c.CreatedAt, &c.UpdatedAt,
			&c.VariantCount, &c.RecipientCount, &c.SendCount,
		)
		if err != nil {
			return nil, 0, err
		}

		c.Zipcode = zipcode.String
		c.Industry = industry.String
		c.AudienceType = audienceType.String
		c.OfferType = offerType.String
		c.Goal = goal.String
		c.Timezone = timezone.String
		if scheduledAt.Valid {
			t := scheduledAt.Time
			c.ScheduledAt = &t
		}
		campaigns = append(campaigns, c)
	}

	return campaigns, total, rows.Err()
}

// UpdateStatus moves a campaign to a new status. The updated_at trigger
// stamps the row.
func (r *CampaignRepository) UpdateStatus(id, status string) error {
	res, err := r.db.Exec("UPDATE campaigns SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("failed to update campaign status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("campaign not found: %s", id)
	}
	return nil
}

// Delete removes a campaign. Variants, recipients, sends and events go
// with it via the schema's cascades.
func (r *CampaignRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM campaigns WHERE id = $1", id)
	return err
}
