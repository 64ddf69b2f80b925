package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marden/adrival/internal/models"
)

type VariantRepository struct {
	db *sql.DB
}

func NewVariantRepository(db *sql.DB) *VariantRepository {
	return &VariantRepository{db: db}
}

// CreateBatch persists the generated ads for a campaign in one transaction,
// preserving their display order.
func (r *VariantRepository) CreateBatch(campaignID string, ads []models.Ad) ([]models.AdVariant, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	variants := make([]models.AdVariant, 0, len(ads))
	for i, ad := range ads {
		v := models.VariantFromAd(campaignID, i, ad)
		v.ID = uuid.New().String()
		v.CreatedAt = time.Now()

		hashtags, err := marshalStrings(v.Hashtags)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(`
			INSERT INTO ad_variants (id, campaign_id, headline, ad_text, cta, hashtags, quality_score, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			v.ID, v.CampaignID, v.Headline, v.AdText, v.CTA, hashtags, v.QualityScore, v.Position, v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert ad variant: %w", err)
		}
		variants = append(variants, v)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ad variants: %w", err)
	}
	return variants, nil
}

// ListByCampaign returns a campaign's variants in display order.
func (r *VariantRepository) ListByCampaign(campaignID string) ([]models.AdVariant, error) {
	rows, err := r.db.Query(`
		SELECT id, campaign_id, headline, ad_text, cta, hashtags, quality_score, position, created_at
		FROM ad_variants
		WHERE campaign_id = $1
		ORDER BY position`, campaignID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	variants := []models.AdVariant{}
	for rows.Next() {
		var v models.AdVariant
		var hashtags []byte
		err := rows.Scan(&v.ID, &v.CampaignID, &v.Headline, &v.AdText, &v.CTA, &hashtags, &v.QualityScore, &v.Position, &v.CreatedAt)
		if err != nil {
			return nil, err
		}
		v.Hashtags = unmarshalStrings(hashtags)
		variants = append(variants, v)
	}

	return variants, rows.Err()
}
