package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ad is one generated creative as it travels over the wire, before it is
// persisted as an AdVariant.
type Ad struct {
	ID           string   `json:"id,omitempty"`
	Headline     string   `json:"headline"`
	AdText       string   `json:"ad_text"`
	CTA          string   `json:"cta"`
	Hashtags     []string `json:"hashtags"`
	QualityScore float64  `json:"quality_score,omitempty"`
}

// AdVariant is one generated ad creative owned by a campaign.
type AdVariant struct {
	ID           string              `json:"id"`
	CampaignID   string              `json:"campaign_id"`
	Headline     string              `json:"headline"`
	AdText       string              `json:"ad_text"`
	CTA          string              `json:"cta"`
	Hashtags     []string            `json:"hashtags"`
	QualityScore decimal.NullDecimal `json:"quality_score"`
	Position     int                 `json:"position"`
	CreatedAt    time.Time           `json:"created_at"`
}

// Ad converts a stored variant back to its wire form.
func (v *AdVariant) Ad() Ad {
	ad := Ad{
		ID:       v.ID,
		Headline: v.Headline,
		AdText:   v.AdText,
		CTA:      v.CTA,
		Hashtags: v.Hashtags,
	}
	if v.QualityScore.Valid {
		ad.QualityScore = v.QualityScore.Decimal.InexactFloat64()
	}
	return ad
}

// VariantFromAd builds a persistable variant from a generated ad.
func VariantFromAd(campaignID string, position int, ad Ad) AdVariant {
	v := AdVariant{
		CampaignID: campaignID,
		Headline:   ad.Headline,
		AdText:     ad.AdText,
		CTA:        ad.CTA,
		Hashtags:   ad.Hashtags,
		Position:   position,
	}
	if ad.QualityScore != 0 {
		v.QualityScore = decimal.NewNullDecimal(decimal.NewFromFloat(ad.QualityScore).Round(2))
	}
	return v
}
