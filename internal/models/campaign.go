package models

import "time"

// Campaign statuses. Transitions move forward only; this is enforced by
// convention in the application layer, not by the schema.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusScheduled = "scheduled"
	CampaignStatusSending   = "sending"
	CampaignStatusCompleted = "completed"
	CampaignStatusCancelled = "cancelled"
)

// Campaign represents one competitor-analysis outreach effort.
type Campaign struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	BrandName      string     `json:"brand_name"`
	CompetitorName string     `json:"competitor_name"`
	Zipcode        string     `json:"zipcode"`
	Industry       string     `json:"industry,omitempty"`
	AudienceType   string     `json:"audience_type,omitempty"`
	OfferType      string     `json:"offer_type,omitempty"`
	Goal           string     `json:"goal,omitempty"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	Timezone       string     `json:"timezone,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CampaignFilter for listing campaigns
type CampaignFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

// CampaignWithStats includes aggregate counts for display
type CampaignWithStats struct {
	Campaign
	VariantCount   int `json:"variant_count"`
	RecipientCount int `json:"recipient_count"`
	SendCount      int `json:"send_count"`
}
