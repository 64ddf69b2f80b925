package models

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	CampaignName   string   `json:"campaign_name,omitempty"`
	OurBrand       string   `json:"our_brand"`
	CompetitorName string   `json:"competitor_name"`
	WebsiteURL     string   `json:"website_url,omitempty"`
	AdCopy         string   `json:"ad_copy,omitempty"`
	Location       string   `json:"location,omitempty"`
	Zipcode        string   `json:"zipcode,omitempty"`
	Hashtags       []string `json:"hashtags,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	AudienceType   string   `json:"audience_type,omitempty"`
	OfferType      string   `json:"offer_type,omitempty"`
	Goal           string   `json:"goal,omitempty"`
	NumVariations  int      `json:"num_variations,omitempty"`
	ScheduledAt    string   `json:"scheduled_at,omitempty"`
	Timezone       string   `json:"timezone,omitempty"`
}

// SendRequest is the body of POST /api/send. Ads carries only the variants
// the user selected during curation.
type SendRequest struct {
	CampaignID string `json:"campaign_id,omitempty"`
	SMSUsers   []User `json:"sms_users"`
	EmailUsers []User `json:"email_users"`
	Ads        []Ad   `json:"ads"`
}
