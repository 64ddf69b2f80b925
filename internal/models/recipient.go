package models

import "time"

// Delivery channels
const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// Recipient is one addressable contact for a campaign. Email and phone are
// each unique per campaign when present; the schema enforces this with
// partial unique indexes so NULLs never collide.
type Recipient struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Channel    string    `json:"channel"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// User is the wire form of a contact as submitted by the send request.
type User struct {
	Name  string   `json:"name,omitempty"`
	Phone string   `json:"phone,omitempty"`
	Email string   `json:"email,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}
