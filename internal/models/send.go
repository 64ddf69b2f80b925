package models

import "time"

// Send statuses. Forward-only: pending -> sent -> delivered, or -> failed/bounced.
const (
	SendStatusPending   = "pending"
	SendStatusSent      = "sent"
	SendStatusDelivered = "delivered"
	SendStatusFailed    = "failed"
	SendStatusBounced   = "bounced"
)

// Send is one attempt to deliver one ad variant to one recipient.
type Send struct {
	ID           string     `json:"id"`
	CampaignID   string     `json:"campaign_id"`
	AdVariantID  string     `json:"ad_variant_id"`
	RecipientID  string     `json:"recipient_id"`
	Channel      string     `json:"channel"`
	Status       string     `json:"status"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DeliveryResult is the per-attempt outcome reported back to the caller.
type DeliveryResult struct {
	Success      bool   `json:"success"`
	Status       string `json:"status"`
	To           string `json:"to,omitempty"`
	ProviderID   string `json:"provider_id,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// SendSummary aggregates the outcome of a dispatch.
type SendSummary struct {
	TotalSMS        int      `json:"total_sms"`
	SuccessfulSMS   int      `json:"successful_sms"`
	FailedSMS       int      `json:"failed_sms"`
	TotalEmail      int      `json:"total_email"`
	SuccessfulEmail int      `json:"successful_email"`
	FailedEmail     int      `json:"failed_email"`
	TotalSent       int      `json:"total_sent"`
	ErrorMessages   []string `json:"error_messages"`
}

// SendResult is the full payload returned by a send operation.
type SendResult struct {
	SMSResults   []DeliveryResult `json:"sms_results"`
	EmailResults []DeliveryResult `json:"email_results"`
	Summary      SendSummary      `json:"summary"`
}
