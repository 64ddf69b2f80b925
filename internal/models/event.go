package models

import "time"

// Event types tracked against sends.
const (
	EventTypeSend     = "send"
	EventTypeDelivery = "delivery"
	EventTypeOpen     = "open"
	EventTypeClick    = "click"
	EventTypeBounce   = "bounce"
	EventTypeFailure  = "failure"
)

// Event is one append-only analytics signal tied to a send.
type Event struct {
	ID        int64          `json:"id"`
	SendID    string         `json:"send_id"`
	EventType string         `json:"event_type"`
	EventData map[string]any `json:"event_data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
