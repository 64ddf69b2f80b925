// Package notify dispatches ad creatives to recipients over SMS and email.
// Both channels are optional; an unconfigured channel reports itself as
// unavailable rather than failing at startup.
package notify

import (
	"context"
	"log/slog"

	"github.com/marden/adrival/internal/models"
)

// SMSSender delivers one text message and returns the provider's message ID.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
}

// EmailSender delivers one email and returns the provider's message ID.
type EmailSender interface {
	SendEmail(ctx context.Context, to, name, subject, plain, html string) (string, error)
}

type Notifier struct {
	sms    SMSSender
	email  EmailSender
	logger *slog.Logger
}

// New builds a Notifier. Either sender may be nil when that channel has
// no credentials configured.
func New(sms SMSSender, email EmailSender, logger *slog.Logger) *Notifier {
	return &Notifier{sms: sms, email: email, logger: logger}
}

func (n *Notifier) SMSEnabled() bool   { return n.sms != nil }
func (n *Notifier) EmailEnabled() bool { return n.email != nil }

// Status reports channel availability for the status endpoint.
func (n *Notifier) Status() map[string]bool {
	return map[string]bool{
		"sms":   n.SMSEnabled(),
		"email": n.EmailEnabled(),
	}
}

// SendSMS delivers one text and folds the outcome into a DeliveryResult.
// Provider failures are captured in the result, not returned.
func (n *Notifier) SendSMS(ctx context.Context, to, body string) models.DeliveryResult {
	if n.sms == nil {
		return models.DeliveryResult{
			Status:       models.SendStatusFailed,
			To:           to,
			ErrorMessage: "sms channel not configured",
		}
	}

	id, err := n.sms.SendSMS(ctx, to, body)
	if err != nil {
		n.logger.Warn("sms delivery failed", "to", to, "error", err)
		return models.DeliveryResult{
			Status:       models.SendStatusFailed,
			To:           to,
			ErrorMessage: err.Error(),
		}
	}

	return models.DeliveryResult{
		Success:    true,
		Status:     models.SendStatusSent,
		To:         to,
		ProviderID: id,
	}
}

// SendEmail delivers one email and folds the outcome into a DeliveryResult.
func (n *Notifier) SendEmail(ctx context.Context, to, name, subject, plain, html string) models.DeliveryResult {
	if n.email == nil {
		return models.DeliveryResult{
			Status:       models.SendStatusFailed,
			To:           to,
			ErrorMessage: "email channel not configured",
		}
	}

	id, err := n.email.SendEmail(ctx, to, name, subject, plain, html)
	if err != nil {
		n.logger.Warn("email delivery failed", "to", to, "error", err)
		return models.DeliveryResult{
			Status:       models.SendStatusFailed,
			To:           to,
			ErrorMessage: err.Error(),
		}
	}

	return models.DeliveryResult{
		Success:    true,
		Status:     models.SendStatusSent,
		To:         to,
		ProviderID: id,
	}
}
