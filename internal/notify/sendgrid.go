package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *SendGridSender) SendEmail(ctx context.Context, to, name, subject, plain, html string) (string, error) {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	toAddr := mail.NewEmail(name, to)
	message := mail.NewSingleEmail(from, subject, toAddr, plain, html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return "", fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}

	// SendGrid reports the message ID in a response header.
	id := resp.Headers["X-Message-Id"]
	if len(id) > 0 {
		return id[0], nil
	}
	return "", nil
}
