package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/marden/adrival/internal/models"
)

type stubSMS struct {
	id  string
	err error
}

func (s stubSMS) SendSMS(ctx context.Context, to, body string) (string, error) {
	return s.id, s.err
}

type stubEmail struct {
	id  string
	err error
}

func (s stubEmail) SendEmail(ctx context.Context, to, name, subject, plain, html string) (string, error) {
	return s.id, s.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifierStatus(t *testing.T) {
	tests := []struct {
		name      string
		sms       SMSSender
		email     EmailSender
		wantSMS   bool
		wantEmail bool
	}{
		{"both configured", stubSMS{}, stubEmail{}, true, true},
		{"sms only", stubSMS{}, nil, true, false},
		{"email only", nil, stubEmail{}, false, true},
		{"neither", nil, nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New(tt.sms, tt.email, discard())
			status := n.Status()
			if status["sms"] != tt.wantSMS {
				t.Errorf("status[sms] = %v, want %v", status["sms"], tt.wantSMS)
			}
			if status["email"] != tt.wantEmail {
				t.Errorf("status[email] = %v, want %v", status["email"], tt.wantEmail)
			}
		})
	}
}

func TestSendSMS(t *testing.T) {
	n := New(stubSMS{id: "SM123"}, nil, discard())

	res := n.SendSMS(context.Background(), "+15550000001", "hello")
	if !res.Success {
		t.Fatalf("Success = false, error: %s", res.ErrorMessage)
	}
	if res.Status != models.SendStatusSent {
		t.Errorf("Status = %q, want %q", res.Status, models.SendStatusSent)
	}
	if res.ProviderID != "SM123" {
		t.Errorf("ProviderID = %q, want SM123", res.ProviderID)
	}
}

func TestSendSMSFailure(t *testing.T) {
	n := New(stubSMS{err: errors.New("boom")}, nil, discard())

	res := n.SendSMS(context.Background(), "+15550000001", "hello")
	if res.Success {
		t.Fatal("Success = true, want false")
	}
	if res.Status != models.SendStatusFailed {
		t.Errorf("Status = %q, want %q", res.Status, models.SendStatusFailed)
	}
	if res.ErrorMessage != "boom" {
		t.Errorf("ErrorMessage = %q, want boom", res.ErrorMessage)
	}
}

func TestSendSMSUnconfigured(t *testing.T) {
	n := New(nil, nil, discard())

	res := n.SendSMS(context.Background(), "+15550000001", "hello")
	if res.Success {
		t.Fatal("Success = true on unconfigured channel")
	}
	if res.ErrorMessage == "" {
		t.Error("expected an error message for unconfigured channel")
	}
}

func TestSendEmail(t *testing.T) {
	n := New(nil, stubEmail{id: "msg-1"}, discard())

	res := n.SendEmail(context.Background(), "a@x.com", "Alice", "subj", "plain", "<p>html</p>")
	if !res.Success {
		t.Fatalf("Success = false, error: %s", res.ErrorMessage)
	}
	if res.ProviderID != "msg-1" {
		t.Errorf("ProviderID = %q, want msg-1", res.ProviderID)
	}
}

func TestSendEmailFailure(t *testing.T) {
	n := New(nil, stubEmail{err: errors.New("rejected")}, discard())

	res := n.SendEmail(context.Background(), "a@x.com", "Alice", "subj", "plain", "<p>html</p>")
	if res.Success {
		t.Fatal("Success = true, want false")
	}
	if res.ErrorMessage != "rejected" {
		t.Errorf("ErrorMessage = %q, want rejected", res.ErrorMessage)
	}
}

func TestSMSBody(t *testing.T) {
	ad := models.Ad{
		Headline: "Big Sale",
		AdText:   "Everything must go.",
		CTA:      "Shop Now!",
		Hashtags: []string{"#sale", "#deals"},
	}

	body := SMSBody(ad)
	for _, want := range []string{"Big Sale", "Everything must go.", "Shop Now!", "#sale, #deals"} {
		if !strings.Contains(body, want) {
			t.Errorf("SMSBody missing %q:\n%s", want, body)
		}
	}
}

func TestEmailRendering(t *testing.T) {
	ad := models.Ad{
		Headline: "Big <Sale>",
		AdText:   "Everything must go.",
		CTA:      "Shop Now!",
		Hashtags: []string{"#sale"},
	}

	if got := EmailSubject(ad); !strings.Contains(got, "Big <Sale>") {
		t.Errorf("EmailSubject = %q", got)
	}

	htmlBody := EmailHTML(ad)
	if strings.Contains(htmlBody, "Big <Sale>") {
		t.Error("EmailHTML must escape HTML in ad fields")
	}
	if !strings.Contains(htmlBody, "Big &lt;Sale&gt;") {
		t.Error("EmailHTML missing escaped headline")
	}

	text := EmailText(ad)
	if !strings.Contains(text, "Everything must go.") {
		t.Errorf("EmailText = %q", text)
	}
}
