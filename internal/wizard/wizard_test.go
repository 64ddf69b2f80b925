package wizard

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/marden/adrival/internal/models"
)

type stubValidator struct{}

func (stubValidator) ValidatePhone(raw string) (string, bool) {
	if strings.HasPrefix(raw, "+") && len(raw) >= 8 {
		return raw, true
	}
	return "", false
}

func (stubValidator) ValidateEmail(raw string) (string, bool) {
	if strings.Contains(raw, "@") && strings.Contains(raw, ".") {
		return raw, true
	}
	return "", false
}

func makeAds(n int) []models.Ad {
	ads := make([]models.Ad, n)
	for i := range ads {
		ads[i] = models.Ad{
			Headline: fmt.Sprintf("Headline %d", i),
			AdText:   fmt.Sprintf("Text %d", i),
			CTA:      "Go!",
		}
	}
	return ads
}

func TestStepFlow(t *testing.T) {
	s := NewStore(stubValidator{})

	if s.Step() != StepInput {
		t.Fatalf("initial step = %v, want input", s.Step())
	}
	if err := s.Next(); !errors.Is(err, ErrNoAds) {
		t.Errorf("Next() without ads: error = %v, want ErrNoAds", err)
	}

	s.SetAds(makeAds(3))
	if err := s.Next(); err != nil {
		t.Fatalf("Next() to curate: error = %v", err)
	}
	if s.Step() != StepCurate {
		t.Fatalf("step = %v, want curate", s.Step())
	}

	s.DeselectAll()
	if !s.SelectionWarning() {
		t.Error("SelectionWarning() = false with nothing selected")
	}
	if err := s.Next(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Next() with no selection: error = %v, want ErrNoSelection", err)
	}

	s.SelectAll()
	if s.SelectionWarning() {
		t.Error("SelectionWarning() = true after SelectAll")
	}
	if err := s.Next(); err != nil {
		t.Fatalf("Next() to recipients: error = %v", err)
	}

	if err := s.AddRecipient("Alice", "alice@example.com"); err != nil {
		t.Fatalf("AddRecipient() error = %v", err)
	}
	if err := s.AddRecipient("Bob", "+14155550100"); err != nil {
		t.Fatalf("AddRecipient() error = %v", err)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("Next() to review: error = %v", err)
	}

	sum := s.Summary()
	if sum.SelectedAds != 3 || sum.SMSRecipients != 1 || sum.EmailRecipients != 1 || sum.Channels != 2 {
		t.Errorf("Summary() = %+v, want 3 ads, 1 sms, 1 email, 2 channels", sum)
	}

	if err := s.Next(); !errors.Is(err, ErrLastStep) {
		t.Errorf("Next() at review: error = %v, want ErrLastStep", err)
	}

	s.Back()
	if s.Step() != StepRecipients {
		t.Errorf("Back() step = %v, want recipients", s.Step())
	}
	s.Back()
	s.Back()
	s.Back()
	if s.Step() != StepInput {
		t.Errorf("Back() past start: step = %v, want input", s.Step())
	}
}

func TestSets(t *testing.T) {
	tests := []struct {
		ads  int
		want []int
	}{
		{0, nil},
		{3, []int{3}},
		{7, []int{3, 3, 1}},
		{9, []int{3, 3, 3}},
	}
	for _, tt := range tests {
		s := NewStore(stubValidator{})
		s.SetAds(makeAds(tt.ads))
		sets := s.Sets()
		if len(sets) != len(tt.want) {
			t.Errorf("Sets() with %d ads: %d sets, want %d", tt.ads, len(sets), len(tt.want))
			continue
		}
		for i, set := range sets {
			if len(set) != tt.want[i] {
				t.Errorf("Sets() with %d ads: set %d has %d, want %d", tt.ads, i, len(set), tt.want[i])
			}
		}
	}
}

func TestReplaceSet(t *testing.T) {
	s := NewStore(stubValidator{})
	s.SetAds(makeAds(9))
	if err := s.Toggle(4); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}

	fresh := []models.Ad{
		{Headline: "New 3"}, {Headline: "New 4"}, {Headline: "New 5"},
	}
	if err := s.ReplaceSet(1, fresh); err != nil {
		t.Fatalf("ReplaceSet() error = %v", err)
	}

	ads := s.Ads()
	for i := 0; i < 3; i++ {
		if ads[i].Headline != fmt.Sprintf("Headline %d", i) {
			t.Errorf("ads[%d] changed by ReplaceSet(1)", i)
		}
	}
	for i := 3; i < 6; i++ {
		if ads[i].Headline != fmt.Sprintf("New %d", i) {
			t.Errorf("ads[%d].Headline = %q, want New %d", i, ads[i].Headline, i)
		}
	}
	for i := 6; i < 9; i++ {
		if ads[i].Headline != fmt.Sprintf("Headline %d", i) {
			t.Errorf("ads[%d] changed by ReplaceSet(1)", i)
		}
	}

	if s.IsSelected(4) {
		t.Error("selection at index 4 did not survive the splice")
	}
	if !s.IsSelected(3) {
		t.Error("selection at index 3 was lost")
	}
}

func TestReplaceSetShortResponse(t *testing.T) {
	s := NewStore(stubValidator{})
	s.SetAds(makeAds(6))

	if err := s.ReplaceSet(1, []models.Ad{{Headline: "Only one"}}); err != nil {
		t.Fatalf("ReplaceSet() error = %v", err)
	}

	ads := s.Ads()
	if ads[3].Headline != "Only one" {
		t.Errorf("ads[3].Headline = %q, want Only one", ads[3].Headline)
	}
	if ads[4].Headline != "Headline 4" || ads[5].Headline != "Headline 5" {
		t.Error("trailing slots did not keep previous content")
	}
}

func TestReplaceSetOutOfRange(t *testing.T) {
	s := NewStore(stubValidator{})
	s.SetAds(makeAds(3))

	if err := s.ReplaceSet(1, makeAds(3)); err == nil {
		t.Error("ReplaceSet(1) with 3 ads: want error")
	}
	if err := s.ReplaceSet(-1, makeAds(3)); err == nil {
		t.Error("ReplaceSet(-1): want error")
	}
}

func TestEditAd(t *testing.T) {
	s := NewStore(stubValidator{})
	s.SetAds(makeAds(1))

	for field, want := range map[string]string{
		"headline": "Edited headline",
		"ad_text":  "Edited text",
		"cta":      "Edited CTA",
	} {
		if err := s.EditAd(0, field, want); err != nil {
			t.Fatalf("EditAd(%s) error = %v", field, err)
		}
	}
	ad := s.Ads()[0]
	if ad.Headline != "Edited headline" || ad.AdText != "Edited text" || ad.CTA != "Edited CTA" {
		t.Errorf("edits not applied: %+v", ad)
	}

	if err := s.EditAd(0, "quality_score", "1.0"); err == nil {
		t.Error("EditAd(quality_score): want error")
	}
	if err := s.EditAd(5, "headline", "x"); err == nil {
		t.Error("EditAd out of range: want error")
	}
}

func TestAddRecipientDuplicates(t *testing.T) {
	s := NewStore(stubValidator{})

	if err := s.AddRecipient("Alice", "Alice@Example.com"); err != nil {
		t.Fatalf("AddRecipient() error = %v", err)
	}
	if err := s.AddRecipient("Alice", "alice@example.com"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate email (case-folded): error = %v, want ErrDuplicate", err)
	}
	if got := s.EmailRecipients()[0].Contact; got != "alice@example.com" {
		t.Errorf("stored email = %q, want lower-cased", got)
	}

	if err := s.AddRecipient("Bob", "+14155550100"); err != nil {
		t.Fatalf("AddRecipient() error = %v", err)
	}
	if err := s.AddRecipient("Bob", "+14155550100"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate phone: error = %v, want ErrDuplicate", err)
	}

	if err := s.AddRecipient("Eve", "not a contact"); !errors.Is(err, ErrInvalidContact) {
		t.Errorf("invalid contact: error = %v, want ErrInvalidContact", err)
	}
	if err := s.AddRecipient("Eve", ""); !errors.Is(err, ErrInvalidContact) {
		t.Errorf("empty contact: error = %v, want ErrInvalidContact", err)
	}
}

func TestBulkImport(t *testing.T) {
	s := NewStore(stubValidator{})

	res := s.BulkImport("Alice, alice@x.com\nbob@x.com\nAlice, alice@x.com")
	if res.Added != 2 || res.Skipped != 1 {
		t.Errorf("BulkImport() = %+v, want added 2 skipped 1", res)
	}
	if len(s.EmailRecipients()) != 2 {
		t.Fatalf("email recipients = %d, want 2", len(s.EmailRecipients()))
	}
	if s.EmailRecipients()[0].Name != "Alice" {
		t.Errorf("first recipient name = %q, want Alice", s.EmailRecipients()[0].Name)
	}
	if s.EmailRecipients()[1].Name != "" {
		t.Errorf("bare-contact line kept name %q, want empty", s.EmailRecipients()[1].Name)
	}
}

func TestBulkImportMixedChannels(t *testing.T) {
	s := NewStore(stubValidator{})

	res := s.BulkImport("Ann, +14155550100\n\nbad line\nBea, bea@x.com\n")
	if res.Added != 2 || res.Skipped != 1 {
		t.Errorf("BulkImport() = %+v, want added 2 skipped 1", res)
	}
	if len(s.SMSRecipients()) != 1 || len(s.EmailRecipients()) != 1 {
		t.Errorf("recipients = %d sms, %d email, want 1 each",
			len(s.SMSRecipients()), len(s.EmailRecipients()))
	}
}

func TestCanSend(t *testing.T) {
	s := NewStore(stubValidator{})
	if s.CanSend() {
		t.Error("CanSend() = true on empty store")
	}

	s.SetAds(makeAds(2))
	if s.CanSend() {
		t.Error("CanSend() = true without recipients")
	}

	if err := s.AddRecipient("Alice", "alice@x.com"); err != nil {
		t.Fatalf("AddRecipient() error = %v", err)
	}
	if !s.CanSend() {
		t.Error("CanSend() = false with ads and a recipient")
	}

	s.DeselectAll()
	if s.CanSend() {
		t.Error("CanSend() = true with nothing selected")
	}
}

func TestSendRequest(t *testing.T) {
	s := NewStore(stubValidator{})
	s.SetAds(makeAds(3))
	if err := s.Toggle(1); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if err := s.AddRecipient("Alice", "alice@x.com"); err != nil {
		t.Fatalf("AddRecipient() error = %v", err)
	}
	if err := s.AddRecipient("Bob", "+14155550100"); err != nil {
		t.Fatalf("AddRecipient() error = %v", err)
	}

	req := s.SendRequest("c1")
	if req.CampaignID != "c1" {
		t.Errorf("CampaignID = %q, want c1", req.CampaignID)
	}
	if len(req.Ads) != 2 {
		t.Fatalf("len(Ads) = %d, want only the 2 selected", len(req.Ads))
	}
	if req.Ads[0].Headline != "Headline 0" || req.Ads[1].Headline != "Headline 2" {
		t.Errorf("selected ads = %q, %q, want headlines 0 and 2",
			req.Ads[0].Headline, req.Ads[1].Headline)
	}
	if len(req.SMSUsers) != 1 || req.SMSUsers[0].Phone != "+14155550100" {
		t.Errorf("SMSUsers = %+v, want Bob's phone", req.SMSUsers)
	}
	if len(req.EmailUsers) != 1 || req.EmailUsers[0].Email != "alice@x.com" {
		t.Errorf("EmailUsers = %+v, want Alice's email", req.EmailUsers)
	}
}
