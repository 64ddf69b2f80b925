// Package wizard holds the typed state machine behind the four-step
// campaign flow: collect inputs, curate generated ads, gather recipients,
// review and send. It carries no rendering concerns; a UI layer reads
// from the store and calls its transitions.
package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/marden/adrival/internal/models"
)

// Step identifies one wizard screen.
type Step int

const (
	StepInput Step = iota + 1
	StepCurate
	StepRecipients
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepInput:
		return "input"
	case StepCurate:
		return "curate"
	case StepRecipients:
		return "recipients"
	case StepReview:
		return "review"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// setSize is how many ads form one regenerable group.
const setSize = 3

var (
	ErrNoAds          = errors.New("no ads generated yet")
	ErrNoSelection    = errors.New("select at least one ad to continue")
	ErrLastStep       = errors.New("already at the last step")
	ErrInvalidContact = errors.New("contact is not a valid phone number or email address")
	ErrDuplicate      = errors.New("contact already added")
)

// ContactValidator normalizes contact values before they enter the
// recipient lists. ok=false rejects the value.
type ContactValidator interface {
	ValidatePhone(raw string) (normalized string, ok bool)
	ValidateEmail(raw string) (normalized string, ok bool)
}

// Recipient is one curated contact; Contact holds the normalized value.
type Recipient struct {
	Name    string
	Contact string
}

// Summary is recomputed every time the review step is entered.
type Summary struct {
	SelectedAds     int
	SMSRecipients   int
	EmailRecipients int
	Channels        int
}

// ImportResult aggregates a bulk import; no per-line detail is kept.
type ImportResult struct {
	Added   int
	Skipped int
}

// Store is the wizard state container. It is not safe for concurrent
// use; the flow is single-threaded by construction.
type Store struct {
	step      Step
	input     models.GenerateRequest
	ads       []models.Ad
	selected  map[int]bool
	sms       []Recipient
	email     []Recipient
	summary   Summary
	validator ContactValidator
}

func NewStore(validator ContactValidator) *Store {
	return &Store{
		step:      StepInput,
		selected:  map[int]bool{},
		validator: validator,
	}
}

func (s *Store) Step() Step { return s.step }

// Next advances one step. Leaving the input step requires generated ads;
// leaving curation requires at least one selected ad.
func (s *Store) Next() error {
	switch s.step {
	case StepInput:
		if len(s.ads) == 0 {
			return ErrNoAds
		}
		s.step = StepCurate
	case StepCurate:
		if s.SelectedCount() == 0 {
			return ErrNoSelection
		}
		s.step = StepRecipients
	case StepRecipients:
		s.summary = s.computeSummary()
		s.step = StepReview
	default:
		return ErrLastStep
	}
	return nil
}

// Back moves one step toward the start. Going back never loses state.
func (s *Store) Back() {
	if s.step > StepInput {
		s.step--
	}
}

// SelectionWarning reports whether curation is blocked by an empty
// selection.
func (s *Store) SelectionWarning() bool {
	return s.step == StepCurate && s.SelectedCount() == 0
}

func (s *Store) SetInput(req models.GenerateRequest) { s.input = req }
func (s *Store) Input() models.GenerateRequest       { return s.input }

// SetAds replaces the ad list and selects everything, the state a
// successful generation leaves behind.
func (s *Store) SetAds(ads []models.Ad) {
	s.ads = make([]models.Ad, len(ads))
	copy(s.ads, ads)
	s.selected = map[int]bool{}
	for i := range s.ads {
		s.selected[i] = true
	}
}

func (s *Store) Ads() []models.Ad {
	out := make([]models.Ad, len(s.ads))
	copy(out, s.ads)
	return out
}

// Sets groups the flat ad list into windows of three for per-set
// regeneration. Seven ads give groups of 3, 3 and 1.
func (s *Store) Sets() [][]models.Ad {
	var sets [][]models.Ad
	for start := 0; start < len(s.ads); start += setSize {
		end := start + setSize
		if end > len(s.ads) {
			end = len(s.ads)
		}
		sets = append(sets, s.Ads()[start:end])
	}
	return sets
}

// ReplaceSet splices regenerated ads into one three-slot window. When
// fewer ads come back than the window holds, trailing slots keep their
// previous content. Selections are positional and survive the splice.
func (s *Store) ReplaceSet(set int, ads []models.Ad) error {
	start := set * setSize
	if set < 0 || start >= len(s.ads) {
		return fmt.Errorf("set %d out of range", set)
	}
	for j, ad := range ads {
		i := start + j
		if j >= setSize || i >= len(s.ads) {
			break
		}
		s.ads[i] = ad
	}
	return nil
}

func (s *Store) Toggle(i int) error {
	if i < 0 || i >= len(s.ads) {
		return fmt.Errorf("ad %d out of range", i)
	}
	s.selected[i] = !s.selected[i]
	return nil
}

func (s *Store) SelectAll() {
	for i := range s.ads {
		s.selected[i] = true
	}
}

func (s *Store) DeselectAll() {
	s.selected = map[int]bool{}
}

func (s *Store) IsSelected(i int) bool { return s.selected[i] }

func (s *Store) SelectedCount() int {
	n := 0
	for i := range s.ads {
		if s.selected[i] {
			n++
		}
	}
	return n
}

// SelectedAds returns the curated subset in display order.
func (s *Store) SelectedAds() []models.Ad {
	var out []models.Ad
	for i, ad := range s.ads {
		if s.selected[i] {
			out = append(out, ad)
		}
	}
	return out
}

// EditAd overwrites one field in place. Last write wins; there is no
// undo.
func (s *Store) EditAd(i int, field, value string) error {
	if i < 0 || i >= len(s.ads) {
		return fmt.Errorf("ad %d out of range", i)
	}
	switch field {
	case "headline":
		s.ads[i].Headline = value
	case "ad_text":
		s.ads[i].AdText = value
	case "cta":
		s.ads[i].CTA = value
	default:
		return fmt.Errorf("unknown ad field: %s", field)
	}
	return nil
}

// AddRecipient validates and adds one contact. The channel is inferred
// from the value: anything with an @ is treated as email. Duplicates
// match exactly on the normalized value, emails compared lower-cased.
func (s *Store) AddRecipient(name, contact string) error {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return ErrInvalidContact
	}

	if strings.Contains(contact, "@") {
		normalized, ok := s.validator.ValidateEmail(contact)
		if !ok {
			return ErrInvalidContact
		}
		normalized = strings.ToLower(normalized)
		for _, r := range s.email {
			if r.Contact == normalized {
				return ErrDuplicate
			}
		}
		s.email = append(s.email, Recipient{Name: name, Contact: normalized})
		return nil
	}

	normalized, ok := s.validator.ValidatePhone(contact)
	if !ok {
		return ErrInvalidContact
	}
	for _, r := range s.sms {
		if r.Contact == normalized {
			return ErrDuplicate
		}
	}
	s.sms = append(s.sms, Recipient{Name: name, Contact: normalized})
	return nil
}

// BulkImport accepts line-delimited "contact" or "name, contact" text.
// Invalid and duplicate lines are skipped; only the aggregate counts are
// reported.
func (s *Store) BulkImport(text string) ImportResult {
	var res ImportResult
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, contact := "", line
		if idx := strings.Index(line, ","); idx >= 0 {
			name = strings.TrimSpace(line[:idx])
			contact = strings.TrimSpace(line[idx+1:])
		}

		if err := s.AddRecipient(name, contact); err != nil {
			res.Skipped++
			continue
		}
		res.Added++
	}
	return res
}

func (s *Store) SMSRecipients() []Recipient   { return s.sms }
func (s *Store) EmailRecipients() []Recipient { return s.email }

// CanSend requires at least one recipient on any channel and at least
// one selected ad.
func (s *Store) CanSend() bool {
	return (len(s.sms)+len(s.email)) > 0 && s.SelectedCount() > 0
}

func (s *Store) Summary() Summary { return s.summary }

func (s *Store) computeSummary() Summary {
	channels := 0
	if len(s.sms) > 0 {
		channels++
	}
	if len(s.email) > 0 {
		channels++
	}
	return Summary{
		SelectedAds:     s.SelectedCount(),
		SMSRecipients:   len(s.sms),
		EmailRecipients: len(s.email),
		Channels:        channels,
	}
}

// SendRequest assembles the dispatch payload from the current state:
// full recipient lists, only the selected ads.
func (s *Store) SendRequest(campaignID string) models.SendRequest {
	req := models.SendRequest{
		CampaignID: campaignID,
		SMSUsers:   []models.User{},
		EmailUsers: []models.User{},
		Ads:        s.SelectedAds(),
	}
	for _, r := range s.sms {
		req.SMSUsers = append(req.SMSUsers, models.User{Name: r.Name, Phone: r.Contact})
	}
	for _, r := range s.email {
		req.EmailUsers = append(req.EmailUsers, models.User{Name: r.Name, Email: r.Contact})
	}
	return req
}
