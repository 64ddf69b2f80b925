// Package validate normalizes the contact values accepted into recipient
// lists: phone numbers to E.164 and email addresses per RFC 5322.
package validate

import (
	"net/mail"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// defaultRegion is assumed for phone numbers without a country prefix.
const defaultRegion = "US"

// Phone parses raw against the default region and returns the E.164
// form. ok=false means the value is not a dialable number.
func Phone(raw string) (normalized string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	parsed, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", false
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), true
}

// Email checks raw is a single addr-spec and returns the bare address.
func Email(raw string) (normalized string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", false
	}
	return addr.Address, true
}

// Contacts adapts the package functions to the wizard's validator
// contract.
type Contacts struct{}

func (Contacts) ValidatePhone(raw string) (string, bool) { return Phone(raw) }
func (Contacts) ValidateEmail(raw string) (string, bool) { return Email(raw) }
