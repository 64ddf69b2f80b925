package validate

import "testing"

func TestPhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"national format", "(415) 555-2671", "+14155552671", true},
		{"e164 passthrough", "+14155552671", "+14155552671", true},
		{"uk with prefix", "+442071838750", "+442071838750", true},
		{"too short", "12345", "", false},
		{"letters", "not a phone", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Phone(tt.raw)
			if ok != tt.ok {
				t.Fatalf("Phone(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Phone(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"plain", "alice@example.com", "alice@example.com", true},
		{"display name stripped", "Alice <alice@example.com>", "alice@example.com", true},
		{"whitespace trimmed", "  bob@example.com  ", "bob@example.com", true},
		{"missing domain", "alice@", "", false},
		{"not an address", "hello", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Email(tt.raw)
			if ok != tt.ok {
				t.Fatalf("Email(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
