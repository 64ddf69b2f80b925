package input

import (
	"strings"
	"unicode"
)

const (
	competitorMinLen = 2
	competitorMaxLen = 100
)

var genericBusinessTerms = map[string]bool{
	"company":  true,
	"business": true,
	"corp":     true,
	"inc":      true,
	"llc":      true,
	"ltd":      true,
}

// namePrefixes are capitalized separately so "mcdonald's" becomes
// "McDonald's" rather than "Mcdonald's".
var namePrefixes = []string{"mc", "mac", "o'", "d'", "de", "la", "le", "van", "von"}

func processCompetitor(value string) Result {
	r := Result{OK: true}
	cleaned := cleanCompetitor(value)
	r.Cleaned = cleaned

	if len(cleaned) < competitorMinLen {
		r.addError("name too short: minimum length is %d characters", competitorMinLen)
	}
	if len(cleaned) > competitorMaxLen {
		r.addError("name too long: maximum length is %d characters", competitorMaxLen)
	}

	hasLetter := false
	for _, c := range cleaned {
		if unicode.IsLetter(c) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		r.addError("name must contain at least one letter")
	}

	if genericBusinessTerms[strings.ToLower(cleaned)] {
		r.addWarning("name appears to be a generic business term")
	}

	return r
}

func cleanCompetitor(value string) string {
	cleaned := strings.Join(strings.Fields(value), " ")

	var b strings.Builder
	for _, c := range cleaned {
		if isCompetitorChar(c) {
			b.WriteRune(c)
		}
	}

	return strings.TrimSpace(normalizeNameCase(b.String()))
}

func isCompetitorChar(c rune) bool {
	if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
		return true
	}
	switch c {
	case ' ', '&', '.', '-', '\'':
		return true
	}
	return false
}

func normalizeNameCase(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		words[i] = capitalizeWord(word)
	}
	return strings.Join(words, " ")
}

func capitalizeWord(word string) string {
	lower := strings.ToLower(word)
	for _, prefix := range namePrefixes {
		if strings.HasPrefix(lower, prefix) && len(word) > len(prefix) {
			return titleCase(prefix) + titleCase(word[len(prefix):])
		}
	}
	return titleCase(word)
}

// titleCase uppercases the first letter and lowercases the rest.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
