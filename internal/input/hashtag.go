package input

import (
	"regexp"
	"strings"
	"unicode"
)

const maxHashtags = 30

var hashtagExtractRe = regexp.MustCompile(`#\w+`)

func processHashtags(value string) Result {
	r := Result{OK: true}

	tags := extractHashtags(value)
	if len(tags) == 0 {
		r.addError("no valid hashtags found in input")
		return r
	}

	cleaned := make([]string, 0, len(tags))
	seen := make(map[string]bool)
	for _, tag := range tags {
		c := cleanHashtag(tag)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, c)
	}

	if len(cleaned) > maxHashtags {
		r.addWarning("too many hashtags: keeping the first %d", maxHashtags)
		cleaned = cleaned[:maxHashtags]
	}

	for _, tag := range cleaned {
		if isAllDigits(tag[1:]) {
			r.addWarning("hashtag contains only numbers: %s", tag)
		}
	}

	r.Tags = cleaned
	r.Cleaned = strings.Join(cleaned, " ")
	return r
}

func extractHashtags(text string) []string {
	return hashtagExtractRe.FindAllString(text, -1)
}

// cleanHashtag strips invalid characters and capitalizes the tag body.
func cleanHashtag(tag string) string {
	content := strings.TrimPrefix(tag, "#")

	var b strings.Builder
	for _, c := range content {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return ""
	}

	return "#" + titleCase(b.String())
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}
