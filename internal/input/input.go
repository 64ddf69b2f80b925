// Package input cleans and validates free-form campaign fields before
// they reach generation or persistence.
package input

import "fmt"

type Type string

const (
	TypeCompetitorName Type = "competitor_name"
	TypeHashtag        Type = "hashtag"
	TypeZipCode        Type = "zip_code"
)

// Result carries the cleaned value plus everything validation had to say
// about it. OK is false only when Errors is non-empty.
type Result struct {
	OK          bool     `json:"ok"`
	Cleaned     string   `json:"cleaned"`
	Tags        []string `json:"tags,omitempty"`
	Errors      []string `json:"errors,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.OK = false
}

func (r *Result) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) addSuggestion(format string, args ...any) {
	r.Suggestions = append(r.Suggestions, fmt.Sprintf(format, args...))
}

// Process cleans value and validates the cleaned form.
func Process(value string, t Type) Result {
	switch t {
	case TypeCompetitorName:
		return processCompetitor(value)
	case TypeHashtag:
		return processHashtags(value)
	case TypeZipCode:
		return processZipCode(value)
	default:
		r := Result{}
		r.addError("unknown input type: %s", t)
		return r
	}
}
