package input

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	zipFiveRe    = regexp.MustCompile(`^\d{5}$`)
	zipFivePlus4 = regexp.MustCompile(`^\d{5}-\d{4}$`)
	zipNineRe    = regexp.MustCompile(`^\d{9}$`)
	zipStripRe   = regexp.MustCompile(`[^A-Za-z0-9\s-]`)
	dashRunRe    = regexp.MustCompile(`-+`)
	digitRe      = regexp.MustCompile(`\d`)
)

func processZipCode(value string) Result {
	r := Result{OK: true}

	cleaned := cleanZipCode(value)
	r.Cleaned = cleaned

	if cleaned == "" {
		r.addError("zip code cannot be empty")
		return r
	}

	format := detectZipFormat(cleaned)
	if format == "" {
		r.addError("invalid zip code format: %s", cleaned)
		return r
	}

	five := fiveDigit(cleaned)
	if five != "" {
		n, _ := strconv.Atoi(five)
		switch {
		case n < 1000:
			r.addError("invalid zip code range: 00000-00999")
		case n >= 10000 && n <= 10009:
			r.addWarning("zip code range 10000-10009 is reserved")
		}
	}

	return r
}

// cleanZipCode strips junk characters and normalizes nine-digit codes
// to the 12345-6789 form.
func cleanZipCode(value string) string {
	cleaned := strings.TrimSpace(value)
	cleaned = zipStripRe.ReplaceAllString(cleaned, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = dashRunRe.ReplaceAllString(cleaned, "-")

	digits := digitRe.FindAllString(cleaned, -1)
	if len(digits) < 5 {
		return cleaned
	}

	five := strings.Join(digits[:5], "")
	if len(digits) >= 9 {
		return five + "-" + strings.Join(digits[5:9], "")
	}
	return five
}

func detectZipFormat(zip string) string {
	switch {
	case zipFiveRe.MatchString(zip):
		return "5"
	case zipFivePlus4.MatchString(zip):
		return "5+4"
	case zipNineRe.MatchString(zip):
		return "9"
	}
	return ""
}

func fiveDigit(zip string) string {
	digits := digitRe.FindAllString(zip, -1)
	if len(digits) < 5 {
		return ""
	}
	return strings.Join(digits[:5], "")
}
