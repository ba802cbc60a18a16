package cleaner

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonDigits      = regexp.MustCompile(`\D`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// dateLayouts are tried in order when parsing raw date text.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// parseDate parses raw date text, returning nil when the value is blank or
// matches none of the accepted layouts.
func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// digitsOnly strips everything that is not a decimal digit.
func digitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// titleCase trims, collapses whitespace and capitalizes the first letter of
// each word, lowercasing the rest.
func titleCase(s string) string {
	s = whitespaceRuns.ReplaceAllString(strings.TrimSpace(s), " ")
	if s == "" {
		return ""
	}
	words := strings.Split(strings.ToLower(s), " ")
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func validEmail(s string) bool {
	return emailPattern.MatchString(s)
}
