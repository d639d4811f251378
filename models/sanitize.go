package models

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Clean strips all HTML from s and trims surrounding whitespace. Every
// free-text field goes through it before it is stored.
func Clean(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// CleanPtr is Clean for optional fields; blank values become nil.
func CleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	c := Clean(*s)
	if c == "" {
		return nil
	}
	return &c
}

// normalizePhone strips separators and an Indian country code, returning the
// digits and whether they form a 10 digit mobile number.
func normalizePhone(phone string) (string, bool) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	return digits, len(digits) == 10
}
