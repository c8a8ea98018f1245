package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

// Email (case-insensitive)
var reEmail = regexp.MustCompile(`(?i)[A-Z0-9._%+\-]+@[A-Z0-9.\-]+\.[A-Z]{2,}`)

// Phone numbers as typed into the client form: +966..., 05xx..., with
// spaces, dashes, dots or parentheses. At least 9 digits overall.
var rePhone = regexp.MustCompile(`\+?\d[\d\s\-\.()]{7,}\d`)

// RedactPII masks e-mails and phone numbers before a string is logged.
func RedactPII(s string) string {
	if s == "" {
		return s
	}
	s = reEmail.ReplaceAllString(s, "[redacted email]")
	s = rePhone.ReplaceAllString(s, "[redacted phone]")
	return s
}

// Summary cuts s to at most max runes on a word boundary.
func Summary(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	i := max
	for i > 0 && r[i] != ' ' {
		i--
	}
	if i <= 0 {
		i = max
	}
	return string(r[:i]) + "…"
}

// Fold prepares a string for case-insensitive search: trimmed, lower-cased,
// Arabic tatweel and diacritics dropped.
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if r == 'ـ' || unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)
}

// Digits keeps only the ASCII digits of s.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
