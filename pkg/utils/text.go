// Package utils provides shared utilities for text, math, and logging.
package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeText trims s, strips markup tags and control characters, and caps
// the result at maxLen runes. Applied to every free-text filter before the
// value reaches the store or a cache key.
func SanitizeText(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case inTag:
			// drop tag contents
		case unicode.IsControl(r):
			// drop
		default:
			b.WriteRune(r)
		}
	}

	out := strings.TrimSpace(b.String())
	if maxLen > 0 && utf8.RuneCountInString(out) > maxLen {
		runes := []rune(out)
		out = strings.TrimSpace(string(runes[:maxLen]))
	}
	return out
}

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
