package logging

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxExcerptLength is the maximum length of survey text to log.
	MaxExcerptLength = 80
	// RedactedText is the replacement text for personal data.
	RedactedText = "[REDACTED]"
)

var (
	// Email addresses occasionally appear in free-text comments.
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// UK-style phone numbers (a leading 0 or +44 followed by 9+ digits,
	// allowing spaces between groups).
	phonePattern = regexp.MustCompile(`(\+44\s?|0)\d[\d\s]{8,}\d`)
)

// Excerpt prepares a fragment of survey text for logging: personal data is
// redacted and the result is truncated to MaxExcerptLength. Comments are
// staff-written and must never land in logs verbatim.
func Excerpt(text string) string {
	sanitized := emailPattern.ReplaceAllString(text, RedactedText)
	sanitized = phonePattern.ReplaceAllString(sanitized, RedactedText)
	sanitized = strings.Join(strings.Fields(sanitized), " ")

	if utf8.RuneCountInString(sanitized) <= MaxExcerptLength {
		return sanitized
	}
	runes := []rune(sanitized)
	return string(runes[:MaxExcerptLength]) + "..."
}
