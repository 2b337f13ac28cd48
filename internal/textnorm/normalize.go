// Package textnorm canonicalizes free transaction text for comparison.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	punctRe        = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	longDigitRunRe = regexp.MustCompile(`[0-9]{4,}`)
	spaceRe        = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes text for key comparison: lower-case,
// punctuation and long digit runs (4+, account and reference numbers)
// replaced with spaces, whitespace collapsed, trimmed. Total and
// idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = punctRe.ReplaceAllString(s, " ")
	s = longDigitRunRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
