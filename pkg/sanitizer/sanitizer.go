// Package sanitizer normalizes free-form text arriving from clients before
// it is validated or persisted.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims leading and trailing whitespace and collapses any
// internal whitespace run into a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeLabel lower-cases a normalized label, used for slot statuses
// arriving from clients.
func NormalizeLabel(label string) string {
	return strings.ToLower(TrimAndNormalize(label))
}
