// Package locale resolves a user's preferred translation language from the
// free-form language list stored on their profile.
package locale

import "strings"

const DefaultLanguage = "en"

// PreferredLanguage returns the two-letter code derived from the first entry
// in languages. Entries are stored as display names ("English", "Tamil"), so
// the code is the lower-cased first two letters. An empty list, or a first
// entry without two leading letters, falls back to "en"; later entries are
// never consulted.
func PreferredLanguage(languages []string) string {
	if len(languages) == 0 {
		return DefaultLanguage
	}
	code, ok := languageCode(languages[0])
	if !ok {
		return DefaultLanguage
	}
	return code
}

func languageCode(lang string) (string, bool) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if len(lang) < 2 {
		return "", false
	}

	code := lang[:2]
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return "", false
		}
	}
	return code, true
}
