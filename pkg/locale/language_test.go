package locale

import "testing"

func TestPreferredLanguage(t *testing.T) {
	tests := []struct {
		name      string
		languages []string
		want      string
	}{
		{"nil list", nil, "en"},
		{"empty list", []string{}, "en"},
		{"display name", []string{"Tamil"}, "ta"},
		{"first entry wins", []string{"Spanish", "English"}, "sp"},
		{"trims and lowercases", []string{"  ENGLISH  "}, "en"},
		{"blank first entry falls back", []string{"", "French"}, "en"},
		{"one letter first entry falls back", []string{"x", "Tamil"}, "en"},
		{"non letter prefix falls back", []string{"42 signs", "Hindi"}, "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreferredLanguage(tt.languages); got != tt.want {
				t.Errorf("PreferredLanguage(%v) = %q, want %q", tt.languages, got, tt.want)
			}
		})
	}
}
