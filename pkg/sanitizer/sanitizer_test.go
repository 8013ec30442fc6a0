package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", " \t\n ", ""},
		{"leading and trailing", "  hello  ", "hello"},
		{"collapses runs", "hello    world", "hello world"},
		{"mixed whitespace", "a\t b\n\nc", "a b c"},
		{"already clean", "hello world", "hello world"},
		{"unicode preserved", "café  crème", "café crème"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	if got := NormalizeLabel("  Available "); got != "available" {
		t.Errorf("NormalizeLabel = %q, want %q", got, "available")
	}
	if got := NormalizeLabel("BUSY"); got != "busy" {
		t.Errorf("NormalizeLabel = %q, want %q", got, "busy")
	}
}
