package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateUtterance(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		maxLen  int
		want    string
		wantErr error
	}{
		{"plain text", "Погода в Москве", 512, "Погода в Москве", nil},
		{"trims whitespace", "  завтра в Твери \n", 512, "завтра в Твери", nil},
		{"punctuation allowed", "Москва?!", 512, "Москва?!", nil},
		{"empty", "", 512, "", ErrUtteranceEmpty},
		{"whitespace only", " \t\n ", 512, "", ErrUtteranceEmpty},
		{"too long", strings.Repeat("а", 513), 512, "", ErrUtteranceTooLong},
		{"at the bound", strings.Repeat("а", 512), 512, strings.Repeat("а", 512), nil},
		{"unbounded", strings.Repeat("а", 1000), 0, strings.Repeat("а", 1000), nil},
		{"no letters", "123 ...", 512, "", ErrUtteranceNoLetters},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateUtterance(tt.input, tt.maxLen)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestValidateUtteranceRuneLength confirms the bound counts runes, not
// bytes: Cyrillic text is two bytes per letter.
func TestValidateUtteranceRuneLength(t *testing.T) {
	text := strings.Repeat("ж", 100)
	got, err := ValidateUtterance(text, 100)
	if err != nil {
		t.Fatalf("err = %v, want nil for 100 runes / 200 bytes", err)
	}
	if got != text {
		t.Errorf("text changed: %q", got)
	}
}
