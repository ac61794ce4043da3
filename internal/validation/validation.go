package validation

import (
	"errors"
	"strings"
	"unicode"
)

// ErrUtteranceEmpty is returned when the text is empty or whitespace-only after trim.
var ErrUtteranceEmpty = errors.New("text is required")

// ErrUtteranceTooLong is returned when the text length exceeds the maximum.
var ErrUtteranceTooLong = errors.New("text too long")

// ErrUtteranceNoLetters is returned when the text contains no letters at all;
// the pipeline cannot extract a place name from digits and punctuation.
var ErrUtteranceNoLetters = errors.New("text contains no letters")

// ValidateUtterance trims the input and enforces a maximum rune length.
// Unlike strict field validation, arbitrary punctuation is allowed here;
// the normalizer strips it later. Returns the trimmed string or an error
// suitable for 400 INVALID_QUERY responses.
func ValidateUtterance(input string, maxLen int) (string, error) {
	s := strings.TrimSpace(input)
	r := []rune(s)
	if len(r) == 0 {
		return "", ErrUtteranceEmpty
	}
	if maxLen > 0 && len(r) > maxLen {
		return "", ErrUtteranceTooLong
	}
	hasLetter := false
	for _, c := range r {
		if unicode.IsLetter(c) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return "", ErrUtteranceNoLetters
	}
	return s, nil
}
