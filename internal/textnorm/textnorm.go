// Package textnorm prepares raw utterances for the linguistic pipeline.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var foldCaser = cases.Fold()

// Normalize case-folds the input and removes every rune outside letters,
// digits, whitespace and comma. Empty input yields empty output.
func Normalize(raw string) string {
	return foldCaser.String(Strip(raw))
}

// Strip removes punctuation (everything except letters, digits, whitespace
// and comma) while preserving the original casing. The pipeline tokenizes
// the stripped form so that surface capitalization survives for the
// location guard, while tagging runs on the folded form.
func Strip(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == ',' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fold lowercases a single token Unicode-correctly.
func Fold(s string) string {
	return foldCaser.String(s)
}

var titleCaser = cases.Title(language.Russian)

// Title renders a canonical city name: each hyphen- or space-separated part
// title-cased with Russian casing rules ("нижний новгород" -> "Нижний Новгород").
func Title(s string) string {
	return titleCaser.String(s)
}
