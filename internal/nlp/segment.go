package nlp

import (
	"unicode"

	"github.com/pogodabot/weather-query-service/internal/models"
	"github.com/pogodabot/weather-query-service/internal/textnorm"
)

// token is the pipeline's working unit. Stages annotate it in place; the
// final stage projects tokens into exported TaggedSpans.
type token struct {
	surface string // original casing, punctuation stripped
	folded  string // case-folded surface
	start   int    // rune offset into the stripped text
	end     int

	pos      models.PartOfSpeech
	gramCase models.GrammaticalCase
	lemma    string

	head     int    // index of syntactic head, -1 for root
	relation string // dependency label

	entity      models.EntityType
	locativeCtx bool
}

// segment splits a raw utterance into tokens. It runs on the
// punctuation-stripped (but case-preserving) form so surface capitalization
// survives into spans; the folded form is attached per token.
func segment(raw string) []token {
	stripped := textnorm.Strip(raw)
	var toks []token
	runes := []rune(stripped)
	i := 0
	for i < len(runes) {
		if !isWordRune(runes[i]) {
			i++
			continue
		}
		start := i
		for i < len(runes) && isWordRune(runes[i]) {
			i++
		}
		surface := string(runes[start:i])
		toks = append(toks, token{
			surface: surface,
			folded:  textnorm.Fold(surface),
			start:   start,
			end:     i,
			head:    -1,
		})
	}
	return toks
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
