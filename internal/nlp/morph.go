package nlp

import (
	"strings"
	"unicode"

	"github.com/pogodabot/weather-query-service/internal/models"
)

// tagMorphology assigns part of speech, grammatical case and nominative
// lemma to each token. Closed classes come from the lexicons; open classes
// are guessed from endings, which is reliable enough for the single slot
// the resolver reads (noun vs. not-noun).
func tagMorphology(m *Models, toks []token) {
	for i := range toks {
		t := &toks[i]
		t.pos = guessPOS(t.folded)
		if t.pos == models.POSVerb && obliqueAdjective(toks, i) {
			t.pos = models.POSAdjective
		}
		t.gramCase = guessCase(t.folded, t.pos)
		if t.pos == models.POSNoun || t.pos == models.POSAdjective {
			t.lemma = m.Nominative(t.folded)
		} else {
			t.lemma = t.folded
		}
	}
}

func guessPOS(folded string) models.PartOfSpeech {
	if _, ok := prepositions[folded]; ok {
		return models.POSPreposition
	}
	if _, ok := pronouns[folded]; ok {
		return models.POSPronoun
	}
	if _, ok := particles[folded]; ok {
		return models.POSParticle
	}
	if _, ok := timeWords[folded]; ok {
		return models.POSOther
	}
	if _, ok := verbLexicon[folded]; ok {
		return models.POSVerb
	}

	runes := []rune(folded)
	if len(runes) == 0 || unicode.IsDigit(runes[0]) {
		return models.POSOther
	}
	if len(runes) > 3 {
		switch {
		case hasAnySuffix(folded, "ть", "ться", "ет", "ит", "ют", "ят", "ешь", "ишь", "ем", "им"):
			return models.POSVerb
		case hasAnySuffix(folded, "ый", "ий", "ой", "ая", "яя", "ое", "ее", "ые", "ие"):
			return models.POSAdjective
		}
	}
	if len(runes) <= 2 {
		return models.POSOther
	}
	return models.POSNoun
}

// obliqueAdjective rescues adjectives in oblique cases whose endings
// collide with verb conjugations ("нижнем" vs "едем"): a verb-looking
// token sitting between a preposition and a noun, with an oblique
// adjective ending, is an adjective ("в нижнем новгороде").
func obliqueAdjective(toks []token, i int) bool {
	if i == 0 || toks[i-1].pos != models.POSPreposition {
		return false
	}
	if !hasAnySuffix(toks[i].folded, "ем", "ом", "ой", "ей", "им", "ым", "их", "ых", "ую", "юю") {
		return false
	}
	return i+1 < len(toks) && guessPOS(toks[i+1].folded) == models.POSNoun
}

// guessCase reads the inflectional case off the ending. Only the three
// cases a weather query can realistically carry are distinguished.
func guessCase(folded string, pos models.PartOfSpeech) models.GrammaticalCase {
	if pos != models.POSNoun && pos != models.POSAdjective {
		return models.CaseUnknown
	}
	switch {
	case hasAnySuffix(folded, "е", "и"):
		return models.CasePrepositional
	case hasAnySuffix(folded, "у", "ю"):
		return models.CaseAccusative
	default:
		return models.CaseNominative
	}
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
