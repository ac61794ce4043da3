package nlp

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/ru"
)

// Models bundles the linguistic resources used by the pipeline: the Russian
// lemmatization dictionary plus the lexicons. Construct once at process
// start with Load; the value is immutable afterwards and safe for
// concurrent use by every request.
type Models struct {
	lemmatizer *golem.Lemmatizer
}

// Load builds the process-wide linguistic models. The golem dictionary is
// decompressed in memory, so this is the only expensive call in the
// package; everything downstream is table lookups.
func Load() (*Models, error) {
	lem, err := golem.New(ru.New())
	if err != nil {
		return nil, fmt.Errorf("nlp: load russian lemmatizer: %w", err)
	}
	return &Models{lemmatizer: lem}, nil
}

// LookupCity returns the display form for a folded city key, consulting
// unigrams only. Multi-word keys are joined with a single space.
func (m *Models) LookupCity(folded string) (string, bool) {
	display, ok := cityGazetteer[folded]
	return display, ok
}

// Nominative reduces an inflected folded word to its nominative form.
// Resolution order: gazetteer identity, ending-table substitution verified
// against the gazetteer, dictionary lemma, default ending rule. The
// gazetteer paths run first because they are exact for city names; the
// dictionary covers the rest of the vocabulary. The function is
// idempotent: a form it has produced maps to itself.
func (m *Models) Nominative(folded string) string {
	if _, ok := cityGazetteer[folded]; ok {
		return folded
	}
	if reduced, ok := reduceVerified(folded); ok {
		return reduced
	}
	if m.lemmatizer.InDict(folded) {
		if lemma := m.lemmatizer.Lemma(folded); lemma != "" {
			return lemma
		}
	}
	return reduceDefault(folded)
}

// caseEndings lists inflected-ending to nominative-ending substitutions
// tried in order; a substitution only wins when the gazetteer confirms the
// resulting form ("казани" -> "казань", "москву" -> "москва").
var caseEndings = []struct{ from, to string }{
	{"ии", "ия"},
	{"ве", "ва"},
	{"ге", "га"},
	{"ке", "ка"},
	{"ме", "ма"},
	{"ре", "ра"},
	{"е", ""},
	{"и", "ь"},
	{"у", "а"},
	{"ю", "я"},
}

func reduceVerified(folded string) (string, bool) {
	for _, sub := range caseEndings {
		if !strings.HasSuffix(folded, sub.from) {
			continue
		}
		candidate := strings.TrimSuffix(folded, sub.from) + sub.to
		if _, ok := cityGazetteer[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}

// reduceDefault is the unverified fallback: prepositional -е after a
// consonant stem ("Лондоне" -> "Лондон"). Other endings stay as-is rather
// than guessing a declension class.
func reduceDefault(folded string) string {
	if strings.HasSuffix(folded, "е") && len([]rune(folded)) > 3 {
		return strings.TrimSuffix(folded, "е")
	}
	return folded
}

// IsKnownWord reports whether the word is in the lemmatization dictionary.
func (m *Models) IsKnownWord(folded string) bool {
	return m.lemmatizer.InDict(folded)
}
