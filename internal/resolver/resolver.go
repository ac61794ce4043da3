// Package resolver selects a city candidate from tagged spans.
package resolver

import (
	"errors"
	"strings"
	"unicode"

	"github.com/pogodabot/weather-query-service/internal/models"
	"github.com/pogodabot/weather-query-service/internal/nlp"
	"github.com/pogodabot/weather-query-service/internal/textnorm"
)

// ErrNoCandidate is returned when no strategy produced a city candidate.
var ErrNoCandidate = errors.New("no city candidate in text")

// strategy inspects the span sequence and either returns a candidate span
// or reports no match. Strategies never canonicalize; that happens once,
// after selection.
type strategy func(spans []models.TaggedSpan) (*models.TaggedSpan, bool)

// Resolver picks the city a query is about. Selection is an explicit
// prioritized strategy list evaluated in fixed order; the first success
// wins and ties within a strategy go to textual order. There is no scoring
// and no disambiguation among several plausible cities.
type Resolver struct {
	models     *nlp.Models
	strategies []strategy
}

// New returns a Resolver backed by the shared linguistic models.
func New(m *nlp.Models) *Resolver {
	return &Resolver{
		models: m,
		strategies: []strategy{
			firstLocationSpan,
			firstCommonNoun,
			firstWord,
		},
	}
}

// Resolve returns the city candidate for the spans, or ErrNoCandidate when
// the text has no usable word at all. Candidates are reduced to nominative
// and title-cased; an empty canonical name is never returned.
func (r *Resolver) Resolve(spans []models.TaggedSpan) (models.CityCandidate, error) {
	for _, s := range r.strategies {
		span, ok := s(spans)
		if !ok {
			continue
		}
		canonical := r.canonicalize(span)
		if canonical == "" {
			continue
		}
		return models.CityCandidate{Canonical: canonical, Span: span}, nil
	}
	return models.CityCandidate{}, ErrNoCandidate
}

// firstLocationSpan returns the first LOCATION span in document order. The
// guard rejects single lowercase words: a location candidate must be
// multi-word or capitalized in its surface form, since the tagger sometimes
// reads function words as places.
func firstLocationSpan(spans []models.TaggedSpan) (*models.TaggedSpan, bool) {
	for i := range spans {
		if spans[i].Entity != models.EntityLocation {
			continue
		}
		if !multiWord(spans[i]) && !upperInitial(spans[i].Surface) {
			continue
		}
		return &spans[i], true
	}
	return nil, false
}

// firstCommonNoun falls back to the first noun longer than two runes.
// Known false-positive source: subject nouns like "погода" win when the
// tagger missed the actual place.
func firstCommonNoun(spans []models.TaggedSpan) (*models.TaggedSpan, bool) {
	for i := range spans {
		if spans[i].POS != models.POSNoun {
			continue
		}
		if len([]rune(spans[i].Normalized)) <= 2 {
			continue
		}
		return &spans[i], true
	}
	return nil, false
}

// firstWord is the last resort: any text at all yields its first word.
func firstWord(spans []models.TaggedSpan) (*models.TaggedSpan, bool) {
	if len(spans) == 0 {
		return nil, false
	}
	return &spans[0], true
}

func (r *Resolver) canonicalize(span *models.TaggedSpan) string {
	folded := span.Lemma
	if folded == "" {
		folded = r.models.Nominative(span.Normalized)
	}
	if display, ok := r.models.LookupCity(folded); ok {
		return display
	}
	return textnorm.Title(folded)
}

func multiWord(span models.TaggedSpan) bool {
	return strings.ContainsRune(span.Normalized, ' ')
}

func upperInitial(surface string) bool {
	for _, r := range surface {
		return unicode.IsUpper(r)
	}
	return false
}
