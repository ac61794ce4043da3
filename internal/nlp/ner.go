package nlp

import (
	"strings"

	"github.com/pogodabot/weather-query-service/internal/models"
)

// tagEntities assigns an entity class to spans and merges known multi-word
// city names ("нижний новгород") into a single span. Returns the exported
// span sequence in document order.
//
// Rules, per token:
//  1. gazetteer bigram with the next token  -> one merged LOCATION span
//  2. gazetteer unigram (folded or lemma)   -> LOCATION
//  3. given-name list                       -> PERSON
//  4. noun governed by a locative preposition -> LOCATION
//  5. otherwise                             -> OTHER
func tagEntities(m *Models, toks []token) []models.TaggedSpan {
	spans := make([]models.TaggedSpan, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		t := toks[i]

		if i+1 < len(toks) {
			bigram := t.folded + " " + toks[i+1].folded
			bigramLemma := t.lemma + " " + toks[i+1].lemma
			if _, ok := m.LookupCity(bigram); ok {
				spans = append(spans, mergeSpan(t, toks[i+1], bigram))
				i++
				continue
			}
			if _, ok := m.LookupCity(bigramLemma); ok {
				spans = append(spans, mergeSpan(t, toks[i+1], bigramLemma))
				i++
				continue
			}
		}

		entity := models.EntityOther
		if _, ok := m.LookupCity(t.folded); ok {
			entity = models.EntityLocation
		} else if _, ok := m.LookupCity(t.lemma); ok {
			entity = models.EntityLocation
		} else if _, ok := givenNames[t.folded]; ok {
			entity = models.EntityPerson
		} else if t.locativeCtx && t.pos == models.POSNoun {
			entity = models.EntityLocation
		}

		spans = append(spans, models.TaggedSpan{
			Surface:     t.surface,
			Normalized:  t.folded,
			Start:       t.start,
			End:         t.end,
			Entity:      entity,
			POS:         t.pos,
			Case:        t.gramCase,
			Lemma:       t.lemma,
			LocativeCtx: t.locativeCtx,
		})
	}
	return spans
}

func mergeSpan(a, b token, lemma string) models.TaggedSpan {
	return models.TaggedSpan{
		Surface:     a.surface + " " + b.surface,
		Normalized:  a.folded + " " + b.folded,
		Start:       a.start,
		End:         b.end,
		Entity:      models.EntityLocation,
		POS:         models.POSNoun,
		Case:        a.gramCase,
		Lemma:       strings.ToLower(lemma),
		LocativeCtx: a.locativeCtx || b.locativeCtx,
	}
}
