package nlp

import "github.com/pogodabot/weather-query-service/internal/models"

// Dependency labels produced by the shallow parser.
const (
	relRoot    = "root"
	relPrepObj = "pobj" // nominal complement of a preposition
	relAmod    = "amod" // adjectival modifier of a following nominal
)

// parseSyntax runs a shallow dependency pass. It only recovers the
// structure the entity tagger needs: prepositional phrases (a preposition
// governs the next nominal, optionally through an adjective) and
// adjective-noun attachment. Everything else is attached to the root.
func parseSyntax(toks []token) {
	root := firstNominal(toks)
	for i := range toks {
		t := &toks[i]
		t.head = root
		t.relation = relRoot
		if i == root {
			t.head = -1
		}
	}

	for i := 0; i < len(toks); i++ {
		if toks[i].pos != models.POSPreposition {
			continue
		}
		// Walk over adjectives to the nominal head of the phrase
		// ("в нижнем новгороде": both nominals get the locative reading).
		j := i + 1
		for j < len(toks) && toks[j].pos == models.POSAdjective {
			toks[j].head = i
			toks[j].relation = relAmod
			j++
		}
		if j >= len(toks) || toks[j].pos != models.POSNoun {
			continue
		}
		toks[j].head = i
		toks[j].relation = relPrepObj
		if _, locative := locativePrepositions[toks[i].folded]; locative {
			for k := i + 1; k <= j; k++ {
				toks[k].locativeCtx = true
			}
		}
	}
}

func firstNominal(toks []token) int {
	for i, t := range toks {
		if t.pos == models.POSNoun {
			return i
		}
	}
	return 0
}
