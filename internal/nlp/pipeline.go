// Package nlp turns free-form Russian text into tagged spans through four
// sequential stages: segmentation, morphological tagging, shallow
// dependency parsing and named-entity tagging. The stages are pure
// functions over the previous stage's output; only Models carries state,
// loaded once at startup and read-only afterwards.
package nlp

import "github.com/pogodabot/weather-query-service/internal/models"

// Pipeline analyzes utterances with a shared immutable Models value.
type Pipeline struct {
	models *Models
}

// NewPipeline returns a Pipeline over the given models.
func NewPipeline(m *Models) *Pipeline {
	return &Pipeline{models: m}
}

// Models exposes the underlying linguistic models for callers that need
// direct lemma access (the resolver's normalization step).
func (p *Pipeline) Models() *Models {
	return p.models
}

// Analyze runs the four stages over a raw utterance and returns the tagged
// spans in document order. Deterministic for identical input. Input with no
// tokens yields an empty slice, not an error.
func (p *Pipeline) Analyze(raw string) []models.TaggedSpan {
	toks := segment(raw)
	if len(toks) == 0 {
		return nil
	}
	tagMorphology(p.models, toks)
	parseSyntax(toks)
	return tagEntities(p.models, toks)
}
