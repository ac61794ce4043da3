package models

import "time"

// EntityType classifies a tagged span.
type EntityType string

const (
	EntityLocation EntityType = "LOCATION"
	EntityPerson   EntityType = "PERSON"
	EntityOther    EntityType = "OTHER"
)

// PartOfSpeech is a coarse part-of-speech tag.
type PartOfSpeech string

const (
	POSNoun        PartOfSpeech = "NOUN"
	POSVerb        PartOfSpeech = "VERB"
	POSAdjective   PartOfSpeech = "ADJ"
	POSPreposition PartOfSpeech = "PREP"
	POSPronoun     PartOfSpeech = "PRON"
	POSParticle    PartOfSpeech = "PART"
	POSOther       PartOfSpeech = "OTHER"
)

// GrammaticalCase is the inflectional case of a nominal token.
type GrammaticalCase string

const (
	CaseNominative    GrammaticalCase = "nom"
	CaseAccusative    GrammaticalCase = "acc"
	CasePrepositional GrammaticalCase = "prep"
	CaseUnknown       GrammaticalCase = "unknown"
)

// TaggedSpan is one token of the input text annotated by the linguistic
// pipeline. Offsets index the punctuation-stripped text.
type TaggedSpan struct {
	Surface     string
	Normalized  string
	Start       int
	End         int
	Entity      EntityType
	POS         PartOfSpeech
	Case        GrammaticalCase
	Lemma       string
	LocativeCtx bool // governed by a locative preposition
}

// CityCandidate is a place name extracted from an utterance. Canonical is
// always non-empty; absence of a candidate is a typed error, never "".
type CityCandidate struct {
	Canonical string
	Span      *TaggedSpan // nil for word-fallback candidates
}

// Coordinates is a successful geocode result.
type Coordinates struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
}

// ForecastSample is one 3-hour slot of the forecast series.
type ForecastSample struct {
	Timestamp   time.Time
	Main        string // provider weather classification, e.g. "Clear"
	Description string // provider free-text description
	TempC       float64
	FeelsLikeC  float64
	HumidityPct int
	PressureHPa float64
	WindSpeedMS float64
}

// ForecastSeries is the provider's fixed-cadence sample sequence:
// 40 samples, 5 days at 3-hour spacing, non-decreasing timestamps.
type ForecastSeries struct {
	City    string
	Samples []ForecastSample
}

// DateQuery is a calendar date to be answered at its noon instant.
type DateQuery struct {
	Target time.Time // date component only; matcher fixes the time to 12:00
}

// MatchKind names how a forecast sample was selected for a query date.
type MatchKind string

const (
	// MatchExact means a sample timestamp equaled the query's noon instant.
	MatchExact MatchKind = "exact"
	// MatchFallback means no slot matched and the first sample was
	// substituted, possibly answering for a different day.
	MatchFallback MatchKind = "fallback"
	// MatchNone means the series had no usable samples.
	MatchNone MatchKind = "none"
)

// Resolution is the terminal outcome of matching a forecast to a date.
type Resolution struct {
	City   string
	Kind   MatchKind
	Sample ForecastSample // zero value when Kind is MatchNone
}
