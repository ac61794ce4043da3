package resolver

import (
	"errors"
	"sync"
	"testing"

	"github.com/pogodabot/weather-query-service/internal/models"
	"github.com/pogodabot/weather-query-service/internal/nlp"
)

var (
	testModelsOnce sync.Once
	testModels     *nlp.Models
	testModelsErr  error
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	testModelsOnce.Do(func() {
		testModels, testModelsErr = nlp.Load()
	})
	if testModelsErr != nil {
		t.Fatalf("load models: %v", testModelsErr)
	}
	return New(testModels)
}

func locSpan(surface, lemma string) models.TaggedSpan {
	return models.TaggedSpan{
		Surface:    surface,
		Normalized: lemma,
		Entity:     models.EntityLocation,
		POS:        models.POSNoun,
		Lemma:      lemma,
	}
}

func nounSpan(word string) models.TaggedSpan {
	return models.TaggedSpan{
		Surface:    word,
		Normalized: word,
		Entity:     models.EntityOther,
		POS:        models.POSNoun,
		Lemma:      word,
	}
}

// TestResolveFirstLocationWins verifies order-stable selection: with two
// location spans the earlier one is chosen regardless of length or case.
func TestResolveFirstLocationWins(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name  string
		spans []models.TaggedSpan
		want  string
	}{
		{
			name:  "two cities, first wins",
			spans: []models.TaggedSpan{locSpan("Казани", "казань"), locSpan("Москве", "москва")},
			want:  "Казань",
		},
		{
			name:  "reversed order flips the winner",
			spans: []models.TaggedSpan{locSpan("Москве", "москва"), locSpan("Казани", "казань")},
			want:  "Москва",
		},
		{
			name:  "longer later candidate does not win",
			spans: []models.TaggedSpan{locSpan("Уфе", "уфа"), locSpan("Санктпетербурге", "санктпетербург")},
			want:  "Уфа",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Resolve(tc.spans)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got.Canonical != tc.want {
				t.Errorf("Canonical = %q, want %q", got.Canonical, tc.want)
			}
		})
	}
}

// TestResolveLocationGuard verifies that a lowercase single-word location
// span is rejected and resolution falls through to the noun rule.
func TestResolveLocationGuard(t *testing.T) {
	r := newTestResolver(t)

	spans := []models.TaggedSpan{
		nounSpan("погода"),
		{Surface: "throttle", Normalized: "throttle", Entity: models.EntityLocation, POS: models.POSNoun, Lemma: "throttle"},
	}
	got, err := r.Resolve(spans)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Canonical != "Погода" {
		t.Errorf("Canonical = %q, want noun fallback Погода", got.Canonical)
	}
}

// TestResolveLocationGuardMultiWord verifies that a multi-word location
// passes the guard even in lowercase.
func TestResolveLocationGuardMultiWord(t *testing.T) {
	r := newTestResolver(t)

	spans := []models.TaggedSpan{
		{
			Surface:    "нижний новгород",
			Normalized: "нижний новгород",
			Entity:     models.EntityLocation,
			POS:        models.POSNoun,
			Lemma:      "нижний новгород",
		},
	}
	got, err := r.Resolve(spans)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Canonical != "Нижний Новгород" {
		t.Errorf("Canonical = %q, want Нижний Новгород", got.Canonical)
	}
}

// TestResolveNounFallback verifies the second strategy: first noun longer
// than two runes when no location span survived.
func TestResolveNounFallback(t *testing.T) {
	r := newTestResolver(t)

	spans := []models.TaggedSpan{
		{Surface: "по", Normalized: "по", Entity: models.EntityOther, POS: models.POSPreposition, Lemma: "по"},
		{Surface: "ним", Normalized: "ним", Entity: models.EntityOther, POS: models.POSPronoun, Lemma: "ним"},
		nounSpan("самара"),
	}
	got, err := r.Resolve(spans)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Canonical != "Самара" {
		t.Errorf("Canonical = %q, want Самара", got.Canonical)
	}
}

// TestResolveFirstWordFallback verifies the last-resort rule: any text
// yields its first word.
func TestResolveFirstWordFallback(t *testing.T) {
	r := newTestResolver(t)

	spans := []models.TaggedSpan{
		{Surface: "ну", Normalized: "ну", Entity: models.EntityOther, POS: models.POSParticle, Lemma: "ну"},
		{Surface: "и", Normalized: "и", Entity: models.EntityOther, POS: models.POSParticle, Lemma: "и"},
	}
	got, err := r.Resolve(spans)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Canonical != "Ну" {
		t.Errorf("Canonical = %q, want Ну", got.Canonical)
	}
}

// TestResolveNoCandidate verifies the typed error for empty span input;
// no text can ever produce an empty canonical name.
func TestResolveNoCandidate(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Resolve(nil)
	if !errors.Is(err, ErrNoCandidate) {
		t.Errorf("err = %v, want ErrNoCandidate", err)
	}
}

// TestResolveCanonicalDisplay verifies gazetteer display forms win over
// plain title-casing.
func TestResolveCanonicalDisplay(t *testing.T) {
	r := newTestResolver(t)

	spans := []models.TaggedSpan{locSpan("Ростовенадону", "ростовнадону")}
	got, err := r.Resolve(spans)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Canonical != "Ростов-на-Дону" {
		t.Errorf("Canonical = %q, want Ростов-на-Дону", got.Canonical)
	}
}
