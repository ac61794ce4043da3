// Package query runs the full pipeline for one utterance: extraction,
// geocoding, forecast matching and formatting. All failures are converted
// to typed errors here and to a single user-facing message at the HTTP
// boundary; nothing in the pipeline crashes the process.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/pogodabot/weather-query-service/internal/forecast"
	"github.com/pogodabot/weather-query-service/internal/format"
	"github.com/pogodabot/weather-query-service/internal/geocode"
	"github.com/pogodabot/weather-query-service/internal/models"
	"github.com/pogodabot/weather-query-service/internal/nlp"
	"github.com/pogodabot/weather-query-service/internal/observability"
	"github.com/pogodabot/weather-query-service/internal/resolver"
	"github.com/pogodabot/weather-query-service/internal/validation"
)

// ErrForecastNotFound is returned when the forecast series had no usable
// samples for the requested coordinates.
var ErrForecastNotFound = errors.New("forecast not available for that date")

// Greeting is the banner text shown to new users.
const Greeting = "Привет! Напиши мне название города и я пришлю тебе сводку погоды"

// User-facing messages for the error taxonomy. Fixed strings: the transport
// shows exactly one of these per failed request.
const (
	MsgNoCandidate      = "Не понял, о каком городе речь \U0001F615"
	MsgCityNotFound     = "☠ Проверьте название города ☠"
	MsgForecastNotFound = "Прогноз на эту дату недоступен"
	MsgGenericFailure   = "Не получилось узнать погоду, попробуйте позже"
)

// Request is one inbound natural-language query. Date is an optional ISO
// calendar date; when empty, relative-date words in the text decide.
type Request struct {
	Text string `json:"text"`
	Date string `json:"date,omitempty"`
}

// Answer is a successfully resolved query.
type Answer struct {
	City    string           `json:"city"`
	Date    string           `json:"date"`
	Match   models.MatchKind `json:"match"`
	Summary string           `json:"summary"`
}

// Service wires the pipeline stages. One instance serves all requests; the
// only shared state is the read-only linguistic models inside the pipeline.
type Service struct {
	pipeline *nlp.Pipeline
	resolver *resolver.Resolver
	geocoder geocode.Geocoder
	matcher  *forecast.Matcher
	clock    clockwork.Clock
	maxLen   int
}

// NewService creates a Service. maxTextLen bounds accepted utterances in
// runes (0 disables the bound).
func NewService(p *nlp.Pipeline, r *resolver.Resolver, g geocode.Geocoder, m *forecast.Matcher, clock clockwork.Clock, maxTextLen int) *Service {
	return &Service{
		pipeline: p,
		resolver: r,
		geocoder: g,
		matcher:  m,
		clock:    clock,
		maxLen:   maxTextLen,
	}
}

// Answer resolves a free-text query end to end.
func (s *Service) Answer(ctx context.Context, req Request) (Answer, error) {
	text, err := validation.ValidateUtterance(req.Text, s.maxLen)
	if err != nil {
		observability.QueryFailuresTotal.WithLabelValues("invalid").Inc()
		return Answer{}, err
	}

	date, err := targetDate(s.clock, req.Date, text)
	if err != nil {
		observability.QueryFailuresTotal.WithLabelValues("invalid").Inc()
		return Answer{}, fmt.Errorf("bad date %q: %w", req.Date, err)
	}

	start := time.Now()
	spans := s.pipeline.Analyze(text)
	observability.PipelineDuration.Observe(time.Since(start).Seconds())

	candidate, err := s.resolver.Resolve(spans)
	if err != nil {
		observability.QueryFailuresTotal.WithLabelValues("no_candidate").Inc()
		return Answer{}, err
	}
	if logger := loggerFromContext(ctx); logger != nil {
		logger.Debug("city candidate", zap.String("city", candidate.Canonical), zap.Int("spans", len(spans)))
	}

	return s.answerCity(ctx, candidate.Canonical, date)
}

// AnswerToken resolves a canonical colon-delimited query token. The token's
// city skips extraction (it was already resolved when the token was built)
// and goes straight to geocoding.
func (s *Service) AnswerToken(ctx context.Context, token string) (Answer, error) {
	tok, err := ParseToken(token)
	if err != nil {
		observability.QueryFailuresTotal.WithLabelValues("invalid").Inc()
		return Answer{}, err
	}
	return s.answerCity(ctx, tok.City, tok.Date)
}

func (s *Service) answerCity(ctx context.Context, city string, date time.Time) (Answer, error) {
	coords, err := s.geocoder.Resolve(ctx, city)
	if err != nil {
		reason := "upstream"
		if errors.Is(err, geocode.ErrCityNotFound) {
			reason = "city_not_found"
		}
		observability.QueryFailuresTotal.WithLabelValues(reason).Inc()
		return Answer{}, fmt.Errorf("geocode %q: %w", city, err)
	}

	res, err := s.matcher.Match(ctx, coords, models.DateQuery{Target: date})
	if err != nil {
		observability.QueryFailuresTotal.WithLabelValues("upstream").Inc()
		return Answer{}, fmt.Errorf("forecast for %q: %w", coords.DisplayName, err)
	}
	if res.Kind == models.MatchNone {
		observability.QueryFailuresTotal.WithLabelValues("forecast_not_found").Inc()
		return Answer{}, fmt.Errorf("%w: %s", ErrForecastNotFound, coords.DisplayName)
	}

	summary, err := format.Summary(res.Sample, coords.DisplayName)
	if err != nil {
		observability.QueryFailuresTotal.WithLabelValues("upstream").Inc()
		return Answer{}, fmt.Errorf("format summary: %w", err)
	}

	observability.RecordQuery(coords.DisplayName)
	return Answer{
		City:    coords.DisplayName,
		Date:    date.Format("2006-01-02"),
		Match:   res.Kind,
		Summary: summary,
	}, nil
}

// UserMessage maps a pipeline error to the fixed user-facing text.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, resolver.ErrNoCandidate):
		return MsgNoCandidate
	case errors.Is(err, geocode.ErrCityNotFound):
		return MsgCityNotFound
	case errors.Is(err, ErrForecastNotFound):
		return MsgForecastNotFound
	default:
		return MsgGenericFailure
	}
}

// loggerFromContext extracts a request-scoped zap.Logger if present.
func loggerFromContext(ctx context.Context) *zap.Logger {
	if v := ctx.Value("logger"); v != nil {
		if l, ok := v.(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return nil
}
