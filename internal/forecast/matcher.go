package forecast

import (
	"context"
	"time"

	"github.com/pogodabot/weather-query-service/internal/models"
	"github.com/pogodabot/weather-query-service/internal/observability"
)

// Matcher selects the forecast sample for a requested calendar date.
type Matcher struct {
	provider Provider
}

// NewMatcher returns a Matcher over the given provider.
func NewMatcher(p Provider) *Matcher {
	return &Matcher{provider: p}
}

// Match fetches the series for the coordinates and selects the sample whose
// timestamp equals the target date at 12:00 (the provider grid's zone, UTC).
//
// When the noon instant misses the 3-hour grid, the first sample is
// substituted instead of failing: the user always gets some answer, at the
// cost of sometimes answering for the wrong day. The outcome carries
// MatchFallback so callers and tests can tell the two apart. MatchNone is
// only produced for an empty series.
func (m *Matcher) Match(ctx context.Context, coords models.Coordinates, q models.DateQuery) (models.Resolution, error) {
	series, err := m.provider.FetchSeries(ctx, coords)
	if err != nil {
		return models.Resolution{}, err
	}
	res := Select(series, q)
	observability.MatchOutcomesTotal.WithLabelValues(string(res.Kind)).Inc()
	return res, nil
}

// Select runs the matching scan over an already-fetched series. Split out
// of Match so the policy is testable without a provider.
func Select(series models.ForecastSeries, q models.DateQuery) models.Resolution {
	res := models.Resolution{City: series.City, Kind: models.MatchNone}
	if len(series.Samples) == 0 {
		return res
	}

	noon := NoonInstant(q.Target)
	for _, sample := range series.Samples {
		if sample.Timestamp.Equal(noon) {
			res.Kind = models.MatchExact
			res.Sample = sample
			return res
		}
	}

	res.Kind = models.MatchFallback
	res.Sample = series.Samples[0]
	return res
}

// NoonInstant fixes a calendar date to its 12:00 instant in the series'
// timestamp zone.
func NoonInstant(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, time.UTC)
}
