package geocode

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pogodabot/weather-query-service/internal/cache"
	"github.com/pogodabot/weather-query-service/internal/models"
	"github.com/pogodabot/weather-query-service/internal/observability"
	"github.com/pogodabot/weather-query-service/internal/textnorm"
)

// CachedGeocoder decorates a Geocoder with cache-aside lookups keyed by the
// folded city name. Cache failures degrade to upstream calls, never to
// request failures.
type CachedGeocoder struct {
	inner Geocoder
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedGeocoder wraps inner with the given cache backend and TTL.
func NewCachedGeocoder(inner Geocoder, c cache.Cache, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, cache: c, ttl: ttl}
}

// Resolve implements Geocoder.
func (g *CachedGeocoder) Resolve(ctx context.Context, city string) (models.Coordinates, error) {
	key := textnorm.Fold(city)
	logger := loggerFromContext(ctx)

	cached, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		if logger != nil {
			logger.Warn("geocode cache get failed", zap.String("city", key), zap.Error(err))
		}
	} else if ok {
		observability.CacheHitsTotal.WithLabelValues("geocode").Inc()
		if logger != nil {
			logger.Debug("geocode cache hit", zap.String("city", key))
		}
		return cached, nil
	}

	coords, err := g.inner.Resolve(ctx, city)
	if err != nil {
		return models.Coordinates{}, err
	}

	if setErr := g.cache.Set(ctx, key, coords, g.ttl); setErr != nil && logger != nil {
		logger.Warn("geocode cache set failed", zap.String("city", key), zap.Error(setErr))
	}
	return coords, nil
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
