package observability

import (
	"net/http"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 latency increases.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation, capacity limits.
	HTTPRequestsInFlight prometheus.Gauge

	// Geocoding API call rate. Watch for: error vs success ratio.
	GeocodeAPICallsTotal *prometheus.CounterVec

	// Geocoding API latency. Watch for: upstream degradation.
	GeocodeAPIDuration *prometheus.HistogramVec

	// Retry attempts against the geocoding API.
	GeocodeAPIRetriesTotal prometheus.Counter

	// Forecast API call rate.
	ForecastAPICallsTotal *prometheus.CounterVec

	// Forecast API latency.
	ForecastAPIDuration *prometheus.HistogramVec

	// Retry attempts against the forecast API.
	ForecastAPIRetriesTotal prometheus.Counter

	// Geocode cache hits by backend type.
	CacheHitsTotal *prometheus.CounterVec

	// Total natural-language queries handled.
	QueriesTotal prometheus.Counter

	// Per-city query count (allow-list; others go to "other").
	QueriesByCityTotal *prometheus.CounterVec

	// Query failures by reason (no_candidate, city_not_found, forecast_not_found, upstream, invalid).
	QueryFailuresTotal *prometheus.CounterVec

	// Forecast-date match outcome (exact, fallback, none). A rising fallback
	// share means noon slots are drifting off the provider grid.
	MatchOutcomesTotal *prometheus.CounterVec

	// Linguistic pipeline latency per utterance.
	PipelineDuration prometheus.Histogram

	// Rate limit denials. Watch for: overload, capacity exceeded.
	RateLimitDeniedTotal prometheus.Counter

	// Circuit breaker state per upstream (0 closed, 1 open, 2 half-open).
	// Watch for: any sustained non-zero value.
	BreakerState *prometheus.GaugeVec

	// trackedCities is built from config; used to resolve the city label.
	trackedCitiesMu sync.RWMutex
	trackedCities   map[string]struct{}
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	GeocodeAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocodeApiCallsTotal",
			Help: "Total number of geocoding API calls",
		},
		[]string{"status"},
	)
	GeocodeAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geocodeApiDurationSeconds",
			Help:    "Geocoding API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	GeocodeAPIRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "geocodeApiRetriesTotal",
			Help: "Total number of retry attempts for geocoding API calls",
		},
	)
	ForecastAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecastApiCallsTotal",
			Help: "Total number of forecast API calls",
		},
		[]string{"status"},
	)
	ForecastAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forecastApiDurationSeconds",
			Help:    "Forecast API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	ForecastAPIRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "forecastApiRetriesTotal",
			Help: "Total number of retry attempts for forecast API calls",
		},
	)
	CacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheHitsTotal",
			Help: "Total number of geocode cache hits",
		},
		[]string{"cacheType"},
	)
	QueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queriesTotal",
			Help: "Total number of natural-language weather queries",
		},
	)
	QueriesByCityTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queriesByCityTotal",
			Help: "Weather queries by resolved city (allow-list; others use city=other)",
		},
		[]string{"city"},
	)
	QueryFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queryFailuresTotal",
			Help: "Query failures by reason",
		},
		[]string{"reason"},
	)
	MatchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchOutcomesTotal",
			Help: "Forecast date matching outcomes (exact, fallback, none)",
		},
		[]string{"outcome"},
	)
	PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipelineDurationSeconds",
			Help:    "Linguistic pipeline latency in seconds (per utterance)",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)
	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuitBreakerState",
			Help: "Circuit breaker state per upstream (0 closed, 1 open, 2 half-open)",
		},
		[]string{"component"},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		GeocodeAPICallsTotal, GeocodeAPIDuration, GeocodeAPIRetriesTotal,
		ForecastAPICallsTotal, ForecastAPIDuration, ForecastAPIRetriesTotal,
		CacheHitsTotal,
		QueriesTotal, QueriesByCityTotal, QueryFailuresTotal,
		MatchOutcomesTotal, PipelineDuration,
		RateLimitDeniedTotal, BreakerState,
	)
}

// SetTrackedCities sets the allow-list for city metrics. Non-tracked cities increment "other".
func SetTrackedCities(cities []string) {
	trackedCitiesMu.Lock()
	defer trackedCitiesMu.Unlock()
	trackedCities = make(map[string]struct{}, len(cities))
	for _, c := range cities {
		trackedCities[normalizeCityForMetrics(c)] = struct{}{}
	}
}

// RecordQuery records a resolved weather query for the given city.
func RecordQuery(city string) {
	QueriesTotal.Inc()
	c := normalizeCityForMetrics(city)
	trackedCitiesMu.RLock()
	_, ok := trackedCities[c]
	trackedCitiesMu.RUnlock()
	if ok {
		QueriesByCityTotal.WithLabelValues(c).Inc()
	} else {
		QueriesByCityTotal.WithLabelValues("other").Inc()
	}
}

func normalizeCityForMetrics(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
