// Package geocode resolves city names to coordinates via the OpenWeather
// geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pogodabot/weather-query-service/internal/circuitbreaker"
	"github.com/pogodabot/weather-query-service/internal/models"
	"github.com/pogodabot/weather-query-service/internal/observability"
)

// Geocoder maps a place name to coordinates and a display name.
type Geocoder interface {
	Resolve(ctx context.Context, city string) (models.Coordinates, error)
}

var (
	ErrInvalidAPIKey   = errors.New("invalid API key")
	ErrCityNotFound    = errors.New("city not found")
	ErrUpstreamFailure = errors.New("upstream failure")
	ErrRateLimited     = errors.New("rate limited")
)

// Client is the OpenWeather geocoding client with bounded retries.
type Client struct {
	apiKey         string
	apiURL         string
	timeout        time.Duration
	client         *http.Client
	retryAttempts  int
	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration
	breaker        *circuitbreaker.CircuitBreaker
}

// NewClient creates a geocoding client with default retry policy.
func NewClient(apiKey, apiURL string, timeout time.Duration) (*Client, error) {
	return NewClientWithRetry(apiKey, apiURL, timeout, 3, 100*time.Millisecond, 2*time.Second)
}

// NewClientWithRetry creates a geocoding client with an explicit retry policy.
func NewClientWithRetry(apiKey, apiURL string, timeout time.Duration, retryAttempts int, retryBaseDelay, retryMaxDelay time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}
	if len(apiKey) < 10 {
		return nil, fmt.Errorf("%w: API key appears invalid (too short)", ErrInvalidAPIKey)
	}

	return &Client{
		apiKey:         apiKey,
		apiURL:         apiURL,
		timeout:        timeout,
		retryAttempts:  retryAttempts,
		retryBaseDelay: retryBaseDelay,
		retryMaxDelay:  retryMaxDelay,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// SetCircuitBreaker wraps upstream calls in the given breaker.
func (c *Client) SetCircuitBreaker(cb *circuitbreaker.CircuitBreaker) {
	c.breaker = cb
}

// geoMatch is one element of the geocoding response array.
type geoMatch struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

// Resolve maps a city name to coordinates. An empty match array from the
// provider is terminal for the whole query: it returns ErrCityNotFound and
// is never retried, with this or any other candidate.
func (c *Client) Resolve(ctx context.Context, city string) (models.Coordinates, error) {
	var lastErr error

	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			observability.GeocodeAPIRetriesTotal.Inc()
			delay := c.calculateBackoff(attempt)
			select {
			case <-ctx.Done():
				return models.Coordinates{}, ctx.Err()
			case <-time.After(delay):
			}
		}

		var result models.Coordinates
		var err error
		call := func() error {
			result, err = c.callAPI(ctx, city)
			return err
		}
		if c.breaker != nil {
			if cbErr := c.breaker.Call(ctx, call); cbErr != nil && err == nil {
				err = fmt.Errorf("%w: %s", ErrUpstreamFailure, cbErr)
			}
		} else {
			_ = call()
		}
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return models.Coordinates{}, err
		}
	}

	return models.Coordinates{}, fmt.Errorf("exhausted retries: %w", lastErr)
}

func (c *Client) callAPI(ctx context.Context, city string) (models.Coordinates, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, city)
	if err != nil {
		observability.GeocodeAPICallsTotal.WithLabelValues("error").Inc()
		return models.Coordinates{}, fmt.Errorf("build request: %w", err)
	}

	if corrID := correlationID(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.GeocodeAPICallsTotal.WithLabelValues("error").Inc()
		observability.GeocodeAPIDuration.WithLabelValues("error").Observe(duration)

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return models.Coordinates{}, fmt.Errorf("request timeout: %w", err)
		}
		return models.Coordinates{}, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.GeocodeAPICallsTotal.WithLabelValues(status).Inc()
	observability.GeocodeAPIDuration.WithLabelValues(status).Observe(duration)

	if err := handleErrorResponse(resp); err != nil {
		return models.Coordinates{}, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("read response body: %w", err)
	}

	var matches []geoMatch
	if err := json.Unmarshal(body, &matches); err != nil {
		return models.Coordinates{}, fmt.Errorf("parse response: %w", err)
	}

	if len(matches) == 0 {
		return models.Coordinates{}, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	}

	// Only the first match is consumed; the provider orders by relevance.
	m := matches[0]
	displayName := m.Name
	if displayName == "" {
		displayName = city
	}
	return models.Coordinates{
		Latitude:    m.Lat,
		Longitude:   m.Lon,
		DisplayName: displayName,
	}, nil
}

func (c *Client) buildRequest(ctx context.Context, city string) (*http.Request, error) {
	baseURL, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("limit", "1")
	params.Set("appid", c.apiKey)
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	delay := float64(c.retryBaseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(c.retryMaxDelay) {
		delay = float64(c.retryMaxDelay)
	}

	jitter := delay * 0.1 * rand.Float64()
	return time.Duration(delay + jitter)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrCityNotFound) || errors.Is(err, ErrInvalidAPIKey) {
		return false
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUpstreamFailure) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "context canceled")
}

func handleErrorResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: invalid API key", ErrInvalidAPIKey)
	case http.StatusNotFound:
		return fmt.Errorf("%w", ErrCityNotFound)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w", ErrRateLimited)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: HTTP %d", ErrUpstreamFailure, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrUpstreamFailure, resp.StatusCode)
	}

	return nil
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}

func correlationID(ctx context.Context) string {
	if v := ctx.Value("correlation_id"); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
