// Package forecast fetches the 5-day/3-hour forecast series and matches
// samples against requested calendar dates.
package forecast

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
	"strconv"
	"time"

	"github.com/pogodabot/weather-query-service/internal/circuitbreaker"
	"github.com/pogodabot/weather-query-service/internal/models"
	"github.com/pogodabot/weather-query-service/internal/observability"
)

// Provider returns the forecast series for a coordinate pair. The provider
// contract is 40 entries at a fixed 3-hour cadence in non-decreasing
// chronological order; the series length is not re-derived locally.
type Provider interface {
	FetchSeries(ctx context.Context, coords models.Coordinates) (models.ForecastSeries, error)
}

var (
	// ErrMalformed marks an upstream response missing expected fields.
	// Fatal per request, never retried.
	ErrMalformed = errors.New("malformed forecast response")
	// ErrUpstreamFailure marks provider-side 5xx failures.
	ErrUpstreamFailure = errors.New("forecast upstream failure")
)

// Client is the OpenWeather 5-day forecast client.
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

// NewClient creates a forecast client.
func NewClient(apiKey, apiURL string, timeout time.Duration, retryAttempts int, retryBaseDelay, retryMaxDelay time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("forecast: API key is required")
	}
	if retryAttempts <= 0 {
		retryAttempts = 3
	}
	return &Client{
		apiKey:         apiKey,
		apiURL:         apiURL,
		timeout:        timeout,
		retryAttempts:  retryAttempts,
		retryBaseDelay: retryBaseDelay,
		retryMaxDelay:  retryMaxDelay,
		client:         &http.Client{Timeout: timeout},
	}, nil
}

// SetCircuitBreaker wraps upstream calls in the given breaker.
func (c *Client) SetCircuitBreaker(cb *circuitbreaker.CircuitBreaker) {
	c.breaker = cb
}

// forecastResponse mirrors the provider payload: 40 list entries with a
// UNIX timestamp, nested weather classification and main metrics.
type forecastResponse struct {
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	} `json:"list"`
}

// FetchSeries implements Provider with bounded retries on transient failures.
func (c *Client) FetchSeries(ctx context.Context, coords models.Coordinates) (models.ForecastSeries, error) {
	var lastErr error
	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			observability.ForecastAPIRetriesTotal.Inc()
			select {
			case <-ctx.Done():
				return models.ForecastSeries{}, ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}

		series, err := c.fetchOnce(ctx, coords)
		if err == nil {
			return series, nil
		}
		lastErr = err
		if !errors.Is(err, ErrUpstreamFailure) {
			return models.ForecastSeries{}, err
		}
	}
	return models.ForecastSeries{}, fmt.Errorf("exhausted retries: %w", lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, coords models.Coordinates) (models.ForecastSeries, error) {
	if c.breaker == nil {
		return c.callAPI(ctx, coords)
	}
	var series models.ForecastSeries
	var callErr error
	err := c.breaker.Call(ctx, func() error {
		series, callErr = c.callAPI(ctx, coords)
		return callErr
	})
	if err != nil && callErr == nil {
		// Circuit open, the call never ran.
		return models.ForecastSeries{}, fmt.Errorf("%w: %s", ErrUpstreamFailure, err)
	}
	return series, callErr
}

func (c *Client) callAPI(ctx context.Context, coords models.Coordinates) (models.ForecastSeries, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	baseURL, err := url.Parse(c.apiURL)
	if err != nil {
		return models.ForecastSeries{}, fmt.Errorf("invalid API URL: %w", err)
	}
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(reqCtx, "GET", baseURL.String(), nil)
	if err != nil {
		return models.ForecastSeries{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		observability.ForecastAPICallsTotal.WithLabelValues("error").Inc()
		observability.ForecastAPIDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return models.ForecastSeries{}, fmt.Errorf("%w: %s", ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	status := "success"
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		status = "error"
	}
	observability.ForecastAPICallsTotal.WithLabelValues(status).Inc()
	observability.ForecastAPIDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if resp.StatusCode >= 500 {
		return models.ForecastSeries{}, fmt.Errorf("%w: HTTP %d", ErrUpstreamFailure, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return models.ForecastSeries{}, fmt.Errorf("%w: HTTP %d", ErrMalformed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ForecastSeries{}, fmt.Errorf("read response body: %w", err)
	}

	var apiResp forecastResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return models.ForecastSeries{}, fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	return mapResponse(apiResp)
}

func mapResponse(apiResp forecastResponse) (models.ForecastSeries, error) {
	series := models.ForecastSeries{
		City:    apiResp.City.Name,
		Samples: make([]models.ForecastSample, 0, len(apiResp.List)),
	}
	for i, entry := range apiResp.List {
		if entry.Dt == 0 {
			return models.ForecastSeries{}, fmt.Errorf("%w: entry %d has no timestamp", ErrMalformed, i)
		}
		if len(entry.Weather) == 0 {
			return models.ForecastSeries{}, fmt.Errorf("%w: entry %d has no weather classification", ErrMalformed, i)
		}
		series.Samples = append(series.Samples, models.ForecastSample{
			Timestamp:   time.Unix(entry.Dt, 0).UTC(),
			Main:        entry.Weather[0].Main,
			Description: entry.Weather[0].Description,
			TempC:       entry.Main.Temp,
			FeelsLikeC:  entry.Main.FeelsLike,
			HumidityPct: entry.Main.Humidity,
			PressureHPa: entry.Main.Pressure,
			WindSpeedMS: entry.Wind.Speed,
		})
	}
	return series, nil
}

func (c *Client) backoff(attempt int) time.Duration {
	delay := float64(c.retryBaseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(c.retryMaxDelay) {
		delay = float64(c.retryMaxDelay)
	}
	jitter := delay * 0.1 * rand.Float64()
	return time.Duration(delay + jitter)
}
