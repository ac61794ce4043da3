package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// chdir changes into dir for the duration of the test, restoring the
// previous working directory on cleanup. (t.Chdir requires Go 1.24.)
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Error(err)
		}
	})
}

// writeTestConfig lays out a config dir in a temp working directory and
// chdirs into it for the duration of the test.
func writeTestConfig(t *testing.T, yaml string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "dev.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	t.Setenv("ENV_NAME", "")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("MEMCACHED_ADDRS", "")
	t.Setenv("WEATHER_API_KEY", "test-api-key-12345")
}

func TestLoadDefaults(t *testing.T) {
	writeTestConfig(t, "server:\n  port: \"9090\"\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("port = %q", cfg.ServerPort)
	}
	if cfg.WeatherAPIKey != "test-api-key-12345" {
		t.Errorf("api key = %q", cfg.WeatherAPIKey)
	}
	if !strings.Contains(cfg.GeocodeAPIURL, "/geo/1.0/direct") {
		t.Errorf("geocode url = %q", cfg.GeocodeAPIURL)
	}
	if !strings.Contains(cfg.ForecastAPIURL, "/data/2.5/forecast") {
		t.Errorf("forecast url = %q", cfg.ForecastAPIURL)
	}
	if cfg.CacheBackend != "in_memory" {
		t.Errorf("cache backend = %q", cfg.CacheBackend)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("cache ttl = %v", cfg.CacheTTL)
	}
	if cfg.MaxTextLength != 512 {
		t.Errorf("max text length = %d", cfg.MaxTextLength)
	}
	if cfg.RetryAttempts != 3 {
		t.Errorf("retry attempts = %d", cfg.RetryAttempts)
	}
	if !cfg.BreakerEnabled {
		t.Error("breaker should default to enabled")
	}
}

func TestLoadFullFile(t *testing.T) {
	writeTestConfig(t, `
server:
  port: "8081"
geocode_api:
  url: http://localhost:9001/geo
  timeout: 1s
forecast_api:
  url: http://localhost:9002/forecast
  timeout: 2s
request:
  timeout: 8s
query:
  max_text_length: 256
cache:
  backend: memcached
  ttl: 12h
  memcached:
    addrs: "cache1:11211,cache2:11211"
    timeout: 250ms
    max_idle_conns: 4
reliability:
  retry_max_attempts: 5
  retry_base_delay: 50ms
  retry_max_delay: 1s
  rate_limit_rps: 20
  rate_limit_burst: 40
  breaker_enabled: false
  breaker_failure_threshold: 7
  breaker_success_threshold: 3
  breaker_cooldown: 15s
metrics:
  tracked_cities:
    - Москва
    - Тверь
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GeocodeAPIURL != "http://localhost:9001/geo" || cfg.GeocodeAPITimeout != time.Second {
		t.Errorf("geocode = %q / %v", cfg.GeocodeAPIURL, cfg.GeocodeAPITimeout)
	}
	if cfg.ForecastAPITimeout != 2*time.Second {
		t.Errorf("forecast timeout = %v", cfg.ForecastAPITimeout)
	}
	if cfg.RequestTimeout != 8*time.Second {
		t.Errorf("request timeout = %v", cfg.RequestTimeout)
	}
	if cfg.MaxTextLength != 256 {
		t.Errorf("max text length = %d", cfg.MaxTextLength)
	}
	if cfg.CacheBackend != "memcached" || cfg.MemcachedAddrs != "cache1:11211,cache2:11211" {
		t.Errorf("cache = %q / %q", cfg.CacheBackend, cfg.MemcachedAddrs)
	}
	if cfg.MemcachedTimeout != 250*time.Millisecond || cfg.MemcachedMaxIdleConns != 4 {
		t.Errorf("memcached = %v / %d", cfg.MemcachedTimeout, cfg.MemcachedMaxIdleConns)
	}
	if cfg.RetryAttempts != 5 || cfg.RetryBaseDelay != 50*time.Millisecond {
		t.Errorf("retry = %d / %v", cfg.RetryAttempts, cfg.RetryBaseDelay)
	}
	if cfg.RateLimitRPS != 20 || cfg.RateLimitBurst != 40 {
		t.Errorf("rate limit = %d / %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.BreakerEnabled {
		t.Error("breaker_enabled: false should be honored")
	}
	if cfg.BreakerFailureThreshold != 7 || cfg.BreakerCooldown != 15*time.Second {
		t.Errorf("breaker = %d / %v", cfg.BreakerFailureThreshold, cfg.BreakerCooldown)
	}
	if len(cfg.TrackedCities) != 2 || cfg.TrackedCities[0] != "Москва" {
		t.Errorf("tracked cities = %v", cfg.TrackedCities)
	}
}

// TestLoadRequestTimeoutRaised verifies the timeout budget rule: a request
// timeout at or under the summed upstream timeouts is raised above them.
func TestLoadRequestTimeoutRaised(t *testing.T) {
	writeTestConfig(t, `
geocode_api:
  timeout: 3s
forecast_api:
  timeout: 4s
request:
  timeout: 5s
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RequestTimeout != 8*time.Second {
		t.Errorf("request timeout = %v, want 8s (3s+4s+1s)", cfg.RequestTimeout)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	writeTestConfig(t, "server:\n  port: \"8080\"\n")
	t.Setenv("WEATHER_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestLoadAPIKeyFromSecretsFile(t *testing.T) {
	writeTestConfig(t, "server:\n  port: \"8080\"\n")
	t.Setenv("WEATHER_API_KEY", "")
	if err := os.WriteFile(filepath.Join("config", "secrets.yaml"), []byte("weather_api_key: from-secrets-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WeatherAPIKey != "from-secrets-file" {
		t.Errorf("api key = %q", cfg.WeatherAPIKey)
	}
}

func TestLoadEnvOverridesCacheBackend(t *testing.T) {
	writeTestConfig(t, "cache:\n  backend: in_memory\n")
	t.Setenv("CACHE_BACKEND", "memcached")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CacheBackend != "memcached" {
		t.Errorf("cache backend = %q, want env override", cfg.CacheBackend)
	}
}

func TestLoadBadCacheBackend(t *testing.T) {
	writeTestConfig(t, "cache:\n  backend: redis\n")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported cache backend")
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("ENV_NAME", "")
	t.Setenv("WEATHER_API_KEY", "test-api-key-12345")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		def  time.Duration
		want time.Duration
	}{
		{"5s", time.Second, 5 * time.Second},
		{"", time.Second, time.Second},
		{"garbage", time.Second, time.Second},
		{"-3s", time.Second, time.Second},
		{" 250ms ", time.Second, 250 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := parseDuration(tt.in, tt.def); got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
