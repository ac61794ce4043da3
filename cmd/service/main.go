package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pogodabot/weather-query-service/internal/cache"
	"github.com/pogodabot/weather-query-service/internal/circuitbreaker"
	"github.com/pogodabot/weather-query-service/internal/config"
	"github.com/pogodabot/weather-query-service/internal/forecast"
	"github.com/pogodabot/weather-query-service/internal/geocode"
	httphandler "github.com/pogodabot/weather-query-service/internal/http"
	"github.com/pogodabot/weather-query-service/internal/lifecycle"
	"github.com/pogodabot/weather-query-service/internal/nlp"
	"github.com/pogodabot/weather-query-service/internal/observability"
	"github.com/pogodabot/weather-query-service/internal/query"
	"github.com/pogodabot/weather-query-service/internal/resolver"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	// Linguistic models load once and are shared read-only by all requests.
	loadStart := time.Now()
	nlpModels, err := nlp.Load()
	if err != nil {
		logger.Fatal("linguistic models", zap.Error(err))
	}
	lifecycle.SetModelsReady(true)
	logger.Info("linguistic models loaded", zap.Duration("duration", time.Since(loadStart)))

	geocodeClient, err := geocode.NewClientWithRetry(
		cfg.WeatherAPIKey,
		cfg.GeocodeAPIURL,
		cfg.GeocodeAPITimeout,
		cfg.RetryAttempts,
		cfg.RetryBaseDelay,
		cfg.RetryMaxDelay,
	)
	if err != nil {
		logger.Fatal("geocode client", zap.Error(err))
	}

	forecastClient, err := forecast.NewClient(
		cfg.WeatherAPIKey,
		cfg.ForecastAPIURL,
		cfg.ForecastAPITimeout,
		cfg.RetryAttempts,
		cfg.RetryBaseDelay,
		cfg.RetryMaxDelay,
	)
	if err != nil {
		logger.Fatal("forecast client", zap.Error(err))
	}

	if cfg.BreakerEnabled {
		onStateChange := func(component string, from, to circuitbreaker.State) {
			observability.BreakerState.WithLabelValues(component).Set(float64(to))
			logger.Warn("circuit breaker state change",
				zap.String("component", component),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		}
		for component, set := range map[string]func(*circuitbreaker.CircuitBreaker){
			"geocode_api":  geocodeClient.SetCircuitBreaker,
			"forecast_api": forecastClient.SetCircuitBreaker,
		} {
			set(circuitbreaker.New(circuitbreaker.Config{
				FailureThreshold: cfg.BreakerFailureThreshold,
				SuccessThreshold: cfg.BreakerSuccessThreshold,
				Cooldown:         cfg.BreakerCooldown,
				Component:        component,
				OnStateChange:    onStateChange,
			}))
			observability.BreakerState.WithLabelValues(component).Set(float64(circuitbreaker.StateClosed))
		}
		logger.Info("circuit breakers enabled",
			zap.Int("failure_threshold", cfg.BreakerFailureThreshold),
			zap.Duration("cooldown", cfg.BreakerCooldown))
	}

	var coordCache cache.Cache
	var memcacheCloser *cache.MemcachedCache
	switch cfg.CacheBackend {
	case "memcached":
		mc, err := cache.NewMemcachedCache(cfg.MemcachedAddrs, cfg.MemcachedTimeout, cfg.MemcachedMaxIdleConns)
		if err != nil {
			logger.Fatal("memcached cache", zap.Error(err))
		}
		memcacheCloser = mc
		coordCache = mc
		logger.Info("cache backend: memcached", zap.String("addrs", cfg.MemcachedAddrs))
	default:
		coordCache = cache.NewInMemoryCache()
		logger.Info("cache backend: in_memory")
	}
	geocoder := geocode.NewCachedGeocoder(geocodeClient, coordCache, cfg.CacheTTL)

	queryService := query.NewService(
		nlp.NewPipeline(nlpModels),
		resolver.New(nlpModels),
		geocoder,
		forecast.NewMatcher(forecastClient),
		clockwork.NewRealClock(),
		cfg.MaxTextLength,
	)

	if len(cfg.TrackedCities) > 0 {
		observability.SetTrackedCities(cfg.TrackedCities)
	}

	var cachePing func() error
	if memcacheCloser != nil {
		cachePing = memcacheCloser.Ping
	}
	handler := httphandler.NewHandler(queryService, logger, cachePing)

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	router := mux.NewRouter()
	router.Use(httphandler.CorrelationIDMiddleware(logger))
	router.Use(httphandler.MetricsMiddleware)
	router.HandleFunc("/", handler.GetRoot).Methods("GET")
	router.HandleFunc("/health", handler.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())
	queryRouter := router.PathPrefix("/query").Subrouter()
	queryRouter.Use(httphandler.RateLimitMiddleware(limiter))
	queryRouter.Use(httphandler.TimeoutMiddleware(cfg.RequestTimeout))
	queryRouter.HandleFunc("", handler.PostQuery).Methods("POST")
	queryRouter.HandleFunc("/{token}", handler.GetQueryToken).Methods("GET")

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	lifecycle.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	inFlight := httphandler.InFlightCount()
	logger.Info("waiting for in-flight requests", zap.Int64("count", inFlight))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownInFlightTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, cfg.ShutdownInFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	if memcacheCloser != nil {
		if err := memcacheCloser.Close(); err != nil {
			logger.Error("memcached close", zap.Error(err))
		}
	}
	logger.Info("shutdown complete")
}
