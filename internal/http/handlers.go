package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pogodabot/weather-query-service/internal/forecast"
	"github.com/pogodabot/weather-query-service/internal/geocode"
	"github.com/pogodabot/weather-query-service/internal/lifecycle"
	"github.com/pogodabot/weather-query-service/internal/query"
	"github.com/pogodabot/weather-query-service/internal/resolver"
	"github.com/pogodabot/weather-query-service/internal/validation"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	service *query.Service
	logger  *zap.Logger
	// cachePing, when set, is called on /health to check cache
	// reachability. Used when the backend is memcached.
	cachePing func() error
}

// NewHandler returns a new Handler.
func NewHandler(service *query.Service, logger *zap.Logger, cachePing func() error) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		cachePing: cachePing,
	}
}

// GetRoot handles GET /. Serves the greeting banner.
func (h *Handler) GetRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "weather-query-service",
		"message": query.Greeting,
	})
}

// PostQuery handles POST /query with a JSON natural-language request.
func (h *Handler) PostQuery(w http.ResponseWriter, r *http.Request) {
	var req query.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_QUERY", query.MsgGenericFailure)
		return
	}

	answer, err := h.service.Answer(r.Context(), req)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

// GetQueryToken handles GET /query/{token} with a canonical colon-delimited
// token ("forecast:2024-06-02:Москва").
func (h *Handler) GetQueryToken(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	answer, err := h.service.AnswerToken(r.Context(), token)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	statusCode := http.StatusOK
	checks := make(map[string]string)

	switch {
	case lifecycle.IsShuttingDown():
		status = "shutting-down"
		statusCode = http.StatusServiceUnavailable
	case !lifecycle.ModelsReady():
		status = "starting"
		statusCode = http.StatusServiceUnavailable
		checks["models"] = "loading"
	default:
		checks["models"] = "loaded"
	}

	if h.cachePing != nil {
		if h.cachePing() == nil {
			checks["cache"] = "healthy"
		} else {
			checks["cache"] = "unhealthy"
		}
	}

	resp := map[string]interface{}{
		"status":    status,
		"service":   "weather-query-service",
		"version":   "dev",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeQueryError maps pipeline errors to HTTP codes and the fixed
// user-facing Russian messages. The message field carries the user text;
// the code is for programmatic callers.
func writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	msg := query.UserMessage(err)
	switch {
	case errors.Is(err, validation.ErrUtteranceEmpty),
		errors.Is(err, validation.ErrUtteranceTooLong),
		errors.Is(err, validation.ErrUtteranceNoLetters):
		writeError(w, r, http.StatusBadRequest, "INVALID_QUERY", query.MsgNoCandidate)
	case errors.Is(err, query.ErrBadToken):
		writeError(w, r, http.StatusBadRequest, "INVALID_QUERY", msg)
	case errors.Is(err, resolver.ErrNoCandidate):
		writeError(w, r, http.StatusUnprocessableEntity, "NO_CANDIDATE", msg)
	case errors.Is(err, geocode.ErrCityNotFound):
		writeError(w, r, http.StatusNotFound, "CITY_NOT_FOUND", msg)
	case errors.Is(err, query.ErrForecastNotFound):
		writeError(w, r, http.StatusNotFound, "FORECAST_NOT_FOUND", msg)
	case errors.Is(err, forecast.ErrMalformed):
		writeError(w, r, http.StatusBadGateway, "UPSTREAM_MALFORMED", msg)
	default:
		writeError(w, r, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", msg)
	}
	if logger, ok := r.Context().Value("logger").(*zap.Logger); ok && logger != nil {
		logger.Debug("query failed", zap.Error(err))
	}
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard envelope with code,
// message and requestId (correlation ID) when available in the context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	corrID := ""
	if v := r.Context().Value("correlation_id"); v != nil {
		corrID = v.(string)
	}
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": corrID,
		},
	})
}
