// Package webapi holds the HTTP layer shared by the Lambda entry points:
// response helpers, middleware, and the API handlers themselves.
package webapi

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vuhoang/whatif-studio/internal/fault"
	"github.com/vuhoang/whatif-studio/internal/ids"
)

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// HTTPError sends a JSON error response. The clientMsg is returned to the
// caller; internal details stay in the logs.
func HTTPError(w http.ResponseWriter, status int, clientMsg string, internalDetails ...string) {
	if len(internalDetails) > 0 {
		log.Error().
			Int("status", status).
			Str("clientMsg", clientMsg).
			Strs("internalDetails", internalDetails).
			Msg("HTTP error with internal details")
	}
	RespondJSON(w, status, map[string]string{"error": clientMsg})
}

// RespondFault maps a domain error to an HTTP response. Quota rejections
// carry requiresAuth so the frontend can route the user to sign-in/upgrade.
func RespondFault(w http.ResponseWriter, err error) {
	status := fault.HTTPStatus(err)
	body := map[string]interface{}{
		"error": err.Error(),
		"code":  fault.Kind(err),
	}
	if status == http.StatusTooManyRequests {
		body["requiresAuth"] = true
	}
	RespondJSON(w, status, body)
}

// WithCORS allows the frontend origin to call the API from the browser.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithRequestID tags every request with a random ID for log correlation.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = ids.New("req-")
		}
		w.Header().Set("X-Request-Id", requestID)
		log.Debug().Str("requestId", requestID).Str("method", r.Method).Str("path", r.URL.Path).Msg("Request received")
		next.ServeHTTP(w, r)
	})
}

// HandleHealth serves the health check on every Lambda.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "whatif-studio",
	})
}
