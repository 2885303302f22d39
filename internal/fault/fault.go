// Package fault defines the error taxonomy shared by the generation pipeline
// and its HTTP handlers. Each sentinel marks a failure class; callers wrap
// them with fmt.Errorf("...: %w", ...) so errors.Is checks keep working while
// the message carries operation detail.
package fault

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation marks a rejected client request (empty or oversized prompt,
	// unknown platform, malformed identifier).
	ErrValidation = errors.New("validation failed")

	// ErrQuotaExceeded marks a generation request blocked by the free-tier
	// limit. Handlers surface it with requiresAuth so the frontend can prompt
	// for sign-in.
	ErrQuotaExceeded = errors.New("generation limit reached")

	// ErrUpstreamModel marks a failed call to the text or image model service.
	ErrUpstreamModel = errors.New("upstream model failure")

	// ErrMalformedScenario marks a model response that could not be parsed
	// into a usable scenario (no JSON, missing or empty images array).
	ErrMalformedScenario = errors.New("malformed scenario response")

	// ErrStorage marks a failed object or record write.
	ErrStorage = errors.New("storage failure")

	// ErrEncoding marks a failed ffmpeg slideshow render.
	ErrEncoding = errors.New("video encoding failed")

	// ErrInvalidInput marks an internal contract violation, such as assembling
	// a slideshow from zero frames.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFetch marks a failed download of a previously uploaded asset.
	ErrFetch = errors.New("asset fetch failed")

	// ErrNotFound marks a lookup of a project that does not exist.
	ErrNotFound = errors.New("project not found")
)

// Kind returns a stable machine-readable code for an error, suitable for API
// response bodies and metrics dimensions.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrQuotaExceeded):
		return "QUOTA_EXCEEDED"
	case errors.Is(err, ErrUpstreamModel):
		return "UPSTREAM_MODEL_ERROR"
	case errors.Is(err, ErrMalformedScenario):
		return "MALFORMED_SCENARIO"
	case errors.Is(err, ErrStorage):
		return "STORAGE_ERROR"
	case errors.Is(err, ErrEncoding):
		return "ENCODING_ERROR"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrFetch):
		return "FETCH_ERROR"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	default:
		return "INTERNAL_ERROR"
	}
}

// HTTPStatus maps an error to the status code handlers should respond with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUpstreamModel), errors.Is(err, ErrMalformedScenario):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
