// Package server provides the HTTP REST API for the placement pipeline.
package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jonathan/placement-pipeline/internal/analysis"
	"github.com/jonathan/placement-pipeline/internal/pipeline"
)

// setRetryAfter sets the Retry-After header from a rate limit error's reset
// time, rounded up so clients never retry early.
func setRetryAfter(w http.ResponseWriter, err error) {
	var rl *analysis.RateLimitedError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(rl.RetryAfter.Seconds())+1))
	}
}

// HTTPStatus maps pipeline errors to HTTP status codes. AI provider
// failures are the upstream's fault, hence 502 rather than 500.
func HTTPStatus(err error) int {
	var (
		validationErr  *pipeline.ValidationError
		notFoundErr    *pipeline.NotFoundError
		rateLimitedErr *analysis.RateLimitedError
		analysisErr    *analysis.AnalysisError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &rateLimitedErr):
		return http.StatusTooManyRequests
	case errors.As(err, &analysisErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
