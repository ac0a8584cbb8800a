// Package analysis invokes the generative-AI service to extract structured
// resume data, score it, and produce improved versions. Every AI call is
// gated by the shared quota tracker.
package analysis

import (
	"fmt"
	"time"
)

// RateLimitedError indicates the AI call budget is exhausted. RetryAfter is
// how long the caller should wait before retrying; no network call was made
// when the quota tracker itself rejected the request.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("AI quota exhausted, retry in %s", e.RetryAfter.Round(time.Second))
}

// AnalysisError indicates the AI call failed or returned malformed data.
// Distinguishable from RateLimitedError so callers can decide between
// user-triggered retry and wait-for-quota.
type AnalysisError struct {
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("analysis failed: %s", e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}
