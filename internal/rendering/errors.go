// Package rendering generates deterministic HTML resumes from structured
// resume data, for hand-off to the external PDF renderer.
package rendering

import "fmt"

// RenderError represents a failure executing the resume template.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
