// Package extraction turns uploaded resume documents into plain text.
package extraction

import "fmt"

// Error represents a text extraction failure. Extraction failures are
// surfaced before any AI call so unusable input never burns quota.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
