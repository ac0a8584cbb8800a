// Package storage provides the object storage collaborator used for resume
// files and generated PDFs, plus retrying HTTP fetches of stored objects.
package storage

import (
	"context"
	"fmt"
)

// Object describes a stored file.
type Object struct {
	FileID      string `json:"file_id"`
	Path        string `json:"path"`
	DownloadURL string `json:"download_url"`
}

// Store is the object storage contract consumed by the pipeline.
type Store interface {
	// Upload stores a byte buffer under a destination key and returns the
	// stored object's identity and download URL.
	Upload(ctx context.Context, data []byte, key string) (*Object, error)
	// Fetch retrieves a stored object's bytes by download URL.
	Fetch(ctx context.Context, downloadURL string) ([]byte, error)
}

// Error represents an object storage failure.
type Error struct {
	Op      string // "upload" or "fetch"
	Key     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage %s failed for %s: %s: %v", e.Op, e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("storage %s failed for %s: %s", e.Op, e.Key, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
