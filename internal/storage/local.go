package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore is a filesystem-backed Store for development and tests.
// Objects are written under Dir and served back under BaseURL.
type LocalStore struct {
	Dir     string
	BaseURL string // e.g. "http://localhost:8080/files"
	fetcher *Fetcher
}

// NewLocalStore creates a LocalStore rooted at dir.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &Error{Op: "upload", Key: dir, Message: "failed to create storage directory", Cause: err}
	}
	return &LocalStore{
		Dir:     dir,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		fetcher: NewFetcher(),
	}, nil
}

// Upload writes data under a fresh file ID derived from the destination key.
func (s *LocalStore) Upload(_ context.Context, data []byte, key string) (*Object, error) {
	if len(data) == 0 {
		return nil, &Error{Op: "upload", Key: key, Message: "empty file"}
	}

	fileID := uuid.NewString()
	name := fileID + sanitizeExt(key)
	path := filepath.Join(s.Dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, &Error{Op: "upload", Key: key, Message: "failed to write file", Cause: err}
	}

	return &Object{
		FileID:      fileID,
		Path:        path,
		DownloadURL: fmt.Sprintf("%s/%s", s.BaseURL, name),
	}, nil
}

// Fetch reads an object back. URLs under BaseURL resolve to local files;
// anything else goes through the retrying HTTP fetcher.
func (s *LocalStore) Fetch(ctx context.Context, downloadURL string) ([]byte, error) {
	if s.BaseURL != "" && strings.HasPrefix(downloadURL, s.BaseURL+"/") {
		name := filepath.Base(strings.TrimPrefix(downloadURL, s.BaseURL+"/"))
		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			return nil, &Error{Op: "fetch", Key: downloadURL, Message: "file not found", Cause: err}
		}
		return data, nil
	}
	return s.fetcher.Fetch(ctx, downloadURL)
}

// sanitizeExt keeps the original file extension, if any, for stored names.
func sanitizeExt(key string) string {
	ext := strings.ToLower(filepath.Ext(key))
	switch ext {
	case ".pdf", ".doc", ".docx", ".txt", ".html", ".htm":
		return ext
	}
	return ""
}
