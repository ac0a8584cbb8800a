package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// instantSleep makes backoff a no-op so retry tests run fast.
func instantSleep(_ context.Context, _ time.Duration) error { return nil }

func TestFetcher_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("resume bytes"))
	}))
	defer srv.Close()

	fetcher := NewFetcher()
	fetcher.sleep = instantSleep

	data, err := fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("resume bytes"), data)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetcher_GivesUpAfterThreeAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	fetcher := NewFetcher()
	fetcher.sleep = instantSleep

	_, err := fetcher.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var storageErr *Error
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "fetch", storageErr.Op)
	assert.Equal(t, int32(FetchAttempts), calls.Load())
}

func TestFetcher_InvalidURL(t *testing.T) {
	fetcher := NewFetcher()
	_, err := fetcher.Fetch(context.Background(), "not-a-url")
	var storageErr *Error
	require.ErrorAs(t, err, &storageErr)
	assert.Contains(t, storageErr.Error(), "invalid URL")
}

func TestLocalStore_UploadAndFetchRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost:9999/files")
	require.NoError(t, err)

	obj, err := store.Upload(context.Background(), []byte("%PDF-1.4 fake"), "resume.pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, obj.FileID)
	assert.Contains(t, obj.DownloadURL, obj.FileID)
	assert.Contains(t, obj.DownloadURL, ".pdf")

	data, err := store.Fetch(context.Background(), obj.DownloadURL)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), data)
}

func TestLocalStore_UploadEmptyFails(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost/files")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), nil, "resume.pdf")
	var storageErr *Error
	require.ErrorAs(t, err, &storageErr)
}

func TestLocalStore_FetchUnknownFile(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost/files")
	require.NoError(t, err)

	_, err = store.Fetch(context.Background(), "http://localhost/files/missing.pdf")
	assert.Error(t, err)
}
