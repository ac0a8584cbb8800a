package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Retry policy for object fetches: 3 attempts with exponential backoff
// (1s, 2s, 4s) and a 30-second per-attempt timeout.
const (
	FetchAttempts      = 3
	FetchBackoffBase   = 1 * time.Second
	FetchAttemptTimeout = 30 * time.Second
)

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; PlacementAgent/1.0)"

// Fetcher retrieves stored objects over HTTP with retry-on-failure.
type Fetcher struct {
	client   *http.Client
	attempts int
	backoff  time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewFetcher creates a Fetcher with the default retry policy.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: FetchAttemptTimeout},
		attempts: FetchAttempts,
		backoff:  FetchBackoffBase,
		sleep:    sleepCtx,
	}
}

// Fetch downloads the object at downloadURL, retrying transient failures
// with exponential backoff before surfacing the last error.
func (f *Fetcher) Fetch(ctx context.Context, downloadURL string) ([]byte, error) {
	parsed, err := url.Parse(downloadURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{Op: "fetch", Key: downloadURL, Message: "invalid URL", Cause: err}
	}

	var lastErr error
	delay := f.backoff
	for attempt := 1; attempt <= f.attempts; attempt++ {
		if attempt > 1 {
			if err := f.sleep(ctx, delay); err != nil {
				return nil, &Error{Op: "fetch", Key: downloadURL, Message: "canceled during backoff", Cause: err}
			}
			delay *= 2
		}

		data, err := f.fetchOnce(ctx, downloadURL)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}

	return nil, &Error{
		Op:      "fetch",
		Key:     downloadURL,
		Message: fmt.Sprintf("giving up after %d attempts", f.attempts),
		Cause:   lastErr,
	}
}

func (f *Fetcher) fetchOnce(ctx context.Context, downloadURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// sleepCtx sleeps for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
