package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes caps how much of a status response is read.
const maxBodyBytes = 4 << 20

// UserAgent is sent with every status request.
var UserAgent = "iotmon"

// SnapshotSource yields one snapshot per call. *Fetcher is the production
// implementation; tests substitute their own.
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
}

// Fetcher reads the backend status endpoint. It performs no retries: a
// failed tick is retried by the next one.
type Fetcher struct {
	endpoint string
	client   *http.Client
	now      func() time.Time
}

// NewFetcher creates a Fetcher for endpoint. The timeout bounds a whole
// request; zero leaves it to the caller's context.
func NewFetcher(endpoint string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		now:      time.Now,
	}
}

// Endpoint returns the URL this fetcher polls.
func (f *Fetcher) Endpoint() string {
	return f.endpoint
}

// FetchSnapshot issues one GET against the endpoint and decodes the body.
// All failures are returned as *FetchError.
func (f *Fetcher) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return nil, networkError(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, networkError(fmt.Errorf("request state: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, networkError(fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, networkError(fmt.Errorf("read body: %w", err))
	}

	snap, err := DecodeSnapshot(body)
	if err != nil {
		return nil, err
	}
	snap.FetchedAt = f.now()
	return snap, nil
}
