package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Ingestion failure taxonomy. Both abort the current sync and trigger the
// stale-cache fallback; per-row problems are RejectReasons, not errors.
var (
	ErrTransport    = errors.New("sheet: transport failure")
	ErrEmptyPayload = errors.New("sheet: empty or truncated payload")
)

// Fetcher retrieves the published CSV export of the upstream sheet.
type Fetcher struct {
	url      string
	minBytes int
	client   *http.Client
}

// NewFetcher creates a fetcher for the given CSV URL. minBytes is a crude
// sanity threshold distinguishing a real sheet from an upstream error page.
func NewFetcher(url string, timeout time.Duration, minBytes int) *Fetcher {
	return &Fetcher{
		url:      url,
		minBytes: minBytes,
		client:   &http.Client{Timeout: timeout},
	}
}

// Fetch performs the HTTP GET and returns the raw CSV text. Network errors
// and non-200 responses map to ErrTransport, implausibly short payloads to
// ErrEmptyPayload.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrTransport, err)
	}
	if len(body) < f.minBytes {
		return "", fmt.Errorf("%w: got %d bytes", ErrEmptyPayload, len(body))
	}

	return string(body), nil
}
