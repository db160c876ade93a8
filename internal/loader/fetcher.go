package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// ErrUnexpectedStatus is returned when the listing answers with a non-200 status
var ErrUnexpectedStatus = errors.New("unexpected status")

// Fetcher retrieves one listing page body
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherOptions configures an HTTPFetcher
type FetcherOptions struct {
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// HTTPFetcher fetches listing pages over HTTP, throttled by a token bucket
type HTTPFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewHTTPFetcher creates a fetcher. A non-positive rate disables throttling.
func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: opts.UserAgent,
	}
}

// Fetch performs a GET request and returns the body as text
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: %w: %d", url, ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return string(body), nil
}

// PageURL builds the listing URL for one page of a product
func PageURL(base, code, suffix string, offset int) string {
	return base + code + suffix + strconv.Itoa(offset)
}
