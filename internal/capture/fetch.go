// Package capture turns a URL into a stored link with indexed readable
// content: validate, fetch, sniff, extract, persist.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/linkpad/linkpad/internal/apperr"
	"github.com/linkpad/linkpad/internal/logging"
)

const (
	// DefaultTimeout bounds a single fetch attempt.
	DefaultTimeout = 5 * time.Second
	// DefaultMaxBodyBytes caps how much of a response body is read.
	DefaultMaxBodyBytes = 4 << 20

	userAgent = "linkpad/1.0"
)

// ValidateURL checks that rawURL is an absolute http or https URL and
// returns its normalized form.
func ValidateURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", apperr.Wrap(apperr.ErrInvalidURL, err, "invalid url %q", rawURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperr.New(apperr.ErrInvalidURL, "invalid url %q: need absolute http(s) url", rawURL)
	}
	return u.String(), nil
}

// Fetcher downloads page bodies with a per-request timeout and a body
// size ceiling. Redirects are followed by the underlying client.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	maxBodyBytes int64
}

// NewFetcher creates a Fetcher. Zero values fall back to the defaults.
func NewFetcher(timeout time.Duration, maxBodyBytes int64) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Fetcher{
		client:       &http.Client{},
		timeout:      timeout,
		maxBodyBytes: maxBodyBytes,
	}
}

// Fetch downloads the body at url. Transient failures (network errors,
// 5xx responses) are retried once; anything else fails immediately with
// a FETCH_ERROR.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := f.fetchOnce(ctx, url)
	if err == nil {
		return body, nil
	}
	if ctx.Err() != nil || !isTransient(err) {
		return nil, err
	}
	logging.Debug("retrying fetch", logging.Fields{"url": url, "error": err})
	return f.fetchOnce(ctx, url)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrFetch, err, "failed to build request for %q", url)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrFetch, err, "failed to fetch %q", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.New(apperr.ErrFetch, "fetch %q: %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrFetch, err, "failed to read body of %q", url)
	}
	return body, nil
}

// isTransient reports whether a fetch failure is worth one more attempt.
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	for _, status := range []int{500, 502, 503, 504} {
		if strings.Contains(msg, fmt.Sprintf(": %d ", status)) {
			return true
		}
	}
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset")
}
