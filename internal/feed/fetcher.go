package feed

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pders01/scriptorium/internal/config"
	"github.com/pders01/scriptorium/internal/storage"
)

const (
	defaultUserAgent  = "scriptorium/1.0 (catalog importer)"
	defaultTimeout    = 30 * time.Second
	defaultRetryAfter = 15 * time.Minute
)

// HTTPError is returned for 4xx and 5xx responses.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("HTTP error: %d (retry after %s)", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}

type Fetcher struct {
	client      *http.Client
	userAgent   string
	ignoreCache bool
}

func NewFetcher(cfg *config.Config) *Fetcher {
	timeout := defaultTimeout
	userAgent := defaultUserAgent
	if cfg != nil {
		if cfg.Import.HTTPTimeout > 0 {
			timeout = cfg.Import.HTTPTimeout
		}
		if cfg.Import.UserAgent != "" {
			userAgent = cfg.Import.UserAgent
		}
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// SetIgnoreCache makes Fetch skip the conditional request headers.
func (f *Fetcher) SetIgnoreCache(ignore bool) {
	f.ignoreCache = ignore
}

// Fetch requests src.URL. The bool is false when the server answered
// 304 Not Modified, in which case the response is nil.
func (f *Fetcher) Fetch(ctx context.Context, src *storage.FeedSource) (*http.Response, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/feed+json, application/xml, text/xml")

	if !f.ignoreCache {
		if src.ETag != "" {
			req.Header.Set("If-None-Match", src.ETag)
		}
		if src.LastModified != "" {
			req.Header.Set("If-Modified-Since", src.LastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetching feed: %w", err)
	}

	if resp.StatusCode == http.StatusNotModified {
		resp.Body.Close()
		return nil, false, nil
	}

	if resp.StatusCode >= 400 {
		resp.Body.Close()
		httpErr := &HTTPError{StatusCode: resp.StatusCode}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			httpErr.RetryAfter = RetryAfter(resp)
		}
		return nil, false, httpErr
	}

	return resp, true, nil
}

// UpdateMetadata copies the caching headers of resp onto src.
func (f *Fetcher) UpdateMetadata(src *storage.FeedSource, resp *http.Response) {
	if etag := resp.Header.Get("ETag"); etag != "" {
		src.ETag = etag
	}
	if lastMod := resp.Header.Get("Last-Modified"); lastMod != "" {
		src.LastModified = lastMod
	}
	src.LastFetched = time.Now()
}

// RetryAfter reads a Retry-After header in seconds, defaulting to 15m.
func RetryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
		if at, err := http.ParseTime(v); err == nil {
			if d := time.Until(at); d > 0 {
				return d
			}
		}
	}
	return defaultRetryAfter
}
