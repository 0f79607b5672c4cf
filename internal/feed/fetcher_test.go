package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pders01/scriptorium/internal/config"
	"github.com/pders01/scriptorium/internal/storage"
)

func TestFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name           string
		src            *storage.FeedSource
		ignoreCache    bool
		serverResponse func(t *testing.T, w http.ResponseWriter, r *http.Request)
		expectUpdated  bool
		expectStatus   int
	}{
		{
			name: "new content",
			src:  &storage.FeedSource{ID: "a"},
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("User-Agent"); got != "scriptorium-test/1.0" {
					t.Errorf("expected test user agent, got %s", got)
				}
				w.Header().Set("ETag", "\"123\"")
				w.Write([]byte("<rss></rss>"))
			},
			expectUpdated: true,
		},
		{
			name: "not modified by etag",
			src:  &storage.FeedSource{ID: "b", ETag: "\"123\""},
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("If-None-Match") != "\"123\"" {
					t.Errorf("expected If-None-Match \"123\", got %q", r.Header.Get("If-None-Match"))
				}
				w.WriteHeader(http.StatusNotModified)
			},
		},
		{
			name: "not modified by date",
			src:  &storage.FeedSource{ID: "c", LastModified: "Wed, 01 Jan 2025 00:00:00 GMT"},
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("If-Modified-Since") == "" {
					t.Error("expected If-Modified-Since header")
				}
				w.WriteHeader(http.StatusNotModified)
			},
		},
		{
			name:        "ignore cache",
			src:         &storage.FeedSource{ID: "d", ETag: "\"123\""},
			ignoreCache: true,
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("If-None-Match") != "" {
					t.Error("conditional header sent while ignoring cache")
				}
				w.Write([]byte("<rss></rss>"))
			},
			expectUpdated: true,
		},
		{
			name: "server error",
			src:  &storage.FeedSource{ID: "e"},
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectStatus: http.StatusInternalServerError,
		},
		{
			name: "rate limited",
			src:  &storage.FeedSource{ID: "f"},
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
			},
			expectStatus: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.serverResponse(t, w, r)
			}))
			defer server.Close()

			tt.src.URL = server.URL
			fetcher := NewFetcher(config.TestConfig())
			fetcher.SetIgnoreCache(tt.ignoreCache)

			resp, updated, err := fetcher.Fetch(context.Background(), tt.src)
			if resp != nil {
				resp.Body.Close()
			}

			if tt.expectStatus != 0 {
				var httpErr *HTTPError
				if !errors.As(err, &httpErr) {
					t.Fatalf("expected HTTPError, got %v", err)
				}
				if httpErr.StatusCode != tt.expectStatus {
					t.Errorf("expected status %d, got %d", tt.expectStatus, httpErr.StatusCode)
				}
				if tt.expectStatus == http.StatusTooManyRequests && httpErr.RetryAfter != time.Minute {
					t.Errorf("expected retry after 1m, got %v", httpErr.RetryAfter)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if updated != tt.expectUpdated {
				t.Errorf("expected updated=%v, got %v", tt.expectUpdated, updated)
			}
		})
	}
}

func TestFetcher_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<rss></rss>"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewFetcher(nil).Fetch(ctx, &storage.FeedSource{URL: server.URL})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFetcher_UpdateMetadata(t *testing.T) {
	src := &storage.FeedSource{ID: "test"}
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("ETag", "\"new-etag\"")
	resp.Header.Set("Last-Modified", "Thu, 02 Jan 2025 00:00:00 GMT")

	NewFetcher(nil).UpdateMetadata(src, resp)

	if src.ETag != "\"new-etag\"" {
		t.Errorf("expected ETag \"new-etag\", got %s", src.ETag)
	}
	if src.LastModified != "Thu, 02 Jan 2025 00:00:00 GMT" {
		t.Errorf("unexpected LastModified %s", src.LastModified)
	}
	if time.Since(src.LastFetched) > time.Second {
		t.Error("LastFetched not updated")
	}
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected time.Duration
	}{
		{"seconds", "120", 120 * time.Second},
		{"invalid", "soon", 15 * time.Minute},
		{"missing", "", 15 * time.Minute},
		{"past date", "Wed, 01 Jan 2020 00:00:00 GMT", 15 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			if tt.header != "" {
				resp.Header.Set("Retry-After", tt.header)
			}
			if got := RetryAfter(resp); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
