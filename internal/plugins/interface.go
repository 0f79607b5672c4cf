// Package plugins resolves the URLs people paste into feed URLs before a
// feed is fetched.
package plugins

import (
	"context"
	"net/http"
	"time"
)

// FeedInfo is what a plugin learned about a pasted URL.
type FeedInfo struct {
	OriginalURL string
	// FeedURL is the syndication endpoint to fetch.
	FeedURL     string
	Title       string
	Description string
	Metadata    map[string]string
}

// Plugin maps URLs from one kind of site to their feed.
type Plugin interface {
	Name() string
	CanHandle(url string) bool
	// Resolve may issue HTTP requests with client.
	Resolve(ctx context.Context, url string, client *http.Client) (*FeedInfo, error)
	// Priority breaks ties when several plugins can handle a URL; higher wins.
	Priority() int
}

type Registry struct {
	plugins []Plugin
	client  *http.Client
}

func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{client: &http.Client{Timeout: timeout}}
}

func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
}

// FindPlugin returns the highest-priority plugin that can handle url, or nil.
func (r *Registry) FindPlugin(url string) Plugin {
	var best Plugin
	for _, p := range r.plugins {
		if p.CanHandle(url) && (best == nil || p.Priority() > best.Priority()) {
			best = p
		}
	}
	return best
}

// Resolve returns url unchanged when no plugin handles it.
func (r *Registry) Resolve(ctx context.Context, url string) (*FeedInfo, error) {
	p := r.FindPlugin(url)
	if p == nil {
		return Passthrough(url), nil
	}
	return p.Resolve(ctx, url, r.client)
}

func (r *Registry) ListPlugins() []Plugin {
	return append([]Plugin(nil), r.plugins...)
}

// Passthrough is the FeedInfo for a URL that already is a feed.
func Passthrough(url string) *FeedInfo {
	return &FeedInfo{
		OriginalURL: url,
		FeedURL:     url,
		Metadata:    map[string]string{},
	}
}
