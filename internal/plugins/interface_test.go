package plugins

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPlugin struct {
	name     string
	priority int
	prefix   string
	err      error
}

func (p *mockPlugin) Name() string  { return p.name }
func (p *mockPlugin) Priority() int { return p.priority }

func (p *mockPlugin) CanHandle(url string) bool {
	return strings.HasPrefix(url, p.prefix)
}

func (p *mockPlugin) Resolve(_ context.Context, url string, client *http.Client) (*FeedInfo, error) {
	if p.err != nil {
		return nil, p.err
	}
	if client == nil {
		return nil, errors.New("no client")
	}
	return &FeedInfo{OriginalURL: url, FeedURL: url + "/feed", Title: p.name}, nil
}

func TestRegistry_FindPlugin(t *testing.T) {
	r := NewRegistry(time.Second)
	low := &mockPlugin{name: "low", priority: 10, prefix: "https://"}
	high := &mockPlugin{name: "high", priority: 50, prefix: "https://sangha."}
	r.Register(low)
	r.Register(high)

	tests := []struct {
		url  string
		want Plugin
	}{
		{"https://sangha.example.org", high},
		{"https://example.org", low},
		{"ftp://example.org", nil},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, r.FindPlugin(tt.url))
		})
	}
}

func TestRegistry_FindPluginFirstRegisteredWinsTies(t *testing.T) {
	r := NewRegistry(time.Second)
	a := &mockPlugin{name: "a", priority: 5, prefix: "https://"}
	b := &mockPlugin{name: "b", priority: 5, prefix: "https://"}
	r.Register(a)
	r.Register(b)

	assert.Equal(t, a, r.FindPlugin("https://example.org"))
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry(time.Second)
	r.Register(&mockPlugin{name: "mock", priority: 1, prefix: "https://"})

	info, err := r.Resolve(context.Background(), "https://example.org")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/feed", info.FeedURL)
	assert.Equal(t, "https://example.org", info.OriginalURL)
	assert.Equal(t, "mock", info.Title)

	info, err = r.Resolve(context.Background(), "gopher://example.org")
	require.NoError(t, err)
	assert.Equal(t, "gopher://example.org", info.FeedURL)
	assert.NotNil(t, info.Metadata)
}

func TestRegistry_ResolveError(t *testing.T) {
	r := NewRegistry(time.Second)
	r.Register(&mockPlugin{name: "broken", prefix: "https://", err: errors.New("boom")})

	_, err := r.Resolve(context.Background(), "https://example.org")
	assert.EqualError(t, err, "boom")
}

func TestRegistry_ListPluginsCopies(t *testing.T) {
	r := NewRegistry(time.Second)
	r.Register(&mockPlugin{name: "one"})

	list := r.ListPlugins()
	list[0] = nil
	assert.NotNil(t, r.ListPlugins()[0])
}
