package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/scriptorium/internal/config"
	"github.com/pders01/scriptorium/internal/storage"
)

func newTestImporter(t *testing.T) (*Importer, *storage.Store) {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	im := NewImporter(store, config.TestConfig())
	im.SetPermissiveValidation(true)
	return im, store
}

func feedServer(t *testing.T, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Header.Get("If-None-Match") == "\"v1\"" {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", "\"v1\"")
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestImporter_Add(t *testing.T) {
	im, store := newTestImporter(t)
	server, _ := feedServer(t, rssFixture)

	src, n, err := im.Add(context.Background(), Source{URL: server.URL, Religion: "Buddhism"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Dharma Talks", src.Title)
	assert.Equal(t, "Weekly talks", src.Description)
	assert.Equal(t, "\"v1\"", src.ETag)
	assert.Equal(t, FeedID(src.URL), src.ID)

	stored, err := store.GetFeed(src.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buddhism", stored.Religion)

	cat, err := store.LoadCatalog()
	require.NoError(t, err)
	require.Len(t, cat.Content, 2)
	assert.Equal(t, "On Impermanence", cat.Content[0].Title)
	assert.Equal(t, src.ID, cat.Content[0].Feed)
}

func TestImporter_AddRejectsBlockedURL(t *testing.T) {
	im, _ := newTestImporter(t)
	im.SetPermissiveValidation(false)

	_, _, err := im.Add(context.Background(), Source{URL: "http://127.0.0.1:1/feed"})
	assert.Error(t, err)
}

func TestImporter_AddInvalidFeed(t *testing.T) {
	im, store := newTestImporter(t)
	server, _ := feedServer(t, "<html>not a feed</html>")

	_, _, err := im.Add(context.Background(), Source{URL: server.URL})
	assert.Error(t, err)

	feeds, err := store.GetAllFeeds()
	require.NoError(t, err)
	assert.Empty(t, feeds)
}

func TestImporter_RefreshNotModified(t *testing.T) {
	im, store := newTestImporter(t)
	server, hits := feedServer(t, rssFixture)

	src, _, err := im.Add(context.Background(), Source{URL: server.URL})
	require.NoError(t, err)

	n, err := im.Refresh(context.Background(), src.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	// discovery probe, initial fetch, conditional refresh
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))

	im.SetForceRefresh(true)
	n, err = im.Refresh(context.Background(), src.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, 2, counts["content"], "re-imported items replace, not duplicate")
}

func TestImporter_AddDiscoversFeedFromPage(t *testing.T) {
	im, store := newTestImporter(t)
	feedSrv, _ := feedServer(t, rssFixture)

	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><link rel="alternate" type="application/rss+xml" title="Talks" href="` + feedSrv.URL + `/rss"></head></html>`))
	}))
	t.Cleanup(page.Close)

	src, n, err := im.Add(context.Background(), Source{URL: page.URL})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, feedSrv.URL+"/rss", src.URL)
	assert.Equal(t, "Talks", src.Title)

	_, err = store.GetFeed(FeedID(feedSrv.URL + "/rss"))
	assert.NoError(t, err)
}

func TestImporter_RefreshUnknownFeed(t *testing.T) {
	im, _ := newTestImporter(t)

	_, err := im.Refresh(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestImporter_RefreshAll(t *testing.T) {
	im, _ := newTestImporter(t)

	total, err := im.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	a, _ := feedServer(t, rssFixture)
	b, _ := feedServer(t, atomFixture)
	_, _, err = im.Add(context.Background(), Source{URL: a.URL})
	require.NoError(t, err)
	_, _, err = im.Add(context.Background(), Source{URL: b.URL})
	require.NoError(t, err)

	im.SetForceRefresh(true)
	total, err = im.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestImporter_RefreshAllCollectsErrors(t *testing.T) {
	im, store := newTestImporter(t)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()
	require.NoError(t, store.SaveFeed(&storage.FeedSource{ID: "broken", URL: broken.URL}))

	_, err := im.RefreshAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
