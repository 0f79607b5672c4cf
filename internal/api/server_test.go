package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/scriptorium/internal/analytics"
	"github.com/pders01/scriptorium/internal/recommend"
	"github.com/pders01/scriptorium/internal/resource"
	"github.com/pders01/scriptorium/internal/search"
)

type recordingSaver struct {
	mu    sync.Mutex
	saves int
	last  map[string]analytics.ResourceAnalytics
	err   error
}

func (r *recordingSaver) SaveAnalytics(snap map[string]analytics.ResourceAnalytics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.last = snap
	return r.err
}

func testCatalog() *resource.Catalog {
	return &resource.Catalog{
		Meditations: []*resource.Meditation{
			{ID: "metta", Title: "Loving Kindness", Religion: "Buddhism", Topics: []string{"compassion"}, PlayCount: 40},
			{ID: "vipassana", Title: "Insight Practice", Religion: "Buddhism", Topics: []string{"compassion", "insight"}},
		},
		SacredTexts: []*resource.SacredText{
			{ID: "quran", Name: "Quran", Religion: "Islam", Language: "ar", Period: "7th century"},
		},
		Content: []*resource.Content{
			{ID: "sufi", Title: "Sufi Poetry", Religion: "Islam", Topics: []string{"compassion"}, Views: 10},
		},
		References: []resource.Reference{
			{SourceID: "quran", Related: []resource.ReferenceTarget{{ID: "sufi", Type: "content"}}},
		},
	}
}

func newTestServer(t *testing.T, opts Options) (*Server, *analytics.Store) {
	t.Helper()
	engine, err := search.NewEngine(testCatalog(), search.Options{})
	require.NoError(t, err)
	store := analytics.NewStore()
	return NewServer(engine, store, opts), store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 4, body["resources"])
	assert.EqualValues(t, -1, body["indexed"])
}

func TestSearchEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := do(t, s, http.MethodGet, "/api/resources?religion=Islam&sortBy=popularity", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[search.Response](t, rec)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "sufi", resp.Results[0].ID)
	assert.Equal(t, []search.FacetValue{{Value: "Islam", Count: 2}}, resp.Facets.Religion)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, search.DefaultLimit, resp.Limit)
}

func TestSearchEndpointResponseShape(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	rec := do(t, s, http.MethodGet, "/api/resources/?q=quran", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	for _, key := range []string{"results", "total", "hasMore", "facets", "page", "limit"} {
		assert.Contains(t, body, key)
	}
	results := body["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "sacred_text", first["sourceType"])
	assert.NotEmpty(t, first["relatedResources"])
}

func TestSearchEndpointCapsLimit(t *testing.T) {
	s, _ := newTestServer(t, Options{MaxLimit: 2})

	rec := do(t, s, http.MethodGet, "/api/resources?limit=50", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[search.Response](t, rec)
	assert.Equal(t, 2, resp.Limit)
	assert.Len(t, resp.Results, 2)
	assert.True(t, resp.HasMore)
}

func TestSearchEndpointBadRequests(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	for _, target := range []string{
		"/api/resources?page=two",
		"/api/resources?limit=ten",
		"/api/resources?sortBy=random",
		"/api/resources?verified=maybe",
		"/api/resources?sourceType=podcast",
	} {
		rec := do(t, s, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, decode[map[string]string](t, rec), "error")
	}
}

func TestGetEndpoint(t *testing.T) {
	s, store := newTestServer(t, Options{})
	store.TrackView("meditation:metta")

	rec := do(t, s, http.MethodGet, "/api/resources/meditation:metta", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Resource  resource.SearchResult       `json:"resource"`
		Analytics analytics.ResourceAnalytics `json:"analytics"`
	}](t, rec)
	assert.Equal(t, "Loving Kindness", body.Resource.Name)
	assert.Equal(t, 1, body.Analytics.ViewCount)

	rec = do(t, s, http.MethodGet, "/api/resources/meditation%3Ametta", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/resources/metta", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrackViewEndpoint(t *testing.T) {
	saver := &recordingSaver{}
	s, store := newTestServer(t, Options{Saver: saver})

	for i := 0; i < 3; i++ {
		rec := do(t, s, http.MethodPost, "/api/resources/content:sufi/views", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	a, ok := store.Get("content:sufi")
	require.True(t, ok)
	assert.Equal(t, 3, a.ViewCount)
	assert.Equal(t, 3, saver.saves)
	assert.Equal(t, 3, saver.last["content:sufi"].ViewCount)

	rec := do(t, s, http.MethodPost, "/api/resources/content:nope/views", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 3, saver.saves)
}

func TestTrackViewSurvivesSaveError(t *testing.T) {
	s, _ := newTestServer(t, Options{Saver: &recordingSaver{err: errors.New("disk full")}})

	rec := do(t, s, http.MethodPost, "/api/resources/content:sufi/views", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInteractionEndpoint(t *testing.T) {
	s, store := newTestServer(t, Options{})

	rec := do(t, s, http.MethodPost, "/api/resources/content:sufi/interactions",
		`{"clicks": 2, "timeSpent": 30.5, "completionRate": 0.8}`)
	require.Equal(t, http.StatusOK, rec.Code)

	a, ok := store.Get("content:sufi")
	require.True(t, ok)
	assert.Equal(t, 2, a.UserInteractions.Clicks)
	require.NotNil(t, a.UserInteractions.CompletionRate)
	assert.InDelta(t, 0.8, *a.UserInteractions.CompletionRate, 1e-9)

	rec = do(t, s, http.MethodPost, "/api/resources/content:sufi/interactions", `{"clicks": -1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/resources/content:sufi/interactions", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendationsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Options{RecommendLimit: 2})

	rec := do(t, s, http.MethodGet, "/api/resources/meditation:metta/recommendations", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Resource        string             `json:"resource"`
		Recommendations []recommend.Scored `json:"recommendations"`
	}](t, rec)
	assert.Equal(t, "meditation:metta", body.Resource)
	require.Len(t, body.Recommendations, 2)
	assert.Equal(t, "vipassana", body.Recommendations[0].Result.ID)
	assert.InDelta(t, 7.0, body.Recommendations[0].Score, 1e-9)
	for _, r := range body.Recommendations {
		assert.NotEqual(t, "metta", r.Result.ID)
	}

	rec = do(t, s, http.MethodGet, "/api/resources/meditation:metta/recommendations?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
