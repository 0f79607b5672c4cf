package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/pders01/scriptorium/internal/analytics"
	"github.com/pders01/scriptorium/internal/debuglog"
	"github.com/pders01/scriptorium/internal/resource"
)

var errNotFound = errors.New("resource not found")

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"resources": s.engine.Len(),
		"indexed":   s.engine.DocCount(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if s.opts.MaxLimit > 0 && req.Limit > s.opts.MaxLimit {
		req.Limit = s.opts.MaxLimit
	}

	resp, err := s.engine.Search(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// lookup resolves the {key} path parameter. The 404 is already written
// when ok is false.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (resource.SearchResult, bool) {
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid key: %w", err))
		return resource.SearchResult{}, false
	}
	result, ok := s.engine.Get(key)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", errNotFound, key))
		return resource.SearchResult{}, false
	}
	return result, true
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	result, ok := s.lookup(w, r)
	if !ok {
		return
	}
	a, _ := s.analytics.Get(result.Key())
	writeJSON(w, http.StatusOK, map[string]any{
		"resource":  result,
		"analytics": a,
	})
}

func (s *Server) handleTrackView(w http.ResponseWriter, r *http.Request) {
	result, ok := s.lookup(w, r)
	if !ok {
		return
	}
	a := s.analytics.TrackView(result.Key())
	s.persist()
	writeJSON(w, http.StatusOK, a)
}

type interactionRequest struct {
	Clicks         int      `json:"clicks"`
	TimeSpent      float64  `json:"timeSpent"`
	CompletionRate *float64 `json:"completionRate"`
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	result, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding interaction: %w", err))
		return
	}
	if req.Clicks < 0 || req.TimeSpent < 0 {
		writeError(w, http.StatusBadRequest, errors.New("clicks and timeSpent must not be negative"))
		return
	}

	a := s.analytics.RecordInteraction(result.Key(), analytics.Interaction{
		Clicks:         req.Clicks,
		TimeSpent:      req.TimeSpent,
		CompletionRate: req.CompletionRate,
	})
	s.persist()
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	result, ok := s.lookup(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r.URL.Query(), "limit", s.opts.RecommendLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ranked := s.recommender.Rank(result, s.engine.All(), limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"resource":        result.Key(),
		"recommendations": ranked,
	})
}

func (s *Server) persist() {
	if s.opts.Saver == nil {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if err := s.opts.Saver.SaveAnalytics(s.analytics.Snapshot()); err != nil {
		debuglog.Errorf("api: saving analytics: %v", err)
	}
}
