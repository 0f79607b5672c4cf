// Package api serves the catalog over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pders01/scriptorium/internal/analytics"
	"github.com/pders01/scriptorium/internal/debuglog"
	"github.com/pders01/scriptorium/internal/recommend"
	"github.com/pders01/scriptorium/internal/search"
)

// AnalyticsSaver persists analytics snapshots. *storage.Store satisfies it.
type AnalyticsSaver interface {
	SaveAnalytics(map[string]analytics.ResourceAnalytics) error
}

type Options struct {
	// MaxLimit caps the page size a client may request. Zero means no cap.
	MaxLimit       int
	RecommendLimit int
	// Saver, when set, receives a snapshot after every tracked view or
	// interaction.
	Saver AnalyticsSaver
}

type Server struct {
	engine      *search.Engine
	analytics   *analytics.Store
	recommender *recommend.Recommender
	opts        Options
	router      chi.Router
	saveMu      sync.Mutex
}

func NewServer(engine *search.Engine, store *analytics.Store, opts Options) *Server {
	s := &Server{
		engine:      engine,
		analytics:   store,
		recommender: recommend.New(store),
		opts:        opts,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api/resources", func(r chi.Router) {
		r.Get("/", s.handleSearch)
		r.Get("/{key}", s.handleGet)
		r.Post("/{key}/views", s.handleTrackView)
		r.Post("/{key}/interactions", s.handleInteraction)
		r.Get("/{key}/recommendations", s.handleRecommendations)
	})

	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		debuglog.Infof("api: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		debuglog.WithFields(map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"took":       time.Since(started),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debugf("api request")
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		debuglog.Errorf("api: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
