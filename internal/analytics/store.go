// Package analytics keeps per-resource engagement counters.
package analytics

import (
	"sync"
	"time"
)

// Interactions aggregates what a user did with a resource beyond opening it.
type Interactions struct {
	Clicks         int      `json:"clicks"`
	TimeSpent      float64  `json:"timeSpent"`
	CompletionRate *float64 `json:"completionRate,omitempty"`
}

// ResourceAnalytics is the engagement record for one resource.
type ResourceAnalytics struct {
	ViewCount        int          `json:"viewCount"`
	LastViewed       time.Time    `json:"lastViewed"`
	UserInteractions Interactions `json:"userInteractions"`
}

// Interaction is a single reported interaction. A nil CompletionRate
// leaves the stored rate untouched.
type Interaction struct {
	Clicks         int
	TimeSpent      float64
	CompletionRate *float64
}

// Reader is the read side used by scorers.
type Reader interface {
	Get(id string) (ResourceAnalytics, bool)
}

// Store is a concurrency-safe map of resource id to analytics.
type Store struct {
	mu    sync.RWMutex
	data  map[string]*ResourceAnalytics
	clock func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for LastViewed.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		data:  make(map[string]*ResourceAnalytics),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TrackView records one view of id. The first view creates the record.
func (s *Store) TrackView(id string) ResourceAnalytics {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.data[id]
	if !ok {
		a = &ResourceAnalytics{}
		s.data[id] = a
	}
	a.ViewCount++
	a.LastViewed = now
	return a.clone()
}

// RecordInteraction accumulates clicks and time spent for id and replaces
// the completion rate when one is given. Rates are clamped to [0, 1].
func (s *Store) RecordInteraction(id string, in Interaction) ResourceAnalytics {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.data[id]
	if !ok {
		a = &ResourceAnalytics{}
		s.data[id] = a
	}
	if in.Clicks > 0 {
		a.UserInteractions.Clicks += in.Clicks
	}
	if in.TimeSpent > 0 {
		a.UserInteractions.TimeSpent += in.TimeSpent
	}
	if in.CompletionRate != nil {
		rate := min(max(*in.CompletionRate, 0), 1)
		a.UserInteractions.CompletionRate = &rate
	}
	return a.clone()
}

// Get returns a copy of the analytics for id.
func (s *Store) Get(id string) (ResourceAnalytics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.data[id]
	if !ok {
		return ResourceAnalytics{}, false
	}
	return a.clone(), true
}

// Len is the number of tracked resources.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Snapshot copies every record, for persistence.
func (s *Store) Snapshot() map[string]ResourceAnalytics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]ResourceAnalytics, len(s.data))
	for id, a := range s.data {
		out[id] = a.clone()
	}
	return out
}

// Restore replaces the store's contents with snapshot.
func (s *Store) Restore(snapshot map[string]ResourceAnalytics) {
	data := make(map[string]*ResourceAnalytics, len(snapshot))
	for id, a := range snapshot {
		c := a.clone()
		data[id] = &c
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

func (a *ResourceAnalytics) clone() ResourceAnalytics {
	c := *a
	if a.UserInteractions.CompletionRate != nil {
		rate := *a.UserInteractions.CompletionRate
		c.UserInteractions.CompletionRate = &rate
	}
	return c
}
