package analytics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

func rate(f float64) *float64 { return &f }

func TestTrackView(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore(WithClock(clock.Now))

	_, ok := s.Get("meditation:m1")
	assert.False(t, ok)

	s.TrackView("meditation:m1")
	s.TrackView("meditation:m1")
	third := s.TrackView("meditation:m1")

	got, ok := s.Get("meditation:m1")
	require.True(t, ok)
	assert.Equal(t, 3, got.ViewCount)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 3, 0, 0, time.UTC), got.LastViewed)
	assert.Equal(t, third, got)
	assert.Equal(t, 1, s.Len())
}

func TestTrackViewKeepsInteractions(t *testing.T) {
	s := NewStore()
	s.RecordInteraction("a", Interaction{Clicks: 2, CompletionRate: rate(0.5)})
	got := s.TrackView("a")

	assert.Equal(t, 1, got.ViewCount)
	assert.Equal(t, 2, got.UserInteractions.Clicks)
	require.NotNil(t, got.UserInteractions.CompletionRate)
	assert.InDelta(t, 0.5, *got.UserInteractions.CompletionRate, 1e-9)
}

func TestRecordInteraction(t *testing.T) {
	s := NewStore()

	s.RecordInteraction("a", Interaction{Clicks: 1, TimeSpent: 30, CompletionRate: rate(0.25)})
	s.RecordInteraction("a", Interaction{Clicks: 2, TimeSpent: 15})
	got := s.RecordInteraction("a", Interaction{CompletionRate: rate(1.7)})

	assert.Equal(t, 0, got.ViewCount)
	assert.Equal(t, 3, got.UserInteractions.Clicks)
	assert.InDelta(t, 45.0, got.UserInteractions.TimeSpent, 1e-9)
	require.NotNil(t, got.UserInteractions.CompletionRate)
	assert.InDelta(t, 1.0, *got.UserInteractions.CompletionRate, 1e-9)
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewStore()
	s.RecordInteraction("a", Interaction{CompletionRate: rate(0.4)})

	got, _ := s.Get("a")
	*got.UserInteractions.CompletionRate = 0.9
	got.ViewCount = 100

	again, _ := s.Get("a")
	assert.Equal(t, 0, again.ViewCount)
	assert.InDelta(t, 0.4, *again.UserInteractions.CompletionRate, 1e-9)
}

func TestConcurrentTrackView(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.TrackView("hot")
				_, _ = s.Get("hot")
			}
		}()
	}
	wg.Wait()

	got, ok := s.Get("hot")
	require.True(t, ok)
	assert.Equal(t, 1000, got.ViewCount)
}

func TestSnapshotRestore(t *testing.T) {
	s := NewStore()
	s.TrackView("a")
	s.TrackView("b")
	s.RecordInteraction("b", Interaction{CompletionRate: rate(0.8)})

	snap := s.Snapshot()
	require.Len(t, snap, 2)

	restored := NewStore()
	restored.TrackView("stale")
	restored.Restore(snap)

	assert.Equal(t, 2, restored.Len())
	_, ok := restored.Get("stale")
	assert.False(t, ok)

	b, ok := restored.Get("b")
	require.True(t, ok)
	assert.Equal(t, 1, b.ViewCount)
	assert.InDelta(t, 0.8, *b.UserInteractions.CompletionRate, 1e-9)

	restored.TrackView("b")
	assert.Equal(t, 1, snap["b"].ViewCount, "snapshot is detached from the store")
}
