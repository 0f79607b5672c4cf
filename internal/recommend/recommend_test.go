package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/scriptorium/internal/analytics"
	"github.com/pders01/scriptorium/internal/resource"
)

func item(id, religion string, topics ...string) resource.SearchResult {
	return resource.SearchResult{
		ID:         id,
		Name:       id,
		Religion:   religion,
		SourceType: resource.SourceContent,
		Topics:     topics,
	}
}

func ids(results []resource.SearchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func TestRecommendRanksSharedReligionAndTopics(t *testing.T) {
	a := item("A", "Buddhism", "meditation")
	b := item("B", "Buddhism", "meditation", "ethics")
	c := item("C", "Islam", "ethics")

	r := New(nil)
	assert.InDelta(t, 5.0, r.Score(a, b), 1e-9)
	assert.InDelta(t, 0.0, r.Score(a, c), 1e-9)

	assert.Equal(t, []string{"B", "C"}, ids(r.Recommend(a, []resource.SearchResult{c, b}, 5)))
}

func TestRecommendExcludesCurrent(t *testing.T) {
	a := item("A", "Buddhism", "meditation")
	pool := []resource.SearchResult{a, item("B", "Buddhism"), a}

	got := New(nil).Recommend(a, pool, 5)
	assert.Equal(t, []string{"B"}, ids(got))
}

func TestRecommendKeepsSameIDFromOtherCollection(t *testing.T) {
	a := item("A", "Buddhism")
	twin := a
	twin.SourceType = resource.SourceStudy

	got := New(nil).Recommend(a, []resource.SearchResult{twin}, 5)
	require.Len(t, got, 1)
	assert.Equal(t, resource.SourceStudy, got[0].SourceType)
}

func TestRecommendLimit(t *testing.T) {
	current := item("x", "Islam")
	var pool []resource.SearchResult
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		pool = append(pool, item(id, "Islam"))
	}

	r := New(nil)
	assert.Len(t, r.Recommend(current, pool, 3), 3)
	assert.Len(t, r.Recommend(current, pool, 0), DefaultLimit)
	assert.Len(t, r.Recommend(current, pool, -4), DefaultLimit)
	assert.Len(t, r.Recommend(current, pool[:2], 10), 2)
	assert.Empty(t, r.Recommend(current, nil, 5))
}

func TestRecommendStableOnTies(t *testing.T) {
	current := item("x", "Islam")
	pool := []resource.SearchResult{item("3", "Islam"), item("1", "Islam"), item("2", "Islam")}

	assert.Equal(t, []string{"3", "1", "2"}, ids(New(nil).Recommend(current, pool, 5)))
}

func TestScoreLanguage(t *testing.T) {
	r := New(nil)
	current := item("x", "")
	current.Language = "en"

	same := item("y", "Other")
	same.Language = "en"
	assert.InDelta(t, 2.0, r.Score(current, same), 1e-9)

	blank := item("z", "Other")
	blankCurrent := item("w", "None")
	assert.InDelta(t, 0.0, r.Score(blankCurrent, blank), 1e-9, "empty languages never match")
}

func TestScoreUsesAnalytics(t *testing.T) {
	store := analytics.NewStore()
	popular := item("p", "Other")
	for i := 0; i < 150; i++ {
		store.TrackView(popular.Key())
	}
	finished := item("f", "Other")
	rate := 0.75
	store.RecordInteraction(finished.Key(), analytics.Interaction{CompletionRate: &rate})

	heavy := item("h", "Other")
	for i := 0; i < 500; i++ {
		store.TrackView(heavy.Key())
	}

	r := New(store)
	current := item("x", "Buddhism")
	assert.InDelta(t, 1.5, r.Score(current, popular), 1e-9)
	assert.InDelta(t, 0.75, r.Score(current, finished), 1e-9)
	assert.InDelta(t, 2.0, r.Score(current, heavy), 1e-9, "view bonus is capped")

	got := r.Rank(current, []resource.SearchResult{finished, popular, heavy}, 5)
	require.Len(t, got, 3)
	assert.Equal(t, "h", got[0].Result.ID)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}
