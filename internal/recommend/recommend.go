// Package recommend ranks catalog items by similarity to a current item.
package recommend

import (
	"sort"

	"github.com/pders01/scriptorium/internal/analytics"
	"github.com/pders01/scriptorium/internal/resource"
)

// DefaultLimit is used when Recommend is called with limit <= 0.
const DefaultLimit = 5

const (
	topicWeight    = 2.0
	religionWeight = 3.0
	languageWeight = 2.0
	viewsDivisor   = 100.0
	maxViewsBonus  = 2.0
)

// Recommender scores candidates against the current item. Analytics is
// optional; without it only content similarity counts.
type Recommender struct {
	analytics analytics.Reader
}

func New(reader analytics.Reader) *Recommender {
	return &Recommender{analytics: reader}
}

// Scored pairs a candidate with its score.
type Scored struct {
	Result resource.SearchResult `json:"result"`
	Score  float64               `json:"score"`
}

// Recommend returns at most limit items from pool ordered by descending
// score. The current item is never recommended. Ties keep pool order.
func (r *Recommender) Recommend(current resource.SearchResult, pool []resource.SearchResult, limit int) []resource.SearchResult {
	scored := r.Rank(current, pool, limit)
	out := make([]resource.SearchResult, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.Result)
	}
	return out
}

// Rank is Recommend with the scores kept.
func (r *Recommender) Rank(current resource.SearchResult, pool []resource.SearchResult, limit int) []Scored {
	if limit <= 0 {
		limit = DefaultLimit
	}

	currentKey := current.Key()
	scored := make([]Scored, 0, len(pool))
	for _, candidate := range pool {
		if candidate.Key() == currentKey {
			continue
		}
		scored = append(scored, Scored{Result: candidate, Score: r.Score(current, candidate)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// Score is the similarity of candidate to current plus its engagement bonus.
func (r *Recommender) Score(current, candidate resource.SearchResult) float64 {
	score := topicWeight * float64(sharedTopics(current.Topics, candidate.Topics))

	if candidate.Religion == current.Religion {
		score += religionWeight
	}
	if candidate.Language != "" && candidate.Language == current.Language {
		score += languageWeight
	}

	if r.analytics == nil {
		return score
	}
	if a, ok := r.analytics.Get(candidate.Key()); ok {
		score += min(float64(a.ViewCount)/viewsDivisor, maxViewsBonus)
		if rate := a.UserInteractions.CompletionRate; rate != nil {
			score += *rate
		}
	}
	return score
}

// sharedTopics counts the distinct topics of candidate that current also has.
func sharedTopics(current, candidate []string) int {
	if len(current) == 0 || len(candidate) == 0 {
		return 0
	}
	have := make(map[string]struct{}, len(current))
	for _, t := range current {
		have[t] = struct{}{}
	}
	n := 0
	for _, t := range candidate {
		if _, ok := have[t]; ok {
			n++
			delete(have, t)
		}
	}
	return n
}
