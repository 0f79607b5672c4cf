package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pders01/scriptorium/internal/resource"
)

// SortBy names an ordering strategy.
type SortBy string

const (
	SortRelevance  SortBy = "relevance"
	SortDate       SortBy = "date"
	SortPopularity SortBy = "popularity"
)

// ParseSortBy accepts the three strategy names; empty means relevance.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortRelevance:
		return SortRelevance, nil
	case SortDate:
		return SortDate, nil
	case SortPopularity:
		return SortPopularity, nil
	default:
		return "", fmt.Errorf("unknown sort %q (want relevance, date or popularity)", s)
	}
}

// Sort returns a new slice ordered by sortBy. Relevance keeps pool order;
// date and popularity are descending and stable. An unrecognised strategy
// falls back to relevance.
func Sort(pool []*resource.Entry, sortBy SortBy) []*resource.Entry {
	out := make([]*resource.Entry, len(pool))
	copy(out, pool)

	switch sortBy {
	case SortDate:
		// Zero dates sort last because every real date is after them.
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Date.After(out[j].Date)
		})
	case SortPopularity:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Popularity > out[j].Popularity
		})
	}
	return out
}
