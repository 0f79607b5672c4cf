package search

import (
	"sort"

	"github.com/pders01/scriptorium/internal/resource"
)

// FacetValue is one bucket of a facet histogram.
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets holds the histograms returned alongside every search.
type Facets struct {
	Religion []FacetValue `json:"religion"`
	Language []FacetValue `json:"language"`
	Type     []FacetValue `json:"type"`
	Topics   []FacetValue `json:"topics"`
}

// Field selects a facetable field. Multi reports whether the field holds
// several values that are counted independently.
type Field struct {
	Name   string
	Multi  bool
	values func(*resource.Entry) []string
}

var (
	FieldReligion = Field{Name: "religion", values: func(e *resource.Entry) []string { return []string{e.Result.Religion} }}
	FieldLanguage = Field{Name: "language", values: func(e *resource.Entry) []string { return []string{e.Result.Language} }}
	FieldType     = Field{Name: "type", values: func(e *resource.Entry) []string { return []string{e.Result.Type} }}
	FieldTopics   = Field{Name: "topics", Multi: true, values: func(e *resource.Entry) []string { return e.Result.Topics }}
)

// CalculateFacet counts values of field across pool, sorted by count
// descending. Equal counts keep first-seen order. Empty values are skipped,
// and a multi-valued field counts each distinct value once per entry.
func CalculateFacet(pool []*resource.Entry, field Field) []FacetValue {
	index := make(map[string]int)
	out := []FacetValue{}
	for _, e := range pool {
		vals := field.values(e)
		if !field.Multi && len(vals) > 1 {
			vals = vals[:1]
		}
		seen := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			if i, ok := index[v]; ok {
				out[i].Count++
				continue
			}
			index[v] = len(out)
			out = append(out, FacetValue{Value: v, Count: 1})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// CalculateFacets computes every facet over pool.
func CalculateFacets(pool []*resource.Entry) Facets {
	return Facets{
		Religion: CalculateFacet(pool, FieldReligion),
		Language: CalculateFacet(pool, FieldLanguage),
		Type:     CalculateFacet(pool, FieldType),
		Topics:   CalculateFacet(pool, FieldTopics),
	}
}
