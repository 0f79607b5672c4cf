package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/scriptorium/internal/resource"
)

func TestCalculateFacetsOverFixture(t *testing.T) {
	f := CalculateFacets(fixtureEntries())

	assert.Equal(t, []FacetValue{
		{"Islam", 2},
		{"Buddhism", 1},
		{"Meditation", 1},
		{"Hinduism", 1},
		{"Christianity", 1},
		{"Unknown", 1},
	}, f.Religion)

	assert.Equal(t, []FacetValue{{"en", 4}, {"sa", 1}, {"ar", 1}, {"de", 1}}, f.Language)

	assert.Equal(t, FacetValue{"compassion", 2}, f.Topics[0])
	assert.Equal(t, FacetValue{"devotion", 2}, f.Topics[1])
	assert.Equal(t, "meditation", f.Topics[2].Value, "ties keep first-seen order")
}

func TestCalculateFacetSumsToPoolSize(t *testing.T) {
	pool := fixtureEntries()
	for _, field := range []Field{FieldReligion, FieldLanguage, FieldType} {
		sum := 0
		for _, v := range CalculateFacet(pool, field) {
			sum += v.Count
		}
		assert.Equal(t, len(pool), sum, field.Name)
	}
}

func TestCalculateFacetCountsDistinctTopicsPerEntry(t *testing.T) {
	pool := resource.NormalizeAll([]resource.Record{
		&resource.Content{ID: "a", Topics: []string{"ethics", "ethics", "prayer"}},
		&resource.Content{ID: "b", Topics: []string{"prayer"}},
	})

	got := CalculateFacet(pool, FieldTopics)
	assert.Equal(t, []FacetValue{{"prayer", 2}, {"ethics", 1}}, got)
}

func TestCalculateFacetEmptyPool(t *testing.T) {
	got := CalculateFacet(nil, FieldTopics)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
