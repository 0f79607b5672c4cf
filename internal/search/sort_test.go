package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSort(t *testing.T) {
	tests := []struct {
		sortBy SortBy
		want   []string
	}{
		{SortRelevance, []string{"m1", "m2", "t1", "t2", "st1", "c1", "c2"}},
		{SortDate, []string{"c1", "m2", "m1", "st1", "t1", "t2", "c2"}},
		{SortPopularity, []string{"c1", "m1", "st1", "t1", "m2", "c2", "t2"}},
		{SortBy("alphabetical"), []string{"m1", "m2", "t1", "t2", "st1", "c1", "c2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sortBy), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Sort(fixtureEntries(), tt.sortBy)))
		})
	}
}

func TestSortDoesNotMutatePool(t *testing.T) {
	pool := fixtureEntries()
	before := ids(pool)
	_ = Sort(pool, SortPopularity)
	assert.Equal(t, before, ids(pool))
}

func TestParseSortBy(t *testing.T) {
	got, err := ParseSortBy("")
	require.NoError(t, err)
	assert.Equal(t, SortRelevance, got)

	got, err = ParseSortBy(" Popularity ")
	require.NoError(t, err)
	assert.Equal(t, SortPopularity, got)

	_, err = ParseSortBy("random")
	assert.Error(t, err)
}
