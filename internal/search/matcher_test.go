package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"faith", "hope"}, Tokenize("  Faith\tHOPE \n"))
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   "))
}

func TestSubstringMatcher(t *testing.T) {
	m := NewSubstringMatcher()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all tokens required", "faith hope", []string{"m1", "st1"}},
		{"case insensitive", "FAITH", []string{"m1", "t1", "st1"}},
		{"substring of word", "faithful", []string{"st1"}},
		{"absent word", "medit", []string{}},
		{"matches level", "intermediate", []string{"m2"}},
		{"matches original name", "गीता", []string{"t1"}},
		{"matches sacred text period", "century", []string{"t2"}},
		{"no match", "zoroaster", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Match(fixtureEntries(), Tokenize(tt.query))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSubstringMatcherEmptyQueryReturnsPool(t *testing.T) {
	pool := fixtureEntries()
	got, err := NewSubstringMatcher().Match(pool, Tokenize(""))
	require.NoError(t, err)
	assert.Equal(t, ids(pool), ids(got))
}

func TestSubstringMatcherResultsContainEveryToken(t *testing.T) {
	tokens := Tokenize("and of")
	got, err := NewSubstringMatcher().Match(fixtureEntries(), tokens)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, e := range got {
		for _, tok := range tokens {
			assert.True(t, strings.Contains(e.Text, tok), "%s missing %q", e.Key(), tok)
		}
	}
}
