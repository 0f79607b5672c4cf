package search

import (
	"strings"

	"github.com/pders01/scriptorium/internal/resource"
)

// Tokenize splits a free-text query on whitespace and lowercases each token.
func Tokenize(query string) []string {
	fields := strings.Fields(query)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, strings.ToLower(f))
	}
	return tokens
}

// SubstringMatcher keeps entries whose search text contains every token as
// a substring. "faithful" matches the token "faith".
type SubstringMatcher struct{}

func NewSubstringMatcher() *SubstringMatcher {
	return &SubstringMatcher{}
}

func (SubstringMatcher) Match(pool []*resource.Entry, tokens []string) ([]*resource.Entry, error) {
	if len(tokens) == 0 {
		return pool, nil
	}
	out := make([]*resource.Entry, 0, len(pool))
	for _, e := range pool {
		if containsAll(e.Text, tokens) {
			out = append(out, e)
		}
	}
	return out, nil
}

func containsAll(text string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(text, tok) {
			return false
		}
	}
	return true
}
