package search

import "github.com/pders01/scriptorium/internal/resource"

// Matcher narrows a pool to the entries whose search text contains every
// token. Implementations must preserve the pool's order.
type Matcher interface {
	Match(pool []*resource.Entry, tokens []string) ([]*resource.Entry, error)
}

// Indexer can be implemented by matchers that maintain an external index
// and need the full entry set before the first query.
type Indexer interface {
	Index(entries []*resource.Entry) error
}

// DebugStatser provides lightweight stats for visibility/debugging.
// Implemented by matchers that can report index doc counts.
type DebugStatser interface {
	DocCount() (int, error)
}
