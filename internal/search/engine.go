package search

import (
	"fmt"
	"time"

	"github.com/pders01/scriptorium/internal/debuglog"
	"github.com/pders01/scriptorium/internal/resource"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Request describes one catalog query. Zero values select defaults: page 1,
// the engine's default limit and sort. A negative limit yields an empty page.
type Request struct {
	Query   string  `json:"query,omitempty"`
	Filters Filters `json:"filters"`
	Page    int     `json:"page,omitempty"`
	Limit   int     `json:"limit,omitempty"`
	SortBy  SortBy  `json:"sortBy,omitempty"`
}

// Response is one page of results plus facets over the whole filtered pool.
type Response struct {
	Results []resource.SearchResult `json:"results"`
	Total   int                     `json:"total"`
	HasMore bool                    `json:"hasMore"`
	Facets  Facets                  `json:"facets"`
	Page    int                     `json:"page"`
	Limit   int                     `json:"limit"`
}

// Options tunes an Engine. A nil Matcher selects SubstringMatcher.
type Options struct {
	Matcher      Matcher
	DefaultLimit int
	DefaultSort  SortBy
}

// Engine answers queries over a normalized, read-only snapshot of a catalog.
type Engine struct {
	entries []*resource.Entry
	byKey   map[string]*resource.Entry
	linker  *Linker
	matcher Matcher
	opts    Options
}

// NewEngine normalizes every record in catalog once and prepares the matcher.
func NewEngine(catalog *resource.Catalog, opts Options) (*Engine, error) {
	if catalog == nil {
		catalog = &resource.Catalog{}
	}
	if opts.Matcher == nil {
		opts.Matcher = NewSubstringMatcher()
	}
	if opts.DefaultLimit == 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.DefaultSort == "" {
		opts.DefaultSort = SortRelevance
	}

	normalized := resource.NormalizeAll(catalog.Records())
	entries := make([]*resource.Entry, 0, len(normalized))
	byKey := make(map[string]*resource.Entry, len(normalized))
	for _, e := range normalized {
		if _, dup := byKey[e.Key()]; dup {
			debuglog.Warnf("search: duplicate resource key %s, keeping the first", e.Key())
			continue
		}
		byKey[e.Key()] = e
		entries = append(entries, e)
	}

	if ix, ok := opts.Matcher.(Indexer); ok {
		if err := ix.Index(entries); err != nil {
			return nil, fmt.Errorf("building index: %w", err)
		}
	}

	debuglog.Infof("search: engine ready with %d entries", len(entries))
	return &Engine{
		entries: entries,
		byKey:   byKey,
		linker:  NewLinker(catalog.References),
		matcher: opts.Matcher,
		opts:    opts,
	}, nil
}

// Search filters, matches, facets, sorts and paginates the catalog.
func (e *Engine) Search(req Request) (*Response, error) {
	started := time.Now()

	page := req.Page
	if page == 0 {
		page = DefaultPage
	}
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit == 0 {
		limit = e.opts.DefaultLimit
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = e.opts.DefaultSort
	}

	pool := ApplyFilters(e.entries, req.Filters)
	pool, err := e.matcher.Match(pool, Tokenize(req.Query))
	if err != nil {
		return nil, fmt.Errorf("matching query: %w", err)
	}

	facets := CalculateFacets(pool)
	p := Paginate(Sort(pool, sortBy), page, limit)

	results := make([]resource.SearchResult, 0, len(p.Items))
	for _, entry := range p.Items {
		results = append(results, e.linker.Attach(entry.Result))
	}

	debuglog.WithFields(map[string]interface{}{
		"query": req.Query,
		"total": p.Total,
		"page":  page,
		"took":  time.Since(started),
	}).Debugf("search")

	return &Response{
		Results: results,
		Total:   p.Total,
		HasMore: p.HasMore,
		Facets:  facets,
		Page:    page,
		Limit:   limit,
	}, nil
}

// Get returns the normalized result for a namespaced key.
func (e *Engine) Get(key string) (resource.SearchResult, bool) {
	entry, ok := e.byKey[key]
	if !ok {
		return resource.SearchResult{}, false
	}
	return e.linker.Attach(entry.Result), true
}

// All returns every normalized result in relevance order.
func (e *Engine) All() []resource.SearchResult {
	out := make([]resource.SearchResult, 0, len(e.entries))
	for _, entry := range e.entries {
		out = append(out, entry.Result)
	}
	return out
}

// Len is the number of entries in the snapshot.
func (e *Engine) Len() int { return len(e.entries) }

// DocCount reports the matcher's index size, or -1 when the matcher keeps
// no index.
func (e *Engine) DocCount() int {
	if s, ok := e.matcher.(DebugStatser); ok {
		if n, err := s.DocCount(); err == nil {
			return n
		}
	}
	return -1
}
