package search

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/scriptorium/internal/debuglog"
	"github.com/pders01/scriptorium/internal/resource"
)

const (
	fieldText       = "text"
	fieldSourceType = "source_type"
	bleveBatchSize  = 500
)

// BleveMatcher answers token queries from a bleve index. Each entry's search
// text is indexed whole under a keyword analyzer, and every token becomes an
// unanchored regexp over that term, so results equal SubstringMatcher's.
type BleveMatcher struct {
	idx bleve.Index
}

// NewBleveMatcher opens or creates an index at indexPath. An empty path
// builds a memory-only index.
func NewBleveMatcher(indexPath string) (*BleveMatcher, error) {
	if indexPath == "" {
		idx, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("creating memory index: %w", err)
		}
		return &BleveMatcher{idx: idx}, nil
	}

	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx, err := bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("creating index: %w", err)
		}
	}
	return &BleveMatcher{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = keyword.Name

	dm := bleve.NewDocumentMapping()

	text := bleve.NewKeywordFieldMapping()
	text.Store = false
	text.IncludeTermVectors = false
	text.IncludeInAll = false

	sourceType := bleve.NewKeywordFieldMapping()
	sourceType.Store = true

	dm.AddFieldMappingsAt(fieldText, text)
	dm.AddFieldMappingsAt(fieldSourceType, sourceType)

	im.DefaultMapping = dm
	return im
}

// Index replaces the index contents with entries.
func (b *BleveMatcher) Index(entries []*resource.Entry) error {
	keep := make(map[string]struct{}, len(entries))
	batch := b.idx.NewBatch()
	for _, e := range entries {
		key := e.Key()
		keep[key] = struct{}{}
		if err := batch.Index(key, map[string]any{
			fieldText:       e.Text,
			fieldSourceType: string(e.Result.SourceType),
		}); err != nil {
			return fmt.Errorf("indexing %s: %w", key, err)
		}
		if batch.Size() >= bleveBatchSize {
			if err := b.idx.Batch(batch); err != nil {
				return fmt.Errorf("writing batch: %w", err)
			}
			batch = b.idx.NewBatch()
		}
	}
	if err := b.idx.Batch(batch); err != nil {
		return fmt.Errorf("writing batch: %w", err)
	}
	return b.pruneStale(keep)
}

// pruneStale drops documents left over from a previous catalog.
func (b *BleveMatcher) pruneStale(keep map[string]struct{}) error {
	total, err := b.idx.DocCount()
	if err != nil {
		return err
	}
	if int(total) <= len(keep) {
		return nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(total), 0, false)
	res, err := b.idx.Search(req)
	if err != nil {
		return fmt.Errorf("listing index: %w", err)
	}
	batch := b.idx.NewBatch()
	for _, h := range res.Hits {
		if _, ok := keep[h.ID]; !ok {
			batch.Delete(h.ID)
		}
	}
	if batch.Size() > 0 {
		debuglog.Infof("bleve: pruning %d stale documents", batch.Size())
	}
	return b.idx.Batch(batch)
}

func (b *BleveMatcher) Match(pool []*resource.Entry, tokens []string) ([]*resource.Entry, error) {
	if len(tokens) == 0 {
		return pool, nil
	}

	qs := make([]bleveQuery.Query, 0, len(tokens))
	for _, tok := range tokens {
		q := bleve.NewRegexpQuery(".*" + regexp.QuoteMeta(tok) + ".*")
		q.SetField(fieldText)
		qs = append(qs, q)
	}

	total, err := b.idx.DocCount()
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}
	if total == 0 {
		return []*resource.Entry{}, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(qs...), int(total), 0, false)
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	hits := make(map[string]struct{}, len(res.Hits))
	for _, h := range res.Hits {
		hits[h.ID] = struct{}{}
	}

	out := make([]*resource.Entry, 0, len(hits))
	for _, e := range pool {
		if _, ok := hits[e.Key()]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (b *BleveMatcher) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *BleveMatcher) Close() error {
	return b.idx.Close()
}
