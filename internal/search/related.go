package search

import "github.com/pders01/scriptorium/internal/resource"

// Linker attaches declared cross-references to results.
type Linker struct {
	refs map[string][]resource.ReferenceTarget
}

// NewLinker indexes the side table by source id. Later rows for the same
// source id extend earlier ones.
func NewLinker(refs []resource.Reference) *Linker {
	l := &Linker{refs: make(map[string][]resource.ReferenceTarget, len(refs))}
	for _, r := range refs {
		if r.SourceID == "" {
			continue
		}
		l.refs[r.SourceID] = append(l.refs[r.SourceID], r.Related...)
	}
	return l
}

// Related projects the references declared for id. Name repeats the id;
// the side table carries no display names.
func (l *Linker) Related(id string) []resource.RelatedResource {
	targets := l.refs[id]
	if len(targets) == 0 {
		return nil
	}
	out := make([]resource.RelatedResource, 0, len(targets))
	for _, t := range targets {
		out = append(out, resource.RelatedResource{ID: t.ID, Name: t.ID, Type: t.Type})
	}
	return out
}

// Attach returns r with its related resources filled in.
func (l *Linker) Attach(r resource.SearchResult) resource.SearchResult {
	if related := l.Related(r.ID); related != nil {
		r.RelatedResources = related
	}
	return r
}
