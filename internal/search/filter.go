package search

import (
	"slices"

	"github.com/pders01/scriptorium/internal/resource"
)

// Filters is a conjunction of optional predicates. An empty slice or nil
// pointer means the filter is absent. Within one multi-value filter any
// listed value matches.
//
// Period, Denomination and HasScientificStudies only constrain the source
// types that carry those attributes; every other entry passes them.
type Filters struct {
	Religion             []string              `json:"religion,omitempty"`
	Type                 []string              `json:"type,omitempty"`
	Language             []string              `json:"language,omitempty"`
	Verified             *bool                 `json:"verified,omitempty"`
	Period               []string              `json:"period,omitempty"`
	Topics               []string              `json:"topics,omitempty"`
	Denomination         []string              `json:"denomination,omitempty"`
	HasScientificStudies *bool                 `json:"hasScientificStudies,omitempty"`
	SourceType           []resource.SourceType `json:"sourceType,omitempty"`
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return len(f.Religion) == 0 && len(f.Type) == 0 && len(f.Language) == 0 &&
		f.Verified == nil && len(f.Period) == 0 && len(f.Topics) == 0 &&
		len(f.Denomination) == 0 && f.HasScientificStudies == nil && len(f.SourceType) == 0
}

// Matches reports whether e satisfies every filter that is set.
func (f Filters) Matches(e *resource.Entry) bool {
	r := &e.Result

	if len(f.SourceType) > 0 && !slices.Contains(f.SourceType, r.SourceType) {
		return false
	}
	if !anyOf(f.Religion, r.Religion) || !anyOf(f.Type, r.Type) || !anyOf(f.Language, r.Language) {
		return false
	}
	if f.Verified != nil && r.IsVerified != *f.Verified {
		return false
	}
	if len(f.Topics) > 0 && !sharesAny(f.Topics, r.Topics) {
		return false
	}
	if e.HasPeriod && !anyOf(f.Period, e.Period) {
		return false
	}
	if e.HasDenomination && !anyOf(f.Denomination, e.Denomination) {
		return false
	}
	if f.HasScientificStudies != nil && e.SupportsStudies {
		if (len(r.ScientificStudies) > 0) != *f.HasScientificStudies {
			return false
		}
	}
	return true
}

// ApplyFilters returns the entries matching f, in pool order.
func ApplyFilters(pool []*resource.Entry, f Filters) []*resource.Entry {
	if f.IsZero() {
		return pool
	}
	out := make([]*resource.Entry, 0, len(pool))
	for _, e := range pool {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// anyOf is true when no values are requested or v is one of them.
func anyOf(values []string, v string) bool {
	return len(values) == 0 || slices.Contains(values, v)
}

func sharesAny(want, have []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}
