package resource

import "time"

// RelatedResource is the projected form of a declared cross-reference.
type RelatedResource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// SearchResult is the canonical shape every collection item is normalized
// into. After normalization Type, Religion, Language and Topics are always
// set (Topics may be empty but never nil).
type SearchResult struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Type              string            `json:"type"`
	Religion          string            `json:"religion"`
	URL               string            `json:"url"`
	SourceType        SourceType        `json:"sourceType"`
	Language          string            `json:"language"`
	IsVerified        bool              `json:"isVerified"`
	Organization      *Organization     `json:"organization,omitempty"`
	Topics            []string          `json:"topics"`
	ScientificStudies []ScientificStudy `json:"scientificStudies,omitempty"`
	RelatedResources  []RelatedResource `json:"relatedResources,omitempty"`
}

// Key returns the collection-namespaced identifier.
func (r SearchResult) Key() string {
	return Key(r.SourceType, r.ID)
}

// Entry is a normalized record plus the attributes the query pipeline needs,
// derived once at ingestion.
type Entry struct {
	Result SearchResult

	// Text is the lowercase search blob the query matcher runs against.
	Text string
	// Date is the zero time when the record carries no date.
	Date       time.Time
	Popularity float64

	// Period and Denomination are only meaningful for the source types that
	// declare them; HasPeriod / HasDenomination report that capability.
	Period          string
	HasPeriod       bool
	Denomination    string
	HasDenomination bool

	// SupportsStudies is true for source types that can carry scientific
	// study references (meditation, content).
	SupportsStudies bool
}

func (e *Entry) Key() string { return e.Result.Key() }
