package resource

import "time"

// Record is implemented by every raw collection item.
type Record interface {
	SourceType() SourceType
	RecordID() string
}

// Organization publishes or curates a resource.
type Organization struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	Verified bool   `json:"verified" yaml:"verified" toml:"verified"`
}

// ScientificStudy is a reference to research backing a practice.
type ScientificStudy struct {
	Title string `json:"title" yaml:"title" toml:"title"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	Year  int    `json:"year,omitempty" yaml:"year,omitempty" toml:"year,omitempty"`
}

type Meditation struct {
	ID                string            `json:"id" yaml:"id" toml:"id"`
	Title             string            `json:"title" yaml:"title" toml:"title"`
	Description       string            `json:"description" yaml:"description" toml:"description"`
	Author            string            `json:"author,omitempty" yaml:"author,omitempty" toml:"author,omitempty"`
	Level             string            `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`
	Religion          string            `json:"religion,omitempty" yaml:"religion,omitempty" toml:"religion,omitempty"`
	Language          string            `json:"language,omitempty" yaml:"language,omitempty" toml:"language,omitempty"`
	URL               string            `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	AudioURL          string            `json:"audioUrl,omitempty" yaml:"audioUrl,omitempty" toml:"audioUrl,omitempty"`
	VideoURL          string            `json:"videoUrl,omitempty" yaml:"videoUrl,omitempty" toml:"videoUrl,omitempty"`
	Organization      *Organization     `json:"organization,omitempty" yaml:"organization,omitempty" toml:"organization,omitempty"`
	Verified          bool              `json:"verified,omitempty" yaml:"verified,omitempty" toml:"verified,omitempty"`
	Topics            []string          `json:"topics,omitempty" yaml:"topics,omitempty" toml:"topics,omitempty"`
	PlayCount         int               `json:"playCount,omitempty" yaml:"playCount,omitempty" toml:"playCount,omitempty"`
	Ratings           []float64         `json:"ratings,omitempty" yaml:"ratings,omitempty" toml:"ratings,omitempty"`
	ScientificStudies []ScientificStudy `json:"scientificStudies,omitempty" yaml:"scientificStudies,omitempty" toml:"scientificStudies,omitempty"`
	PublishedAt       time.Time         `json:"publishedAt,omitzero" yaml:"publishedAt,omitempty" toml:"publishedAt,omitempty"`
}

func (m *Meditation) SourceType() SourceType { return SourceMeditation }
func (m *Meditation) RecordID() string       { return m.ID }

// ContentBlock is one section of a sacred text (verse, chapter, commentary...).
type ContentBlock struct {
	Type  string `json:"type" yaml:"type" toml:"type"`
	Title string `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Body  string `json:"body,omitempty" yaml:"body,omitempty" toml:"body,omitempty"`
}

type SacredText struct {
	ID            string         `json:"id" yaml:"id" toml:"id"`
	Name          string         `json:"name" yaml:"name" toml:"name"`
	OriginalName  string         `json:"originalName,omitempty" yaml:"originalName,omitempty" toml:"originalName,omitempty"`
	Description   string         `json:"description" yaml:"description" toml:"description"`
	Religion      string         `json:"religion,omitempty" yaml:"religion,omitempty" toml:"religion,omitempty"`
	Denomination  string         `json:"denomination,omitempty" yaml:"denomination,omitempty" toml:"denomination,omitempty"`
	Language      string         `json:"language,omitempty" yaml:"language,omitempty" toml:"language,omitempty"`
	Period        string         `json:"period,omitempty" yaml:"period,omitempty" toml:"period,omitempty"`
	Translator    string         `json:"translator,omitempty" yaml:"translator,omitempty" toml:"translator,omitempty"`
	ContentBlocks []ContentBlock `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	URL           string         `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	SourceURL     string         `json:"sourceUrl,omitempty" yaml:"sourceUrl,omitempty" toml:"sourceUrl,omitempty"`
	DownloadURL   string         `json:"downloadUrl,omitempty" yaml:"downloadUrl,omitempty" toml:"downloadUrl,omitempty"`
	Organization  *Organization  `json:"organization,omitempty" yaml:"organization,omitempty" toml:"organization,omitempty"`
	Verified      bool           `json:"verified,omitempty" yaml:"verified,omitempty" toml:"verified,omitempty"`
	Topics        []string       `json:"topics,omitempty" yaml:"topics,omitempty" toml:"topics,omitempty"`
}

func (s *SacredText) SourceType() SourceType { return SourceSacredText }
func (s *SacredText) RecordID() string       { return s.ID }

type Study struct {
	ID           string        `json:"id" yaml:"id" toml:"id"`
	Title        string        `json:"title" yaml:"title" toml:"title"`
	Description  string        `json:"description" yaml:"description" toml:"description"`
	Authors      []string      `json:"authors,omitempty" yaml:"authors,omitempty" toml:"authors,omitempty"`
	Institution  string        `json:"institution,omitempty" yaml:"institution,omitempty" toml:"institution,omitempty"`
	Type         string        `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Religion     string        `json:"religion,omitempty" yaml:"religion,omitempty" toml:"religion,omitempty"`
	Language     string        `json:"language,omitempty" yaml:"language,omitempty" toml:"language,omitempty"`
	URL          string        `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	DOI          string        `json:"doi,omitempty" yaml:"doi,omitempty" toml:"doi,omitempty"`
	PDFURL       string        `json:"pdfUrl,omitempty" yaml:"pdfUrl,omitempty" toml:"pdfUrl,omitempty"`
	Organization *Organization `json:"organization,omitempty" yaml:"organization,omitempty" toml:"organization,omitempty"`
	Verified     bool          `json:"verified,omitempty" yaml:"verified,omitempty" toml:"verified,omitempty"`
	PeerReviewed bool          `json:"peerReviewed,omitempty" yaml:"peerReviewed,omitempty" toml:"peerReviewed,omitempty"`
	Topics       []string      `json:"topics,omitempty" yaml:"topics,omitempty" toml:"topics,omitempty"`
	Keywords     []string      `json:"keywords,omitempty" yaml:"keywords,omitempty" toml:"keywords,omitempty"`
	Year         int           `json:"year,omitempty" yaml:"year,omitempty" toml:"year,omitempty"`
	PublishedAt  time.Time     `json:"publishedAt,omitzero" yaml:"publishedAt,omitempty" toml:"publishedAt,omitempty"`
}

func (s *Study) SourceType() SourceType { return SourceStudy }
func (s *Study) RecordID() string       { return s.ID }

// Content is a general article, essay or teaching page.
type Content struct {
	ID                string            `json:"id" yaml:"id" toml:"id"`
	Title             string            `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Name              string            `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Description       string            `json:"description" yaml:"description" toml:"description"`
	Type              string            `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Religion          string            `json:"religion,omitempty" yaml:"religion,omitempty" toml:"religion,omitempty"`
	Denomination      string            `json:"denomination,omitempty" yaml:"denomination,omitempty" toml:"denomination,omitempty"`
	Language          string            `json:"language,omitempty" yaml:"language,omitempty" toml:"language,omitempty"`
	URL               string            `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	Link              string            `json:"link,omitempty" yaml:"link,omitempty" toml:"link,omitempty"`
	Organization      *Organization     `json:"organization,omitempty" yaml:"organization,omitempty" toml:"organization,omitempty"`
	Verified          bool              `json:"verified,omitempty" yaml:"verified,omitempty" toml:"verified,omitempty"`
	Topics            []string          `json:"topics,omitempty" yaml:"topics,omitempty" toml:"topics,omitempty"`
	Tags              []string          `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	Views             int               `json:"views,omitempty" yaml:"views,omitempty" toml:"views,omitempty"`
	ScientificStudies []ScientificStudy `json:"scientificStudies,omitempty" yaml:"scientificStudies,omitempty" toml:"scientificStudies,omitempty"`
	PublishedAt       time.Time         `json:"publishedAt,omitzero" yaml:"publishedAt,omitempty" toml:"publishedAt,omitempty"`
	UpdatedAt         time.Time         `json:"updatedAt,omitzero" yaml:"updatedAt,omitempty" toml:"updatedAt,omitempty"`
	// Feed is the id of the syndication feed the item was imported from.
	Feed string `json:"feed,omitempty" yaml:"feed,omitempty" toml:"feed,omitempty"`
}

func (c *Content) SourceType() SourceType { return SourceContent }
func (c *Content) RecordID() string       { return c.ID }

// Reference declares cross-links from one resource to others.
type Reference struct {
	SourceID string            `json:"sourceId" yaml:"sourceId" toml:"sourceId"`
	Related  []ReferenceTarget `json:"relatedResources" yaml:"relatedResources" toml:"relatedResources"`
}

type ReferenceTarget struct {
	ID           string `json:"id" yaml:"id" toml:"id"`
	Type         string `json:"type" yaml:"type" toml:"type"`
	Relationship string `json:"relationship,omitempty" yaml:"relationship,omitempty" toml:"relationship,omitempty"`
}

// Catalog is the full set of raw collections the search engine is built from.
type Catalog struct {
	Meditations []*Meditation `json:"meditations,omitempty" yaml:"meditations,omitempty" toml:"meditations,omitempty"`
	SacredTexts []*SacredText `json:"sacredTexts,omitempty" yaml:"sacredTexts,omitempty" toml:"sacredTexts,omitempty"`
	Studies     []*Study      `json:"studies,omitempty" yaml:"studies,omitempty" toml:"studies,omitempty"`
	Content     []*Content    `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	References  []Reference   `json:"references,omitempty" yaml:"references,omitempty" toml:"references,omitempty"`
}

// Records flattens the catalog in collection order: meditations, sacred
// texts, studies, content. This order is the relevance order.
func (c *Catalog) Records() []Record {
	if c == nil {
		return nil
	}
	out := make([]Record, 0, len(c.Meditations)+len(c.SacredTexts)+len(c.Studies)+len(c.Content))
	for _, m := range c.Meditations {
		if m != nil {
			out = append(out, m)
		}
	}
	for _, s := range c.SacredTexts {
		if s != nil {
			out = append(out, s)
		}
	}
	for _, s := range c.Studies {
		if s != nil {
			out = append(out, s)
		}
	}
	for _, ct := range c.Content {
		if ct != nil {
			out = append(out, ct)
		}
	}
	return out
}

// Merge appends other's collections and references onto c.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	c.Meditations = append(c.Meditations, other.Meditations...)
	c.SacredTexts = append(c.SacredTexts, other.SacredTexts...)
	c.Studies = append(c.Studies, other.Studies...)
	c.Content = append(c.Content, other.Content...)
	c.References = append(c.References, other.References...)
}

// Len counts records across all collections.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Meditations) + len(c.SacredTexts) + len(c.Studies) + len(c.Content)
}
