package resource

import (
	"fmt"
	"strings"
	"time"

	"github.com/pders01/scriptorium/internal/debuglog"
)

const (
	// ReligionMeditation marks meditation guides that belong to no tradition.
	ReligionMeditation = "Meditation"
	ReligionUnknown    = "Unknown"
	TypeUnknown        = "Unknown"
	DefaultLanguage    = "en"

	doiResolver = "https://doi.org/"

	// verifiedStudyBonus is added to a verified study's popularity.
	verifiedStudyBonus = 10
)

// Normalize maps one raw record into an Entry. It never fails: missing
// fields degrade to safe fallbacks, and a record of an unrecognised kind
// produces the most conservative entry and a warning in the debug log.
func Normalize(rec Record) *Entry {
	switch r := rec.(type) {
	case *Meditation:
		return normalizeMeditation(r)
	case *SacredText:
		return normalizeSacredText(r)
	case *Study:
		return normalizeStudy(r)
	case *Content:
		return normalizeContent(r)
	default:
		return normalizeUnknown(rec)
	}
}

// NormalizeAll normalizes records in order, skipping nil entries.
func NormalizeAll(records []Record) []*Entry {
	out := make([]*Entry, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		out = append(out, Normalize(rec))
	}
	return out
}

func normalizeMeditation(m *Meditation) *Entry {
	res := SearchResult{
		ID:                m.ID,
		Name:              m.Title,
		Description:       m.Description,
		Type:              firstNonEmpty(m.Level, string(SourceMeditation)),
		Religion:          firstNonEmpty(m.Religion, ReligionMeditation),
		URL:               firstNonEmpty(m.URL, m.AudioURL, m.VideoURL),
		SourceType:        SourceMeditation,
		Language:          firstNonEmpty(m.Language, DefaultLanguage),
		IsVerified:        m.Verified || orgVerified(m.Organization),
		Organization:      copyOrg(m.Organization),
		ScientificStudies: copyStudies(m.ScientificStudies),
	}
	switch {
	case len(m.Topics) > 0:
		res.Topics = copyStrings(m.Topics)
	case strings.TrimSpace(m.Level) != "":
		res.Topics = []string{strings.TrimSpace(m.Level)}
	default:
		res.Topics = []string{}
	}

	popularity := float64(m.PlayCount)
	if m.PlayCount <= 0 {
		popularity = float64(len(m.Ratings))
	}

	return &Entry{
		Result:          res,
		Text:            searchText(m.Title, m.Description, m.Author, m.Level),
		Date:            m.PublishedAt,
		Popularity:      popularity,
		SupportsStudies: true,
	}
}

func normalizeSacredText(s *SacredText) *Entry {
	typ := "text"
	if len(s.ContentBlocks) > 0 && strings.TrimSpace(s.ContentBlocks[0].Type) != "" {
		typ = strings.TrimSpace(s.ContentBlocks[0].Type)
	}
	res := SearchResult{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Type:         typ,
		Religion:     firstNonEmpty(s.Religion, ReligionUnknown),
		URL:          firstNonEmpty(s.URL, s.SourceURL, s.DownloadURL),
		SourceType:   SourceSacredText,
		Language:     firstNonEmpty(s.Language, DefaultLanguage),
		IsVerified:   s.Verified || strings.TrimSpace(s.Translator) != "",
		Organization: copyOrg(s.Organization),
		Topics:       copyStrings(s.Topics),
	}

	return &Entry{
		Result:          res,
		Text:            searchText(s.Name, s.OriginalName, s.Description, s.Religion, s.Language, s.Period),
		Popularity:      float64(len(s.ContentBlocks)),
		Period:          s.Period,
		HasPeriod:       true,
		Denomination:    s.Denomination,
		HasDenomination: true,
	}
}

func normalizeStudy(s *Study) *Entry {
	doiURL := ""
	if doi := strings.TrimSpace(s.DOI); doi != "" {
		doiURL = doiResolver + doi
	}
	res := SearchResult{
		ID:           s.ID,
		Name:         s.Title,
		Description:  s.Description,
		Type:         firstNonEmpty(s.Type, string(SourceStudy)),
		Religion:     firstNonEmpty(s.Religion, ReligionUnknown),
		URL:          firstNonEmpty(s.URL, doiURL, s.PDFURL),
		SourceType:   SourceStudy,
		Language:     firstNonEmpty(s.Language, DefaultLanguage),
		IsVerified:   s.Verified || s.PeerReviewed,
		Organization: copyOrg(s.Organization),
	}
	if len(s.Topics) > 0 {
		res.Topics = copyStrings(s.Topics)
	} else {
		res.Topics = copyStrings(s.Keywords)
	}

	date := s.PublishedAt
	if date.IsZero() && s.Year > 0 {
		date = time.Date(s.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	popularity := float64(len(res.Topics))
	if res.IsVerified {
		popularity += verifiedStudyBonus
	}

	fields := []string{s.Title, s.Description}
	fields = append(fields, s.Authors...)
	fields = append(fields, s.Institution, s.Religion)
	fields = append(fields, res.Topics...)

	return &Entry{
		Result:     res,
		Text:       searchText(fields...),
		Date:       date,
		Popularity: popularity,
	}
}

func normalizeContent(c *Content) *Entry {
	res := SearchResult{
		ID:                c.ID,
		Name:              firstNonEmpty(c.Title, c.Name),
		Description:       c.Description,
		Type:              firstNonEmpty(c.Type, string(SourceContent)),
		Religion:          firstNonEmpty(c.Religion, ReligionUnknown),
		URL:               firstNonEmpty(c.URL, c.Link),
		SourceType:        SourceContent,
		Language:          firstNonEmpty(c.Language, DefaultLanguage),
		IsVerified:        c.Verified || orgVerified(c.Organization),
		Organization:      copyOrg(c.Organization),
		ScientificStudies: copyStudies(c.ScientificStudies),
	}
	if len(c.Topics) > 0 {
		res.Topics = copyStrings(c.Topics)
	} else {
		res.Topics = copyStrings(c.Tags)
	}

	date := c.UpdatedAt
	if date.IsZero() {
		date = c.PublishedAt
	}

	popularity := float64(c.Views)
	if c.Views <= 0 {
		popularity = float64(len(res.Topics))
	}

	fields := []string{c.Title, c.Name, c.Description, c.Type, c.Religion}
	fields = append(fields, res.Topics...)

	return &Entry{
		Result:          res,
		Text:            searchText(fields...),
		Date:            date,
		Popularity:      popularity,
		Denomination:    c.Denomination,
		HasDenomination: true,
		SupportsStudies: true,
	}
}

func normalizeUnknown(rec Record) *Entry {
	debuglog.WithFields(map[string]interface{}{
		"record": fmt.Sprintf("%T", rec),
	}).Warnf("normalize: unsupported source type %q", rec.SourceType())

	return &Entry{
		Result: SearchResult{
			ID:         rec.RecordID(),
			Type:       TypeUnknown,
			Religion:   ReligionUnknown,
			SourceType: rec.SourceType(),
			Language:   DefaultLanguage,
			Topics:     []string{},
		},
	}
}

// firstNonEmpty returns the first value that is not blank, trimmed.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

func searchText(fields ...string) string {
	var b strings.Builder
	for _, f := range fields {
		if f == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f)
	}
	// Whitespace runs collapse to one space; query tokens never contain
	// whitespace so substring matches are unaffected.
	return strings.ToLower(strings.Join(strings.Fields(b.String()), " "))
}

func orgVerified(org *Organization) bool {
	return org != nil && org.Verified
}

func copyOrg(org *Organization) *Organization {
	if org == nil {
		return nil
	}
	c := *org
	return &c
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyStudies(in []ScientificStudy) []ScientificStudy {
	if len(in) == 0 {
		return nil
	}
	out := make([]ScientificStudy, len(in))
	copy(out, in)
	return out
}
