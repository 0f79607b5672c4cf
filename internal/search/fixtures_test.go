package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pders01/scriptorium/internal/resource"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixtureCatalog normalizes (in order) to m1, m2, t1, t2, st1, c1, c2.
func fixtureCatalog() *resource.Catalog {
	return &resource.Catalog{
		Meditations: []*resource.Meditation{
			{
				ID: "m1", Title: "Loving Kindness", Description: "Cultivate faith and hope through metta",
				Level: "beginner", Religion: "Buddhism", PlayCount: 150,
				Topics:            []string{"compassion", "meditation"},
				PublishedAt:       day(2023, time.June, 1),
				ScientificStudies: []resource.ScientificStudy{{Title: "Metta and wellbeing"}},
			},
			{
				ID: "m2", Title: "Body Scan", Description: "Relax each part of the body",
				Level: "intermediate", Ratings: []float64{5, 4}, PublishedAt: day(2024, time.January, 10),
			},
		},
		SacredTexts: []*resource.SacredText{
			{
				ID: "t1", Name: "Bhagavad Gita", OriginalName: "भगवद् गीता", Description: "Dialogue on duty and faith",
				Religion: "Hinduism", Language: "sa", Period: "Classical", Translator: "Eknath Easwaran",
				Denomination:  "Vaishnavism",
				ContentBlocks: []resource.ContentBlock{{Type: "verse"}, {Type: "verse"}, {Type: "commentary"}},
				Topics:        []string{"dharma", "devotion"},
			},
			{
				ID: "t2", Name: "Quran", Description: "Revelation of hope and mercy",
				Religion: "Islam", Language: "ar", Period: "7th century",
				ContentBlocks: []resource.ContentBlock{{Type: "surah"}},
				Topics:        []string{"mercy", "devotion"},
			},
		},
		Studies: []*resource.Study{
			{
				ID: "st1", Title: "Faithful Hope: Religion and Resilience", Description: "Survey study",
				Religion: "Christianity", PeerReviewed: true, Topics: []string{"resilience", "hope"}, Year: 2021,
			},
		},
		Content: []*resource.Content{
			{
				ID: "c1", Title: "Introduction to Sufism", Description: "Mystical Islam", Religion: "Islam",
				Type: "article", Denomination: "Sufi", Tags: []string{"mysticism"}, Views: 300,
				UpdatedAt: day(2024, time.May, 1),
			},
			{
				ID: "c2", Title: "Ethics Across Traditions", Description: "Comparing moral teachings",
				Type: "essay", Topics: []string{"ethics", "compassion"}, Language: "de",
			},
		},
		References: []resource.Reference{
			{SourceID: "t1", Related: []resource.ReferenceTarget{{ID: "m1", Type: "meditation"}}},
		},
	}
}

func fixtureEntries() []*resource.Entry {
	return resource.NormalizeAll(fixtureCatalog().Records())
}

func ids(entries []*resource.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Result.ID)
	}
	return out
}

func resultIDs(results []resource.SearchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func newFixtureEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := NewEngine(fixtureCatalog(), Options{})
	require.NoError(t, err)
	return eng
}

func boolPtr(b bool) *bool { return &b }
