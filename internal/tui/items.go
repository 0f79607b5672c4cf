package tui

import (
	"fmt"
	"strings"

	"github.com/pders01/scriptorium/internal/resource"
)

type resultItem struct {
	result resource.SearchResult
	// score is set for recommendation lists.
	score float64
}

func (i resultItem) Title() string {
	title := i.result.Name
	if i.result.IsVerified {
		title += " " + VerifiedStyle.Render("✓")
	}
	return title
}

func (i resultItem) Description() string {
	meta := joinNonEmpty(" • ",
		BadgeStyle.Render(string(i.result.SourceType)),
		i.result.Religion,
		i.result.Type,
		i.result.Language,
	)
	if i.score > 0 {
		meta += fmt.Sprintf(" • score %.2f", i.score)
	}
	if d := strings.TrimSpace(i.result.Description); d != "" {
		meta += " • " + truncate(d, 60)
	}
	return meta
}

func (i resultItem) FilterValue() string {
	return i.result.Name + " " + i.result.Description
}
