package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/scriptorium/internal/analytics"
	"github.com/pders01/scriptorium/internal/debuglog"
	"github.com/pders01/scriptorium/internal/recommend"
	"github.com/pders01/scriptorium/internal/resource"
	"github.com/pders01/scriptorium/internal/search"
)

func (a *App) performSearch(query string) tea.Cmd {
	a.lastQuery = query
	engine := a.engine
	limit := a.config.Search.MaxLimit
	return func() tea.Msg {
		if engine == nil {
			return searchResultsMsg{query: query}
		}
		resp, err := engine.Search(search.Request{Query: query, Limit: limit})
		if err != nil {
			return errorMsg{err: fmt.Errorf("search failed: %w", err)}
		}
		return searchResultsMsg{query: query, results: resp.Results, total: resp.Total}
	}
}

// showDetail tracks a view of r, ranks recommendations and renders the
// detail page in the background.
func (a *App) showDetail(r resource.SearchResult) tea.Cmd {
	a.view = ViewDetail
	a.current = &r
	a.err = nil

	stats := a.analytics.TrackView(r.Key())
	a.persist()

	var pool []resource.SearchResult
	if a.engine != nil {
		pool = a.engine.All()
	}
	a.recs = a.recommender.Rank(r, pool, a.config.Recommend.Limit)
	a.viewport.SetContent(HelpStyle.Render(MsgLoading))

	md := detailMarkdown(r, stats, a.recs)
	key := r.Key()
	// The renderer is resolved here, on the update loop; commands only use it.
	renderer, err := a.getRenderer()
	if err != nil {
		debuglog.Warnf("tui: creating renderer: %v", err)
	}
	mu := &a.renderMu
	return func() tea.Msg {
		if renderer == nil {
			return detailRenderedMsg{key: key, content: md}
		}
		mu.Lock()
		out, err := renderer.Render(md)
		mu.Unlock()
		if err != nil {
			debuglog.Warnf("tui: rendering %s: %v", key, err)
			return detailRenderedMsg{key: key, content: md}
		}
		return detailRenderedMsg{key: key, content: out}
	}
}

func (a *App) showRecommendations() {
	if a.current == nil {
		return
	}
	results := make([]resource.SearchResult, len(a.recs))
	scores := make([]float64, len(a.recs))
	for i, s := range a.recs {
		results[i] = s.Result
		scores[i] = s.Score
	}
	a.setResults(results, scores)
	a.resultList.Title = MsgRecommendedFor(a.current.Name)
	a.showingRecs = true
	a.view = ViewResults
	a.status = MsgResultsCount(len(results), len(results))
}

func (a *App) openLink(r resource.SearchResult) tea.Cmd {
	if a.opener == nil || strings.TrimSpace(r.URL) == "" {
		a.status = MsgNoLink
		return nil
	}
	opener := a.opener
	return func() tea.Msg {
		return openedMsg{name: r.Name, err: opener.Open(r.URL)}
	}
}

func (a *App) persist() {
	if a.saver == nil {
		return
	}
	if err := a.saver.SaveAnalytics(a.analytics.Snapshot()); err != nil {
		debuglog.Errorf("tui: saving analytics: %v", err)
		a.err = fmt.Errorf("saving analytics: %w", err)
	}
}

// detailMarkdown lays out one resource as markdown for glamour.
func detailMarkdown(r resource.SearchResult, stats analytics.ResourceAnalytics, recs []recommend.Scored) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Name)
	fmt.Fprintf(&b, "*%s*\n\n", joinNonEmpty(" · ", string(r.SourceType), r.Type, r.Religion, r.Language))

	if r.IsVerified {
		b.WriteString("**Verified**\n\n")
	}
	if d := strings.TrimSpace(r.Description); d != "" {
		b.WriteString(d + "\n\n")
	}
	if r.URL != "" {
		fmt.Fprintf(&b, "[Open resource](%s)\n\n", r.URL)
	}
	if r.Organization != nil && r.Organization.Name != "" {
		fmt.Fprintf(&b, "**Organization:** %s\n\n", r.Organization.Name)
	}
	if len(r.Topics) > 0 {
		fmt.Fprintf(&b, "**Topics:** %s\n\n", strings.Join(r.Topics, ", "))
	}

	if len(r.ScientificStudies) > 0 {
		b.WriteString("## Scientific studies\n\n")
		for _, s := range r.ScientificStudies {
			line := s.Title
			if s.URL != "" {
				line = fmt.Sprintf("[%s](%s)", s.Title, s.URL)
			}
			if s.Year > 0 {
				line += fmt.Sprintf(" (%d)", s.Year)
			}
			b.WriteString("- " + line + "\n")
		}
		b.WriteString("\n")
	}

	if len(r.RelatedResources) > 0 {
		b.WriteString("## Related\n\n")
		for _, rel := range r.RelatedResources {
			fmt.Fprintf(&b, "- %s (%s)\n", rel.Name, rel.Type)
		}
		b.WriteString("\n")
	}

	if len(recs) > 0 {
		b.WriteString("## Recommended\n\n")
		for _, s := range recs {
			fmt.Fprintf(&b, "- %s · %s · %.2f\n", s.Result.Name, s.Result.Religion, s.Score)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "Views: %d", stats.ViewCount)
	if !stats.LastViewed.IsZero() {
		fmt.Fprintf(&b, " · last viewed %s", stats.LastViewed.Format("Jan 2 2006, 15:04"))
	}
	b.WriteString("\n")

	return b.String()
}
