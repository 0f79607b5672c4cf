package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/scriptorium/internal/config"
)

type KeyHandler struct {
	app  *App
	keys config.KeyBindings
}

func NewKeyHandler(app *App, keys config.KeyBindings) *KeyHandler {
	return &KeyHandler{app: app, keys: keys}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return kh.app, tea.Quit
	}

	switch kh.app.view {
	case ViewDetail:
		return kh.handleDetail(msg)
	default:
		if kh.app.searchInput.Focused() {
			return kh.handleSearchInput(msg)
		}
		return kh.handleResults(msg)
	}
}

func (kh *KeyHandler) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch msg.String() {
	case "esc", "enter":
		a.searchInput.Blur()
		return a, nil
	case "tab", "down":
		if len(a.resultList.Items()) > 0 {
			a.searchInput.Blur()
			a.resultList.Select(0)
		}
		return a, nil
	}

	prev := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if a.searchInput.Value() == prev {
		return a, cmd
	}
	return a, tea.Batch(cmd, a.performSearch(a.searchInput.Value()))
}

func (kh *KeyHandler) handleResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch msg.String() {
	case kh.keys.Quit:
		return a, tea.Quit

	case kh.keys.Search:
		var cmd tea.Cmd
		if a.showingRecs {
			cmd = kh.restoreCatalog()
		}
		a.err = nil
		return a, tea.Batch(cmd, a.searchInput.Focus())

	case kh.keys.Back:
		if a.showingRecs && a.current != nil {
			cmd := kh.restoreCatalog()
			a.view = ViewDetail
			return a, cmd
		}
		return a, nil

	case "enter":
		item, ok := a.resultList.SelectedItem().(resultItem)
		if !ok {
			return a, nil
		}
		var restore tea.Cmd
		if a.showingRecs {
			restore = kh.restoreCatalog()
		}
		return a, tea.Batch(restore, a.showDetail(item.result))

	case kh.keys.Open:
		if item, ok := a.resultList.SelectedItem().(resultItem); ok {
			return a, a.openLink(item.result)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.resultList, cmd = a.resultList.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch msg.String() {
	case kh.keys.Quit:
		return a, tea.Quit
	case kh.keys.Back:
		a.view = ViewResults
		return a, nil
	case kh.keys.Open:
		if a.current != nil {
			return a, a.openLink(*a.current)
		}
		return a, nil
	case kh.keys.Recommend:
		a.showRecommendations()
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) restoreCatalog() tea.Cmd {
	a := kh.app
	a.showingRecs = false
	a.resultList.Title = "› catalog"
	return a.performSearch(a.searchInput.Value())
}

// HelpForView lists the key hints shown in the status bar.
func (kh *KeyHandler) HelpForView() []string {
	a := kh.app
	switch {
	case a.view == ViewDetail:
		return []string{
			kh.keys.Back + ": back",
			kh.keys.Recommend + ": recommendations",
			kh.keys.Open + ": open",
			kh.keys.Quit + ": quit",
		}
	case a.searchInput.Focused():
		return []string{"type to search", "tab: results", "esc: done"}
	case a.showingRecs:
		return []string{"enter: details", kh.keys.Back + ": back", kh.keys.Search + ": search"}
	default:
		return []string{
			kh.keys.Search + ": search",
			"enter: details",
			kh.keys.Open + ": open",
			kh.keys.Quit + ": quit",
		}
	}
}
