package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/scriptorium/internal/analytics"
	"github.com/pders01/scriptorium/internal/config"
	"github.com/pders01/scriptorium/internal/recommend"
	"github.com/pders01/scriptorium/internal/resource"
	"github.com/pders01/scriptorium/internal/search"
)

// Opener launches a resource link outside the terminal.
type Opener interface {
	Open(link string) error
}

// AnalyticsSaver persists analytics after a tracked view.
type AnalyticsSaver interface {
	SaveAnalytics(map[string]analytics.ResourceAnalytics) error
}

// Deps are the collaborators the browse screen drives. Opener and Saver are
// optional.
type Deps struct {
	Engine    *search.Engine
	Analytics *analytics.Store
	Opener    Opener
	Saver     AnalyticsSaver
}

type App struct {
	config      *config.Config
	engine      *search.Engine
	analytics   *analytics.Store
	recommender *recommend.Recommender
	opener      Opener
	saver       AnalyticsSaver
	keyHandler  *KeyHandler

	resultList  list.Model
	searchInput textinput.Model
	viewport    viewport.Model

	view            View
	current         *resource.SearchResult
	recs            []recommend.Scored
	showingRecs     bool
	lastQuery       string
	total           int
	status          string
	err             error
	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	renderMu        sync.Mutex
}

func NewApp(cfg *config.Config, deps Deps) *App {
	if deps.Analytics == nil {
		deps.Analytics = analytics.NewStore()
	}
	ApplyTheme(cfg.UI.Colors)

	resultList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	resultList.Title = "› catalog"
	resultList.SetShowStatusBar(false)
	resultList.SetFilteringEnabled(false)
	resultList.SetShowHelp(false)
	resultList.Styles.Title = resultList.Styles.Title.Background(SecondaryColor)

	si := textinput.New()
	si.Placeholder = "Search meditations, texts, studies…"
	si.Prompt = "› "

	app := &App{
		config:      cfg,
		engine:      deps.Engine,
		analytics:   deps.Analytics,
		recommender: recommend.New(deps.Analytics),
		opener:      deps.Opener,
		saver:       deps.Saver,
		resultList:  resultList,
		searchInput: si,
		viewport:    viewport.New(0, 0),
		view:        ViewResults,
	}
	app.keyHandler = NewKeyHandler(app, cfg.Keys)
	return app
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wrap := min(max(a.width*9/10, 40), 120)
	if a.width > 0 && a.width < 50 {
		wrap = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || a.rendererWidth != wrap {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wrap
	}
	return a.glamourRenderer, nil
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.performSearch(""), tea.EnterAltScreen)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resultList.SetSize(msg.Width, max(msg.Height-6, 5))
		a.searchInput.Width = max(msg.Width-8, 10)
		a.viewport.Width = msg.Width
		a.viewport.Height = max(msg.Height-3, 1)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case searchResultsMsg:
		if msg.query != a.lastQuery {
			return a, nil
		}
		a.setResults(msg.results, nil)
		a.total = msg.total
		a.status = MsgResultsCount(len(msg.results), msg.total)
		if msg.total == 0 {
			a.status = MsgNoResults
		}
		return a, nil

	case detailRenderedMsg:
		if a.view == ViewDetail && a.current != nil && a.current.Key() == msg.key {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
		}
		return a, nil

	case openedMsg:
		if msg.err != nil {
			a.err = msg.err
		} else {
			a.err = nil
			a.status = MsgOpened(msg.name)
		}
		return a, nil

	case errorMsg:
		a.err = msg.err
		return a, nil
	}

	var cmd tea.Cmd
	switch a.view {
	case ViewResults:
		a.resultList, cmd = a.resultList.Update(msg)
	case ViewDetail:
		a.viewport, cmd = a.viewport.Update(msg)
	}
	return a, cmd
}

func (a *App) setResults(results []resource.SearchResult, scores []float64) {
	items := make([]list.Item, len(results))
	for i, r := range results {
		item := resultItem{result: r}
		if scores != nil {
			item.score = scores[i]
		}
		items[i] = item
	}
	a.resultList.SetItems(items)
	a.resultList.Select(0)
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewResults:
		if a.engine == nil || a.engine.Len() == 0 {
			content = lipgloss.NewStyle().
				Width(a.width).
				Height(max(a.height-3, 0)).
				Align(lipgloss.Center, lipgloss.Center).
				Render(GetWelcomeMessage())
			break
		}
		borderColor := MutedColor
		if a.searchInput.Focused() {
			borderColor = AccentColor
		}
		input := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1).
			Render(a.searchInput.View())
		content = lipgloss.JoinVertical(lipgloss.Top, input, a.resultList.View())

	case ViewDetail:
		content = a.viewport.View()
	}

	separator := lipgloss.NewStyle().
		Foreground(MutedColor).
		Render(strings.Repeat("─", max(a.width, 1)))
	return lipgloss.JoinVertical(lipgloss.Top, content, separator, a.statusBar())
}

func (a *App) statusBar() string {
	style := lipgloss.NewStyle().Width(a.width).Padding(0, 1).Foreground(MutedColor)
	if a.err != nil {
		return style.Render(ErrorStyle.Render("✗ " + a.err.Error()))
	}
	return style.Render(joinNonEmpty(" • ", a.status, strings.Join(a.keyHandler.HelpForView(), " • ")))
}

type searchResultsMsg struct {
	query   string
	results []resource.SearchResult
	total   int
}

type detailRenderedMsg struct {
	key     string
	content string
}

type openedMsg struct {
	name string
	err  error
}

type errorMsg struct {
	err error
}
