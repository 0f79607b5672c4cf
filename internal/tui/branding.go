package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/scriptorium/internal/config"
)

const AppName = "scriptorium"

var LogoLines = []string{
	"  ▄▄▄▄  ▄▄▄ ▄▄▄▄  ▄ ▄▄▄▄ ▄▄▄▄▄",
	" ▀▄▄   █    █▄▄▀  █ █▄▄▀   █  ",
	"    ▀▄ █    █  ▀▄ █ █      █  ",
	" ▀▄▄▄▀  ▀▀▀ ▀   ▀ ▀ ▀      ▀  ",
}

const CompactLogo = `scriptorium ›`

// Palette. ApplyTheme overwrites it from configuration.
var (
	PrimaryColor   = lipgloss.Color("#C9A227")
	SecondaryColor = lipgloss.Color("#7F5539")
	AccentColor    = lipgloss.Color("#95E1D3")
	TextColor      = lipgloss.Color("#EAEAEA")
	MutedColor     = lipgloss.Color("#94A3B8")
	ErrorColor     = lipgloss.Color("#F87171")
	SuccessColor   = lipgloss.Color("#4ADE80")
)

var (
	LogoStyle     lipgloss.Style
	HeaderStyle   lipgloss.Style
	HelpStyle     lipgloss.Style
	VerifiedStyle lipgloss.Style
	BadgeStyle    lipgloss.Style
	ErrorStyle    lipgloss.Style
	SuccessStyle  lipgloss.Style
)

func init() {
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	HeaderStyle = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	HelpStyle = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)
	VerifiedStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	BadgeStyle = lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)
	ErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
}

// ApplyTheme replaces the palette with the configured colors. Empty values
// keep the current color.
func ApplyTheme(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&SecondaryColor, c.Secondary)
	set(&AccentColor, c.Accent)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	set(&SuccessColor, c.Success)
	buildStyles()
}

func GetWelcomeMessage() string {
	return GetCompactBanner("The catalog is empty. Run `scriptorium import` to load a seed file.")
}

func GetCompactBanner(message string) string {
	lines := make([]string, 0, len(LogoLines)+2)
	for _, l := range LogoLines {
		lines = append(lines, LogoStyle.Render(l))
	}
	lines = append(lines, "", HelpStyle.Render(message))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

// ShowBanner prints the logo framed with the version tagline.
func ShowBanner(w io.Writer, version string) {
	tagline := "Religious studies resource catalog"
	if version != "" && version != "dev" {
		if version[0] != 'v' {
			version = "v" + version
		}
		tagline += " " + version
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		LogoStyle.Render(lipgloss.JoinVertical(lipgloss.Left, LogoLines...)),
		"",
		HelpStyle.Render(tagline),
	)
	framed := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		Render(body)

	fmt.Fprintln(w, framed)
}
