package tui

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/scriptorium/internal/config"
)

func TestShowBanner(t *testing.T) {
	var buf bytes.Buffer
	ShowBanner(&buf, "1.0.0-test")

	out := buf.String()
	assert.Contains(t, out, "Religious studies resource catalog v1.0.0-test")
	assert.Contains(t, out, "╔")

	buf.Reset()
	ShowBanner(&buf, "dev")
	assert.NotContains(t, buf.String(), "dev")
}

func TestGetWelcomeMessage(t *testing.T) {
	msg := GetWelcomeMessage()
	assert.Contains(t, msg, "scriptorium import")
	assert.Contains(t, msg, "█")
}

func TestApplyTheme(t *testing.T) {
	saved := PrimaryColor
	t.Cleanup(func() {
		PrimaryColor = saved
		buildStyles()
	})

	ApplyTheme(config.UIColors{Primary: "#123456"})
	assert.Equal(t, lipgloss.Color("#123456"), PrimaryColor)
	assert.Equal(t, lipgloss.Color("#123456"), LogoStyle.GetForeground())

	ApplyTheme(config.UIColors{})
	assert.Equal(t, lipgloss.Color("#123456"), PrimaryColor, "empty values keep the current color")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 6, "hello…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
		{"śūnyatā", 4, "śūn…"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.limit), tt.in)
	}
}

func TestMsgResultsCount(t *testing.T) {
	assert.Equal(t, "1 result", MsgResultsCount(1, 1))
	assert.Equal(t, "10 of 42 results", MsgResultsCount(10, 42))
	assert.Equal(t, "0 results", MsgResultsCount(0, 0))
}
