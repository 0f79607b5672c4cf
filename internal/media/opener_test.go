package media

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/scriptorium/internal/config"
)

func TestDetect(t *testing.T) {
	d, err := NewDetector()
	require.NoError(t, err)

	tests := []struct {
		url  string
		want Kind
	}{
		{"https://audio.example.org/metta.mp3", KindAudio},
		{"https://audio.example.org/talk.OGG?download=1", KindAudio},
		{"https://cdn.example.org/zazen.mp4#t=30", KindVideo},
		{"https://www.youtube.com/watch?v=abc", KindVideo},
		{"https://youtu.be/abc", KindVideo},
		{"https://m.soundcloud.com/dharma/talk", KindAudio},
		{"https://journal.example.org/paper.PDF", KindPDF},
		{"https://doi.org/10.1000/xyz", KindPage},
		{"https://example.org/index.html", KindPage},
		{"https://notyoutube.com/watch", KindPage},
		{"::not a url", KindPage},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.url))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "audio", KindAudio.String())
	assert.Equal(t, "page", Kind(42).String())
}

func testOpener(t *testing.T, installed ...string) (*Opener, *[][]string) {
	t.Helper()
	cfg := config.TestConfig()
	cfg.Open.DefaultOpener = "xdg-open"
	players := config.Players{
		Video: []string{"iina", "mpv"},
		Audio: []string{"mpv"},
		PDF:   []string{"zathura"},
	}
	cfg.Open.Darwin, cfg.Open.Linux, cfg.Open.Windows = players, players, players

	o, err := NewOpener(cfg)
	require.NoError(t, err)

	o.lookPath = func(name string) (string, error) {
		for _, have := range installed {
			if have == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
	var started [][]string
	o.start = func(name string, args ...string) error {
		started = append(started, append([]string{name}, args...))
		return nil
	}
	return o, &started
}

func TestOpenerCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("default opener differs on windows")
	}
	o, _ := testOpener(t, "mpv")

	kind, name, args := o.Command("https://cdn.example.org/zazen.mp4")
	assert.Equal(t, KindVideo, kind)
	assert.Equal(t, "mpv", name)
	assert.Equal(t, []string{"--force-window=immediate", "https://cdn.example.org/zazen.mp4"}, args)

	kind, name, args = o.Command("https://journal.example.org/paper.pdf")
	assert.Equal(t, KindPDF, kind)
	assert.Equal(t, "xdg-open", name, "falls back when no player is installed")
	assert.Equal(t, []string{"https://journal.example.org/paper.pdf"}, args)

	_, name, _ = o.Command("https://example.org/essay")
	assert.Equal(t, "xdg-open", name)
}

func TestOpenerOpen(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("default opener differs on windows")
	}
	o, started := testOpener(t, "zathura")

	require.NoError(t, o.Open("https://journal.example.org/paper.pdf"))
	require.Len(t, *started, 1)
	assert.Equal(t, []string{"zathura", "https://journal.example.org/paper.pdf"}, (*started)[0])

	assert.ErrorIs(t, o.Open(""), ErrNoURL)
	assert.ErrorIs(t, o.Open("file:///etc/passwd"), ErrNoURL)
	assert.Len(t, *started, 1)
}

func TestOpenerStartFailure(t *testing.T) {
	o, _ := testOpener(t)
	o.start = func(string, ...string) error { return errors.New("boom") }

	err := o.Open("https://example.org/")
	assert.ErrorContains(t, err, "boom")
}

func TestOpenerNoDefault(t *testing.T) {
	o, _ := testOpener(t)
	o.defaultOpener = ""

	err := o.Open("https://example.org/")
	assert.ErrorContains(t, err, "no program configured")
}
