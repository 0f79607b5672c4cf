package media

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pders01/scriptorium/internal/config"
	"github.com/pders01/scriptorium/internal/debuglog"
	"github.com/pders01/scriptorium/internal/validation"
)

var ErrNoURL = errors.New("resource has no web link")

// Opener launches resource links in a media player or the platform opener.
type Opener struct {
	detector      *Detector
	players       map[Kind][]string
	defaultOpener string
	lookPath      func(string) (string, error)
	start         func(name string, args ...string) error
}

func NewOpener(cfg *config.Config) (*Opener, error) {
	detector, err := NewDetector()
	if err != nil {
		return nil, err
	}

	var p config.Players
	switch runtime.GOOS {
	case "darwin":
		p = cfg.Open.Darwin
	case "windows":
		p = cfg.Open.Windows
	default:
		p = cfg.Open.Linux
	}

	return &Opener{
		detector: detector,
		players: map[Kind][]string{
			KindVideo: p.Video,
			KindAudio: p.Audio,
			KindPDF:   p.PDF,
		},
		defaultOpener: cfg.Open.DefaultOpener,
		lookPath:      exec.LookPath,
		start:         startDetached,
	}, nil
}

// Command picks the program and arguments used to open link.
func (o *Opener) Command(link string) (Kind, string, []string) {
	kind := o.detector.Detect(link)

	for _, candidate := range o.players[kind] {
		if _, err := o.lookPath(candidate); err == nil {
			args := append(append([]string{}, o.detector.Args(candidate)...), link)
			return kind, candidate, args
		}
	}

	if runtime.GOOS == "windows" && o.defaultOpener == "start" {
		return kind, "cmd", []string{"/c", "start", "", link}
	}
	return kind, o.defaultOpener, []string{link}
}

// Open validates link and starts the chosen program without waiting for it.
func (o *Opener) Open(link string) error {
	if !validation.IsWebURL(link) {
		return fmt.Errorf("%w: %q", ErrNoURL, link)
	}
	kind, name, args := o.Command(link)
	if name == "" {
		return fmt.Errorf("no program configured to open %s links", kind)
	}

	debuglog.Debugf("opening %s link with %s", kind, name)
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
