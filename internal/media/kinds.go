package media

import (
	_ "embed"
	"fmt"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed kinds.toml
var kindsTOML []byte

// Kind is what a link points at, as far as choosing a program goes.
type Kind int

const (
	KindPage Kind = iota
	KindVideo
	KindAudio
	KindPDF
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindPDF:
		return "pdf"
	default:
		return "page"
	}
}

type kindRule struct {
	Extensions []string `toml:"extensions"`
	Hosts      []string `toml:"hosts"`
}

type playerArgs struct {
	Args []string `toml:"args"`
}

type kindsFile struct {
	Video   kindRule              `toml:"video"`
	Audio   kindRule              `toml:"audio"`
	PDF     kindRule              `toml:"pdf"`
	Players map[string]playerArgs `toml:"players"`
}

// Detector classifies links by file extension, then by host.
type Detector struct {
	rules   map[Kind]kindRule
	players map[string]playerArgs
}

func NewDetector() (*Detector, error) {
	var f kindsFile
	if err := toml.Unmarshal(kindsTOML, &f); err != nil {
		return nil, fmt.Errorf("parsing media kinds: %w", err)
	}
	return &Detector{
		rules: map[Kind]kindRule{
			KindVideo: f.Video,
			KindAudio: f.Audio,
			KindPDF:   f.PDF,
		},
		players: f.Players,
	}, nil
}

// Detect returns KindPage for anything it does not recognize.
func (d *Detector) Detect(link string) Kind {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return KindPage
	}

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	order := []Kind{KindVideo, KindAudio, KindPDF}
	if ext != "" {
		for _, k := range order {
			if slices.Contains(d.rules[k].Extensions, ext) {
				return k
			}
		}
	}
	if host != "" {
		for _, k := range order {
			for _, h := range d.rules[k].Hosts {
				if host == h || strings.HasSuffix(host, "."+h) {
					return k
				}
			}
		}
	}
	return KindPage
}

// Args returns the extra arguments registered for a player.
func (d *Detector) Args(player string) []string {
	return d.players[player].Args
}
