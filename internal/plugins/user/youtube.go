package user

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pders01/scriptorium/internal/plugins"
)

const youtubeFeedBase = "https://www.youtube.com/feeds/videos.xml"

// YouTubePlugin maps channel and playlist pages to their video feeds.
// Handle URLs (/@name) carry no id and are left to feed discovery.
type YouTubePlugin struct{}

func NewYouTubePlugin() *YouTubePlugin {
	return &YouTubePlugin{}
}

func (p *YouTubePlugin) Name() string  { return "youtube" }
func (p *YouTubePlugin) Priority() int { return 50 }

func (p *YouTubePlugin) CanHandle(rawURL string) bool {
	_, _, ok := youtubeTarget(rawURL)
	return ok
}

func (p *YouTubePlugin) Resolve(_ context.Context, rawURL string, _ *http.Client) (*plugins.FeedInfo, error) {
	param, id, ok := youtubeTarget(rawURL)
	if !ok {
		return nil, fmt.Errorf("not a YouTube channel or playlist URL: %s", rawURL)
	}

	q := url.Values{}
	q.Set(param, id)
	return &plugins.FeedInfo{
		OriginalURL: rawURL,
		FeedURL:     youtubeFeedBase + "?" + q.Encode(),
		Metadata: map[string]string{
			"plugin": "youtube",
			param:    id,
		},
	}, nil
}

// youtubeTarget returns the feed query parameter and id for a channel or
// playlist URL.
func youtubeTarget(rawURL string) (param, id string, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", false
	}
	host := strings.ToLower(u.Hostname())
	if host != "youtube.com" && host != "www.youtube.com" && host != "m.youtube.com" {
		return "", "", false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch {
	case len(segments) >= 2 && segments[0] == "channel" && segments[1] != "":
		return "channel_id", segments[1], true
	case segments[0] == "playlist" && u.Query().Get("list") != "":
		return "playlist_id", u.Query().Get("list"), true
	}
	return "", "", false
}
