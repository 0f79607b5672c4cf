package user

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pders01/scriptorium/internal/debuglog"
	"github.com/pders01/scriptorium/internal/plugins"
)

const maxDiscoveryBody = 1 << 20

var feedMIMETypes = map[string]bool{
	"application/rss+xml":   true,
	"application/atom+xml":  true,
	"application/feed+json": true,
	"application/json":      true,
}

// DiscoveryPlugin follows <link rel="alternate"> from an HTML page to its
// feed. Any URL that does not serve HTML is returned unchanged, as are pages
// without a feed link; the fetch that follows reports those errors.
type DiscoveryPlugin struct {
	userAgent string
}

func NewDiscoveryPlugin(userAgent string) *DiscoveryPlugin {
	return &DiscoveryPlugin{userAgent: userAgent}
}

func (p *DiscoveryPlugin) Name() string  { return "discovery" }
func (p *DiscoveryPlugin) Priority() int { return 0 }

func (p *DiscoveryPlugin) CanHandle(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (p *DiscoveryPlugin) Resolve(ctx context.Context, rawURL string, client *http.Client) (*plugins.FeedInfo, error) {
	info := plugins.Passthrough(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	req.Header.Set("Accept", "text/html, application/rss+xml, application/atom+xml;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		debuglog.Debugf("discovery: probing %s: %v", rawURL, err)
		return info, nil
	}
	defer resp.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if resp.StatusCode != http.StatusOK || (mediaType != "text/html" && mediaType != "application/xhtml+xml") {
		return info, nil
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxDiscoveryBody))
	if err != nil {
		debuglog.Debugf("discovery: parsing %s: %v", rawURL, err)
		return info, nil
	}

	href, title := findFeedLink(doc)
	if href == "" {
		debuglog.Debugf("discovery: no feed link on %s", rawURL)
		return info, nil
	}
	base, err := url.Parse(rawURL)
	if err != nil {
		return info, nil
	}
	ref, err := url.Parse(href)
	if err != nil {
		return info, nil
	}

	info.FeedURL = base.ResolveReference(ref).String()
	info.Title = title
	info.Metadata["plugin"] = "discovery"
	info.Metadata["page"] = rawURL
	return info, nil
}

// findFeedLink returns the href and title of the first alternate link in
// document order that points at a feed.
func findFeedLink(doc *html.Node) (href, title string) {
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Link && isFeedLink(n) {
			href = strings.TrimSpace(attr(n, "href"))
			title = strings.TrimSpace(attr(n, "title"))
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return href, title
}

func isFeedLink(n *html.Node) bool {
	if strings.TrimSpace(attr(n, "href")) == "" {
		return false
	}
	alternate := false
	for _, rel := range strings.Fields(strings.ToLower(attr(n, "rel"))) {
		if rel == "alternate" {
			alternate = true
		}
	}
	if !alternate {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(attr(n, "type"))
	return err == nil && feedMIMETypes[mediaType]
}

// attr returns the value of the named attribute. The parser lowercases keys
// and decodes entities in values.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}
