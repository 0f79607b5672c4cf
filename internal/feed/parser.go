package feed

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pders01/scriptorium/internal/resource"
	"github.com/pders01/scriptorium/internal/storage"
)

// itemNamespace seeds the name-based UUIDs given to imported items.
var itemNamespace = uuid.MustParse("5b0c1f43-7d3e-4c55-9a54-6f2f9e3a1c27")

type Parser struct {
	parser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		parser: gofeed.NewParser(),
	}
}

// Parse reads an RSS, Atom or JSON feed and maps its items to content
// records attributed to src.
func (p *Parser) Parse(reader io.Reader, src *storage.FeedSource) (*gofeed.Feed, []*resource.Content, error) {
	feed, err := p.parser.Parse(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing feed: %w", err)
	}

	language := src.Language
	if language == "" {
		language = primaryLanguage(feed.Language)
	}

	var org *resource.Organization
	if feed.Title != "" {
		org = &resource.Organization{Name: strings.TrimSpace(feed.Title), URL: feed.Link}
	}

	items := make([]*resource.Content, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		c := &resource.Content{
			ID:           ItemID(src.ID, item),
			Title:        strings.TrimSpace(item.Title),
			Description:  plainText(firstNonEmpty(item.Description, item.Content)),
			Type:         itemType(item),
			Religion:     src.Religion,
			Language:     language,
			URL:          item.Link,
			Link:         enclosureURL(item),
			Organization: org,
			Topics:       mergeTopics(src.Topics, item.Categories),
			Feed:         src.ID,
		}
		if item.PublishedParsed != nil {
			c.PublishedAt = *item.PublishedParsed
		}
		if item.UpdatedParsed != nil {
			c.UpdatedAt = *item.UpdatedParsed
		}
		items = append(items, c)
	}

	return feed, items, nil
}

// ItemID derives a stable content id from the feed id and the item's GUID,
// falling back to its link and then its title and date.
func ItemID(feedID string, item *gofeed.Item) string {
	name := item.GUID
	if name == "" {
		name = item.Link
	}
	if name == "" {
		name = item.Title + "|" + item.Published
	}
	return uuid.NewSHA1(itemNamespace, []byte(feedID+"|"+name)).String()
}

func itemType(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		switch {
		case strings.HasPrefix(enc.Type, "audio/"):
			return "podcast"
		case strings.HasPrefix(enc.Type, "video/"):
			return "video"
		}
	}
	return "article"
}

func enclosureURL(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}

func mergeTopics(base, categories []string) []string {
	seen := make(map[string]bool, len(base)+len(categories))
	var out []string
	for _, t := range append(append([]string{}, base...), categories...) {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		out = append(out, t)
	}
	return out
}

// plainText reduces feed HTML to its visible text for the catalog
// description. Script and style contents are dropped and whitespace is
// collapsed.
func plainText(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// primaryLanguage reduces tags like "en-US" to "en".
func primaryLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return tag
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
