package feed

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pders01/scriptorium/internal/config"
	"github.com/pders01/scriptorium/internal/debuglog"
	"github.com/pders01/scriptorium/internal/plugins"
	"github.com/pders01/scriptorium/internal/plugins/user"
	"github.com/pders01/scriptorium/internal/resource"
	"github.com/pders01/scriptorium/internal/storage"
	"github.com/pders01/scriptorium/internal/validation"
)

const maxConcurrentRefresh = 5

// Source describes a feed to register. Religion, Language and Topics are
// applied to every imported item.
type Source struct {
	URL      string
	Religion string
	Language string
	Topics   []string
}

// Importer registers syndication feeds and imports their items into the
// content collection.
type Importer struct {
	store     *storage.Store
	fetcher   *Fetcher
	parser    *Parser
	validator *validation.URLValidator
	resolver  *plugins.Registry
	mu        sync.Mutex
}

func NewImporter(store *storage.Store, cfg *config.Config) *Importer {
	timeout := 30 * time.Second
	userAgent := ""
	if cfg != nil {
		if cfg.Import.HTTPTimeout > 0 {
			timeout = cfg.Import.HTTPTimeout
		}
		userAgent = cfg.Import.UserAgent
	}

	resolver := plugins.NewRegistry(timeout)
	resolver.Register(user.NewYouTubePlugin())
	resolver.Register(user.NewDiscoveryPlugin(userAgent))

	return &Importer{
		store:     store,
		fetcher:   NewFetcher(cfg),
		parser:    NewParser(),
		validator: validation.NewURLValidator(),
		resolver:  resolver,
	}
}

// SetForceRefresh ignores ETag and Last-Modified on the next fetches.
func (im *Importer) SetForceRefresh(force bool) {
	im.fetcher.SetIgnoreCache(force)
}

// SetPermissiveValidation allows localhost and private feed hosts.
func (im *Importer) SetPermissiveValidation(permissive bool) {
	if permissive {
		im.validator = validation.NewPermissiveURLValidator()
	} else {
		im.validator = validation.NewURLValidator()
	}
}

// Add validates and fetches src, stores it and its items, and returns the
// stored feed with the number of imported items.
func (im *Importer) Add(ctx context.Context, src Source) (*storage.FeedSource, int, error) {
	normalized, err := im.validator.ValidateAndNormalize(src.URL)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid feed URL: %w", err)
	}

	info, err := im.resolver.Resolve(ctx, normalized)
	if err != nil {
		return nil, 0, fmt.Errorf("resolving feed URL: %w", err)
	}
	if info.FeedURL != normalized {
		debuglog.Infof("resolved %s to feed %s", normalized, info.FeedURL)
		// A page may point anywhere; the discovered feed is checked again.
		if normalized, err = im.validator.ValidateAndNormalize(info.FeedURL); err != nil {
			return nil, 0, fmt.Errorf("invalid feed URL: %w", err)
		}
	}

	feed := &storage.FeedSource{
		ID:          FeedID(normalized),
		URL:         normalized,
		Title:       info.Title,
		Description: info.Description,
		Religion:    src.Religion,
		Language:    src.Language,
		Topics:      src.Topics,
		UpdatedAt:   time.Now(),
	}

	n, err := im.fetchAndStore(ctx, feed)
	if err != nil {
		return nil, 0, err
	}
	return feed, n, nil
}

// Refresh re-fetches one registered feed. A 304 only updates LastFetched.
func (im *Importer) Refresh(ctx context.Context, id string) (int, error) {
	feed, err := im.store.GetFeed(id)
	if err != nil {
		return 0, fmt.Errorf("getting feed: %w", err)
	}
	return im.fetchAndStore(ctx, feed)
}

// RefreshAll refreshes every registered feed with a bounded worker pool
// and returns the total number of imported items.
func (im *Importer) RefreshAll(ctx context.Context) (int, error) {
	feeds, err := im.store.GetAllFeeds()
	if err != nil {
		return 0, fmt.Errorf("getting feeds: %w", err)
	}
	if len(feeds) == 0 {
		return 0, nil
	}

	feedChan := make(chan *storage.FeedSource, len(feeds))
	type result struct {
		n   int
		err error
	}
	results := make(chan result, len(feeds))

	var wg sync.WaitGroup
	for i := 0; i < maxConcurrentRefresh && i < len(feeds); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for feed := range feedChan {
				n, refreshErr := im.Refresh(ctx, feed.ID)
				if refreshErr != nil {
					refreshErr = fmt.Errorf("%s: %w", feed.URL, refreshErr)
				}
				results <- result{n: n, err: refreshErr}
			}
		}()
	}

	for _, feed := range feeds {
		feedChan <- feed
	}
	close(feedChan)

	wg.Wait()
	close(results)

	total := 0
	var errs []error
	for r := range results {
		total += r.n
		if r.err != nil {
			errs = append(errs, r.err)
		}
	}
	return total, errors.Join(errs...)
}

func (im *Importer) fetchAndStore(ctx context.Context, feed *storage.FeedSource) (int, error) {
	resp, updated, err := im.fetcher.Fetch(ctx, feed)
	if err != nil {
		return 0, err
	}

	if !updated {
		feed.LastFetched = time.Now()
		im.mu.Lock()
		defer im.mu.Unlock()
		if saveErr := im.store.SaveFeed(feed); saveErr != nil {
			return 0, fmt.Errorf("saving feed metadata: %w", saveErr)
		}
		debuglog.Debugf("feed %s not modified", feed.URL)
		return 0, nil
	}
	defer resp.Body.Close()

	parsed, items, err := im.parser.Parse(resp.Body, feed)
	if err != nil {
		return 0, err
	}

	if feed.Title == "" {
		feed.Title = parsed.Title
	}
	if feed.Description == "" {
		feed.Description = plainText(parsed.Description)
	}
	im.fetcher.UpdateMetadata(feed, resp)
	feed.UpdatedAt = time.Now()

	// Fetches run concurrently; a feed and its items are written together.
	im.mu.Lock()
	defer im.mu.Unlock()

	if err := im.store.SaveFeed(feed); err != nil {
		return 0, fmt.Errorf("saving feed: %w", err)
	}

	records := make([]resource.Record, 0, len(items))
	for _, item := range items {
		records = append(records, item)
	}
	if err := im.store.SaveRecords(records...); err != nil {
		return 0, fmt.Errorf("saving items: %w", err)
	}

	debuglog.WithFields(map[string]interface{}{
		"feed":  feed.ID,
		"items": len(items),
	}).Infof("imported feed %s", feed.URL)
	return len(items), nil
}

// FeedID is a short stable id derived from the normalized feed URL.
func FeedID(normalizedURL string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(normalizedURL)))[:16]
}
