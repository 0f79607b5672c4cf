package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/scriptorium/internal/analytics"
	"github.com/pders01/scriptorium/internal/config"
	"github.com/pders01/scriptorium/internal/debuglog"
	"github.com/pders01/scriptorium/internal/resource"
	"github.com/pders01/scriptorium/internal/search"
	"github.com/pders01/scriptorium/internal/storage"
	"github.com/pders01/scriptorium/internal/validation"
)

// cli carries the persistent flags and the loaded configuration to every
// subcommand.
type cli struct {
	configPath string
	dbPath     string
	logLevel   string
	jsonOut    bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "scriptorium",
		Short: "Search and recommend religious studies resources",
		Long: `scriptorium keeps a local catalog of meditation guides, sacred texts,
scientific studies and general content. It answers faceted searches,
tracks views and recommends related resources.

Load a catalog with "import" or "feed add", then use "search", "browse"
or "serve".`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = debuglog.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default ~/.config/scriptorium/config.toml)")
	pf.StringVar(&c.dbPath, "db", "", "catalog database path (overrides config)")
	pf.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	pf.BoolVar(&c.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		newSearchCmd(c),
		newShowCmd(c),
		newTrackCmd(c),
		newRecommendCmd(c),
		newImportCmd(c),
		newRemoveCmd(c),
		newExportCmd(c),
		newFeedCmd(c),
		newServeCmd(c),
		newBrowseCmd(c),
		newOpenCmd(c),
		newStatsCmd(c),
		newConfigCmd(c),
		newVersionCmd(),
	)
	return root
}

func (c *cli) setup(*cobra.Command, []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.dbPath != "" {
		cfg.Database.Path = c.dbPath
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	c.cfg = cfg

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.Path); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	return nil
}

// pathValidator restricts configured paths to the data directories. A path
// given explicitly with --db is trusted.
func (c *cli) pathValidator() *validation.PathValidator {
	if c.dbPath != "" {
		return validation.NewPermissivePathValidator()
	}
	return validation.NewPathValidator()
}

func (c *cli) openStore() (*storage.Store, error) {
	path, err := c.pathValidator().File(c.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}
	store, err := storage.Open(path, c.cfg.Database.Timeout)
	if err != nil {
		return nil, err
	}
	debuglog.Debugf("cli: opened catalog %s", path)
	return store, nil
}

// buildEngine loads the stored catalog into a search engine. The returned
// cleanup releases the full-text index, if one was opened.
func (c *cli) buildEngine(store *storage.Store) (*search.Engine, func(), error) {
	catalog, err := store.LoadCatalog()
	if err != nil {
		return nil, nil, err
	}

	opts := search.Options{DefaultLimit: c.cfg.Search.DefaultLimit}
	if sortBy, err := search.ParseSortBy(c.cfg.Search.DefaultSort); err == nil {
		opts.DefaultSort = sortBy
	} else {
		debuglog.Warnf("cli: %v, using relevance", err)
	}

	cleanup := func() {}
	switch strings.ToLower(strings.TrimSpace(c.cfg.Search.Backend)) {
	case "", "memory":
	case "bleve":
		indexPath := c.cfg.Database.SearchIndex
		if indexPath != "" {
			if indexPath, err = c.pathValidator().Dir(indexPath); err != nil {
				return nil, nil, fmt.Errorf("invalid search index path: %w", err)
			}
		}
		m, err := search.NewBleveMatcher(indexPath)
		if err != nil {
			return nil, nil, err
		}
		opts.Matcher = m
		cleanup = func() { _ = m.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown search backend %q (want memory or bleve)", c.cfg.Search.Backend)
	}

	engine, err := search.NewEngine(catalog, opts)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return engine, cleanup, nil
}

func loadAnalytics(store *storage.Store) (*analytics.Store, error) {
	snapshot, err := store.LoadAnalytics()
	if err != nil {
		return nil, err
	}
	a := analytics.NewStore()
	a.Restore(snapshot)
	return a, nil
}

// session is an open store with its engine and analytics, for commands that
// query the catalog.
type session struct {
	store     *storage.Store
	engine    *search.Engine
	analytics *analytics.Store
	cleanup   func()
}

func (c *cli) openSession() (*session, error) {
	store, err := c.openStore()
	if err != nil {
		return nil, err
	}
	engine, cleanup, err := c.buildEngine(store)
	if err != nil {
		store.Close()
		return nil, err
	}
	a, err := loadAnalytics(store)
	if err != nil {
		cleanup()
		store.Close()
		return nil, err
	}
	return &session{store: store, engine: engine, analytics: a, cleanup: cleanup}, nil
}

func (s *session) Close() {
	s.cleanup()
	_ = s.store.Close()
}

var errAmbiguous = errors.New("ambiguous resource id")

// resolve finds a resource by namespaced key ("meditation:m1") or by a bare
// id that is unique across collections.
func resolve(engine *search.Engine, ref string) (resource.SearchResult, error) {
	if r, ok := engine.Get(ref); ok {
		return r, nil
	}
	if _, _, err := resource.SplitKey(ref); err == nil {
		return resource.SearchResult{}, fmt.Errorf("%w: %s", storage.ErrNotFound, ref)
	}

	var found []resource.SearchResult
	for _, st := range resource.SourceTypes() {
		if r, ok := engine.Get(resource.Key(st, ref)); ok {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return resource.SearchResult{}, fmt.Errorf("%w: %s", storage.ErrNotFound, ref)
	case 1:
		return found[0], nil
	default:
		keys := make([]string, len(found))
		for i, r := range found {
			keys[i] = r.Key()
		}
		return resource.SearchResult{}, fmt.Errorf("%w %q, use one of %s", errAmbiguous, ref, strings.Join(keys, ", "))
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
