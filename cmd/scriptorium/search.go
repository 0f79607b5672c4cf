package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/scriptorium/internal/resource"
	"github.com/pders01/scriptorium/internal/search"
)

type searchFlags struct {
	religion     []string
	types        []string
	language     []string
	topics       []string
	period       []string
	denomination []string
	sourceTypes  []string
	verified     bool
	hasStudies   bool
	page         int
	limit        int
	sortBy       string
	facets       bool
}

func newSearchCmd(c *cli) *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the catalog with filters, facets and sorting",
		Long: `Search matches every query word as a substring of a resource's text.
Filters combine with AND across flags and OR within one flag, so
--religion Buddhism --religion Hinduism --language en finds English
resources from either tradition. An empty query lists everything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, c, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringSliceVar(&f.religion, "religion", nil, "religion filter (repeatable)")
	fl.StringSliceVar(&f.types, "type", nil, "resource type filter (repeatable)")
	fl.StringSliceVar(&f.language, "language", nil, "language code filter (repeatable)")
	fl.StringSliceVar(&f.topics, "topic", nil, "topic filter (repeatable)")
	fl.StringSliceVar(&f.period, "period", nil, "historical period filter, sacred texts only (repeatable)")
	fl.StringSliceVar(&f.denomination, "denomination", nil, "denomination filter (repeatable)")
	fl.StringSliceVar(&f.sourceTypes, "source-type", nil, "collection: meditation, sacred_text, study, content (repeatable)")
	fl.BoolVar(&f.verified, "verified", false, "only verified (or, with =false, only unverified) resources")
	fl.BoolVar(&f.hasStudies, "has-studies", false, "only resources with scientific studies")
	fl.IntVarP(&f.page, "page", "p", 1, "page number, starting at 1")
	fl.IntVarP(&f.limit, "limit", "n", 0, "results per page (default from config)")
	fl.StringVar(&f.sortBy, "sort", "", "sort order: relevance, date, popularity (default from config)")
	fl.BoolVar(&f.facets, "facets", false, "print facet counts")
	return cmd
}

func (f *searchFlags) request(cmd *cobra.Command, c *cli, args []string) (search.Request, error) {
	req := search.Request{
		Query: strings.Join(args, " "),
		Filters: search.Filters{
			Religion:     f.religion,
			Type:         f.types,
			Language:     f.language,
			Topics:       f.topics,
			Period:       f.period,
			Denomination: f.denomination,
		},
		Page:  f.page,
		Limit: c.cfg.ClampLimit(f.limit),
	}

	for _, s := range f.sourceTypes {
		st, err := resource.ParseSourceType(s)
		if err != nil {
			return req, err
		}
		req.Filters.SourceType = append(req.Filters.SourceType, st)
	}
	if cmd.Flags().Changed("verified") {
		v := f.verified
		req.Filters.Verified = &v
	}
	if cmd.Flags().Changed("has-studies") {
		v := f.hasStudies
		req.Filters.HasScientificStudies = &v
	}
	if f.sortBy != "" {
		sortBy, err := search.ParseSortBy(f.sortBy)
		if err != nil {
			return req, err
		}
		req.SortBy = sortBy
	}
	return req, nil
}

func runSearch(cmd *cobra.Command, c *cli, f *searchFlags, args []string) error {
	req, err := f.request(cmd, c, args)
	if err != nil {
		return err
	}

	s, err := c.openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	resp, err := s.engine.Search(req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if c.jsonOut {
		return printJSON(out, resp)
	}
	printResults(out, resp)
	if f.facets {
		printFacets(out, resp.Facets)
	}
	return nil
}

func printResults(w io.Writer, resp *search.Response) {
	if resp.Total == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	first := (resp.Page-1)*resp.Limit + 1
	fmt.Fprintf(w, "%d results, page %d", resp.Total, resp.Page)
	if resp.HasMore {
		fmt.Fprint(w, " (more available)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	for i, r := range resp.Results {
		printResult(w, first+i, r)
	}
}

func printResult(w io.Writer, n int, r resource.SearchResult) {
	mark := ""
	if r.IsVerified {
		mark = " ✓"
	}
	fmt.Fprintf(w, "  [%d] %s%s  (%s)\n", n, r.Name, mark, r.Key())
	fmt.Fprintf(w, "      %s · %s · %s\n", r.Religion, r.Type, r.Language)
	if len(r.Topics) > 0 {
		fmt.Fprintf(w, "      topics: %s\n", strings.Join(r.Topics, ", "))
	}
	if r.URL != "" {
		fmt.Fprintf(w, "      %s\n", r.URL)
	}
	for _, rel := range r.RelatedResources {
		fmt.Fprintf(w, "      related: %s (%s)\n", rel.Name, rel.Type)
	}
	fmt.Fprintln(w)
}

func printFacets(w io.Writer, f search.Facets) {
	groups := []struct {
		name   string
		values []search.FacetValue
	}{
		{"religion", f.Religion},
		{"language", f.Language},
		{"type", f.Type},
		{"topics", f.Topics},
	}
	for _, g := range groups {
		parts := make([]string, len(g.values))
		for i, v := range g.values {
			parts[i] = fmt.Sprintf("%s (%d)", v.Value, v.Count)
		}
		fmt.Fprintf(w, "%-9s %s\n", g.name+":", strings.Join(parts, ", "))
	}
}
