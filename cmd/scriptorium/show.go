package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pders01/scriptorium/internal/analytics"
	"github.com/pders01/scriptorium/internal/resource"
)

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Show one resource with its analytics",
		Long: `Show prints a resource by key ("meditation:m1") or by an id that is
unique across collections. Showing does not count as a view; use "track".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			r, err := resolve(s.engine, args[0])
			if err != nil {
				return err
			}
			stats, _ := s.analytics.Get(r.Key())

			out := cmd.OutOrStdout()
			if c.jsonOut {
				return printJSON(out, resourceWithAnalytics{Resource: r, Analytics: stats})
			}
			printDetail(out, r, stats)
			return nil
		},
	}
}

type resourceWithAnalytics struct {
	Resource  resource.SearchResult       `json:"resource"`
	Analytics analytics.ResourceAnalytics `json:"analytics"`
}

func printDetail(w io.Writer, r resource.SearchResult, stats analytics.ResourceAnalytics) {
	fmt.Fprintf(w, "%s  (%s)\n", r.Name, r.Key())
	fmt.Fprintf(w, "%s · %s · %s", r.Religion, r.Type, r.Language)
	if r.IsVerified {
		fmt.Fprint(w, " · verified")
	}
	fmt.Fprintln(w)

	if r.Description != "" {
		fmt.Fprintf(w, "\n%s\n\n", r.Description)
	}
	if r.URL != "" {
		fmt.Fprintf(w, "link:      %s\n", r.URL)
	}
	if r.Organization != nil && r.Organization.Name != "" {
		fmt.Fprintf(w, "publisher: %s\n", r.Organization.Name)
	}
	if len(r.Topics) > 0 {
		fmt.Fprintf(w, "topics:    %s\n", strings.Join(r.Topics, ", "))
	}
	for _, s := range r.ScientificStudies {
		fmt.Fprintf(w, "study:     %s", s.Title)
		if s.Year > 0 {
			fmt.Fprintf(w, " (%d)", s.Year)
		}
		fmt.Fprintln(w)
	}
	for _, rel := range r.RelatedResources {
		fmt.Fprintf(w, "related:   %s (%s)\n", rel.Name, rel.Type)
	}
	printStats(w, stats)
}

func printStats(w io.Writer, stats analytics.ResourceAnalytics) {
	fmt.Fprintf(w, "views:     %d", stats.ViewCount)
	if !stats.LastViewed.IsZero() {
		fmt.Fprintf(w, " (last %s)", stats.LastViewed.Local().Format(time.RFC1123))
	}
	fmt.Fprintln(w)
	ui := stats.UserInteractions
	if ui.Clicks > 0 || ui.TimeSpent > 0 || ui.CompletionRate != nil {
		fmt.Fprintf(w, "clicks:    %d\n", ui.Clicks)
		fmt.Fprintf(w, "time:      %s\n", time.Duration(ui.TimeSpent*float64(time.Second)).Round(time.Second))
		if ui.CompletionRate != nil {
			fmt.Fprintf(w, "completed: %.0f%%\n", *ui.CompletionRate*100)
		}
	}
}
