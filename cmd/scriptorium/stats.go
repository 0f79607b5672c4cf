package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/scriptorium/internal/resource"
	"github.com/pders01/scriptorium/internal/storage"
)

type catalogStats struct {
	Collections map[resource.SourceType]int `json:"collections"`
	Resources   int                         `json:"resources"`
	Feeds       int                         `json:"feeds"`
	Tracked     int                         `json:"tracked"`
	Backend     string                      `json:"backend"`
	IndexDocs   int                         `json:"indexDocs"`
	LastImport  string                      `json:"lastImport,omitempty"`
}

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the stored catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			counts, err := s.store.Counts()
			if err != nil {
				return err
			}
			feeds, err := s.store.GetAllFeeds()
			if err != nil {
				return err
			}
			lastImport, err := s.store.GetMeta(metaLastImport)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			st := catalogStats{
				Collections: counts,
				Resources:   s.engine.Len(),
				Feeds:       len(feeds),
				Tracked:     s.analytics.Len(),
				Backend:     c.cfg.Search.Backend,
				IndexDocs:   s.engine.DocCount(),
				LastImport:  lastImport,
			}

			out := cmd.OutOrStdout()
			if c.jsonOut {
				return printJSON(out, st)
			}
			for _, t := range resource.SourceTypes() {
				fmt.Fprintf(out, "%-12s %d\n", t, counts[t])
			}
			fmt.Fprintf(out, "%-12s %d\n", "resources", st.Resources)
			fmt.Fprintf(out, "%-12s %d\n", "feeds", st.Feeds)
			fmt.Fprintf(out, "%-12s %d\n", "tracked", st.Tracked)
			fmt.Fprintf(out, "%-12s %s", "backend", st.Backend)
			if st.IndexDocs >= 0 {
				fmt.Fprintf(out, " (%d docs)", st.IndexDocs)
			}
			fmt.Fprintln(out)
			if st.LastImport != "" {
				fmt.Fprintf(out, "%-12s %s\n", "imported", st.LastImport)
			}
			return nil
		},
	}
}
