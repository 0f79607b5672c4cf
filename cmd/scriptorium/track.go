package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/scriptorium/internal/analytics"
)

func newTrackCmd(c *cli) *cobra.Command {
	var (
		clicks     int
		timeSpent  float64
		completion float64
	)

	cmd := &cobra.Command{
		Use:   "track <key>",
		Short: "Record a view or an interaction with a resource",
		Long: `Track counts one view of a resource. With --clicks, --time-spent or
--completion it records an interaction instead: clicks and time accumulate,
completion replaces the previous rate.`,
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

			var stats analytics.ResourceAnalytics
			fl := cmd.Flags()
			if fl.Changed("clicks") || fl.Changed("time-spent") || fl.Changed("completion") {
				in := analytics.Interaction{Clicks: clicks, TimeSpent: timeSpent}
				if clicks < 0 || timeSpent < 0 {
					return fmt.Errorf("clicks and time spent must not be negative")
				}
				if fl.Changed("completion") {
					in.CompletionRate = &completion
				}
				stats = s.analytics.RecordInteraction(r.Key(), in)
			} else {
				stats = s.analytics.TrackView(r.Key())
			}

			if err := s.store.SaveAnalytics(s.analytics.Snapshot()); err != nil {
				return fmt.Errorf("saving analytics: %w", err)
			}

			out := cmd.OutOrStdout()
			if c.jsonOut {
				return printJSON(out, resourceWithAnalytics{Resource: r, Analytics: stats})
			}
			fmt.Fprintf(out, "%s (%s)\n", r.Name, r.Key())
			printStats(out, stats)
			return nil
		},
	}

	cmd.Flags().IntVar(&clicks, "clicks", 0, "clicks to add")
	cmd.Flags().Float64Var(&timeSpent, "time-spent", 0, "seconds spent to add")
	cmd.Flags().Float64Var(&completion, "completion", 0, "completion rate between 0 and 1")
	return cmd
}
