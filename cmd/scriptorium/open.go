package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/scriptorium/internal/analytics"
	"github.com/pders01/scriptorium/internal/media"
)

func newOpenCmd(c *cli) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "open <key>",
		Short: "Open a resource link in a player or the browser",
		Long: `Open launches the resource's link. Audio, video and PDF links go to the
first configured player found on PATH; anything else goes to the platform
opener. Each open counts as a click.`,
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

			opener, err := media.NewOpener(c.cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				kind, name, argv := opener.Command(r.URL)
				fmt.Fprintf(out, "%s: %s %v\n", kind, name, argv)
				return nil
			}
			if err := opener.Open(r.URL); err != nil {
				return err
			}

			s.analytics.RecordInteraction(r.Key(), analytics.Interaction{Clicks: 1})
			if err := s.store.SaveAnalytics(s.analytics.Snapshot()); err != nil {
				return fmt.Errorf("saving analytics: %w", err)
			}
			fmt.Fprintf(out, "Opened %s\n", r.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the command instead of running it")
	return cmd
}
