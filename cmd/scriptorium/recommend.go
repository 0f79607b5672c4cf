package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/scriptorium/internal/recommend"
)

func newRecommendCmd(c *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recommend <key>",
		Short: "Recommend resources related to one resource",
		Long: `Recommend scores every other resource against the given one by shared
topics, religion, language and engagement, and prints the best matches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			current, err := resolve(s.engine, args[0])
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = c.cfg.Recommend.Limit
			}
			ranked := recommend.New(s.analytics).Rank(current, s.engine.All(), limit)

			out := cmd.OutOrStdout()
			if c.jsonOut {
				return printJSON(out, ranked)
			}
			if len(ranked) == 0 {
				fmt.Fprintln(out, "No recommendations.")
				return nil
			}
			fmt.Fprintf(out, "Recommended for %s:\n\n", current.Name)
			for i, sc := range ranked {
				fmt.Fprintf(out, "  [%d] %-40s %5.2f  (%s)\n", i+1, sc.Result.Name, sc.Score, sc.Result.Key())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of recommendations (default from config)")
	return cmd
}
