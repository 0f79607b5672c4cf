package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/scriptorium/internal/resource"
)

func newRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <key|id>",
		Aliases: []string{"rm"},
		Short:   "Remove a resource from the catalog",
		Long: `Remove deletes one stored record. Its view statistics are kept, so a
record imported again later resumes its history.`,
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
			st, id, err := resource.SplitKey(r.Key())
			if err != nil {
				return err
			}
			if err := s.store.DeleteRecord(st, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", r.Key())
			return nil
		},
	}
}
