package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/scriptorium/internal/tui"
)

func newVersionCmd() *cobra.Command {
	var banner bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if banner {
				tui.ShowBanner(out, version)
				return
			}
			fmt.Fprintf(out, "scriptorium %s\n", version)
			fmt.Fprintln(out, "Religious studies resource catalog")
			fmt.Fprintln(out, "github.com/pders01/scriptorium")
		},
	}

	cmd.PersistentPreRunE = skipSetup
	cmd.Flags().BoolVar(&banner, "banner", false, "print the logo banner")
	return cmd
}
