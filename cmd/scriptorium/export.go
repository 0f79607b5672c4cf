package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pders01/scriptorium/internal/ingest"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored catalog as a seed file",
		Long: `Export writes every stored record and reference in a format "import"
reads back. Without --output the catalog goes to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				f   ingest.Format
				err error
			)
			switch {
			case cmd.Flags().Changed("format"):
				f, err = ingest.ParseFormat(format)
			case output != "":
				f, err = ingest.FormatFromPath(output)
			default:
				f = ingest.FormatYAML
			}
			if err != nil {
				return err
			}

			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			catalog, err := store.LoadCatalog()
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}
			if err := ingest.Encode(w, catalog, f); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d records to %s\n", catalog.Len(), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml, toml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
