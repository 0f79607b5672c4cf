package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pders01/scriptorium/internal/ingest"
	"github.com/pders01/scriptorium/internal/resource"
)

const metaLastImport = "last_import"

func newImportCmd(c *cli) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import catalog seed files (YAML, TOML or JSON)",
		Long: `Import reads seed files and stores their records. The format follows the
file extension. Records that already exist are replaced but keep their
position in the catalog. Nothing is written if any file fails to check.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			merged := &resource.Catalog{}
			for _, path := range args {
				cat, err := ingest.LoadFile(path)
				if err != nil {
					return err
				}
				merged.Merge(cat)
			}
			if err := ingest.Check(merged); err != nil {
				return fmt.Errorf("seed check failed:\n%w", err)
			}

			out := cmd.OutOrStdout()
			summary := importSummary{
				Meditations: len(merged.Meditations),
				SacredTexts: len(merged.SacredTexts),
				Studies:     len(merged.Studies),
				Content:     len(merged.Content),
				References:  len(merged.References),
				DryRun:      dryRun,
			}

			if !dryRun {
				store, err := c.openStore()
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.SaveCatalog(merged); err != nil {
					return err
				}
				if err := store.SetMeta(metaLastImport, time.Now().UTC().Format(time.RFC3339)); err != nil {
					return err
				}
			}

			if c.jsonOut {
				return printJSON(out, summary)
			}
			verb := "Imported"
			if dryRun {
				verb = "Would import"
			}
			fmt.Fprintf(out, "%s %d meditations, %d sacred texts, %d studies, %d content items, %d references\n",
				verb, summary.Meditations, summary.SacredTexts, summary.Studies, summary.Content, summary.References)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "check the files without storing anything")
	return cmd
}

type importSummary struct {
	Meditations int  `json:"meditations"`
	SacredTexts int  `json:"sacredTexts"`
	Studies     int  `json:"studies"`
	Content     int  `json:"content"`
	References  int  `json:"references"`
	DryRun      bool `json:"dryRun,omitempty"`
}
