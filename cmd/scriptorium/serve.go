package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pders01/scriptorium/internal/api"
	"github.com/pders01/scriptorium/internal/debuglog"
)

func newServeCmd(c *cli) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search and recommendation API over HTTP",
		Long: `Serve exposes the catalog as JSON:

  GET  /health
  GET  /api/resources?q=...&religion=...&page=...&limit=...&sortBy=...
  GET  /api/resources/{key}
  POST /api/resources/{key}/views
  POST /api/resources/{key}/interactions
  GET  /api/resources/{key}/recommendations

Tracked views and interactions are saved to the catalog database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			if c.logLevel != "" {
				debuglog.SetOutput(debuglog.ParseLogLevel(c.logLevel), os.Stderr)
			}

			srv := api.NewServer(s.engine, s.analytics, api.Options{
				MaxLimit:       c.cfg.Search.MaxLimit,
				RecommendLimit: c.cfg.Recommend.Limit,
				Saver:          s.store,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %d resources on http://%s\n", s.engine.Len(), addr)
			return srv.ListenAndServe(cmd.Context(), addr, c.cfg.Server.ReadTimeout, c.cfg.Server.WriteTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
