package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pders01/scriptorium/internal/feed"
	"github.com/pders01/scriptorium/internal/storage"
)

func newFeedCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Manage syndication feeds imported as content",
	}
	cmd.AddCommand(
		newFeedAddCmd(c),
		newFeedRefreshCmd(c),
		newFeedListCmd(c),
		newFeedRemoveCmd(c),
	)
	return cmd
}

func newFeedAddCmd(c *cli) *cobra.Command {
	var (
		src        feed.Source
		allowLocal bool
	)

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Register a feed and import its items",
		Long: `Add fetches an RSS, Atom or JSON feed and stores each item as a content
resource. --religion, --language and --topic apply to every item.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			im := feed.NewImporter(store, c.cfg)
			im.SetPermissiveValidation(allowLocal)

			src.URL = args[0]
			f, n, err := im.Add(cmd.Context(), src)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.jsonOut {
				return printJSON(out, struct {
					Feed     *storage.FeedSource `json:"feed"`
					Imported int                 `json:"imported"`
				}{f, n})
			}
			fmt.Fprintf(out, "Added feed %q (%s) with %d items\n", f.Title, f.ID, n)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&src.Religion, "religion", "", "religion for every item")
	fl.StringVar(&src.Language, "language", "", "language for every item (default from the feed)")
	fl.StringSliceVar(&src.Topics, "topic", nil, "topic for every item (repeatable)")
	fl.BoolVar(&allowLocal, "allow-local", false, "allow localhost and private network feeds")
	return cmd
}

func newFeedRefreshCmd(c *cli) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "refresh [feed-id...]",
		Short: "Re-fetch registered feeds",
		Long:  `Refresh re-fetches the given feeds, or every feed when none is named.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			im := feed.NewImporter(store, c.cfg)
			im.SetForceRefresh(force)

			var (
				total int
				errs  []error
			)
			if len(args) == 0 {
				total, err = im.RefreshAll(cmd.Context())
				errs = append(errs, err)
			}
			for _, id := range args {
				n, err := im.Refresh(cmd.Context(), id)
				total += n
				errs = append(errs, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items\n", total)
			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "ignore ETag and Last-Modified")
	return cmd
}

func newFeedListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered feeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			feeds, err := store.GetAllFeeds()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.jsonOut {
				return printJSON(out, feeds)
			}
			if len(feeds) == 0 {
				fmt.Fprintln(out, "No feeds.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tRELIGION\tLAST FETCHED")
			for _, f := range feeds {
				fetched := "never"
				if !f.LastFetched.IsZero() {
					fetched = f.LastFetched.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Title, f.Religion, fetched)
			}
			return tw.Flush()
		},
	}
}

func newFeedRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <feed-id>",
		Short: "Remove a feed and the content imported from it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if _, err := store.GetFeed(args[0]); err != nil {
				return err
			}
			if err := store.DeleteFeed(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed feed %s\n", args[0])
			return nil
		},
	}
}
