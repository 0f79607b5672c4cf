package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/scriptorium/internal/debuglog"
	"github.com/pders01/scriptorium/internal/media"
	"github.com/pders01/scriptorium/internal/tui"
)

func newBrowseCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and search the catalog in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			deps := tui.Deps{
				Engine:    s.engine,
				Analytics: s.analytics,
				Saver:     s.store,
			}
			if opener, err := media.NewOpener(c.cfg); err == nil {
				deps.Opener = opener
			} else {
				debuglog.Warnf("browse: opening links disabled: %v", err)
			}

			p := tea.NewProgram(tui.NewApp(c.cfg, deps), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}
