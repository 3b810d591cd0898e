package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/todo/internal/store"
	"github.com/balkashynov/todo/internal/tui"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "browse",
		Aliases: []string{"ui"},
		Short:   "Browse tasks interactively",
		Long: `Open an interactive task browser.

Keys:
  up/down, j/k   move the cursor
  left/right     change page
  tab, a         toggle pending/all tasks
  /              filter by name (any of the words)
  d              mark the selected task as completed
  x              delete the selected task
  q              quit

Every change is saved immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.TaskStore) error {
				return tui.RunBrowser(s, a.out, a.now)
			})
		},
	}
}
