package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/todo/internal/store"
)

func newQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "query <term> [term...]",
		Aliases: []string{"search"},
		Short:   "Search task names",
		Long: `Search task names for any of the given terms.

A task matches when its name contains at least one term as a substring.
Matching is case sensitive.`,
		Example: `  todo query groceries
  todo query report desk -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(a, args)
		},
	}
}

func runQuery(a *app, terms []string) error {
	if len(terms) == 0 {
		return &store.ValidationError{Field: "query", Err: errEmptyQuery}
	}
	return a.withStore(func(s *store.TaskStore) error {
		return renderTasks(a, s.Query(terms), terms)
	})
}
