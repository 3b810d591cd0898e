package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/todo/internal/store"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List pending tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(a)
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Report all tasks, completed or not",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(a)
		},
	}
}

func runList(a *app) error {
	return a.withStore(func(s *store.TaskStore) error {
		return renderTasks(a, s.ListPending(), nil)
	})
}

func runReport(a *app) error {
	return a.withStore(func(s *store.TaskStore) error {
		return renderTasks(a, s.ReportAll(), nil)
	})
}
