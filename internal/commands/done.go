package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todo/internal/store"
)

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			return runDone(a, taskID)
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			return runDelete(a, taskID)
		},
	}
}

// runDone completes a task. Unknown ids are not an error, only a warning.
func runDone(a *app, taskID int) error {
	return a.withStore(func(s *store.TaskStore) error {
		task, found := s.Get(taskID)
		if found && task.IsCompleted() {
			a.logger.Info("task was already completed, updating completion time", "id", taskID)
		}

		found, err := s.MarkCompleted(taskID)
		if err != nil {
			return err
		}
		if !found {
			a.logger.Warn("no task with this id", "id", taskID)
		}
		fmt.Fprintf(a.out, "Completed task %d\n", taskID)
		return nil
	})
}

// runDelete removes a task. Unknown ids are not an error, only a warning.
func runDelete(a *app, taskID int) error {
	return a.withStore(func(s *store.TaskStore) error {
		removed, err := s.Delete(taskID)
		if err != nil {
			return err
		}
		if !removed {
			a.logger.Warn("no task with this id", "id", taskID)
		}
		fmt.Fprintf(a.out, "Deleted task %d\n", taskID)
		return nil
	})
}

// parseTaskID validates a task id argument
func parseTaskID(arg string) (int, error) {
	taskID, err := strconv.Atoi(arg)
	if err != nil {
		return 0, &store.ValidationError{Field: "task ID", Err: fmt.Errorf("'%s' is not a valid task ID", arg)}
	}
	return taskID, checkTaskID(taskID)
}
