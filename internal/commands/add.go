package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todo/internal/models"
	"github.com/balkashynov/todo/internal/parser"
	"github.com/balkashynov/todo/internal/store"
)

func newAddCmd(a *app) *cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add <task name>",
		Short: "Add a new task",
		Long: `Add a new task. Every argument is part of the name except inline markers.

Inline markers:
  +priority   - Priority (low/medium/high or 1/2/3), default low
  due:VALUE   - Due date: free text, or today, tomorrow, X days, X weeks

Numbers and dates without a marker stay in the name, so
  todo add Buy milk 2 2024-01-01
creates a task named "Buy milk 2 2024-01-01".

Name words that start with a dash must follow "--":
  todo add -- Pay -5 dollars
The --add flag form accepts them directly: todo --add Pay -5 dollars`,
		Example: `  todo add Write report +2 due:2024-01-01
  todo add Clean desk --priority high --due tomorrow`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, _ := cmd.Flags().GetString("priority")
			due, _ := cmd.Flags().GetString("due")
			return runAdd(a, args, priority, due)
		},
	}

	addCmd.Flags().StringP("priority", "p", "", "Priority: low, medium, high, or 1-3")
	addCmd.Flags().String("due", "", "Due date: free text, today, tomorrow, X days, X weeks")
	return addCmd
}

// runAdd parses name tokens plus optional flag values and creates the task.
// Flags take precedence over inline markers.
func runAdd(a *app, tokens []string, flagPriority, flagDue string) error {
	parsed := parser.ParseAddArgs(tokens)
	if len(parsed.Errors) > 0 {
		return &store.ValidationError{Field: "arguments", Err: errors.New(strings.Join(parsed.Errors, ", "))}
	}
	if parsed.Name == "" {
		return &store.ValidationError{Field: "name", Err: errors.New("task name must not be empty")}
	}

	priority := models.DefaultPriority
	if parsed.Priority != 0 {
		priority = parsed.Priority
	}
	if flagPriority != "" {
		p, err := parser.ParsePriority(flagPriority)
		if err != nil {
			return &store.ValidationError{Field: "priority", Err: err}
		}
		priority = p
	}

	rawDue := parsed.DueDate
	if flagDue != "" {
		rawDue = &flagDue
	}
	var dueDate *string
	if rawDue != nil {
		resolved, err := parser.ResolveDueDate(*rawDue, a.now())
		if err != nil {
			return &store.ValidationError{Field: "due date", Err: err}
		}
		dueDate = &resolved
	}

	return a.withStore(func(s *store.TaskStore) error {
		id, err := s.Add(parsed.Name, priority, dueDate)
		if err != nil {
			return err
		}
		a.logger.Debug("task created", "id", id, "priority", priority, "path", s.Path())
		fmt.Fprintf(a.out, "Created task %d\n", id)
		return nil
	})
}
