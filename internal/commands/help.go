package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show help for todo or one of its commands",
		Long:  `Display an overview of every todo action, or detailed help for one command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				showCustomHelp(cmd.OutOrStdout())
				return nil
			}
			target, _, err := cmd.Root().Find(args)
			if err != nil || target == cmd.Root() {
				return fmt.Errorf("unknown help topic %q", args[0])
			}
			return target.Help()
		},
	}
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `todo - personal task tracker

ACTIONS (one per invocation; with several action flags the first of
add, delete, list, done, query, report wins and the others are ignored):

  --add <name...>         Create a task, prints "Created task <id>"
  add <name...>
    -p, --priority        Priority: low|medium|high or 1|2|3 (default 1)
    --due                 Due date: free text, today, tomorrow, 3 days, 2 weeks

    Inline markers:
      +priority     Set priority (+2, +high)
      due:VALUE     Set due date (due:2024-01-01, due:tomorrow)

    Example:
      todo --add Write report +2 due:2024-01-01

    With the add subcommand, words starting with a dash go after "--":
      todo add -- Pay -5 dollars

  --delete <id>           Delete a task, prints "Deleted task <id>"
  rm <id>

  --list                  List pending tasks
  ls

  --done <id>             Mark a task completed, prints "Completed task <id>"
  done <id>

  --query <term...>       List tasks whose name contains any term
  query <term...>

  --report                List every task, completed or not
  report

OTHER COMMANDS:

  browse                  Interactive browser (d done, x delete, / filter)
  version                 Show version information
  help [command]          Show this help or help for one command

GLOBAL FLAGS:

  -f, --file              Task store file (default .todo.json, .todo.db for sqlite)
  --backend               json|sqlite
  --config                Extra TOML config file
  -o, --output            text|json|yaml for listings
  --log-level             debug|info|warn|error
  -v, --verbose           Debug logging

Configuration is read from ~/.config/todo/config.toml, then .todo.toml in the
current directory, then --config, then TODO_* environment variables.

`)
}
