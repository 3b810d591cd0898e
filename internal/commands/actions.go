package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todo/internal/store"
)

// actionFlags are checked in this order; the first one set wins
var actionFlags = []string{"add", "delete", "list", "done", "query", "report"}

// valueFlags are the root flags that consume the next argument
var valueFlags = map[string]bool{
	"file": true, "backend": true, "config": true, "log-level": true, "output": true,
	"priority": true, "due": true, "delete": true, "done": true,
}

// shorthands maps each root shorthand to whether it takes a value
var shorthands = map[byte]bool{'f': true, 'o': true, 'p': true, 'v': false, 'h': false}

func addActionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("add", false, "Add a task; following arguments form the name (+N sets priority, due:X sets due date)")
	f.Int("delete", 0, "Delete a task by ID")
	f.Bool("list", false, "List pending tasks")
	f.Int("done", 0, "Mark a task as completed by ID")
	f.Bool("query", false, "Search task names; following arguments are search terms")
	f.Bool("report", false, "Report all tasks")
	f.StringP("priority", "p", "", "Priority for --add: low, medium, high, or 1-3")
	f.String("due", "", "Due date for --add: free text, today, tomorrow, X days, X weeks")
}

// usesActionFlags reports whether args select an action by flag
func usesActionFlags(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if isActionFlag(arg) {
			return true
		}
	}
	return false
}

func isActionFlag(arg string) bool {
	name := strings.TrimPrefix(arg, "--")
	if name == arg {
		return false
	}
	name, _, _ = strings.Cut(name, "=")
	for _, action := range actionFlags {
		if name == action {
			return true
		}
	}
	return false
}

// actionArgs is the command line split by owner: flags go to cobra,
// positional arguments belong to the action flag they follow.
type actionArgs struct {
	flags  []string
	tokens map[string][]string
	stray  []string
}

// splitActionArgs assigns every positional argument to the closest action
// flag before it. Arguments starting with a dash that are not known flags,
// like "-5", are positional.
func splitActionArgs(args []string) actionArgs {
	split := actionArgs{tokens: map[string][]string{}}
	owner := ""
	positional := func(tok string) {
		if owner == "" {
			split.stray = append(split.stray, tok)
			return
		}
		split.tokens[owner] = append(split.tokens[owner], tok)
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			for _, tok := range args[i+1:] {
				positional(tok)
			}
			return split

		case strings.HasPrefix(arg, "--"):
			split.flags = append(split.flags, arg)
			name, _, hasValue := strings.Cut(arg[2:], "=")
			if isActionFlag(arg) {
				owner = name
			}
			if valueFlags[name] && !hasValue && i+1 < len(args) {
				i++
				split.flags = append(split.flags, args[i])
			}

		case len(arg) > 1 && arg[0] == '-':
			if _, known := shorthands[arg[1]]; !known {
				positional(arg)
				continue
			}
			split.flags = append(split.flags, arg)
			for j := 1; j < len(arg); j++ {
				if shorthands[arg[j]] {
					// value is attached or is the next argument
					if j == len(arg)-1 && i+1 < len(args) {
						i++
						split.flags = append(split.flags, args[i])
					}
					break
				}
			}

		default:
			positional(arg)
		}
	}
	return split
}

// runActionFlags dispatches the first action flag that was set
func runActionFlags(a *app, cmd *cobra.Command, args []string) error {
	f := cmd.Flags()

	action := ""
	for _, name := range actionFlags {
		if f.Changed(name) {
			action = name
			break
		}
	}

	stray := append(a.strayTokens, args...)
	if len(stray) > 0 {
		if action == "" {
			return fmt.Errorf("unknown command %q for %q", stray[0], cmd.CommandPath())
		}
		return fmt.Errorf("unexpected arguments %q before any action flag", strings.Join(stray, " "))
	}

	tokens := a.actionTokens[action]
	if action != "add" && action != "query" && len(tokens) > 0 {
		return fmt.Errorf("--%s does not take arguments, got %q", action, strings.Join(tokens, " "))
	}
	for _, name := range actionFlags {
		if name != action && f.Changed(name) {
			a.logger.Debug("ignoring action flag", "flag", "--"+name, "winner", "--"+action)
		}
	}

	switch action {
	case "add":
		priority, _ := f.GetString("priority")
		due, _ := f.GetString("due")
		return runAdd(a, tokens, priority, due)
	case "delete":
		id, _ := f.GetInt("delete")
		if err := checkTaskID(id); err != nil {
			return err
		}
		return runDelete(a, id)
	case "list":
		return runList(a)
	case "done":
		id, _ := f.GetInt("done")
		if err := checkTaskID(id); err != nil {
			return err
		}
		return runDone(a, id)
	case "query":
		return runQuery(a, tokens)
	case "report":
		return runReport(a)
	default:
		showCustomHelp(cmd.OutOrStdout())
		return nil
	}
}

// checkTaskID rejects ids that can never exist
func checkTaskID(taskID int) error {
	if taskID < 0 {
		return &store.ValidationError{Field: "task ID", Err: fmt.Errorf("'%d' is not a valid task ID", taskID)}
	}
	return nil
}
