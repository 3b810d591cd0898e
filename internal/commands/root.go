package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/balkashynov/todo/internal/config"
	"github.com/balkashynov/todo/internal/db"
	"github.com/balkashynov/todo/internal/logging"
	"github.com/balkashynov/todo/internal/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what every command needs once flags are parsed
type app struct {
	overrides config.Overrides
	verbose   bool

	// positional arguments per action flag, set when action flags are used
	actionTokens map[string][]string
	strayTokens  []string

	cfg    *config.Config
	logger *log.Logger
	out    io.Writer
	now    func() time.Time
}

// setup loads configuration and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.overrides)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	a.cfg = cfg
	a.out = cmd.OutOrStdout()
	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	opts.Format = cfg.LogFormat
	a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), opts)
	return nil
}

// openStore loads the task store from the configured backend
func (a *app) openStore() (*store.TaskStore, error) {
	var backend store.Backend
	switch a.cfg.Backend {
	case config.BackendSQLite:
		backend = db.NewSQLiteBackend(a.cfg.File)
	default:
		backend = store.NewJSONBackend(a.cfg.File)
	}
	a.logger.Debug("opening store", "backend", a.cfg.Backend, "path", a.cfg.File)

	return store.Open(backend, store.WithLogger(a.logger), store.WithClock(a.now))
}

// withStore opens the store, runs fn, and closes the store
func (a *app) withStore(fn func(*store.TaskStore) error) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			a.logger.Warn("failed to close store", "err", cerr)
		}
	}()
	return fn(s)
}

// newRootCmd builds the command tree. With subcommands disabled the
// root command only understands the single-action flags, so that a task
// name like "report weekly" after --add is never routed to a subcommand.
func newRootCmd(a *app, subcommands bool) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "todo",
		Short: "A personal task tracker",
		Long: `todo keeps a list of tasks in a single file and lets you add, complete,
delete, list, search, and report them from the terminal.

Exactly one action runs per invocation. Use either the action flags
(--add, --delete, --list, --done, --query, --report) or the matching
subcommands (add, rm, ls, done, query, report).`,
		Example: `  todo --add Write report +2 due:2024-01-01
  todo --add Clean desk
  todo --list
  todo --done 0
  todo --query groceries mom
  todo report -o json`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActionFlags(a, cmd, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.overrides.File, "file", "f", "", "Task store file (default .todo.json or .todo.db)")
	pf.StringVar(&a.overrides.Backend, "backend", "", "Storage backend: json or sqlite")
	pf.StringVar(&a.overrides.ConfigFile, "config", "", "Config file (TOML)")
	pf.StringVar(&a.overrides.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVarP(&a.overrides.Output, "output", "o", "", "Output format for listings: text, json, yaml")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	addActionFlags(rootCmd)
	rootCmd.SetHelpCommand(newHelpCmd())

	if subcommands {
		rootCmd.AddCommand(newAddCmd(a))
		rootCmd.AddCommand(newDeleteCmd(a))
		rootCmd.AddCommand(newListCmd(a))
		rootCmd.AddCommand(newDoneCmd(a))
		rootCmd.AddCommand(newQueryCmd(a))
		rootCmd.AddCommand(newReportCmd(a))
		rootCmd.AddCommand(newBrowseCmd(a))
		rootCmd.AddCommand(newVersionCmd())
	}

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "todo %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Run executes the CLI with args, writing results to stdout and
// diagnostics to stderr.
func Run(args []string, stdout, stderr io.Writer) error {
	return runApp(&app{now: time.Now}, args, stdout, stderr)
}

func runApp(a *app, args []string, stdout, stderr io.Writer) error {
	subcommands := !usesActionFlags(args)
	if !subcommands {
		split := splitActionArgs(args)
		a.actionTokens = split.tokens
		a.strayTokens = split.stray
		args = split.flags
	}

	rootCmd := newRootCmd(a, subcommands)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.Execute()
}

// Execute runs the root command against the process arguments
func Execute() error {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}
