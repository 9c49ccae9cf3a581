package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/rulekit/pkg/rulekit"
	"github.com/randalmurphal/rulekit/pkg/rulekit/config"
)

// version is the CLI version reported by --version.
const version = "0.1.0"

// app carries the I/O streams and state shared by every subcommand.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// Persistent flags.
	configPath string
	debug      bool
	quiet      bool

	settings config.Config
	logger   *slog.Logger
	engine   *rulekit.Engine
}

// run builds the command tree, executes args and returns the exit code.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	a := &app{in: in, out: out, errOut: errOut}

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(errOut, "rulekit:", err)
	}
	return exitCode(err)
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rulekit",
		Short: "Evaluate rule expressions",
		Long: `rulekit evaluates small boolean and arithmetic rule expressions such as
  total > 100 and country = "NL" ? "priority" : "standard"

Constants are bound with -c name=value or loaded from YAML, JSON or TOML files.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "settings file (yaml, json or toml)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "only log errors")

	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(
		newEvalCmd(a),
		newTokensCmd(a),
		newASTCmd(a),
		newREPLCmd(a),
		newRulesCmd(a),
	)
	return cmd
}

// setup loads settings and builds the logger and engine. Recognized
// settings: log_level, cache_size, metrics, tracing, db, history_file and
// a constants table.
func (a *app) setup() error {
	a.settings = config.New(nil)
	if a.configPath != "" {
		settings, err := config.FromFile(a.configPath)
		if err != nil {
			return err
		}
		a.settings = settings
	}

	level := slog.LevelWarn
	if name := a.settings.String("log_level", ""); name != "" {
		if err := level.UnmarshalText([]byte(name)); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	switch {
	case a.debug:
		level = slog.LevelDebug
	case a.quiet:
		level = slog.LevelError
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	a.engine = rulekit.New(
		rulekit.WithLogger(a.logger),
		rulekit.WithProgramCache(a.settings.Int("cache_size", 256)),
		rulekit.WithMetrics(a.settings.Bool("metrics", false)),
		rulekit.WithTracing(a.settings.Bool("tracing", false)),
	)
	return nil
}

// constants layers the settings file's constants table, then file, then
// name=value assignments. Later layers win.
func (a *app) constants(file string, assignments []string) (config.Config, error) {
	consts := a.settings.Section("constants")

	if file != "" {
		fromFile, err := config.FromFile(file)
		if err != nil {
			return config.Config{}, err
		}
		consts = consts.Merge(fromFile)
	}

	if len(assignments) > 0 {
		vars, err := config.ParseAssignments(assignments)
		if err != nil {
			return config.Config{}, err
		}
		consts = consts.Merge(config.New(vars))
	}
	return consts, nil
}

// constantFlags registers -c and -f on cmd.
func constantFlags(cmd *cobra.Command, assignments *[]string, file *string) {
	cmd.Flags().StringArrayVarP(assignments, "const", "c", nil, "bind a constant as name=value (repeatable)")
	cmd.Flags().StringVarP(file, "file", "f", "", "constants file (yaml, json or toml)")
}
