package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/rulekit/pkg/rulekit/ruleset"
	"github.com/randalmurphal/rulekit/pkg/rulekit/store"
)

// rulesFlags are shared by the rules subcommands.
type rulesFlags struct {
	db  string
	set string
}

func newRulesCmd(a *app) *cobra.Command {
	f := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage and run stored rule sets",
		Long: `rules stores named expressions grouped in sets. With --db (or the db
setting) rules persist in a SQLite database; otherwise they live in memory
for the duration of the command.`,
	}
	cmd.PersistentFlags().StringVar(&f.db, "db", "", "SQLite database path")
	cmd.PersistentFlags().StringVar(&f.set, "set", "default", "rule set name")

	cmd.AddCommand(
		newRulesAddCmd(a, f),
		newRulesListCmd(a, f),
		newRulesRemoveCmd(a, f),
		newRulesRunCmd(a, f),
		newRulesImportCmd(a, f),
		newRulesSetsCmd(a, f),
		newRulesCheckCmd(a),
	)
	return cmd
}

// openStore opens the SQLite store named by --db or the db setting, or a
// fresh memory store when neither is set.
func (a *app) openStore(f *rulesFlags) (store.Store, error) {
	path := f.db
	if path == "" {
		path = a.settings.String("db", "")
	}
	if path == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewSQLiteStore(path)
}

func (a *app) withStore(f *rulesFlags, fn func(store.Store) error) (err error) {
	s, err := a.openStore(f)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()
	return fn(s)
}

func newRulesAddCmd(a *app, f *rulesFlags) *cobra.Command {
	var description, msg string

	cmd := &cobra.Command{
		Use:   "add NAME EXPR",
		Short: "Compile and store a rule, replacing one with the same name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, expr := args[0], args[1]
			if _, err := a.engine.Compile(cmd.Context(), expr); err != nil {
				return err
			}

			return a.withStore(f, func(s store.Store) error {
				err := s.Save(f.set, store.Entry{
					Name:        name,
					Expression:  expr,
					Description: description,
					Message:     msg,
				})
				if err != nil {
					return err
				}
				saved, err := s.Load(f.set, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s/%s %s\n", f.set, saved.Name, saved.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "rule description")
	cmd.Flags().StringVarP(&msg, "message", "m", "", "message shown on match; ${name} is filled from constants")
	return cmd
}

func newRulesListCmd(a *app, f *rulesFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the rules of a set in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.withStore(f, func(s store.Store) error {
				entries, err := s.List(f.set)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tEXPRESSION\tDESCRIPTION")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Expression, e.Description)
				}
				return tw.Flush()
			})
		},
	}
}

func newRulesRemoveCmd(a *app, f *rulesFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"remove"},
		Short:   "Remove a rule from a set",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.withStore(f, func(s store.Store) error {
				if _, err := s.Load(f.set, args[0]); err != nil {
					return err
				}
				return s.Delete(f.set, args[0])
			})
		},
	}
}

func newRulesSetsCmd(a *app, f *rulesFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "List stored rule set names",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.withStore(f, func(s store.Store) error {
				sets, err := s.Sets()
				if err != nil {
					return err
				}
				for _, name := range sets {
					fmt.Fprintln(a.out, name)
				}
				return nil
			})
		},
	}
}

func newRulesImportCmd(a *app, f *rulesFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Store every rule of a ruleset file",
		Long: `import replaces a stored set with the rules of FILE. The set is named by
--set when given, otherwise by the file's name field or base name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := ruleset.Load(args[0], a.rulesetOptions(nil)...)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("set") {
				rs, err = ruleset.New(f.set, rs.Rules(), a.rulesetOptions(nil)...)
				if err != nil {
					return err
				}
			}

			return a.withStore(f, func(s store.Store) error {
				if err := rs.Save(s); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "imported %d rules into %s\n", rs.Len(), rs.Name())
				return nil
			})
		},
	}
}

func newRulesRunCmd(a *app, f *rulesFlags) *cobra.Command {
	var (
		assignments []string
		file        string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate every rule of a stored set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			consts, err := a.constants(file, assignments)
			if err != nil {
				return err
			}

			var rs *ruleset.Ruleset
			err = a.withStore(f, func(s store.Store) error {
				rs, err = ruleset.FromStore(s, f.set, a.rulesetOptions(consts.Raw())...)
				return err
			})
			if err != nil {
				return err
			}
			return a.report(rs.Evaluate(cmd.Context(), nil), asJSON)
		},
	}
	constantFlags(cmd, &assignments, &file)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func newRulesCheckCmd(a *app) *cobra.Command {
	var (
		assignments []string
		file        string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "check RULESET",
		Short: "Compile and evaluate a ruleset file",
		Example: `  rulekit rules check pricing.yaml -c total=250
  rulekit rules check --json policies.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			consts, err := a.constants(file, assignments)
			if err != nil {
				return err
			}

			rs, err := ruleset.Load(args[0], a.rulesetOptions(consts.Raw())...)
			if err != nil {
				return err
			}
			return a.report(rs.Evaluate(cmd.Context(), nil), asJSON)
		},
	}
	constantFlags(cmd, &assignments, &file)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func (a *app) rulesetOptions(consts map[string]any) []ruleset.Option {
	return []ruleset.Option{
		ruleset.WithEngine(a.engine),
		ruleset.WithLogger(a.logger),
		ruleset.WithConstants(consts),
		ruleset.WithTracing(a.settings.Bool("tracing", false)),
	}
}

// resultJSON is the --json shape of one rule result.
type resultJSON struct {
	Rule    string `json:"rule"`
	Matched bool   `json:"matched"`
	Value   any    `json:"value"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// report prints one line per result and returns the failures joined, so a
// failing rule sets the evaluation exit code.
func (a *app) report(results []ruleset.Result, asJSON bool) error {
	var errs []error
	out := make([]resultJSON, 0, len(results))
	for _, r := range results {
		row := resultJSON{Rule: r.Rule.Name, Matched: r.Matched(), Value: r.Value, Message: r.Message}
		if r.Err != nil {
			errs = append(errs, r.Err)
			row.Error = r.Err.Error()
			row.Value = nil
		}
		out = append(out, row)
	}

	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, row := range out {
			switch {
			case row.Error != "":
				fmt.Fprintf(tw, "%s\terror\t%s\n", row.Rule, row.Error)
			case row.Matched:
				fmt.Fprintf(tw, "%s\tmatch\t%v\t%s\n", row.Rule, row.Value, row.Message)
			default:
				fmt.Fprintf(tw, "%s\t-\t%v\n", row.Rule, row.Value)
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}
