package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/rulekit/pkg/rulekit"
	"github.com/randalmurphal/rulekit/pkg/rulekit/ast"
)

func newEvalCmd(a *app) *cobra.Command {
	var (
		assignments []string
		file        string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "eval EXPR",
		Short: "Evaluate an expression",
		Example: `  rulekit eval '1 + 2 * 3'
  rulekit eval -c total=120 'total > 100 ? "big" : "small"'
  rulekit eval -f constants.yaml --json 'price * quantity'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.constants(file, assignments)
			if err != nil {
				return err
			}

			v, err := a.engine.Evaluate(cmd.Context(), args[0], env)
			if err != nil {
				return err
			}
			return printValue(a.out, v, asJSON)
		},
	}
	constantFlags(cmd, &assignments, &file)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON with its kind")
	return cmd
}

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens EXPR",
		Short: "Print the tokens of an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return printTokens(a.out, args[0])
		},
	}
}

func newASTCmd(a *app) *cobra.Command {
	var names bool

	cmd := &cobra.Command{
		Use:   "ast EXPR",
		Short: "Print the canonical syntax tree of an expression",
		Long: `ast prints the expression fully parenthesized, which shows how operator
precedence and ternary nesting were resolved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return printAST(a.out, args[0], names)
		},
	}
	cmd.Flags().BoolVar(&names, "names", false, "also list the names the expression reads")
	return cmd
}

// valueJSON is the --json shape of a result.
type valueJSON struct {
	Kind  string        `json:"kind"`
	Value rulekit.Value `json:"value"`
}

func printValue(w io.Writer, v rulekit.Value, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(valueJSON{Kind: v.Kind().String(), Value: v})
	}
	_, err := fmt.Fprintln(w, v.String())
	return err
}

func printTokens(w io.Writer, text string) error {
	tokens, err := rulekit.Tokenize(text)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		if tok.Text == "" {
			fmt.Fprintf(w, "%4d  %s\n", tok.Offset, tok.Kind)
			continue
		}
		fmt.Fprintf(w, "%4d  %-18s %q\n", tok.Offset, tok.Kind, tok.Text)
	}
	return nil
}

func printAST(w io.Writer, text string, names bool) error {
	node, err := rulekit.Parse(text)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, node.String())
	if names {
		for _, n := range ast.Names(node) {
			fmt.Fprintf(w, "  %s\n", n)
		}
	}
	return nil
}
