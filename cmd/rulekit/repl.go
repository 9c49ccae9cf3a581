package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/rulekit/pkg/rulekit/config"
)

const replHelp = `Enter an expression to evaluate it. Commands:
  :tokens EXPR      print the tokens of EXPR
  :ast EXPR         print the syntax tree of EXPR
  :set name=value   bind a constant for later lines
  :vars             list bound constants
  :help             show this help
  :quit             leave`

// lineReader reads one trimmed, non-blank line at a time. At end of input
// it returns io.EOF.
type lineReader interface {
	ReadLine() (string, error)
	Close() error
}

// directReader reads lines from any stream without editing support.
type directReader struct {
	r *bufio.Reader
}

func newDirectReader(r io.Reader) *directReader {
	return &directReader{r: bufio.NewReader(r)}
}

func (d *directReader) ReadLine() (string, error) {
	for {
		line, err := d.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
}

func (d *directReader) Close() error { return nil }

// interactiveReader reads lines through readline, giving the user line
// editing and history.
type interactiveReader struct {
	rl *readline.Instance
}

func newInteractiveReader(a *app) (*interactiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "rulekit> ",
		HistoryFile:     a.settings.String("history_file", ""),
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
		Stdout:          a.out,
		Stderr:          a.errOut,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline: %w", err)
	}
	return &interactiveReader{rl: rl}, nil
}

func (i *interactiveReader) ReadLine() (string, error) {
	for {
		line, err := i.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
}

func (i *interactiveReader) Close() error { return i.rl.Close() }

func newREPLCmd(a *app) *cobra.Command {
	var (
		assignments []string
		file        string
		direct      bool
	)

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions interactively",
		Long: `repl reads expressions line by line and prints each result. Errors are
reported and the session continues. Use --direct when input is piped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			consts, err := a.constants(file, assignments)
			if err != nil {
				return err
			}

			var r lineReader
			if direct {
				r = newDirectReader(a.in)
			} else {
				ir, err := newInteractiveReader(a)
				if err != nil {
					return err
				}
				r = ir
			}
			defer r.Close()

			return a.repl(cmd.Context(), r, consts)
		},
	}
	constantFlags(cmd, &assignments, &file)
	cmd.Flags().BoolVar(&direct, "direct", false, "read plain lines from stdin without line editing")
	return cmd
}

// repl runs the read-evaluate-print loop until :quit or end of input.
func (a *app) repl(ctx context.Context, r lineReader, consts config.Config) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case ":quit", ":q", ":exit":
			return nil
		case ":help":
			fmt.Fprintln(a.out, replHelp)
		case ":tokens":
			a.replReport(printTokens(a.out, rest))
		case ":ast":
			a.replReport(printAST(a.out, rest, false))
		case ":set":
			vars, err := config.ParseAssignments(strings.Fields(rest))
			if err != nil {
				a.replReport(err)
				continue
			}
			consts = consts.Merge(config.New(vars))
		case ":vars":
			for _, name := range slices.Sorted(maps.Keys(consts.Raw())) {
				fmt.Fprintf(a.out, "%s = %v\n", name, consts.Raw()[name])
			}
		default:
			if strings.HasPrefix(cmd, ":") {
				fmt.Fprintf(a.out, "unknown command %s, try :help\n", cmd)
				continue
			}
			v, err := a.engine.Evaluate(ctx, line, consts)
			if err != nil {
				a.replReport(err)
				continue
			}
			fmt.Fprintln(a.out, v.GoString())
		}
	}
}

func (a *app) replReport(err error) {
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
	}
}
