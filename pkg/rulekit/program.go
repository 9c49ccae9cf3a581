package rulekit

import (
	"context"

	"github.com/randalmurphal/rulekit/pkg/rulekit/ast"
	"github.com/randalmurphal/rulekit/pkg/rulekit/interp"
	"github.com/randalmurphal/rulekit/pkg/rulekit/value"
)

// Program is a compiled expression. It is immutable and may be evaluated
// concurrently against different environments.
type Program struct {
	engine *Engine
	source string
	root   ast.Node
	names  []string
}

func newProgram(e *Engine, source string, root ast.Node) *Program {
	return &Program{
		engine: e,
		source: source,
		root:   root,
		names:  ast.Names(root),
	}
}

// Source returns the text the program was compiled from.
func (p *Program) Source() string { return p.source }

// Root returns the syntax tree. Callers must not modify it.
func (p *Program) Root() ast.Node { return p.root }

// Names returns the distinct names the expression references, in order of
// first use.
func (p *Program) Names() []string {
	return append([]string(nil), p.names...)
}

// String returns the canonical, fully parenthesized form of the expression.
func (p *Program) String() string { return p.root.String() }

// Evaluate evaluates the program against env, observed by the engine that
// compiled it.
func (p *Program) Evaluate(ctx context.Context, env interp.Env) (value.Value, error) {
	return p.engine.observe(ctx, p.source, func(context.Context) (value.Value, error) {
		return interp.Evaluate(p.root, env)
	})
}
