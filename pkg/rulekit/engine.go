package rulekit

import (
	"context"
	"time"

	"github.com/randalmurphal/rulekit/pkg/rulekit/ast"
	"github.com/randalmurphal/rulekit/pkg/rulekit/interp"
	"github.com/randalmurphal/rulekit/pkg/rulekit/lexer"
	"github.com/randalmurphal/rulekit/pkg/rulekit/observability"
	"github.com/randalmurphal/rulekit/pkg/rulekit/parser"
	"github.com/randalmurphal/rulekit/pkg/rulekit/registry"
	"github.com/randalmurphal/rulekit/pkg/rulekit/token"
	"github.com/randalmurphal/rulekit/pkg/rulekit/value"
)

// Engine compiles and evaluates expressions. An Engine is safe for
// concurrent use.
type Engine struct {
	cfg      engineConfig
	programs *registry.Registry[string, *Program]
}

// New creates an Engine with the given options.
func New(opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{cfg: cfg}
	if cfg.cacheEnabled {
		e.programs = registry.New[string, *Program](registry.WithCapacity(cfg.cacheSize))
	}
	return e
}

// Compile lexes and parses source into a Program. With a program cache
// configured, a previously compiled Program for the same source is reused.
func (e *Engine) Compile(ctx context.Context, source string) (*Program, error) {
	if e.programs == nil {
		return e.compile(ctx, source)
	}

	prog, cached, err := e.programs.GetOrCreate(source, func() (*Program, error) {
		return e.compile(ctx, source)
	})
	e.cfg.metrics.RecordCacheLookup(ctx, cached)
	if cached {
		observability.LogCacheHit(e.cfg.logger, source)
	}
	return prog, err
}

// compile runs the front end once, observed.
func (e *Engine) compile(ctx context.Context, source string) (prog *Program, err error) {
	start := time.Now()
	ctx, span := e.cfg.spans.StartCompileSpan(ctx, source)
	defer func() {
		e.cfg.spans.EndSpanWithError(span, err)
		duration := time.Since(start)
		e.cfg.metrics.RecordCompile(ctx, duration, err)
		observability.LogCompile(e.cfg.logger, source, float64(duration.Microseconds())/1000, err)
	}()

	root, err := parse(source)
	if err != nil {
		return nil, err
	}
	return newProgram(e, source, root), nil
}

// Evaluate compiles source and evaluates it against env. A nil env leaves
// every name unbound.
func (e *Engine) Evaluate(ctx context.Context, source string, env interp.Env) (value.Value, error) {
	return e.observe(ctx, source, func(ctx context.Context) (value.Value, error) {
		prog, err := e.Compile(ctx, source)
		if err != nil {
			return value.Value{}, err
		}
		return interp.Evaluate(prog.root, env)
	})
}

// EvaluateNode evaluates an already built tree against env.
func (e *Engine) EvaluateNode(ctx context.Context, node ast.Node, env interp.Env) (value.Value, error) {
	source := "<nil>"
	if node != nil {
		source = node.String()
	}
	return e.observe(ctx, source, func(context.Context) (value.Value, error) {
		return interp.Evaluate(node, env)
	})
}

// CachedPrograms returns the number of cached programs, zero when the
// cache is disabled.
func (e *Engine) CachedPrograms() int {
	if e.programs == nil {
		return 0
	}
	return e.programs.Len()
}

// ResetCache drops every cached program.
func (e *Engine) ResetCache() {
	if e.programs != nil {
		e.programs.Clear()
	}
}

// observe wraps one evaluation in a span, a metric sample and log records.
func (e *Engine) observe(ctx context.Context, source string, fn func(context.Context) (value.Value, error)) (result value.Value, err error) {
	start := time.Now()
	observability.LogEvaluateStart(e.cfg.logger, source)

	ctx, span := e.cfg.spans.StartEvaluateSpan(ctx, source)
	defer func() {
		e.cfg.spans.EndSpanWithError(span, err)
		duration := time.Since(start)
		e.cfg.metrics.RecordEvaluation(ctx, duration, err)

		durationMs := float64(duration.Microseconds()) / 1000
		if err != nil {
			observability.LogEvaluateError(e.cfg.logger, source, err, durationMs)
			return
		}
		observability.LogEvaluateComplete(e.cfg.logger, source, durationMs, result.String())
	}()

	return fn(ctx)
}

// parse runs the lexer and parser over source.
func parse(source string) (ast.Node, error) {
	s, err := token.NewStream(lexer.Tokenize(source))
	if err != nil {
		return nil, err
	}
	return parser.Parse(s)
}
