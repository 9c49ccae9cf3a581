// Package rulekit evaluates small boolean and arithmetic rule expressions
// against a table of named constants.
//
// An expression such as
//
//	age >= 18 and country = "NL" ? "adult" : "minor"
//
// is lexed into tokens, parsed into a syntax tree with precedence climbing,
// and evaluated by a tree-walking interpreter. Names absent from the
// constants evaluate to null, and every comparison against null is false.
//
// # Quick Start
//
//	v, err := rulekit.Evaluate(`price * qty > 100`, map[string]any{
//	    "price": 25,
//	    "qty":   5,
//	})
//	// v.Truthy() == true
//
// # Engines and Programs
//
// An Engine compiles expressions into immutable Programs, optionally caching
// them by source text, and observes every compile and evaluation:
//
//	engine := rulekit.New(
//	    rulekit.WithLogger(logger),
//	    rulekit.WithMetrics(true),
//	    rulekit.WithTracing(true),
//	    rulekit.WithProgramCache(512),
//	)
//	prog, err := engine.Compile(ctx, `tier = "gold" ?: discount`)
//	v, err := prog.Evaluate(ctx, rulekit.Vars{"tier": "gold"})
//
// Programs are safe for concurrent use.
//
// # Operators
//
// From loosest to tightest binding:
//
//	?:                     ternary, right-associative (also "a ?: b")
//	or OR ||               logical or
//	and AND &&             logical and
//	= != <> < > <= >=      comparison
//	+ -                    additive
//	* /                    multiplicative
//
// Logical operators always evaluate both operands and yield a bool.
// Arithmetic coerces operands to numbers; integer results stay integers
// unless they overflow or a division is inexact. Division by zero is an
// error, as is ordering values of unrelated types.
//
// # Errors
//
// Failures wrap the sentinels re-exported here (ErrUnexpectedCharacter,
// ErrUnmatchedParenthesis, ErrDivisionByZero, ...) and can be tested with
// errors.Is. CategoryOf reports whether an error is lexical, syntactic, or
// arose during evaluation.
//
// # Subpackages
//
//   - lexer, token, parser, ast: the front end
//   - value, interp: dynamic values and the interpreter
//   - ruleset, store: named rule collections and their persistence
//   - message: ${name} rendering of rule messages
//   - registry: the bounded cache behind WithProgramCache
//   - config: YAML, JSON and TOML settings and constant tables
//   - observability: slog helpers, OpenTelemetry metrics and tracing
package rulekit
