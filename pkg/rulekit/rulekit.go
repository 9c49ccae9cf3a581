package rulekit

import (
	"context"

	"github.com/randalmurphal/rulekit/pkg/rulekit/ast"
	"github.com/randalmurphal/rulekit/pkg/rulekit/diag"
	"github.com/randalmurphal/rulekit/pkg/rulekit/interp"
	"github.com/randalmurphal/rulekit/pkg/rulekit/lexer"
	"github.com/randalmurphal/rulekit/pkg/rulekit/token"
	"github.com/randalmurphal/rulekit/pkg/rulekit/value"
)

type (
	// Value is the dynamically typed result of an evaluation.
	Value = value.Value

	// Env resolves names during evaluation.
	Env = interp.Env

	// Vars is an Env backed by a map of constants.
	Vars = interp.Vars

	// Category classifies errors by the stage that produced them.
	Category = diag.Category
)

// defaultEngine backs the package-level functions: no observability and a
// bounded program cache.
var defaultEngine = New(WithProgramCache(256))

// Evaluate evaluates text against constants using the default engine.
//
// Example:
//
//	v, err := rulekit.Evaluate(`variable = "string"`, map[string]any{"variable": "string"})
func Evaluate(text string, constants map[string]any) (Value, error) {
	return defaultEngine.Evaluate(context.Background(), text, interp.Vars(constants))
}

// Compile compiles text with the default engine.
func Compile(text string) (*Program, error) {
	return defaultEngine.Compile(context.Background(), text)
}

// Tokenize returns every token of text.
func Tokenize(text string) ([]token.Token, error) {
	return lexer.Collect(text)
}

// Parse lexes and parses text into a syntax tree.
func Parse(text string) (ast.Node, error) {
	return parse(text)
}

// CategoryOf reports which stage produced err.
func CategoryOf(err error) Category {
	return diag.Categorize(err)
}
