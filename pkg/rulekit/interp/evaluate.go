// Package interp evaluates syntax trees against an environment of named
// constants.
//
// Evaluation rules:
//   - Unbound names are null, never an error
//   - Both operands of a binary operator are always evaluated
//   - Only the selected branch of a ternary is evaluated
//   - Comparisons against null are false, including '=' and '!='
package interp

import (
	"fmt"

	"github.com/randalmurphal/rulekit/pkg/rulekit/ast"
	"github.com/randalmurphal/rulekit/pkg/rulekit/diag"
	"github.com/randalmurphal/rulekit/pkg/rulekit/value"
)

// Evaluate computes the value of node. A nil env leaves every name unbound.
func Evaluate(node ast.Node, env Env) (value.Value, error) {
	switch n := node.(type) {
	case *ast.Name:
		return evaluateName(n, env)
	case *ast.Number:
		v, err := value.ParseNumber(n.Literal)
		if err != nil {
			return value.Value{}, diag.NewEvalError("number", err, "")
		}
		return v, nil
	case *ast.String:
		return value.String(n.Literal), nil
	case *ast.Binary:
		return evaluateBinary(n, env)
	case *ast.Ternary:
		return evaluateTernary(n, env)
	default:
		return value.Value{}, diag.NewEvalError("node", diag.ErrUnknownNodeType, fmt.Sprintf("%T", node))
	}
}

func evaluateName(n *ast.Name, env Env) (value.Value, error) {
	if env == nil {
		return value.Null(), nil
	}
	x, ok := env.Lookup(n.Identifier)
	if !ok {
		return value.Null(), nil
	}
	v, err := value.FromAny(x)
	if err != nil {
		return value.Value{}, diag.NewEvalError("name "+n.Identifier, err, "")
	}
	return v, nil
}

func evaluateBinary(n *ast.Binary, env Env) (value.Value, error) {
	left, err := Evaluate(n.Left, env)
	if err != nil {
		return value.Value{}, err
	}
	right, err := Evaluate(n.Right, env)
	if err != nil {
		return value.Value{}, err
	}

	return Apply(n.Operator, left, right)
}

func evaluateTernary(n *ast.Ternary, env Env) (value.Value, error) {
	cond, err := Evaluate(n.Condition, env)
	if err != nil {
		return value.Value{}, err
	}
	if cond.Truthy() {
		if n.Then == nil {
			return cond, nil
		}
		return Evaluate(n.Then, env)
	}
	return Evaluate(n.Else, env)
}
