package rulekit

import "github.com/randalmurphal/rulekit/pkg/rulekit/diag"

// Sentinel errors, re-exported from package diag for errors.Is checks.
var (
	// ErrUnexpectedCharacter indicates input the lexer cannot tokenize.
	ErrUnexpectedCharacter = diag.ErrUnexpectedCharacter

	// ErrUnexpectedEndOfInput indicates the input ended mid-expression.
	ErrUnexpectedEndOfInput = diag.ErrUnexpectedEndOfInput

	// ErrUnexpectedToken indicates a token in a position it cannot occupy.
	ErrUnexpectedToken = diag.ErrUnexpectedToken

	// ErrUnmatchedParenthesis indicates an unclosed '('.
	ErrUnmatchedParenthesis = diag.ErrUnmatchedParenthesis

	// ErrMissingTernaryElse indicates a '?' without ':'.
	ErrMissingTernaryElse = diag.ErrMissingTernaryElse

	// ErrUnknownOperator indicates an operator the interpreter does not know.
	ErrUnknownOperator = diag.ErrUnknownOperator

	// ErrUnknownNodeType indicates a tree node the interpreter does not know.
	ErrUnknownNodeType = diag.ErrUnknownNodeType

	// ErrTypeMismatch indicates operands that cannot be coerced.
	ErrTypeMismatch = diag.ErrTypeMismatch

	// ErrDivisionByZero indicates a zero divisor.
	ErrDivisionByZero = diag.ErrDivisionByZero
)

// Error categories, re-exported from package diag.
const (
	CategoryUnknown    = diag.CategoryUnknown
	CategoryLexical    = diag.CategoryLexical
	CategorySyntax     = diag.CategorySyntax
	CategoryEvaluation = diag.CategoryEvaluation
)
