// Package diag defines the error taxonomy shared by the lexer, parser and
// interpreter.
//
// Every failure is reachable through errors.Is on one of the sentinel
// errors below. The structured types carry position and operand details for
// messages and are reachable through errors.As.
package diag

import (
	"errors"
	"fmt"
)

// Sentinel errors for lexing.
var (
	// ErrUnexpectedCharacter indicates input matching no token rule.
	ErrUnexpectedCharacter = errors.New("unexpected character")
)

// Sentinel errors for parsing.
var (
	// ErrUnexpectedEndOfInput indicates the input ended while a token was required.
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")

	// ErrUnexpectedToken indicates a token that cannot start or continue the current rule.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrUnmatchedParenthesis indicates an opening parenthesis that was never closed.
	ErrUnmatchedParenthesis = errors.New("unmatched parenthesis")

	// ErrMissingTernaryElse indicates a '?' without its ':' else branch.
	ErrMissingTernaryElse = errors.New("missing ternary else branch")
)

// Sentinel errors for evaluation.
var (
	// ErrUnknownOperator indicates a binary node whose operator is not recognized.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrUnknownNodeType indicates a node variant the interpreter cannot evaluate.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrTypeMismatch indicates operands that cannot be coerced for an operation.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrDivisionByZero indicates a division whose divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// LexError reports input that matched no token rule.
type LexError struct {
	// Offset is the byte offset of the first unmatched character.
	Offset int
	// Remaining is the unscanned rest of the input starting at Offset.
	Remaining string
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("unexpected %q at position %d", e.Remaining, e.Offset)
}

// Unwrap returns ErrUnexpectedCharacter for errors.Is support.
func (e *LexError) Unwrap() error {
	return ErrUnexpectedCharacter
}

// SyntaxError reports a grammar violation found while parsing.
type SyntaxError struct {
	// Err is one of the parsing sentinels.
	Err error
	// Message describes the failure in words.
	Message string
	// Token describes the offending token, empty at end of input.
	Token string
	// Offset is the source offset of the offending token, or -1 when unknown.
	Offset int
}

// NewSyntaxError creates a SyntaxError.
func NewSyntaxError(sentinel error, message, token string, offset int) *SyntaxError {
	return &SyntaxError{
		Err:     sentinel,
		Message: message,
		Token:   token,
		Offset:  offset,
	}
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Err.Error()
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("syntax error: %s around position %d", msg, e.Offset)
	}
	return fmt.Sprintf("syntax error: %s", msg)
}

// Unwrap returns the sentinel for errors.Is support.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// EvalError wraps an evaluation failure with the operation that caused it.
type EvalError struct {
	// Op is the operator or node being evaluated (e.g. "<", "name age").
	Op string
	// Detail adds operand information, may be empty.
	Detail string
	// Err is the underlying error, usually an evaluation sentinel.
	Err error
}

// NewEvalError creates an EvalError.
func NewEvalError(op string, err error, detail string) *EvalError {
	return &EvalError{Op: op, Detail: detail, Err: err}
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("evaluate %s: %v: %s", e.Op, e.Err, e.Detail)
	}
	return fmt.Sprintf("evaluate %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *EvalError) Unwrap() error {
	return e.Err
}
