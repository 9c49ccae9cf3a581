package diag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexError(t *testing.T) {
	err := &LexError{Offset: 4, Remaining: "# 1"}

	assert.Equal(t, `unexpected "# 1" at position 4`, err.Error())
	assert.ErrorIs(t, err, ErrUnexpectedCharacter)
}

func TestSyntaxError(t *testing.T) {
	t.Run("with offset", func(t *testing.T) {
		err := NewSyntaxError(ErrUnexpectedToken, `unexpected token CloseParen`, "CloseParen", 3)
		assert.Equal(t, "syntax error: unexpected token CloseParen around position 3", err.Error())
		assert.ErrorIs(t, err, ErrUnexpectedToken)
	})

	t.Run("without offset falls back to sentinel text", func(t *testing.T) {
		err := NewSyntaxError(ErrUnexpectedEndOfInput, "", "", -1)
		assert.Equal(t, "syntax error: unexpected end of input", err.Error())
		assert.ErrorIs(t, err, ErrUnexpectedEndOfInput)
	})
}

func TestEvalError(t *testing.T) {
	err := NewEvalError("/", ErrDivisionByZero, "")
	assert.Equal(t, "evaluate /: division by zero", err.Error())
	assert.ErrorIs(t, err, ErrDivisionByZero)

	err = NewEvalError("<", ErrTypeMismatch, "string and bool")
	assert.Equal(t, "evaluate <: type mismatch: string and bool", err.Error())

	var target *EvalError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &target))
	assert.Equal(t, "<", target.Op)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, CategoryUnknown},
		{"lex error", &LexError{Offset: 0, Remaining: "#"}, CategoryLexical},
		{"syntax error", NewSyntaxError(ErrUnmatchedParenthesis, "", "", -1), CategorySyntax},
		{"wrapped syntax sentinel", fmt.Errorf("parse: %w", ErrMissingTernaryElse), CategorySyntax},
		{"eval error", NewEvalError("+", ErrTypeMismatch, ""), CategoryEvaluation},
		{"bare eval sentinel", ErrUnknownNodeType, CategoryEvaluation},
		{"foreign error", errors.New("boom"), CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.err))
		})
	}
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "lexical", CategoryLexical.String())
	assert.Equal(t, "syntax", CategorySyntax.String())
	assert.Equal(t, "evaluation", CategoryEvaluation.String())
	assert.Equal(t, "unknown", CategoryUnknown.String())
	assert.Equal(t, "unknown", Category(42).String())
}
