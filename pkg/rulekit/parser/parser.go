// Package parser builds a syntax tree from a token stream using precedence
// climbing, extended with a right-associative ternary operator.
package parser

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/rulekit/pkg/rulekit/ast"
	"github.com/randalmurphal/rulekit/pkg/rulekit/diag"
	"github.com/randalmurphal/rulekit/pkg/rulekit/lexer"
	"github.com/randalmurphal/rulekit/pkg/rulekit/token"
)

// parser holds the stream being consumed.
type parser struct {
	s *token.Stream
}

// Parse parses exactly one expression from s. Tokens left over after the
// expression are an error.
func Parse(s *token.Stream) (ast.Node, error) {
	p := &parser{s: s}

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if tok, ok := s.Current(); ok {
		return nil, diag.NewSyntaxError(diag.ErrUnexpectedToken,
			fmt.Sprintf("unexpected token %s after end of expression", tok), tok.String(), tok.Offset)
	}
	return node, nil
}

// ParseString tokenizes and parses text.
func ParseString(text string) (ast.Node, error) {
	s, err := token.NewStream(lexer.Tokenize(text))
	if err != nil {
		return nil, err
	}
	return Parse(s)
}

// parseExpression parses a primary operand, folds every following binary
// operator that binds at least as tightly as minPrecedence, then applies the
// ternary extension.
func (p *parser) parseExpression(minPrecedence int) (ast.Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.s.Current()
		if !ok || !isBinaryOperator(tok) {
			break
		}
		op := binaryOperators[tok.Text]
		if op.Precedence < minPrecedence {
			break
		}
		if err := p.s.Advance(); err != nil {
			return nil, err
		}

		next := op.Precedence
		if op.Associativity == LeftAssociative {
			next++
		}
		right, err := p.parseExpression(next)
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Operator: tok.Text, Left: expr, Right: right}
	}

	return p.parseTernary(expr, minPrecedence)
}

// parseTernary wraps cond in ternary nodes while a '?' follows and the
// ternary binds at least as tightly as minPrecedence. Branches re-enter at
// the ternary's own precedence, which makes nesting right-associative.
func (p *parser) parseTernary(cond ast.Node, minPrecedence int) (ast.Node, error) {
	for {
		tok, ok := p.s.Current()
		if !ok || tok.Kind != token.QuestionMark || ternaryOperator.Precedence < minPrecedence {
			return cond, nil
		}
		if err := p.s.Advance(); err != nil {
			return nil, err
		}

		// "cond ?: else" omits the then branch.
		var then ast.Node
		if cur, ok := p.s.Current(); !ok || cur.Kind != token.Colon {
			var err error
			then, err = p.parseExpression(ternaryOperator.Precedence)
			if err != nil {
				return nil, err
			}
		}

		if err := p.expect(token.Colon, diag.ErrMissingTernaryElse, "ternary else expected"); err != nil {
			return nil, err
		}

		els, err := p.parseExpression(ternaryOperator.Precedence)
		if err != nil {
			return nil, err
		}

		cond = &ast.Ternary{Condition: cond, Then: then, Else: els}
	}
}

// parsePrimary parses a parenthesized expression or a single operand.
func (p *parser) parsePrimary() (ast.Node, error) {
	tok, ok := p.s.Current()
	if !ok {
		return nil, diag.NewSyntaxError(diag.ErrUnexpectedEndOfInput,
			"unexpected end of input, expression expected", "", -1)
	}

	if tok.Kind == token.OpenParen {
		if err := p.s.Advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.CloseParen, diag.ErrUnmatchedParenthesis,
			"an opened parenthesis is not properly closed"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return p.parsePrimaryExpression(tok)
}

// parsePrimaryExpression turns a single operand token into a leaf node.
func (p *parser) parsePrimaryExpression(tok token.Token) (ast.Node, error) {
	var node ast.Node
	switch tok.Kind {
	case token.Identifier:
		if isOperatorWord(tok.Text) {
			return nil, unexpected(tok)
		}
		node = &ast.Name{Identifier: tok.Text}
	case token.Number:
		node = &ast.Number{Literal: tok.Text}
	case token.String:
		node = &ast.String{Literal: tok.Text}
	default:
		return nil, unexpected(tok)
	}

	if err := p.s.Advance(); err != nil {
		return nil, err
	}
	return node, nil
}

// expect consumes a token of the given kind, reporting a mismatch or end of
// input under sentinel. Lexical errors pass through unchanged.
func (p *parser) expect(kind token.Kind, sentinel error, message string) error {
	err := p.s.Expect(kind, "", "")
	if err == nil {
		return nil
	}

	var synErr *diag.SyntaxError
	if !errors.As(err, &synErr) {
		return err
	}
	got := synErr.Token
	if got == "" {
		got = "end of input"
	}
	return diag.NewSyntaxError(sentinel, fmt.Sprintf("%s, got %s", message, got), synErr.Token, synErr.Offset)
}

func unexpected(tok token.Token) error {
	return diag.NewSyntaxError(diag.ErrUnexpectedToken,
		fmt.Sprintf("unexpected token %s", tok), tok.String(), tok.Offset)
}
