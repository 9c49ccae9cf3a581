// Package lexer scans rule source text into a lazy sequence of tokens.
//
// Tokens are produced one at a time as the caller pulls them, left to right.
// At each position the first matching rule wins, in this order: double-quoted
// string, boolean operator (AND, OR, &&, ||), identifier, number (comma
// decimal separator), math operator, comparison operator, and the
// punctuation characters ( ) ? :. Tabs, carriage returns and newlines are
// treated as spaces, and spaces separate tokens.
package lexer

import (
	"errors"
	"io"
	"iter"
	"strings"

	"github.com/randalmurphal/rulekit/pkg/rulekit/diag"
	"github.com/randalmurphal/rulekit/pkg/rulekit/token"
)

var whitespace = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// Lexer is a pull-based scanner. It implements token.Source.
// A Lexer is single-pass: once exhausted or failed it keeps returning the
// same terminal error.
type Lexer struct {
	input string
	pos   int

	last    token.Token
	hasLast bool

	err error
}

// Compile-time interface check.
var _ token.Source = (*Lexer)(nil)

// New creates a lexer over input.
func New(input string) *Lexer {
	return &Lexer{input: whitespace.Replace(input)}
}

// Tokenize returns a lazy token sequence over input. Nothing is scanned until
// the first call to Next.
func Tokenize(input string) *Lexer {
	return New(input)
}

// Collect scans the whole input and returns every token.
func Collect(input string) ([]token.Token, error) {
	var tokens []token.Token
	for tok, err := range New(input).All() {
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Next returns the next token, io.EOF at the end of input, or a
// *diag.LexError when the input at the cursor matches no rule.
func (l *Lexer) Next() (token.Token, error) {
	if l.err != nil {
		return token.Token{}, l.err
	}

	for l.pos < len(l.input) && l.input[l.pos] == ' ' {
		l.pos++
	}
	if l.pos >= len(l.input) {
		l.err = io.EOF
		return token.Token{}, l.err
	}

	tok, n, ok := l.scan()
	if !ok {
		l.err = &diag.LexError{Offset: l.pos, Remaining: l.input[l.pos:]}
		return token.Token{}, l.err
	}

	tok.Offset = l.pos
	l.pos += n
	l.last, l.hasLast = tok, true
	return tok, nil
}

// All returns the remaining tokens as a range-over-func sequence. A lexical
// error is yielded once as the final pair.
func (l *Lexer) All() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		for {
			tok, err := l.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(token.Token{}, err)
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// scan matches the rules in order at the cursor and returns the token and
// the number of bytes it spans.
func (l *Lexer) scan() (token.Token, int, bool) {
	rest := l.input[l.pos:]
	c := rest[0]

	if c == '"' {
		if n := scanString(rest); n > 0 {
			return token.New(token.String, unescape(rest[1:n-1])), n, true
		}
	}

	if n := scanBooleanOperator(rest); n > 0 {
		return token.New(token.BooleanOperator, rest[:n]), n, true
	}

	if isIdentStart(c) {
		n := 1
		for n < len(rest) && isIdentPart(rest[n]) {
			n++
		}
		return token.New(token.Identifier, rest[:n]), n, true
	}

	if n := scanNumber(rest, l.signAllowed()); n > 0 {
		return token.New(token.Number, rest[:n]), n, true
	}

	switch c {
	case '+', '-', '*', '/':
		return token.New(token.MathOperator, rest[:1]), 1, true
	}

	if text, n := scanComparison(rest); n > 0 {
		return token.New(token.ComparisonOperator, text), n, true
	}

	switch c {
	case '(':
		return token.New(token.OpenParen, ""), 1, true
	case ')':
		return token.New(token.CloseParen, ""), 1, true
	case '?':
		return token.New(token.QuestionMark, ""), 1, true
	case ':':
		return token.New(token.Colon, ""), 1, true
	}

	return token.Token{}, 0, false
}

// signAllowed reports whether a '-' at the cursor may start a negative
// number: only where an operand is expected.
func (l *Lexer) signAllowed() bool {
	if !l.hasLast {
		return true
	}
	switch l.last.Kind {
	case token.BooleanOperator, token.MathOperator, token.ComparisonOperator,
		token.OpenParen, token.QuestionMark, token.Colon:
		return true
	case token.Identifier:
		return l.last.Text == "and" || l.last.Text == "or"
	default:
		return false
	}
}

// scanString returns the length of a double-quoted string at the start of s
// including both quotes, or 0 if the string is not terminated.
func scanString(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return 0
}

func scanBooleanOperator(s string) int {
	if strings.HasPrefix(s, "&&") || strings.HasPrefix(s, "||") {
		return 2
	}
	for _, kw := range [...]string{"AND", "OR"} {
		if strings.HasPrefix(s, kw) && (len(s) == len(kw) || !isIdentPart(s[len(kw)])) {
			return len(kw)
		}
	}
	return 0
}

// scanNumber matches -?[0-9]*,[0-9]+ or -?[0-9]+ at the start of s.
func scanNumber(s string, signed bool) int {
	i := 0
	if signed && i < len(s) && s[i] == '-' {
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	intDigits := i - start

	if i+1 < len(s) && s[i] == ',' && isDigit(s[i+1]) {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		return i
	}
	if intDigits == 0 {
		return 0
	}
	return i
}

// scanComparison matches the longest comparison operator at the start of s.
// The alternate inequality spelling <> is reported as !=.
func scanComparison(s string) (string, int) {
	if len(s) >= 2 {
		switch s[:2] {
		case "<=", ">=", "!=":
			return s[:2], 2
		case "<>":
			return "!=", 2
		}
	}
	switch s[0] {
	case '<', '>', '=':
		return s[:1], 1
	}
	return "", 0
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
