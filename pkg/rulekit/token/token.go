// Package token defines the lexical tokens of the rule language and the
// one-token-lookahead stream the parser consumes them through.
package token

import "fmt"

// Kind classifies a token.
type Kind int

const (
	String Kind = iota + 1
	BooleanOperator
	Identifier
	Number
	MathOperator
	ComparisonOperator
	OpenParen
	CloseParen
	QuestionMark
	Colon
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case String:
		return "String"
	case BooleanOperator:
		return "BooleanOperator"
	case Identifier:
		return "Identifier"
	case Number:
		return "Number"
	case MathOperator:
		return "MathOperator"
	case ComparisonOperator:
		return "ComparisonOperator"
	case OpenParen:
		return "OpenParen"
	case CloseParen:
		return "CloseParen"
	case QuestionMark:
		return "QuestionMark"
	case Colon:
		return "Colon"
	default:
		return "Unknown"
	}
}

// Token is a classified lexeme.
type Token struct {
	Kind Kind
	// Text is the literal payload. Strings hold their unescaped body;
	// punctuation tokens have no text.
	Text string
	// Offset is the byte offset of the token in the source. It is diagnostic
	// only and does not take part in Equal.
	Offset int
}

// New creates a token at offset 0.
func New(kind Kind, text string) Token {
	return Token{Kind: kind, Text: text}
}

// At creates a token at the given source offset.
func At(kind Kind, text string, offset int) Token {
	return Token{Kind: kind, Text: text, Offset: offset}
}

// Equal reports whether two tokens have the same kind and text.
func (t Token) Equal(o Token) bool {
	return t.Kind == o.Kind && t.Text == o.Text
}

// Is reports whether the token has the given kind and, when text is
// non-empty, the given text.
func (t Token) Is(kind Kind, text string) bool {
	if t.Kind != kind {
		return false
	}
	return text == "" || t.Text == text
}

// String describes the token for error messages, e.g. `Identifier "age"`.
func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}
