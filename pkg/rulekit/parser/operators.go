package parser

import (
	"sort"

	"github.com/randalmurphal/rulekit/pkg/rulekit/token"
)

// Associativity tells how operators of equal precedence group.
type Associativity int

const (
	LeftAssociative Associativity = iota + 1
	RightAssociative
)

// Operator describes how an operator binds.
type Operator struct {
	Precedence    int
	Associativity Associativity
}

// TernaryPrecedence binds looser than every binary operator, so
// "a = b ? c : d" compares first.
const TernaryPrecedence = 10

var ternaryOperator = Operator{Precedence: TernaryPrecedence, Associativity: RightAssociative}

var binaryOperators = map[string]Operator{
	"or":  {20, LeftAssociative},
	"OR":  {20, LeftAssociative},
	"||":  {20, LeftAssociative},
	"and": {30, LeftAssociative},
	"AND": {30, LeftAssociative},
	"&&":  {30, LeftAssociative},
	"=":   {40, LeftAssociative},
	"!=":  {40, LeftAssociative},
	"<":   {40, LeftAssociative},
	">":   {40, LeftAssociative},
	">=":  {40, LeftAssociative},
	"<=":  {40, LeftAssociative},
	"+":   {50, LeftAssociative},
	"-":   {50, LeftAssociative},
	"*":   {60, LeftAssociative},
	"/":   {60, LeftAssociative},
}

// LookupBinary returns the binding of a binary operator spelled op.
func LookupBinary(op string) (Operator, bool) {
	o, ok := binaryOperators[op]
	return o, ok
}

// BinaryOperators returns every binary operator spelling, sorted.
func BinaryOperators() []string {
	ops := make([]string, 0, len(binaryOperators))
	for op := range binaryOperators {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// isBinaryOperator reports whether tok can continue an expression as a
// binary operator. Lowercase and/or arrive from the lexer as identifiers.
func isBinaryOperator(tok token.Token) bool {
	switch tok.Kind {
	case token.BooleanOperator, token.MathOperator, token.ComparisonOperator:
		_, ok := binaryOperators[tok.Text]
		return ok
	case token.Identifier:
		return isOperatorWord(tok.Text)
	default:
		return false
	}
}

func isOperatorWord(s string) bool {
	return s == "and" || s == "or"
}
