// Package ast defines the syntax tree produced by the parser.
//
// Node is a closed sum type: only the five variants in this package
// implement it. Consumers switch on the concrete type.
package ast

import (
	"strconv"
	"strings"
)

// Node is a node of the syntax tree. Nodes are immutable once built.
type Node interface {
	// String renders the node as canonical source text that parses back to
	// an equivalent tree.
	String() string

	node()
}

// Name references a constant by identifier.
type Name struct {
	Identifier string
}

// Number holds a numeric literal exactly as written; it is converted when
// evaluated.
type Number struct {
	Literal string
}

// String holds an unescaped string literal.
type String struct {
	Literal string
}

// Binary applies Operator to Left and Right.
type Binary struct {
	Operator string
	Left     Node
	Right    Node
}

// Ternary selects Then or Else by the truthiness of Condition. A nil Then is
// the short form "cond ?: else", which yields the condition itself.
type Ternary struct {
	Condition Node
	Then      Node
	Else      Node
}

func (*Name) node()    {}
func (*Number) node()  {}
func (*String) node()  {}
func (*Binary) node()  {}
func (*Ternary) node() {}

// String implements Node.
func (n *Name) String() string { return n.Identifier }

// String implements Node.
func (n *Number) String() string { return n.Literal }

// String implements Node.
func (n *String) String() string { return quote(n.Literal) }

// String implements Node. Binary nodes are always parenthesized.
func (n *Binary) String() string {
	return "(" + n.Left.String() + " " + n.Operator + " " + n.Right.String() + ")"
}

// String implements Node.
func (n *Ternary) String() string {
	if n.Then == nil {
		return "(" + n.Condition.String() + " ?: " + n.Else.String() + ")"
	}
	return "(" + n.Condition.String() + " ? " + n.Then.String() + " : " + n.Else.String() + ")"
}

// quote renders s as a double-quoted literal the lexer unescapes back to s.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if c < 0x20 || c == 0x7f {
				b.WriteString(`\x`)
				b.WriteString(strconv.FormatUint(uint64(c)>>4, 16))
				b.WriteString(strconv.FormatUint(uint64(c)&0xf, 16))
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Walk calls fn for n and each of its descendants, depth first, parents
// before children. If fn returns false the children of that node are
// skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Ternary:
		Walk(n.Condition, fn)
		if n.Then != nil {
			Walk(n.Then, fn)
		}
		Walk(n.Else, fn)
	}
}

// Names returns the distinct identifiers referenced by n in first-use order.
func Names(n Node) []string {
	var names []string
	seen := make(map[string]bool)
	Walk(n, func(n Node) bool {
		if name, ok := n.(*Name); ok && !seen[name.Identifier] {
			seen[name.Identifier] = true
			names = append(names, name.Identifier)
		}
		return true
	})
	return names
}
