package token

import (
	"errors"
	"fmt"
	"io"

	"github.com/randalmurphal/rulekit/pkg/rulekit/diag"
)

// Source produces tokens on demand. Next returns io.EOF once exhausted.
type Source interface {
	Next() (Token, error)
}

// Stream is a forward-only cursor over a Source holding exactly one token of
// lookahead. It is not safe for concurrent use.
type Stream struct {
	src Source
	cur Token
	ok  bool
}

// NewStream wraps src and pulls the first token. Lexical errors on the first
// token are returned here.
func NewStream(src Source) (*Stream, error) {
	s := &Stream{src: src}
	if err := s.pull(); err != nil {
		return nil, err
	}
	return s, nil
}

// pull loads the next token from the source into the cursor.
func (s *Stream) pull() error {
	tok, err := s.src.Next()
	if err != nil {
		s.cur, s.ok = Token{}, false
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	s.cur, s.ok = tok, true
	return nil
}

// Current returns the token at the cursor, false when the stream is exhausted.
func (s *Stream) Current() (Token, bool) {
	return s.cur, s.ok
}

// Advance moves the cursor forward by one token.
// Returns diag.ErrUnexpectedEndOfInput if the stream is already exhausted.
func (s *Stream) Advance() error {
	if !s.ok {
		return diag.NewSyntaxError(diag.ErrUnexpectedEndOfInput, "", "", -1)
	}
	return s.pull()
}

// Expect advances past the current token if it has the given kind (and text,
// when non-empty). Otherwise it returns a syntax error; message replaces the
// default description of a mismatch when non-empty.
func (s *Stream) Expect(kind Kind, text, message string) error {
	want := kind.String()
	if text != "" {
		want = fmt.Sprintf("%s %q", kind, text)
	}

	if !s.ok {
		return diag.NewSyntaxError(diag.ErrUnexpectedEndOfInput,
			fmt.Sprintf("unexpected end of input, %s expected", want), "", -1)
	}

	if !s.cur.Is(kind, text) {
		if message == "" {
			message = fmt.Sprintf("unexpected token %s (%s expected)", s.cur, want)
		}
		return diag.NewSyntaxError(diag.ErrUnexpectedToken, message, s.cur.String(), s.cur.Offset)
	}

	return s.Advance()
}

// Exhausted reports whether every token has been consumed.
func (s *Stream) Exhausted() bool {
	return !s.ok
}

// sliceSource replays a fixed token list.
type sliceSource struct {
	tokens []Token
	pos    int
}

// Slice returns a Source replaying tokens in order. Useful for feeding the
// parser pre-built token lists.
func Slice(tokens ...Token) Source {
	return &sliceSource{tokens: tokens}
}

// Next implements Source.
func (s *sliceSource) Next() (Token, error) {
	if s.pos >= len(s.tokens) {
		return Token{}, io.EOF
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}
