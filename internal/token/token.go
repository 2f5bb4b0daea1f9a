package token

import (
	"wscheck/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind     Kind
	Span     source.Span
	Text     string
	Leading  []Trivia
	Trailing []Trivia
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	return t.Kind == Number || t.Kind == String
}

// IsEOF reports whether the token terminates the stream.
func (t Token) IsEOF() bool { return t.Kind == EOF }

// FullSpan covers the token together with its leading and trailing trivia.
func (t Token) FullSpan() source.Span {
	sp := t.Span
	if n := len(t.Leading); n > 0 {
		sp = sp.Cover(t.Leading[0].Span)
	}
	if n := len(t.Trailing); n > 0 {
		sp = sp.Cover(t.Trailing[n-1].Span)
	}
	return sp
}

// EndsLine reports whether the trailing trivia ends with a line break.
func (t Token) EndsLine() bool {
	n := len(t.Trailing)
	return n > 0 && t.Trailing[n-1].Kind.Class() == ClassEndOfLine
}
