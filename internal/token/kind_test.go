package token_test

import (
	"testing"

	"wscheck/internal/source"
	"wscheck/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	for _, k := range []token.Kind{token.Number, token.String} {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	for _, k := range []token.Kind{token.Ident, token.Punct, token.EOF, token.Invalid} {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestKindString(t *testing.T) {
	if token.EOF.String() != "EOF" || token.Kind(99).String() != "Unknown" {
		t.Fatalf("unexpected kind names")
	}
}
