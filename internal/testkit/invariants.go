// Package testkit holds checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"wscheck/internal/source"
	"wscheck/internal/token"
)

// CheckTokenInvariants verifies the shape the whitespace checks rely on:
//  1. tokens, leading and trailing trivia cover the file in order with no gap
//  2. every piece's Text equals the bytes under its Span
//  3. trailing trivia holds at most one line break and only as its last element
//  4. the stream ends with exactly one EOF token
func CheckTokenInvariants(tokens []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(tokens) == 0 {
		return fmt.Errorf("empty token stream")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevEnd uint32
	piece := func(what string, sp source.Span, text string) error {
		if sp.File != sf.ID {
			return fmt.Errorf("%s %v: file mismatch, want %d", what, sp, sf.ID)
		}
		if sp.Start != prevEnd {
			return fmt.Errorf("%s %v: starts at %d, previous piece ended at %d", what, sp, sp.Start, prevEnd)
		}
		if sp.End < sp.Start || sp.End > lenContent {
			return fmt.Errorf("%s %v: out of bounds (len %d)", what, sp, lenContent)
		}
		if got := string(sf.Content[sp.Start:sp.End]); got != text {
			return fmt.Errorf("%s %v: text %q does not match content %q", what, sp, text, got)
		}
		prevEnd = sp.End
		return nil
	}

	for i, tk := range tokens {
		if tk.IsEOF() != (i == len(tokens)-1) {
			return fmt.Errorf("token %d (%s): EOF must be last and only last", i, tk.Kind)
		}
		for _, tv := range tk.Leading {
			if err := piece("leading "+tv.Kind.String(), tv.Span, tv.Text); err != nil {
				return err
			}
		}
		if err := piece("token "+tk.Kind.String(), tk.Span, tk.Text); err != nil {
			return err
		}
		for j, tv := range tk.Trailing {
			if tv.Class() == token.ClassEndOfLine && j != len(tk.Trailing)-1 {
				return fmt.Errorf("token %d: line break is not the last trailing trivia", i)
			}
			if err := piece("trailing "+tv.Kind.String(), tv.Span, tv.Text); err != nil {
				return err
			}
		}
	}
	if prevEnd != lenContent {
		return fmt.Errorf("stream ends at %d, file has %d bytes", prevEnd, lenContent)
	}
	return nil
}

// Render concatenates the stream back into source text.
func Render(tokens []token.Token) string {
	var b strings.Builder
	for _, tk := range tokens {
		for _, tv := range tk.Leading {
			b.WriteString(tv.Text)
		}
		b.WriteString(tk.Text)
		for _, tv := range tk.Trailing {
			b.WriteString(tv.Text)
		}
	}
	return b.String()
}
