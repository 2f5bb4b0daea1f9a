package trailing

import (
	"errors"
	"fmt"
	"sort"

	"wscheck/internal/diag"
	"wscheck/internal/source"
	"wscheck/internal/token"
)

// ErrInvalidSpan is returned when a diagnostic span does not match removable
// whitespace in the Document it is applied to, typically because the
// diagnostic was computed against another version.
var ErrInvalidSpan = errors.New("invalid span")

// Fix returns a new Document with the span of d removed. doc is not modified.
func Fix(doc *Document, d diag.Diagnostic) (*Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrInvalidSpan)
	}
	if err := doc.validate(d.Primary); err != nil {
		return nil, err
	}
	return doc.withSpansRemoved([]source.Span{d.Primary}), nil
}

// FixAll removes the spans of every diagnostic in one pass. The diagnostics
// must all belong to doc and must not overlap. An empty set returns doc.
func FixAll(doc *Document, ds []diag.Diagnostic) (*Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrInvalidSpan)
	}
	if len(ds) == 0 {
		return doc, nil
	}

	spans := make([]source.Span, 0, len(ds))
	for _, d := range ds {
		if err := doc.validate(d.Primary); err != nil {
			return nil, err
		}
		spans = append(spans, d.Primary)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	for i := 1; i < len(spans); i++ {
		if spans[i].Overlaps(spans[i-1]) {
			return nil, fmt.Errorf("%w: %s overlaps %s", ErrInvalidSpan, spans[i], spans[i-1])
		}
	}
	return doc.withSpansRemoved(spans), nil
}

// validate checks that sp is made of whole adjacent Whitespace trivia of this
// version and is followed by a line break or the end of file.
func (d *Document) validate(sp source.Span) error {
	if sp.File != d.file.ID {
		return fmt.Errorf("%w: %s belongs to file version %d, document is version %d", ErrInvalidSpan, sp, sp.File, d.file.ID)
	}
	if sp.Empty() || sp.End > d.file.Len() {
		return fmt.Errorf("%w: %s is empty or out of bounds (len %d)", ErrInvalidSpan, sp, d.file.Len())
	}

	ref, ok := d.whitespace()[sp.Start]
	if !ok {
		return fmt.Errorf("%w: %s does not start at whitespace trivia", ErrInvalidSpan, sp)
	}
	list := d.list(ref)
	i, end := ref.idx, sp.Start
	for i < len(list) && end < sp.End {
		tv := list[i]
		if tv.Class() != token.ClassWhitespace || tv.Span.Start != end {
			break
		}
		end = tv.Span.End
		i++
	}
	if end != sp.End {
		return fmt.Errorf("%w: %s does not cover whole whitespace trivia", ErrInvalidSpan, sp)
	}

	switch {
	case i < len(list):
		if list[i].Class() != token.ClassEndOfLine {
			return fmt.Errorf("%w: %s is followed by %s, not a line break", ErrInvalidSpan, sp, list[i].Kind)
		}
	case !d.listEndsAtEOF(ref):
		return fmt.Errorf("%w: %s is not followed by a line break", ErrInvalidSpan, sp)
	}
	return nil
}

// withSpansRemoved deletes validated, sorted, non-overlapping spans. Bytes are
// removed in descending start order so earlier offsets stay valid; the token
// structure is then shifted once instead of lexing the new text.
func (d *Document) withSpansRemoved(spans []source.Span) *Document {
	buf := append([]byte(nil), d.file.Content...)
	for i := len(spans) - 1; i >= 0; i-- {
		sp := spans[i]
		buf = append(buf[:sp.Start], buf[sp.End:]...)
	}

	newID := d.fs.Derive(d.file.ID, buf)
	sh := shifter{spans: spans, file: newID}
	sh.prefix = make([]uint32, len(spans)+1)
	for i, sp := range spans {
		sh.prefix[i+1] = sh.prefix[i] + sp.Len()
	}

	tokens := make([]token.Token, len(d.tokens))
	for i, tok := range d.tokens {
		tok.Span = sh.span(tok.Span)
		tok.Leading = sh.trivia(tok.Leading)
		tok.Trailing = sh.trivia(tok.Trailing)
		tokens[i] = tok
	}
	joinCRLF(tokens)
	return &Document{fs: d.fs, file: d.fs.Get(newID), tokens: tokens}
}

// joinCRLF merges a lone "\r" newline with a "\n" newline that became
// adjacent once the blanks between them were removed, so the structure
// matches the line index of the new content. The "\r" keeps its place and
// the "\n" leaves its list.
func joinCRLF(tokens []token.Token) {
	var cr *token.Trivia
	visit := func(list *[]token.Trivia) {
		if len(*list) == 0 {
			return
		}
		kept := (*list)[:0]
		for _, tv := range *list {
			if cr != nil && tv.Kind == token.TriviaNewline && tv.Text == "\n" && cr.Span.End == tv.Span.Start {
				cr.Text = "\r\n"
				cr.Span.End = tv.Span.End
				cr = nil
				continue
			}
			kept = append(kept, tv)
			cr = nil
			if tv.Kind == token.TriviaNewline && tv.Text == "\r" {
				cr = &kept[len(kept)-1]
			}
		}
		if len(kept) == 0 {
			kept = nil
		}
		*list = kept
	}
	for i := range tokens {
		visit(&tokens[i].Leading)
		visit(&tokens[i].Trailing)
	}
}
