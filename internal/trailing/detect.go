package trailing

import (
	"fmt"
	"sort"

	"wscheck/internal/diag"
	"wscheck/internal/fix"
	"wscheck/internal/source"
	"wscheck/internal/token"
)

// FixTitle labels the fix attached to every trailing-whitespace diagnostic.
const FixTitle = "Remove trailing whitespace"

// Detect reports every line that ends with whitespace, one diagnostic per
// line, ordered by line and then by span start.
func Detect(doc *Document) []diag.Diagnostic {
	if doc == nil || len(doc.file.Content) == 0 {
		return nil
	}

	var out []diag.Diagnostic
	toks := doc.tokens
	for i := range toks {
		tok := &toks[i]
		out = doc.scanLeading(out, tok.Leading, tok.Kind == token.EOF)
		lastBeforeEOF := i+1 < len(toks) && toks[i+1].Kind == token.EOF && len(toks[i+1].Leading) == 0
		out = doc.scanTrailing(out, tok.Trailing, lastBeforeEOF)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Primary.Start < out[j].Primary.Start
	})
	return out
}

// scanTrailing reports the whitespace run right before the line break that
// closes a token's trailing trivia. Without a line break the run counts only
// when the end of file follows.
func (d *Document) scanTrailing(out []diag.Diagnostic, trailing []token.Trivia, lastBeforeEOF bool) []diag.Diagnostic {
	end := len(trailing)
	if end == 0 {
		return out
	}
	switch {
	case trailing[end-1].Class() == token.ClassEndOfLine:
		end--
	case !lastBeforeEOF:
		// another token follows on the same line
		return out
	}

	start := end
	for start > 0 && trailing[start-1].Class() == token.ClassWhitespace {
		start--
	}
	if start == end {
		return out
	}
	return append(out, d.report(trailing[start].Span.Start, trailing[end-1].Span.End))
}

// scanLeading handles lines without code. Whitespace extends the run, a line
// break closes it and anything else (a comment) drops it. At EOF an open run
// is the whitespace-only last line.
func (d *Document) scanLeading(out []diag.Diagnostic, leading []token.Trivia, atEOF bool) []diag.Diagnostic {
	var (
		open       bool
		start, end uint32
	)
	for _, tv := range leading {
		switch tv.Class() {
		case token.ClassWhitespace:
			if !open {
				start, open = tv.Span.Start, true
			}
			end = tv.Span.End
		case token.ClassEndOfLine:
			if open {
				out = append(out, d.report(start, end))
			}
			open = false
		default:
			open = false
		}
	}
	if atEOF && open {
		out = append(out, d.report(start, end))
	}
	return out
}

func (d *Document) report(start, end uint32) diag.Diagnostic {
	sp := source.Span{File: d.file.ID, Start: start, End: end}
	pos := d.file.LinePos(start)
	line := pos.Line
	return diag.NewWarning(
		diag.WSTrailingWhitespace,
		sp,
		fmt.Sprintf("Line '%d' contains trailing whitespace", line+1),
	).AtLine(line).WithFixSuggestion(fix.DeleteSpan(
		FixTitle,
		sp,
		string(d.file.Content[start:end]),
		fix.WithID(fix.MakeFixID(diag.WSTrailingWhitespace, pos)),
		fix.Preferred(),
	))
}
