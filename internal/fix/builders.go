package fix

import (
	"fmt"

	"wscheck/internal/diag"
	"wscheck/internal/source"
)

// Option mutates fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) {
		f.Applicability = app
	}
}

// WithKind overrides fix classification.
func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) {
		f.Kind = kind
	}
}

// Preferred marks fix as preferred suggestion.
func Preferred() Option {
	return func(f *diag.Fix) {
		f.IsPreferred = true
	}
}

// WithID sets stable identifier for fix.
func WithID(id string) Option {
	return func(f *diag.Fix) {
		f.ID = id
	}
}

func applyOptions(f diag.Fix, opts []Option) diag.Fix {
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

func quickFix(title string, edits ...diag.TextEdit) diag.Fix {
	return diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         edits,
	}
}

// MakeFixID derives an identifier from the code and the zero-based position
// of the primary span start: "WS2001-12-5" is line 12, column 5 (1-based).
// Ids do not depend on load order, so ids printed by `check --suggest` select
// the same fixes in a later `fix --id` run.
func MakeFixID(code diag.Code, pos source.LinePos) string {
	lc := pos.LineCol()
	return fmt.Sprintf("%s-%d-%d", code.ID(), lc.Line, lc.Col)
}

// InsertText creates fix that inserts text at span (Span.Start == Span.End).
func InsertText(title string, at source.Span, text string, guard string, opts ...Option) diag.Fix {
	return applyOptions(quickFix(title, diag.TextEdit{
		Span:    at,
		NewText: text,
		OldText: guard,
	}), opts)
}

// DeleteSpan removes text covered by span.
func DeleteSpan(title string, span source.Span, expect string, opts ...Option) diag.Fix {
	return applyOptions(quickFix(title, diag.TextEdit{
		Span:    span,
		NewText: "",
		OldText: expect,
	}), opts)
}

// DeleteSpans removes several spans as one fix; expect[i] guards spans[i]
// and may be shorter than spans.
func DeleteSpans(title string, spans []source.Span, expect []string, opts ...Option) diag.Fix {
	edits := make([]diag.TextEdit, 0, len(spans))
	for i, sp := range spans {
		e := diag.TextEdit{Span: sp}
		if i < len(expect) {
			e.OldText = expect[i]
		}
		edits = append(edits, e)
	}
	return applyOptions(quickFix(title, edits...), opts)
}

// ReplaceSpan replaces text covered by span with newText.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) diag.Fix {
	return applyOptions(quickFix(title, diag.TextEdit{
		Span:    span,
		NewText: newText,
		OldText: expect,
	}), opts)
}
