package driver

import (
	"context"
	"fmt"

	"wscheck/internal/diag"
	"wscheck/internal/fix"
	"wscheck/internal/lexer"
	"wscheck/internal/source"
	"wscheck/internal/trace"
	"wscheck/internal/trailing"
)

// NewRewriter returns a fix.Rewriter that re-lexes each file and removes the
// selected trailing whitespace through trailing.FixAll, so a fix never
// lands on a span that is no longer whitespace.
func NewRewriter(fs *source.FileSet, reg *lexer.Registry) fix.Rewriter {
	return fix.RewriterFunc(func(file *source.File, selected []diag.Diagnostic) ([]byte, error) {
		for _, d := range selected {
			if d.Code != diag.WSTrailingWhitespace {
				return nil, fmt.Errorf("cannot rewrite %s diagnostics", d.Code.ID())
			}
		}
		doc, err := trailing.Lex(fs, file.ID, lexer.Options{Syntax: reg.ForPath(file.Path)})
		if err != nil {
			return nil, err
		}
		fixed, err := trailing.FixAll(doc, selected)
		if err != nil {
			return nil, err
		}
		return fixed.Content(), nil
	})
}

// Fix applies the fixes of a check run. Only trailing whitespace
// diagnostics of files that were not skipped take part.
func Fix(ctx context.Context, res *CheckResult, opts fix.ApplyOptions) (*fix.ApplyResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "fix", 0).WithExtra("mode", opts.Mode.String())

	var diags []diag.Diagnostic
	for i := range res.Files {
		fr := &res.Files[i]
		if fr.Skipped != "" {
			continue
		}
		for _, d := range fr.Bag.Items() {
			if d.Code == diag.WSTrailingWhitespace {
				diags = append(diags, d)
			}
		}
	}

	if opts.Rewriter == nil {
		opts.Rewriter = NewRewriter(res.FileSet, res.Registry)
	}
	out, err := fix.Apply(res.FileSet, diags, opts)
	if out != nil {
		span.End(fmt.Sprintf("applied=%d skipped=%d", len(out.Applied), len(out.Skipped)))
	} else {
		span.End("")
	}
	return out, err
}
