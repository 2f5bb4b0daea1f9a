package diagfmt

import (
	"cmp"
	"encoding/json"
	"io"
	"slices"

	"wscheck/internal/diag"
	"wscheck/internal/source"
)

// Report is the document written by JSON. Diagnostics are grouped per file in
// the order the bag yields them.
type Report struct {
	Files   []FileReport `json:"files"`
	Summary Summary      `json:"summary"`
}

type FileReport struct {
	Path        string       `json:"path"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Summary counts what was written. Truncated is set when JSONOpts.Max cut the list.
type Summary struct {
	Files     int  `json:"files"`
	Errors    int  `json:"errors"`
	Warnings  int  `json:"warnings"`
	Infos     int  `json:"infos"`
	Total     int  `json:"total"`
	Truncated bool `json:"truncated,omitempty"`
}

type Diagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Category string `json:"category,omitempty"`
	Message  string `json:"message"`
	// Line is zero-based; Range carries one-based positions for editors.
	Line  uint32 `json:"line"`
	Range Range  `json:"range"`
	Notes []Note `json:"notes,omitempty"`
	Fixes []Fix  `json:"fixes,omitempty"`
}

// Range is a byte span plus, when requested, its one-based line/column ends.
type Range struct {
	Start     uint32 `json:"start"`
	End       uint32 `json:"end"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type Note struct {
	Path    string `json:"path"`
	Range   Range  `json:"range"`
	Message string `json:"message"`
}

type Fix struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title"`
	Kind          string `json:"kind"`
	Applicability string `json:"applicability"`
	Preferred     bool   `json:"preferred,omitempty"`
	Edits         []Edit `json:"edits,omitempty"`
}

type Edit struct {
	Range   Range    `json:"range"`
	NewText string   `json:"new_text"`
	OldText string   `json:"old_text,omitempty"`
	Before  []string `json:"before,omitempty"`
	After   []string `json:"after,omitempty"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (b jsonBuilder) rangeOf(span source.Span) Range {
	r := Range{Start: span.Start, End: span.End}
	if b.opts.IncludePositions && b.fs.Get(span.File) != nil {
		start, end := b.fs.Resolve(span)
		r.StartLine, r.StartCol = start.Line, start.Col
		r.EndLine, r.EndCol = end.Line, end.Col
	}
	return r
}

func (b jsonBuilder) diagnostic(d *diag.Diagnostic) Diagnostic {
	out := Diagnostic{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Category: d.Code.Category(),
		Message:  d.Message,
		Line:     d.Line,
		Range:    b.rangeOf(d.Primary),
	}
	// timing payloads live in notes, so they are always kept
	if b.opts.IncludeNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, Note{
				Path:    formatPath(b.fs, n.Span.File, b.opts.PathMode),
				Range:   b.rangeOf(n.Span),
				Message: n.Msg,
			})
		}
	}
	if b.opts.IncludeFixes {
		for _, f := range sortedFixes(d.Fixes) {
			out.Fixes = append(out.Fixes, b.fix(f))
		}
	}
	return out
}

func (b jsonBuilder) fix(f diag.Fix) Fix {
	out := Fix{
		ID:            f.ID,
		Title:         f.Title,
		Kind:          f.Kind.String(),
		Applicability: f.Applicability.String(),
		Preferred:     f.IsPreferred,
	}
	for _, e := range f.Edits {
		edit := Edit{Range: b.rangeOf(e.Span), NewText: e.NewText, OldText: e.OldText}
		if b.opts.IncludePreviews {
			if p, err := buildFixEditPreview(b.fs, e); err == nil {
				edit.Before, edit.After = p.before, p.after
			}
		}
		out.Edits = append(out.Edits, edit)
	}
	return out
}

// BuildReport converts bag into a Report without encoding it.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	b := jsonBuilder{fs: fs, opts: opts}
	items := bag.Items()
	rep := Report{Files: []FileReport{}}
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
		rep.Summary.Truncated = true
	}

	index := make(map[string]int)
	for i := range items {
		d := &items[i]
		path := formatPath(fs, d.Primary.File, opts.PathMode)
		slot, ok := index[path]
		if !ok {
			slot = len(rep.Files)
			index[path] = slot
			rep.Files = append(rep.Files, FileReport{Path: path})
		}
		rep.Files[slot].Diagnostics = append(rep.Files[slot].Diagnostics, b.diagnostic(d))

		switch d.Severity {
		case diag.SevError:
			rep.Summary.Errors++
		case diag.SevWarning:
			rep.Summary.Warnings++
		default:
			rep.Summary.Infos++
		}
	}
	rep.Summary.Files = len(rep.Files)
	rep.Summary.Total = len(items)
	return rep
}

// sortedFixes orders fixes preferred first, then by applicability, kind, title and id.
func sortedFixes(in []diag.Fix) []diag.Fix {
	fixes := slices.Clone(in)
	slices.SortStableFunc(fixes, func(a, b diag.Fix) int {
		if a.IsPreferred != b.IsPreferred {
			if a.IsPreferred {
				return -1
			}
			return 1
		}
		return cmp.Or(
			cmp.Compare(a.Applicability, b.Applicability),
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.Title, b.Title),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return fixes
}

// JSON writes an indented Report.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
