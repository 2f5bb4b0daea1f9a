package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"wscheck/internal/diag"
	"wscheck/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note, fix       *color.Color
	removed, added  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		code:    color.New(color.Bold),
		path:    color.New(color.FgWhite, color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgRed, color.Bold),
		note:    color.New(color.FgCyan),
		fix:     color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		added:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note, p.fix, p.removed, p.added} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes human-readable diagnostics:
//
//	path:line:col: SEVERITY CODE: message
//	   3 | let x = 1
//	     |          ^~~
//
// followed by notes and fixes when requested.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyDiagnostic(w, &d, fs, opts, p)
	}
}

func prettyDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	file := fs.Get(d.Primary.File)
	loc := formatLocation(fs, d.Primary, opts.PathMode)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprint(loc),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)

	if file != nil {
		printSnippet(w, file, d.Primary, opts, p)
	}

	if opts.ShowNotes {
		for _, note := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), formatLocation(fs, note.Span, opts.PathMode), note.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fix := range sortedFixes(d.Fixes) {
			printFix(w, fs, i+1, fix, opts, p)
		}
	}
}

func formatLocation(fs *source.FileSet, span source.Span, mode PathMode) string {
	path := formatPath(fs, span.File, mode)
	if fs.Get(span.File) == nil {
		return path
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// printSnippet renders the primary line plus opts.Context lines around it and
// underlines the span. Tabs are expanded so carets line up with whitespace.
func printSnippet(w io.Writer, file *source.File, span source.Span, opts PrettyOpts, p palette) {
	pos := file.LinePos(span.Start)
	ctx := uint32(max(opts.Context, 0))
	first := pos.Line - min(pos.Line, ctx)
	last := min(pos.Line+ctx, file.LineCount()-1)
	gutterWidth := len(fmt.Sprint(last + 1))

	for line := first; line <= last; line++ {
		start, end := file.LineBounds(line)
		text := expandTabs(string(file.Content[start:end]))
		if opts.Width > 0 {
			text = truncate(text, int(opts.Width))
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, line+1), text)
		if line != pos.Line {
			continue
		}

		lineText := string(file.Content[start:end])
		caretStart := min(span.Start, end) - start
		caretEnd := min(max(span.End, span.Start), end) - start
		pad := runewidth.StringWidth(expandTabs(lineText[:caretStart]))
		width := runewidth.StringWidth(expandTabs(lineText[:caretEnd])) - pad
		marker := "^"
		if width > 1 {
			marker += strings.Repeat("~", width-1)
		}
		fmt.Fprintf(w, "%s %s%s\n",
			p.gutter.Sprintf("%*s |", gutterWidth, ""),
			strings.Repeat(" ", pad),
			p.caret.Sprint(marker),
		)
	}
}

func printFix(w io.Writer, fs *source.FileSet, n int, fix diag.Fix, opts PrettyOpts, p palette) {
	var meta []string
	if fix.ID != "" {
		meta = append(meta, "id="+fix.ID)
	}
	meta = append(meta, fix.Kind.String(), fix.Applicability.String())
	if fix.IsPreferred {
		meta = append(meta, "preferred")
	}
	fmt.Fprintf(w, "  %s %s [%s]\n", p.fix.Sprintf("fix #%d:", n), fix.Title, strings.Join(meta, ", "))

	for _, edit := range fix.Edits {
		fmt.Fprintf(w, "    edit %s apply=%q\n", formatRange(fs, edit.Span, opts.PathMode), edit.NewText)
		if !opts.ShowPreview {
			continue
		}
		preview, err := buildFixEditPreview(fs, edit)
		if err != nil {
			fmt.Fprintf(w, "    preview unavailable: %v\n", err)
			continue
		}
		fmt.Fprintln(w, "    preview:")
		for _, line := range preview.before {
			fmt.Fprintf(w, "      %s\n", p.removed.Sprint("- "+visibleTrailing(line)))
		}
		for _, line := range preview.after {
			fmt.Fprintf(w, "      %s\n", p.added.Sprint("+ "+visibleTrailing(line)))
		}
	}
}

func formatRange(fs *source.FileSet, span source.Span, mode PathMode) string {
	path := formatPath(fs, span.File, mode)
	if fs.Get(span.File) == nil {
		return path
	}
	start, end := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d-%d:%d", path, start.Line, start.Col, end.Line, end.Col)
}

// visibleTrailing marks trailing blanks with '·' and '→' so previews of
// whitespace-only edits are readable.
func visibleTrailing(line string) string {
	trimmed := strings.TrimRight(line, " \t")
	if len(trimmed) == len(line) {
		return line
	}
	tail := line[len(trimmed):]
	tail = strings.ReplaceAll(tail, " ", "·")
	tail = strings.ReplaceAll(tail, "\t", "→")
	return trimmed + tail
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}

func truncate(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
