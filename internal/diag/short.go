package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"wscheck/internal/source"
)

// shortLine is one rendered row: "<severity> <code> <path>:<line>:<col> <message>".
type shortLine struct {
	sev, code, path string
	line, col       uint32
	msg             string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.line, l.col, l.msg)
}

// FormatShortDiagnostics renders one line per diagnostic (and per note when
// includeNotes) with paths relative to the FileSet base directory. Lines are
// sorted by location so the output does not depend on check order.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatShort(diags, fs, includeNotes, "relative")
}

// FormatGoldenDiagnostics is FormatShortDiagnostics with base names, for
// tests that compare against fixed output regardless of the temp directory.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatShort(diags, fs, includeNotes, "basename")
}

func formatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool, pathMode string) string {
	if fs == nil {
		return ""
	}
	var lines []shortLine
	add := func(sev, code string, sp source.Span, msg string) {
		f := fs.Get(sp.File)
		if f == nil {
			return
		}
		start, _ := fs.Resolve(sp)
		lines = append(lines, shortLine{
			sev:  sev,
			code: code,
			path: strings.TrimPrefix(filepath.ToSlash(f.FormatPath(pathMode, fs.BaseDir())), "./"),
			line: start.Line,
			col:  start.Col,
			msg:  oneLine(msg),
		})
	}
	for _, d := range diags {
		add(d.Severity.Label(), d.Code.ID(), d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				add("note", d.Code.ID(), n.Span, n.Msg)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.sev, b.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

// oneLine folds any line breaks in msg into spaces.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
}
