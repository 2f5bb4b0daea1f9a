package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"wscheck/internal/diag"
	"wscheck/internal/source"
)

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.txt", []byte("a \n"))
	span := source.Span{File: fileID, Start: 1, End: 2}

	diagnostics := []diag.Diagnostic{{
		Code:    diag.WSTrailingWhitespace,
		Message: "trailing",
		Primary: span,
		Fixes: []diag.Fix{
			DeleteSpan("remove", span, " ", WithID("fix-duplicate")),
			DeleteSpan("remove again", span, " ", WithID("fix-duplicate")),
			{ID: "empty", Title: "no edits"},
		},
	}}

	candidates, skips := gatherCandidates(diagnostics)

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(skips) != 2 {
		t.Fatalf("expected 2 skipped fixes, got %d", len(skips))
	}
	if skips[0].ID != "fix-duplicate" || skips[0].Reason != "duplicate fix id" {
		t.Fatalf("unexpected skip %+v", skips[0])
	}
	if skips[1].Reason != "fix has no edits" {
		t.Fatalf("unexpected skip %+v", skips[1])
	}
}

func TestGatherCandidatesSynthesizesIDs(t *testing.T) {
	sp := source.Span{File: 3, Start: 4, End: 5}
	cands, _ := gatherCandidates([]diag.Diagnostic{{
		Code:    diag.WSTrailingWhitespace,
		Primary: sp,
		Fixes:   []diag.Fix{DeleteSpan("x", sp, "")},
	}})
	if len(cands) != 1 || cands[0].fix.ID != "WS2001-3-4-0" {
		t.Fatalf("unexpected candidates %+v", cands)
	}
}

// writeFile creates a real file and loads it into a fresh FileSet.
func writeFile(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := source.NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return fs, id, path
}

func wsDiag(fs *source.FileSet, id source.FileID, start, end uint32) diag.Diagnostic {
	f := fs.Get(id)
	sp := source.Span{File: id, Start: start, End: end}
	return diag.NewWarning(diag.WSTrailingWhitespace, sp, "trailing").
		WithFixSuggestion(DeleteSpan("Remove trailing whitespace", sp, string(f.Content[start:end]),
			WithID(MakeFixID(diag.WSTrailingWhitespace, f.LinePos(start)))))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func TestApplyModes(t *testing.T) {
	const input = "a  \nb\t\nc \n"
	tests := []struct {
		name    string
		opts    ApplyOptions
		want    string
		applied int
	}{
		{"all", ApplyOptions{Mode: ApplyModeAll}, "a\nb\nc\n", 3},
		{"once", ApplyOptions{Mode: ApplyModeOnce}, "a\nb\t\nc \n", 1},
		{"by id", ApplyOptions{Mode: ApplyModeID, TargetID: "WS2001-2-2"}, "a  \nb\nc \n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, id, path := writeFile(t, input)
			ds := []diag.Diagnostic{wsDiag(fs, id, 1, 3), wsDiag(fs, id, 5, 6), wsDiag(fs, id, 8, 9)}

			res, err := Apply(fs, ds, tt.opts)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if len(res.Applied) != tt.applied {
				t.Fatalf("applied %d fixes, want %d", len(res.Applied), tt.applied)
			}
			if got := readFile(t, path); got != tt.want {
				t.Fatalf("file = %q, want %q", got, tt.want)
			}
			if len(res.FileChanges) != 1 || res.FileChanges[0].Path != "input.txt" {
				t.Fatalf("unexpected file changes %+v", res.FileChanges)
			}
			if string(res.FileChanges[0].After) != tt.want || string(res.FileChanges[0].Before) != input {
				t.Fatalf("unexpected before/after in change")
			}
		})
	}
}

func TestApplyUnknownIDAndEmpty(t *testing.T) {
	fs, id, _ := writeFile(t, "a \n")
	ds := []diag.Diagnostic{wsDiag(fs, id, 1, 2)}

	res, err := Apply(fs, ds, ApplyOptions{Mode: ApplyModeID, TargetID: "nope"})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "fix id not found" {
		t.Fatalf("unexpected skipped %+v", res.Skipped)
	}
	if _, err := Apply(fs, nil, ApplyOptions{Mode: ApplyModeAll}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes for no diagnostics, got %v", err)
	}
	if _, err := Apply(nil, ds, ApplyOptions{}); err == nil {
		t.Fatalf("expected error for nil FileSet")
	}
}

func TestApplyDryRunKeepsFile(t *testing.T) {
	fs, id, path := writeFile(t, "a \n")
	res, err := Apply(fs, []diag.Diagnostic{wsDiag(fs, id, 1, 2)}, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := readFile(t, path); got != "a \n" {
		t.Fatalf("dry run wrote the file: %q", got)
	}
	change := res.FileChanges[0]
	if string(change.After) != "a\n" {
		t.Fatalf("unexpected preview %q", change.After)
	}
	if f := fs.Get(change.FileID); f == nil || f.Flags&source.FileDerived == 0 {
		t.Fatalf("new version not registered as derived")
	}
}

func TestApplyRestoresBOM(t *testing.T) {
	fs, id, path := writeFile(t, "\xEF\xBB\xBFa \n")
	if _, err := Apply(fs, []diag.Diagnostic{wsDiag(fs, id, 1, 2)}, ApplyOptions{Mode: ApplyModeAll}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := readFile(t, path); got != "\xEF\xBB\xBFa\n" {
		t.Fatalf("BOM not restored: %q", got)
	}
}

func TestApplySkipsStaleAndConflicting(t *testing.T) {
	fs, id, path := writeFile(t, "ab  \n")
	sp := source.Span{File: id, Start: 2, End: 4}
	ds := []diag.Diagnostic{
		diag.NewWarning(diag.WSTrailingWhitespace, sp, "w").WithFixSuggestion(DeleteSpan("ok", sp, "  ", WithID("a"))),
		diag.NewWarning(diag.WSTrailingWhitespace, sp, "w").WithFixSuggestion(DeleteSpan("overlap", source.Span{File: id, Start: 3, End: 4}, " ", WithID("b"))),
		diag.NewWarning(diag.WSTrailingWhitespace, sp, "w").WithFixSuggestion(DeleteSpan("stale", source.Span{File: id, Start: 0, End: 1}, "x", WithID("c"))),
	}
	res, err := Apply(fs, ds, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 2 {
		t.Fatalf("applied=%d skipped=%d", len(res.Applied), len(res.Skipped))
	}
	if got := readFile(t, path); got != "ab\n" {
		t.Fatalf("file = %q", got)
	}
}

func TestApplySkipsVirtualFiles(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("mem.txt", []byte("a \n"))
	res, err := Apply(fs, []diag.Diagnostic{wsDiag(fs, id, 1, 2)}, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("unexpected skipped %+v", res.Skipped)
	}
}

func TestApplyWithRewriter(t *testing.T) {
	fs, id, path := writeFile(t, "a \nb \n")
	ds := []diag.Diagnostic{wsDiag(fs, id, 1, 2), wsDiag(fs, id, 4, 5)}

	var calls int
	rw := RewriterFunc(func(file *source.File, selected []diag.Diagnostic) ([]byte, error) {
		calls++
		if file.ID != id || len(selected) != 2 {
			t.Fatalf("unexpected rewrite input: file %d, %d diagnostics", file.ID, len(selected))
		}
		return []byte("a\nb\n"), nil
	})
	res, err := Apply(fs, ds, ApplyOptions{Mode: ApplyModeAll, Rewriter: rw})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if calls != 1 || len(res.Applied) != 2 || res.FileChanges[0].EditCount != 2 {
		t.Fatalf("calls=%d applied=%d changes=%+v", calls, len(res.Applied), res.FileChanges)
	}
	if got := readFile(t, path); got != "a\nb\n" {
		t.Fatalf("file = %q", got)
	}

	failing := RewriterFunc(func(*source.File, []diag.Diagnostic) ([]byte, error) {
		return nil, errors.New("stale diagnostics")
	})
	res, err = Apply(fs, ds, ApplyOptions{Mode: ApplyModeAll, Rewriter: failing})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 2 || res.Skipped[0].Reason != "stale diagnostics" {
		t.Fatalf("unexpected skipped %+v", res.Skipped)
	}
}

func TestRunsByFile(t *testing.T) {
	at := func(file source.FileID) candidate {
		return candidate{diag: diag.Diagnostic{Primary: source.Span{File: file}}}
	}
	cands := []candidate{at(1), at(1), at(2), at(3), at(3), at(3)}

	runs := runsByFile(cands)
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	for i, want := range []int{2, 1, 3} {
		if len(runs[i]) != want {
			t.Errorf("run %d has %d candidates, want %d", i, len(runs[i]), want)
		}
		for _, c := range runs[i] {
			if c.diag.Primary.File != runs[i][0].diag.Primary.File {
				t.Errorf("run %d mixes files", i)
			}
		}
	}
	if runs := runsByFile(nil); len(runs) != 0 {
		t.Fatalf("expected no runs for empty input, got %d", len(runs))
	}
}

func TestSpansConflict(t *testing.T) {
	e := func(s, en uint32) diag.TextEdit { return diag.TextEdit{Span: source.Span{Start: s, End: en}} }
	tests := []struct {
		a, b diag.TextEdit
		want bool
	}{
		{e(0, 2), e(2, 4), false},
		{e(0, 3), e(2, 4), true},
		{e(1, 1), e(1, 1), false},
		{e(1, 1), e(0, 2), true},
		{e(0, 2), e(2, 2), false},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tt.a.Span, tt.b.Span, got, tt.want)
		}
	}
}
