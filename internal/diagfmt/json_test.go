package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"wscheck/internal/diag"
	"wscheck/internal/lexer"
	"wscheck/internal/source"
	"wscheck/internal/trailing"
)

func decodeReport(t *testing.T, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	t.Helper()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var rep Report
	if err := json.Unmarshal(buf.Bytes(), &rep); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	return rep
}

func TestJSONTrailingWhitespace(t *testing.T) {
	fs := source.NewFileSet()
	bag := detectBag(t, fs, "a.py", "x = 1  \n# note \t\n")

	rep := decodeReport(t, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeFixes:     true,
	})
	if diff := cmp.Diff(Summary{Files: 1, Warnings: 2, Total: 2}, rep.Summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if len(rep.Files) != 1 || rep.Files[0].Path != "a.py" {
		t.Fatalf("unexpected files: %+v", rep.Files)
	}

	ds := rep.Files[0].Diagnostics
	first, second := ds[0], ds[1]
	if first.Code != "WS2001" || first.Category != "Formatting" || first.Severity != "WARNING" {
		t.Errorf("unexpected header: %+v", first)
	}
	if first.Line != 0 || second.Line != 1 {
		t.Errorf("expected zero-based lines 0 and 1, got %d and %d", first.Line, second.Line)
	}
	wantFirst := Range{Start: 5, End: 7, StartLine: 1, StartCol: 6, EndLine: 1, EndCol: 8}
	if diff := cmp.Diff(wantFirst, first.Range); diff != "" {
		t.Errorf("first range mismatch (-want +got):\n%s", diff)
	}
	if second.Range.Start != 14 || second.Range.End != 16 {
		t.Errorf("unexpected second range: %+v", second.Range)
	}
	if len(first.Fixes) != 1 || !first.Fixes[0].Preferred || first.Fixes[0].ID != "WS2001-1-6" {
		t.Fatalf("unexpected fixes: %+v", first.Fixes)
	}
	if edit := first.Fixes[0].Edits[0]; edit.NewText != "" || edit.OldText != "  " {
		t.Errorf("unexpected edit: %+v", edit)
	}
}

func TestJSONGroupsByFile(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.AddVirtual("a.txt", []byte("a \nb \n"))
	b := fs.AddVirtual("b.txt", []byte("\"open\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewWarning(diag.WSTrailingWhitespace, source.Span{File: a, Start: 1, End: 2}, "Line '1' contains trailing whitespace"))
	bag.Add(diag.NewError(diag.LexUnterminatedString, source.Span{File: b, Start: 0, End: 5}, "unterminated string"))
	bag.Add(diag.NewWarning(diag.WSTrailingWhitespace, source.Span{File: a, Start: 4, End: 5}, "Line '2' contains trailing whitespace"))

	rep := decodeReport(t, bag, fs, JSONOpts{PathMode: PathModeBasename})
	if diff := cmp.Diff(Summary{Files: 2, Errors: 1, Warnings: 2, Total: 3}, rep.Summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if rep.Files[0].Path != "a.txt" || len(rep.Files[0].Diagnostics) != 2 {
		t.Errorf("unexpected first file: %+v", rep.Files[0])
	}
	if rep.Files[1].Path != "b.txt" || rep.Files[1].Diagnostics[0].Severity != "ERROR" {
		t.Errorf("unexpected second file: %+v", rep.Files[1])
	}
}

func TestJSONEmptyBag(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, diag.NewBag(0), source.NewFileSet(), JSONOpts{}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"files": []`)) {
		t.Fatalf("expected an empty files array, got:\n%s", buf.String())
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	bag := detectBag(t, fs, "a.txt", "one \n")

	rep := decodeReport(t, bag, fs, JSONOpts{PathMode: PathModeBasename})
	r := rep.Files[0].Diagnostics[0].Range
	if r.StartLine != 0 || r.StartCol != 0 {
		t.Errorf("expected positions to be omitted, got %+v", r)
	}
	if r.Start != 3 || r.End != 4 {
		t.Errorf("byte range must always be present, got %+v", r)
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	fs := source.NewFileSet()
	bag := detectBag(t, fs, "a.txt", "1 \n2 \n3 \n4 \n5 \n")

	rep := decodeReport(t, bag, fs, JSONOpts{PathMode: PathModeBasename, Max: 3})
	if rep.Summary.Total != 3 || !rep.Summary.Truncated {
		t.Fatalf("unexpected summary: %+v", rep.Summary)
	}
	if n := len(rep.Files[0].Diagnostics); n != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", n)
	}
}

func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	bag := detectBag(t, fs, "/home/user/project/src/main.go", "x := 1 \n")

	tests := []struct {
		name     string
		pathMode PathMode
		expected string
	}{
		{"Absolute", PathModeAbsolute, "/home/user/project/src/main.go"},
		{"Relative", PathModeRelative, "src/main.go"},
		{"Basename", PathModeBasename, "main.go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := decodeReport(t, bag, fs, JSONOpts{PathMode: tt.pathMode})
			if got := rep.Files[0].Path; got != tt.expected {
				t.Errorf("expected path %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestJSONNotesAndPreview(t *testing.T) {
	fs := source.NewFileSet()
	bag := detectBag(t, fs, "a.txt", "abc \t\nnext\n")
	d := bag.Items()[0]
	bag = diag.NewBag(2)
	bag.Add(d.WithNote(source.Span{File: d.Primary.File, Start: 0, End: 3}, "line starts here"))

	rep := decodeReport(t, bag, fs, JSONOpts{PathMode: PathModeBasename, IncludeFixes: true, IncludePreviews: true})
	got := rep.Files[0].Diagnostics[0]
	if len(got.Notes) != 0 {
		t.Errorf("notes must be omitted unless requested: %+v", got.Notes)
	}
	edit := got.Fixes[0].Edits[0]
	if diff := cmp.Diff([]string{"abc \t"}, edit.Before); diff != "" {
		t.Errorf("before mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"abc"}, edit.After); diff != "" {
		t.Errorf("after mismatch (-want +got):\n%s", diff)
	}

	rep = decodeReport(t, bag, fs, JSONOpts{PathMode: PathModeBasename, IncludeNotes: true})
	got = rep.Files[0].Diagnostics[0]
	if len(got.Notes) != 1 || got.Notes[0].Message != "line starts here" || got.Notes[0].Path != "a.txt" {
		t.Errorf("unexpected notes: %+v", got.Notes)
	}
	if len(got.Fixes) != 0 {
		t.Errorf("fixes must be omitted unless requested: %+v", got.Fixes)
	}
}

func TestJSONKeepsTimingNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte("x\n"))
	span := source.Span{File: id}
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, span, "timings").WithNote(span, `{"kind":"file"}`))

	rep := decodeReport(t, bag, fs, JSONOpts{PathMode: PathModeBasename})
	got := rep.Files[0].Diagnostics[0]
	if len(got.Notes) != 1 || got.Notes[0].Message != `{"kind":"file"}` {
		t.Fatalf("timing payload dropped: %+v", got)
	}
	if rep.Summary.Infos != 1 {
		t.Fatalf("unexpected summary: %+v", rep.Summary)
	}
}

func TestSarif(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/work")
	id := fs.AddVirtual("/work/src/a.txt", []byte("a \n"))

	bag := diag.NewBag(4)
	id2 := fs.AddVirtual("/work/src/b.txt", []byte("\xff"))
	bag.Add(diag.NewWarning(diag.LexInvalidUTF8, source.Span{File: id2, Start: 0, End: 1}, "invalid UTF-8"))
	doc, err := trailing.Lex(fs, id, lexer.Options{})
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	for _, d := range trailing.Detect(doc) {
		bag.Add(d)
	}

	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "wscheck", ToolVersion: "1.2.3", InvocationArgs: []string{"check", "."}}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatalf("Sarif: %v", err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header: %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Version != "1.2.3" {
		t.Errorf("unexpected tool: %+v", run.Tool.Driver)
	}
	if len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %+v", run.Tool.Driver.Rules)
	}
	// Rules are sorted by code, so LEX1004 precedes WS2001.
	if rule := run.Tool.Driver.Rules[1]; rule.ID != "WS2001" || rule.Properties.Category != "Formatting" {
		t.Errorf("unexpected rule: %+v", rule)
	}
	if len(run.Invocations) != 1 || !run.Invocations[0].ExecutionSuccessful {
		t.Errorf("unexpected invocations: %+v", run.Invocations)
	}

	var ws *sarifResult
	for i := range run.Results {
		if run.Results[i].RuleID == "WS2001" {
			ws = &run.Results[i]
		}
	}
	if ws == nil {
		t.Fatalf("no WS2001 result in %+v", run.Results)
	}
	if ws.RuleIndex != 1 || ws.Level != "warning" {
		t.Errorf("unexpected result: %+v", ws)
	}
	loc := ws.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "src/a.txt" {
		t.Errorf("unexpected uri %q", loc.ArtifactLocation.URI)
	}
	if loc.Region.StartLine != 1 || loc.Region.StartColumn != 2 || loc.Region.ByteOffset != 1 || loc.Region.ByteLength != 1 {
		t.Errorf("unexpected region: %+v", loc.Region)
	}
	if len(ws.Fixes) != 1 || ws.Fixes[0].ArtifactChanges[0].Replacements[0].InsertedContent != nil {
		t.Errorf("expected a single deleting fix, got %+v", ws.Fixes)
	}
}

func TestFormatTokensJSONIncludesTrailing(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte("a \n"))
	tokens := lexer.Tokenize(fs.Get(id), lexer.Options{})

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, tokens); err != nil {
		t.Fatalf("FormatTokensJSON: %v", err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected ident and EOF, got %+v", out)
	}
	trailing := out[0].Trailing
	if len(trailing) != 2 || trailing[0].Kind != "Space" || trailing[0].Text != " " || trailing[1].Kind != "Newline" {
		t.Errorf("unexpected trailing trivia: %+v", trailing)
	}

	buf.Reset()
	if err := FormatTokensPretty(&buf, tokens, fs); err != nil {
		t.Fatalf("FormatTokensPretty: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("(trailing: Space, Newline)")) {
		t.Errorf("pretty output lacks trailing trivia:\n%s", buf.String())
	}
}
