package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"wscheck/internal/diag"
	"wscheck/internal/fix"
	"wscheck/internal/lexer"
	"wscheck/internal/source"
	"wscheck/internal/trailing"
)

// detectBag lexes content as a virtual file and collects trailing whitespace diagnostics.
func detectBag(t *testing.T, fs *source.FileSet, path, content string) *diag.Bag {
	t.Helper()
	id := fs.AddVirtual(path, []byte(content))
	doc, err := trailing.Lex(fs, id, lexer.Options{Syntax: lexer.SyntaxForPath(path)})
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	bag := diag.NewBag(100)
	for _, d := range trailing.Detect(doc) {
		bag.Add(d)
	}
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")

	content := []byte("let x = \"unterminated string\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.sg", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 8, End: 28},
		"Unterminated string literal",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.sg:1:9"},
		{"Relative path", PathModeRelative, "src/test.sg:1:9"},
		{"Basename only", PathModeBasename, "test.sg:1:9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			for _, want := range []string{"ERROR", "LEX1002", "Unterminated string"} {
				if !strings.Contains(output, want) {
					t.Errorf("Expected %q in output, got:\n%s", want, output)
				}
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"Short path - as is", "test.sg", "test.sg:1:9"},
		{"Long absolute path - basename", "/very/long/absolute/path/to/some/nested/directory/file.sg", "file.sg:1:9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			fileID := fs.AddVirtual(tt.path, []byte("let x = 42\n"))

			bag := diag.NewBag(10)
			bag.Add(diag.New(diag.SevWarning, diag.LexUnknownChar, source.Span{File: fileID, Start: 8, End: 10}, "Test warning"))

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			output := buf.String()

			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.expected, output)
			}
			if strings.Contains(output, "/very/long") {
				t.Errorf("Long path should have been shortened, got:\n%s", output)
			}
		})
	}
}

func TestPrettyTrailingWhitespaceCaret(t *testing.T) {
	fs := source.NewFileSet()
	bag := detectBag(t, fs, "a.go", "x := 1\t \ny := 2\n")
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	output := buf.String()

	if !strings.Contains(output, "a.go:1:7: WARNING WS2001: Line '1' contains trailing whitespace") {
		t.Fatalf("unexpected header, got:\n%s", output)
	}
	// "x := 1" is six columns, the tab expands to two more, then one space.
	if !strings.Contains(output, "  | "+strings.Repeat(" ", 6)+"^~~\n") {
		t.Fatalf("expected caret under the tab and space, got:\n%s", output)
	}
}

func TestPrettyContextLines(t *testing.T) {
	fs := source.NewFileSet()
	bag := detectBag(t, fs, "a.txt", "one\ntwo  \nthree\nfour\n")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1})
	output := buf.String()

	for _, want := range []string{"1 | one", "2 | two  ", "3 | three"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "4 | four") {
		t.Errorf("line outside context printed:\n%s", output)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("import core::util\n")
	fileID := fs.AddVirtual("test.sg", content)

	bag := diag.NewBag(4)
	primary := source.Span{File: fileID, Start: 6, End: 10}
	d := diag.New(diag.SevWarning, diag.LexUnknownChar, primary, "unexpected token")
	d = d.WithNote(source.Span{File: fileID, Start: 11, End: 15}, "remove trailing identifier")

	insertSpan := source.Span{File: fileID, Start: primary.End, End: primary.End}
	d = d.WithFix("insert semicolon", diag.TextEdit{Span: insertSpan, NewText: ";"})
	d = d.WithFixSuggestion(fix.ReplaceSpan(
		"rename import",
		source.Span{File: fileID, Start: 7, End: 17},
		"core::io",
		"core::util",
		fix.WithID("rename-import-001"),
		fix.WithKind(diag.FixKindRefactor),
	))
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:  PathModeBasename,
		ShowNotes: true,
		ShowFixes: true,
	})
	output := buf.String()

	if !strings.Contains(output, "note: test.sg:1:12") {
		t.Fatalf("expected note with location, got:\n%s", output)
	}
	if !strings.Contains(output, "fix #1: insert semicolon") {
		t.Fatalf("expected first fix entry, got:\n%s", output)
	}
	if !strings.Contains(output, "apply=\";\"") {
		t.Fatalf("expected fix edit apply preview, got:\n%s", output)
	}
	if !strings.Contains(output, "id=rename-import-001") {
		t.Fatalf("expected fix id in output, got:\n%s", output)
	}
}

func TestPrettyFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("let a = 42 // missing semicolon")
	fileID := fs.AddVirtual("example.sg", content)

	bag := diag.NewBag(2)
	insertSpan := source.Span{File: fileID, Start: 10, End: 10}
	d := diag.New(diag.SevWarning, diag.LexUnknownChar, insertSpan, "missing semicolon")
	d = d.WithFix("insert semicolon", diag.TextEdit{Span: insertSpan, NewText: ";"})
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:    PathModeBasename,
		ShowFixes:   true,
		ShowPreview: true,
	})
	output := buf.String()

	if !strings.Contains(output, "preview:") {
		t.Fatalf("expected preview header in output, got:\n%s", output)
	}
	if !strings.Contains(output, "- let a = 42 // missing semicolon") {
		t.Fatalf("expected before line in preview, got:\n%s", output)
	}
	if !strings.Contains(output, "+ let a = 42; // missing semicolon") {
		t.Fatalf("expected after line in preview, got:\n%s", output)
	}
}

func TestPrettyPreviewMarksRemovedWhitespace(t *testing.T) {
	fs := source.NewFileSet()
	bag := detectBag(t, fs, "a.txt", "abc \t\nnext\n")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:    PathModeBasename,
		ShowFixes:   true,
		ShowPreview: true,
	})
	output := buf.String()

	if !strings.Contains(output, "- abc·→") {
		t.Fatalf("expected visible trailing blanks, got:\n%s", output)
	}
	if !strings.Contains(output, "+ abc\n") {
		t.Fatalf("expected trimmed after line, got:\n%s", output)
	}
	if !strings.Contains(output, "id=WS2001-1-4") {
		t.Fatalf("expected trailing fix id, got:\n%s", output)
	}
}

func TestPrettyColorToggle(t *testing.T) {
	fs := source.NewFileSet()
	bag := detectBag(t, fs, "a.txt", "x \n")

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	Pretty(&colored, bag, fs, PrettyOpts{PathMode: PathModeBasename, Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output contains escapes:\n%q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escapes:\n%q", colored.String())
	}
}

func TestUnifiedDiff(t *testing.T) {
	var buf bytes.Buffer
	if err := UnifiedDiff(&buf, "a.txt", []byte("one \ntwo\n"), []byte("one\ntwo\n"), 1); err != nil {
		t.Fatalf("UnifiedDiff: %v", err)
	}
	output := buf.String()
	for _, want := range []string{"--- a/a.txt", "+++ b/a.txt", "-one \n", "+one\n", " two\n"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in diff, got:\n%s", want, output)
		}
	}

	buf.Reset()
	if err := UnifiedDiff(&buf, "a.txt", []byte("same\n"), []byte("same\n"), 3); err != nil {
		t.Fatalf("UnifiedDiff: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no diff for equal content, got:\n%s", buf.String())
	}
}

func TestPrettyWidthTruncatesSnippet(t *testing.T) {
	fs := source.NewFileSet()
	bag := detectBag(t, fs, "a.txt", "abcdefghijklmnop \n")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Width: 10})
	output := buf.String()

	if !strings.Contains(output, "| abcdefg...\n") {
		t.Fatalf("expected snippet cut to 10 columns, got:\n%s", output)
	}
}
