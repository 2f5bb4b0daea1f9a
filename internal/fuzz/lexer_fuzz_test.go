package fuzztests

import (
	"bytes"
	"testing"
	"unicode"

	"wscheck/internal/diag"
	"wscheck/internal/lexer"
	"wscheck/internal/source"
	"wscheck/internal/testkit"
	"wscheck/internal/trailing"
)

const maxFuzzInput = 1 << 16 // 64 KiB

var fuzzPaths = []string{"fuzz.txt", "fuzz.c", "fuzz.go", "fuzz.rs", "fuzz.py", "fuzz.sql", "fuzz.toml"}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		for _, path := range fuzzPaths {
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual(path, input))

			bag := diag.NewBag(64)
			tokens := lexer.Tokenize(file, lexer.Options{
				Syntax:   lexer.SyntaxForPath(path),
				Reporter: diag.BagReporter{Bag: bag},
			})
			if err := testkit.CheckTokenInvariants(tokens, file); err != nil {
				t.Fatalf("%s: %v", path, err)
			}
		}
	})
}

// FuzzDetectFix checks that fixing every finding leaves nothing to report
// and only ever removes spaces and tabs.
func FuzzDetectFix(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		for _, path := range fuzzPaths {
			fs := source.NewFileSet()
			id := fs.AddVirtual(path, input)
			syn := lexer.SyntaxForPath(path)

			bag := diag.NewBag(64)
			doc, err := trailing.Lex(fs, id, lexer.Options{Syntax: syn, Reporter: diag.BagReporter{Bag: bag}})
			if err != nil {
				t.Fatalf("%s: Lex: %v", path, err)
			}
			if bag.HasErrors() {
				continue
			}
			found := trailing.Detect(doc)
			fixed, err := trailing.FixAll(doc, found)
			if err != nil {
				t.Fatalf("%s: FixAll: %v", path, err)
			}

			if !onlyBlanksRemoved(input, fixed.Content()) {
				t.Fatalf("%s: fix removed more than blanks:\nbefore %q\nafter  %q", path, input, fixed.Content())
			}
			if err := testkit.CheckTokenInvariants(fixed.Tokens(), fixed.File()); err != nil {
				t.Fatalf("%s: fixed document: %v", path, err)
			}

			again, err := trailing.Lex(fs, fs.AddVirtual(path, fixed.Content()), lexer.Options{Syntax: syn})
			if err != nil {
				t.Fatalf("%s: re-Lex: %v", path, err)
			}
			if rest := trailing.Detect(again); len(rest) != 0 {
				t.Fatalf("%s: %d findings left after fix in %q", path, len(rest), fixed.Content())
			}
		}
	})
}

// onlyBlanksRemoved reports whether after equals before with some
// non-newline whitespace deleted.
func onlyBlanksRemoved(before, after []byte) bool {
	if len(after) > len(before) {
		return false
	}
	for _, nl := range [][]byte{[]byte("\n"), []byte("\r")} {
		if bytes.Count(before, nl) != bytes.Count(after, nl) {
			return false
		}
	}
	return bytes.Equal(stripBlanks(before), stripBlanks(after))
}

func stripBlanks(b []byte) []byte {
	return bytes.Map(func(r rune) rune {
		if r != '\n' && r != '\r' && unicode.IsSpace(r) {
			return -1
		}
		return r
	}, b)
}
