package fix

import (
	"testing"

	"wscheck/internal/diag"
	"wscheck/internal/source"
)

// TestDeleteSpan проверяет форму исправления-удаления
func TestDeleteSpan(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.txt", []byte("x = 1   \n"))

	span := source.Span{File: fileID, Start: 5, End: 8}
	fix := DeleteSpan("Remove trailing whitespace", span, "   ")

	if len(fix.Edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(fix.Edits))
	}
	edit := fix.Edits[0]
	if edit.NewText != "" {
		t.Errorf("expected empty NewText for deletion, got %q", edit.NewText)
	}
	if edit.OldText != "   " {
		t.Errorf("expected OldText of three spaces, got %q", edit.OldText)
	}
	if edit.Span != span {
		t.Errorf("unexpected span %v", edit.Span)
	}
}

func TestReplaceSpan(t *testing.T) {
	span := source.Span{File: 0, Start: 0, End: 1}
	fix := ReplaceSpan("Replace tab", span, "    ", "\t")

	edit := fix.Edits[0]
	if edit.NewText != "    " || edit.OldText != "\t" {
		t.Fatalf("unexpected edit %+v", edit)
	}
}

func TestDeleteSpans(t *testing.T) {
	spans := []source.Span{{Start: 1, End: 2}, {Start: 5, End: 7}}
	fix := DeleteSpans("Remove all", spans, []string{" "})

	if len(fix.Edits) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(fix.Edits))
	}
	if fix.Edits[0].OldText != " " || fix.Edits[1].OldText != "" {
		t.Fatalf("unexpected guards: %q %q", fix.Edits[0].OldText, fix.Edits[1].OldText)
	}
}

// TestMultipleOptions проверяет комбинацию нескольких опций
func TestMultipleOptions(t *testing.T) {
	span := source.Span{File: 0, Start: 0, End: 0}
	fix := InsertText(
		"Test fix",
		span,
		"\n",
		"",
		Preferred(),
		WithID("custom-id"),
		WithKind(diag.FixKindRefactor),
		WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
	)

	if !fix.IsPreferred {
		t.Error("expected IsPreferred to be true")
	}
	if fix.ID != "custom-id" {
		t.Errorf("expected ID 'custom-id', got %q", fix.ID)
	}
	if fix.Kind != diag.FixKindRefactor {
		t.Errorf("expected Kind FixKindRefactor, got %v", fix.Kind)
	}
	if fix.Applicability != diag.FixApplicabilitySafeWithHeuristics {
		t.Errorf("expected Applicability SafeWithHeuristics, got %v", fix.Applicability)
	}
}

// TestNilOption проверяет, что nil-опции игнорируются
func TestNilOption(t *testing.T) {
	fix := DeleteSpan("x", source.Span{}, "", nil, Preferred(), nil)
	if !fix.IsPreferred {
		t.Fatal("expected IsPreferred to be true")
	}
}

func TestDefaults(t *testing.T) {
	fix := DeleteSpan("x", source.Span{}, "")
	if fix.Kind != diag.FixKindQuickFix {
		t.Errorf("expected quick fix kind, got %v", fix.Kind)
	}
	if fix.Applicability != diag.FixApplicabilityAlwaysSafe {
		t.Errorf("expected AlwaysSafe, got %v", fix.Applicability)
	}
}

func TestMakeFixID(t *testing.T) {
	if id := MakeFixID(diag.WSTrailingWhitespace, source.LinePos{Line: 2, Col: 7}); id != "WS2001-3-8" {
		t.Fatalf("unexpected fix id %q", id)
	}
}
