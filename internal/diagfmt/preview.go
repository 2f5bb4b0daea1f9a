package diagfmt

import (
	"fmt"
	"strings"

	"wscheck/internal/diag"
	"wscheck/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview renders the lines touched by edit before and after applying it.
func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	if edit.Span.Start > edit.Span.End || edit.Span.End > file.Len() {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range", edit.Span)
	}

	startLine := file.LinePos(edit.Span.Start).Line
	endLine := max(file.LinePos(edit.Span.End).Line, startLine)

	blockStart, _ := file.LineBounds(startLine)
	_, blockEnd := file.LineBounds(endLine)
	blockEnd = max(blockEnd, edit.Span.End)

	original := file.Content[blockStart:blockEnd]
	relStart := edit.Span.Start - blockStart
	relEnd := edit.Span.End - blockStart

	after := make([]byte, 0, len(original)+len(edit.NewText))
	after = append(after, original[:relStart]...)
	after = append(after, edit.NewText...)
	after = append(after, original[relEnd:]...)

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

// splitPreviewLines splits on any line terminator and drops one trailing terminator.
func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return []string{""}
	}
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
