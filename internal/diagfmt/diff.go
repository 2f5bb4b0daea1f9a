package diagfmt

import (
	"io"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff writes a unified diff between before and after. Nothing is
// written when the contents are equal.
func UnifiedDiff(w io.Writer, path string, before, after []byte, context int) error {
	if string(before) == string(after) {
		return nil
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  context,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}
