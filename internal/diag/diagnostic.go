package diag

import (
	"wscheck/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single finding. Line is zero-based and refers to the line
// the primary span sits on; producers that have no line (I/O errors) leave it 0.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Line     uint32
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
