// Package diag holds the diagnostic data model shared by the lexer, the
// trailing whitespace detector, the fix engine and every output format.
//
// A Diagnostic carries a Severity, a stable Code (WS2001, LEX1003, IO4001 and
// so on), a message, the zero-based line it belongs to and a primary
// source.Span. Notes point at related spans; Fixes describe how to resolve
// the problem.
//
// # Fixes
//
// A Fix is plain data: a title, an optional stable ID, a FixKind, a
// FixApplicability and a list of TextEdits. OldText on an edit is a guard the
// fix engine compares against the file before splicing. Builders and the
// engine itself live in internal/fix.
//
// # Emitting
//
// Producers write through a Reporter. BagReporter stores into a Bag, which
// can be merged, sorted and filtered. ReportBuilder (see ReportError and
// ReportWarning) chains notes and fixes before a single Emit.
//
// The short format in this package ("severity CODE path:line:col message") is
// what golden tests and the CLI's --format short compare against; the richer
// renderers are in internal/diagfmt.
package diag
