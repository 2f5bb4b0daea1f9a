// Package trailing finds and removes whitespace that sits right before a line
// break or the end of the file.
//
// Whitespace ending a line reaches the token model in one of two places:
//
//   - after code, it is Trailing trivia of the last token on the line;
//   - on a line with no code, it is Leading trivia of the next token (or of
//     the EOF token when nothing follows).
//
// Detect walks both collections of every token once and merges the results.
// Fix and FixAll delete reported spans and shift the existing token structure
// instead of lexing the new text again. Every edit registers a new file
// version in the FileSet, so a diagnostic computed against an older Document
// no longer matches and is rejected with ErrInvalidSpan.
package trailing
