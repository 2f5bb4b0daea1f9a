// Package token defines the language-neutral token kinds and trivia used by wscheck.
// Invariants:
//   - Token.Text holds exactly the source bytes of Token.Span.
//   - Token.Span matches Text exactly (Start..End).
//   - Trailing trivia sits on the token's own line and ends with at most one
//     TriviaNewline, which is always its last element.
//   - Leading trivia holds everything between the previous token's trailing
//     trivia and the token, including whole blank lines.
//   - The EOF token carries the trivia that follows the last real token.
package token
