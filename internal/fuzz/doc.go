// Package fuzztests houses Go fuzz harnesses for the lexer and the trailing
// whitespace checks. They feed arbitrary bytes through lexing, detection and
// fixing and fail on panics or broken invariants.
package fuzztests
