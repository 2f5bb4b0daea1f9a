package token

import "wscheck/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine
	TriviaDirective
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaDocLine:
		return "DocLine"
	case TriviaDirective:
		return "Directive"
	default:
		return "TriviaKind(?)"
	}
}

// TriviaClass is the coarse view of trivia the whitespace checks work with.
type TriviaClass uint8

const (
	ClassOther TriviaClass = iota
	ClassWhitespace
	ClassEndOfLine
)

func (c TriviaClass) String() string {
	switch c {
	case ClassWhitespace:
		return "Whitespace"
	case ClassEndOfLine:
		return "EndOfLine"
	default:
		return "Other"
	}
}

// Class maps a trivia kind to its class. Kinds this package does not know
// (host lexer extensions) are Other.
func (k TriviaKind) Class() TriviaClass {
	switch k {
	case TriviaSpace:
		return ClassWhitespace
	case TriviaNewline:
		return ClassEndOfLine
	default:
		return ClassOther
	}
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// Class is shorthand for t.Kind.Class().
func (t Trivia) Class() TriviaClass { return t.Kind.Class() }
