package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token (unterminated literal, stray byte).
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Ident represents a word: letters, digits and underscores starting with a letter or '_'.
	Ident
	// Number represents a numeric literal.
	Number
	// String represents a quoted literal; may span several lines.
	String
	// Punct represents any other single non-space rune.
	Punct
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case Number:
		return "Number"
	case String:
		return "String"
	case Punct:
		return "Punct"
	default:
		return "Unknown"
	}
}
