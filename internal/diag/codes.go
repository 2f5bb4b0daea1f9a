package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexInvalidUTF8              Code = 1004

	// Whitespace / formatting
	WSInfo               Code = 2000
	WSTrailingWhitespace Code = 2001

	// Ошибки I/O
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexInvalidUTF8:              "Invalid UTF-8 sequence",
	WSInfo:                      "Whitespace information",
	WSTrailingWhitespace:        "Trailing whitespace",
	IOLoadFileError:             "Failed to load file",
	IOWriteFileError:            "Failed to write file",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Timing information",
}

// codeCategory groups codes the way SARIF rule properties expect.
var codeCategory = map[Code]string{
	WSTrailingWhitespace: "Formatting",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("WS%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

// Category returns the rule category, or "General" for uncategorised codes.
func (c Code) Category() string {
	if cat, ok := codeCategory[c]; ok {
		return cat
	}
	return "General"
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
