package diag

import "strings"

// Severity orders diagnostics: trailing whitespace is a warning, input the
// lexer cannot follow is an error, timing reports are info.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{SevInfo: "INFO", SevWarning: "WARNING", SevError: "ERROR"}

// String is the upper-case form used by the pretty and JSON outputs.
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Label is the lower-case form used by the short format.
func (s Severity) Label() string {
	return strings.ToLower(s.String())
}

// SARIFLevel maps s onto the SARIF result levels.
func (s Severity) SARIFLevel() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "note"
	}
}
