package source

import "fmt"

// Span is the half-open byte range [Start, End) of one file version.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string { return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End) }

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether both spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.File == other.File && s.Start < other.End && other.Start < s.End
}

// Cover grows s to include other. Spans of different files leave s as is.
func (s Span) Cover(other Span) Span {
	if s.File == other.File {
		s.Start = min(s.Start, other.Start)
		s.End = max(s.End, other.End)
	}
	return s
}

// ShiftLeft moves s n bytes towards the start of the file; a shift past
// offset zero is ignored.
func (s Span) ShiftLeft(n uint32) Span {
	if n <= s.Start {
		s.Start -= n
		s.End -= n
	}
	return s
}

// WithFile rebinds s to another version of the same file.
func (s Span) WithFile(id FileID) Span {
	s.File = id
	return s
}
