package source

type (
	// FileID uniquely identifies a source file version within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	// FileHadBOM indicates a UTF-8 BOM was stripped on load and must be restored on write.
	FileHadBOM
	// FileDerived marks a version produced by an edit rather than read from disk.
	FileDerived
)

// File captures metadata and content for a single source file version.
// Content is never modified after the file has been added to a FileSet.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of line terminators, see buildLineIndex
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// LinePos is a zero-based line/column pair, as used by diagnostics.
type LinePos struct {
	Line uint32
	Col  uint32
}

// LineCol converts the position to its 1-based form.
func (p LinePos) LineCol() LineCol {
	return LineCol{Line: p.Line + 1, Col: p.Col + 1}
}
