package lexer

import (
	"path/filepath"
	"sort"
	"strings"
)

// BlockComment describes a delimited comment form.
type BlockComment struct {
	Open   string
	Close  string
	Nested bool
}

// Syntax tells the lexer which byte sequences start comments and literals.
// The lexer only needs enough of a language to know where trivia ends; it
// never validates the program.
type Syntax struct {
	Name          string
	Extensions    []string // with leading dot, lower case
	LineComments  []string
	DocLinePrefix string // checked before LineComments, e.g. "///"
	BlockComments []BlockComment
	// Quotes open single-line string literals with backslash escapes.
	Quotes string
	// MultilineQuotes open raw literals that may span lines.
	MultilineQuotes string
	// TripleQuotes enables """...""" and '''...''' literals for every quote in Quotes.
	TripleQuotes bool
	// Shebang makes a leading "#!" line a directive.
	Shebang bool
}

// Plain has no comments and no literals: every line is inspected.
var Plain = &Syntax{Name: "plain"}

var presets = []*Syntax{
	Plain,
	{
		Name:          "c",
		Extensions:    []string{".c", ".h", ".cc", ".cpp", ".hpp", ".cs", ".java", ".js", ".mjs", ".ts", ".tsx", ".jsx", ".kt", ".swift", ".scala", ".css", ".scss", ".proto"},
		LineComments:  []string{"//"},
		DocLinePrefix: "///",
		BlockComments: []BlockComment{{Open: "/*", Close: "*/"}},
		Quotes:        "\"'",
	},
	{
		Name:            "go",
		Extensions:      []string{".go"},
		LineComments:    []string{"//"},
		BlockComments:   []BlockComment{{Open: "/*", Close: "*/"}},
		Quotes:          "\"'",
		MultilineQuotes: "`",
	},
	{
		Name:          "rust",
		Extensions:    []string{".rs"},
		LineComments:  []string{"//"},
		DocLinePrefix: "///",
		BlockComments: []BlockComment{{Open: "/*", Close: "*/", Nested: true}},
		Quotes:        "\"",
	},
	{
		Name:         "hash",
		Extensions:   []string{".sh", ".bash", ".zsh", ".rb", ".pl", ".mk", ".cmake", ".r"},
		LineComments: []string{"#"},
		Quotes:       "\"'",
		Shebang:      true,
	},
	{
		Name:         "config",
		Extensions:   []string{".yaml", ".yml", ".toml", ".conf", ".ini", ".cfg", ".properties"},
		LineComments: []string{"#", ";"},
	},
	{
		Name:         "python",
		Extensions:   []string{".py", ".pyi"},
		LineComments: []string{"#"},
		Quotes:       "\"'",
		TripleQuotes: true,
		Shebang:      true,
	},
	{
		Name:          "sql",
		Extensions:    []string{".sql", ".lua", ".hs"},
		LineComments:  []string{"--"},
		BlockComments: []BlockComment{{Open: "/*", Close: "*/"}, {Open: "--[[", Close: "]]"}, {Open: "{-", Close: "-}", Nested: true}},
		Quotes:        "\"'",
	},
}

// Presets returns the built-in syntaxes sorted by name.
func Presets() []*Syntax {
	out := append([]*Syntax(nil), presets...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SyntaxByName returns a built-in syntax or nil.
func SyntaxByName(name string) *Syntax {
	for _, s := range presets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Registry resolves a syntax by file extension. Profiles added later win over
// earlier ones and over the presets.
type Registry struct {
	byExt map[string]*Syntax
}

// NewRegistry returns a registry seeded with the presets.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]*Syntax)}
	for _, s := range presets {
		r.Register(s)
	}
	return r
}

// Register maps every extension of s to s.
func (r *Registry) Register(s *Syntax) {
	for _, ext := range s.Extensions {
		r.byExt[normalizeExt(ext)] = s
	}
}

// ForPath picks a syntax by extension, falling back to Plain.
func (r *Registry) ForPath(path string) *Syntax {
	if r == nil {
		return SyntaxForPath(path)
	}
	if s, ok := r.byExt[normalizeExt(filepath.Ext(path))]; ok {
		return s
	}
	return Plain
}

var defaultRegistry = NewRegistry()

// SyntaxForPath picks a built-in syntax by extension, falling back to Plain.
func SyntaxForPath(path string) *Syntax {
	return defaultRegistry.ForPath(path)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// isQuote reports whether r opens a literal and whether that literal may span lines.
func (s *Syntax) isQuote(r rune) (quote, multiline bool) {
	if strings.ContainsRune(s.MultilineQuotes, r) {
		return true, true
	}
	return strings.ContainsRune(s.Quotes, r), false
}
