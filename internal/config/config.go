package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"wscheck/internal/lexer"
)

// ErrSyntaxNameMissing indicates a [[syntax]] entry without a name.
var ErrSyntaxNameMissing = errors.New("missing [[syntax]].name")

// DefaultExclude keeps version-control metadata out of directory runs.
var DefaultExclude = []string{"**/.git/**", "**/.hg/**", "**/.svn/**"}

// Config is the resolved content of a .wscheck.toml. Zero values of
// MaxDiagnostics and Jobs mean "use the built-in default".
type Config struct {
	// Path of the file the config was read from; empty for defaults.
	Path string
	// Root is the directory include/exclude patterns are relative to.
	Root string

	Include        []string
	Exclude        []string
	MaxDiagnostics int
	Jobs           int
	Cache          bool

	Syntaxes []*lexer.Syntax
}

type fileConfig struct {
	Check struct {
		Include        []string `toml:"include"`
		Exclude        []string `toml:"exclude"`
		MaxDiagnostics int      `toml:"max_diagnostics"`
		Jobs           int      `toml:"jobs"`
		Cache          bool     `toml:"cache"`
	} `toml:"check"`
	Syntax []syntaxConfig `toml:"syntax"`
}

type syntaxConfig struct {
	Name            string               `toml:"name"`
	Base            string               `toml:"base"`
	Extensions      []string             `toml:"extensions"`
	LineComments    []string             `toml:"line_comments"`
	DocLinePrefix   string               `toml:"doc_line_prefix"`
	BlockComments   []blockCommentConfig `toml:"block_comments"`
	Quotes          string               `toml:"quotes"`
	MultilineQuotes string               `toml:"multiline_quotes"`
	TripleQuotes    bool                 `toml:"triple_quotes"`
	Shebang         bool                 `toml:"shebang"`
}

type blockCommentConfig struct {
	Open   string `toml:"open"`
	Close  string `toml:"close"`
	Nested bool   `toml:"nested"`
}

// Default returns the configuration used when no file is found.
func Default(root string) *Config {
	return &Config{
		Root:    root,
		Exclude: append([]string(nil), DefaultExclude...),
	}
}

// Discover finds .wscheck.toml above target and loads it. Without a file the
// defaults are returned, rooted at target's directory.
func Discover(target string) (*Config, error) {
	p, ok, err := Find(target)
	if err != nil {
		return nil, err
	}
	if ok {
		return Load(p)
	}
	root, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", target, err)
	}
	if info, statErr := os.Stat(root); statErr == nil && !info.IsDir() {
		root = filepath.Dir(root)
	}
	return Default(root), nil
}

// Load parses a configuration file. Errors name the file and the offending key.
func Load(p string) (*Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(p, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", p, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", p, undecoded[0].String())
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", p, err)
	}
	cfg := Default(filepath.Dir(abs))
	cfg.Path = abs

	if meta.IsDefined("check", "include") {
		cfg.Include = raw.Check.Include
	}
	if meta.IsDefined("check", "exclude") {
		cfg.Exclude = raw.Check.Exclude
	}
	for _, pattern := range cfg.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%s: invalid [check].include pattern %q", p, pattern)
		}
	}
	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%s: invalid [check].exclude pattern %q", p, pattern)
		}
	}

	if raw.Check.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("%s: [check].max_diagnostics must not be negative", p)
	}
	if raw.Check.Jobs < 0 {
		return nil, fmt.Errorf("%s: [check].jobs must not be negative", p)
	}
	cfg.MaxDiagnostics = raw.Check.MaxDiagnostics
	cfg.Jobs = raw.Check.Jobs
	cfg.Cache = raw.Check.Cache

	for i, sc := range raw.Syntax {
		syn, err := sc.build()
		if err != nil {
			return nil, fmt.Errorf("%s: [[syntax]] #%d: %w", p, i+1, err)
		}
		cfg.Syntaxes = append(cfg.Syntaxes, syn)
	}
	return cfg, nil
}

func (sc syntaxConfig) build() (*lexer.Syntax, error) {
	name := strings.TrimSpace(sc.Name)
	if name == "" {
		return nil, ErrSyntaxNameMissing
	}
	if len(sc.Extensions) == 0 {
		return nil, fmt.Errorf("syntax %q: missing extensions", name)
	}

	syn := &lexer.Syntax{}
	if sc.Base != "" {
		base := lexer.SyntaxByName(sc.Base)
		if base == nil {
			return nil, fmt.Errorf("syntax %q: unknown base %q", name, sc.Base)
		}
		*syn = *base
	}
	syn.Name = name
	syn.Extensions = sc.Extensions
	if sc.LineComments != nil {
		syn.LineComments = sc.LineComments
	}
	if sc.DocLinePrefix != "" {
		syn.DocLinePrefix = sc.DocLinePrefix
	}
	if sc.BlockComments != nil {
		syn.BlockComments = make([]lexer.BlockComment, 0, len(sc.BlockComments))
		for _, bc := range sc.BlockComments {
			if bc.Open == "" || bc.Close == "" {
				return nil, fmt.Errorf("syntax %q: block comment needs open and close", name)
			}
			syn.BlockComments = append(syn.BlockComments, lexer.BlockComment(bc))
		}
	}
	if sc.Quotes != "" {
		syn.Quotes = sc.Quotes
	}
	if sc.MultilineQuotes != "" {
		syn.MultilineQuotes = sc.MultilineQuotes
	}
	syn.TripleQuotes = syn.TripleQuotes || sc.TripleQuotes
	syn.Shebang = syn.Shebang || sc.Shebang
	return syn, nil
}

// Registry returns the preset registry with the configured profiles layered on top.
func (c *Config) Registry() *lexer.Registry {
	r := lexer.NewRegistry()
	for _, s := range c.Syntaxes {
		r.Register(s)
	}
	return r
}

// Rel converts an absolute or working-directory relative path into the
// slash-separated form patterns are matched against.
func (c *Config) Rel(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	rel, err := filepath.Rel(c.Root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

// Includes reports whether a file (slash-separated, relative to Root) is checked.
func (c *Config) Includes(rel string) bool {
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	if len(c.Include) == 0 {
		return true
	}
	for _, pattern := range c.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// SkipDir reports whether a whole directory is excluded. Only patterns that
// end in "/**" can prune a directory.
func (c *Config) SkipDir(rel string) bool {
	if rel == "." || rel == "" {
		return false
	}
	for _, pattern := range c.Exclude {
		prefix, ok := strings.CutSuffix(pattern, "/**")
		if !ok {
			continue
		}
		if matched, _ := doublestar.Match(prefix, rel); matched {
			return true
		}
		if strings.HasPrefix(prefix, "**/") {
			if matched, _ := doublestar.Match(strings.TrimPrefix(prefix, "**/"), path.Base(rel)); matched {
				return true
			}
		}
	}
	return false
}
