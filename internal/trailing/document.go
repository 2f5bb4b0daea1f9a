package trailing

import (
	"errors"
	"fmt"
	"sync"

	"wscheck/internal/lexer"
	"wscheck/internal/source"
	"wscheck/internal/token"
)

// Document is an immutable snapshot of one file version and its tokens.
// Safe for concurrent use.
type Document struct {
	fs     *source.FileSet
	file   *source.File
	tokens []token.Token

	wsOnce  sync.Once
	wsIndex map[uint32]triviaRef
}

// triviaRef locates one trivia element inside the token stream.
type triviaRef struct {
	tok      int
	trailing bool
	idx      int
}

// NewDocument wraps already lexed tokens of file id. The stream must end with
// an EOF token and belong to that file version.
func NewDocument(fs *source.FileSet, id source.FileID, tokens []token.Token) (*Document, error) {
	if fs == nil {
		return nil, errors.New("nil file set")
	}
	f := fs.Get(id)
	if f == nil {
		return nil, fmt.Errorf("unknown file id %d", id)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		return nil, fmt.Errorf("%s: token stream does not end with EOF", f.Path)
	}
	if last := tokens[len(tokens)-1]; last.Span.File != id {
		return nil, fmt.Errorf("%s: tokens belong to file version %d, not %d", f.Path, last.Span.File, id)
	}
	return &Document{fs: fs, file: f, tokens: tokens}, nil
}

// Lex tokenizes file id with opts and wraps the result.
func Lex(fs *source.FileSet, id source.FileID, opts lexer.Options) (*Document, error) {
	if fs == nil {
		return nil, errors.New("nil file set")
	}
	f := fs.Get(id)
	if f == nil {
		return nil, fmt.Errorf("unknown file id %d", id)
	}
	return &Document{fs: fs, file: f, tokens: lexer.Tokenize(f, opts)}, nil
}

func (d *Document) FileSet() *source.FileSet { return d.fs }
func (d *Document) File() *source.File       { return d.file }
func (d *Document) FileID() source.FileID    { return d.file.ID }
func (d *Document) Content() []byte          { return d.file.Content }
func (d *Document) Text() string             { return string(d.file.Content) }

// Tokens returns the token stream. The slice is shared; do not modify it.
func (d *Document) Tokens() []token.Token { return d.tokens }

// whitespace indexes Whitespace-class trivia by start offset.
func (d *Document) whitespace() map[uint32]triviaRef {
	d.wsOnce.Do(func() {
		d.wsIndex = make(map[uint32]triviaRef)
		for i := range d.tokens {
			tok := &d.tokens[i]
			for j, tv := range tok.Leading {
				if tv.Class() == token.ClassWhitespace {
					d.wsIndex[tv.Span.Start] = triviaRef{tok: i, idx: j}
				}
			}
			for j, tv := range tok.Trailing {
				if tv.Class() == token.ClassWhitespace {
					d.wsIndex[tv.Span.Start] = triviaRef{tok: i, trailing: true, idx: j}
				}
			}
		}
	})
	return d.wsIndex
}

func (d *Document) list(ref triviaRef) []token.Trivia {
	if ref.trailing {
		return d.tokens[ref.tok].Trailing
	}
	return d.tokens[ref.tok].Leading
}

// listEndsAtEOF reports whether nothing but the end of file follows the
// collection ref points into.
func (d *Document) listEndsAtEOF(ref triviaRef) bool {
	if !ref.trailing {
		return d.tokens[ref.tok].Kind == token.EOF
	}
	next := ref.tok + 1
	return next < len(d.tokens) && d.tokens[next].Kind == token.EOF && len(d.tokens[next].Leading) == 0
}
