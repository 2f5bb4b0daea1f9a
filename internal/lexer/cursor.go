package lexer

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"wscheck/internal/source"
)

// Cursor is a byte offset into one file's content.
type Cursor struct {
	file source.FileID
	src  []byte
	Off  uint32
}

// NewCursor positions a cursor at the start of f. Files longer than 4GiB
// cannot be addressed by a Span and panic here.
func NewCursor(f *source.File) Cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", f.Path, err))
	}
	return Cursor{file: f.ID, src: f.Content}
}

// EOF reports whether every byte has been consumed.
func (c *Cursor) EOF() bool {
	return int(c.Off) >= len(c.src)
}

// rest is the unread input.
func (c *Cursor) rest() []byte {
	if c.EOF() {
		return nil
	}
	return c.src[c.Off:]
}

// Peek returns the next byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.Off]
}

// Peek3 returns the next three bytes; ok is false when fewer remain.
func (c *Cursor) Peek3() (b0, b1, b2 byte, ok bool) {
	r := c.rest()
	if len(r) < 3 {
		return 0, 0, 0, false
	}
	return r[0], r[1], r[2], true
}

// Bump consumes and returns one byte.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}

// Mark remembers an offset so the consumed fragment can be turned into a Span.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom covers everything consumed since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.Off}
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.Peek() != b || c.EOF() {
		return false
	}
	c.Off++
	return true
}

// HasPrefix reports whether the unread input starts with a non-empty s.
func (c *Cursor) HasPrefix(s string) bool {
	return s != "" && bytes.HasPrefix(c.rest(), []byte(s))
}

// EatString consumes s if the unread input starts with it.
func (c *Cursor) EatString(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	c.Off += uint32(len(s)) // bounded by len(src), checked in NewCursor
	return true
}
