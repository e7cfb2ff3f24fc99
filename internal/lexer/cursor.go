package lexer

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"contenttag/internal/source"
)

// Cursor walks the bytes of one file. Reads past the end yield 0.
type Cursor struct {
	src  []byte
	file source.FileID
	Off  uint32
	// Limit is len(src); Off never exceeds it.
	Limit uint32
}

// Mark is a saved offset.
type Mark uint32

func NewCursor(f *source.File) Cursor {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file too large: %w", err))
	}
	return Cursor{src: f.Content, file: f.ID, Limit: n}
}

func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// Peek returns the byte under the cursor.
func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt looks n bytes ahead.
func (c *Cursor) PeekAt(n uint32) byte {
	if i := c.Off + n; i < c.Limit {
		return c.src[i]
	}
	return 0
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if c.Off < c.Limit {
		c.Off++
	}
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.Off < c.Limit && c.src[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// HasPrefix is a case-sensitive check of the unread input.
func (c *Cursor) HasPrefix(p string) bool {
	return bytes.HasPrefix(c.rest(), []byte(p))
}

// EatString consumes p if the unread input starts with it.
func (c *Cursor) EatString(p string) bool {
	if !c.HasPrefix(p) {
		return false
	}
	c.Off += uint32(len(p))
	return true
}

func (c *Cursor) rest() []byte { return c.src[c.Off:c.Limit] }

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom covers everything consumed since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.Off}
}

// Seek moves to off, clamped to the end of input.
func (c *Cursor) Seek(off uint32) { c.Off = min(off, c.Limit) }
