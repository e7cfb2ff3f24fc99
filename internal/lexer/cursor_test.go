package lexer

import (
	"testing"

	"contenttag/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.gjs", []byte(content))
	return fs.Get(id)
}

func TestCursorMarkAndSpan(t *testing.T) {
	c := NewCursor(createFile("<template>"))
	m := c.Mark()
	if !c.Eat('<') {
		t.Fatal("expected to eat '<'")
	}
	if !c.HasPrefix("template") {
		t.Fatal("expected prefix 'template'")
	}
	if c.HasPrefix("Template") {
		t.Fatal("prefix match must be case-sensitive")
	}
	if !c.EatString("template>") {
		t.Fatal("expected to eat 'template>'")
	}
	sp := c.SpanFrom(m)
	if sp.Start != 0 || sp.End != 10 {
		t.Errorf("span = %v, want 0..10", sp)
	}
	if !c.EOF() || c.Peek() != 0 || c.Bump() != 0 {
		t.Error("expected EOF state")
	}
	c.Seek(uint32(m))
	if c.Peek() != '<' {
		t.Errorf("Seek to mark failed, got %q", c.Peek())
	}
}

func TestCursorSeekClamps(t *testing.T) {
	c := NewCursor(createFile("abc"))
	c.Seek(100)
	if c.Off != 3 {
		t.Errorf("Seek should clamp to limit, got %d", c.Off)
	}
	c.Seek(1)
	if c.PeekAt(1) != 'c' || c.PeekAt(5) != 0 {
		t.Errorf("PeekAt mismatch")
	}
	if c.Bump() != 'b' || c.Bump() != 'c' || c.Bump() != 0 || c.Off != 3 {
		t.Errorf("Bump must stop at the end, off=%d", c.Off)
	}
}
