package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSet_Resolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.gjs", []byte("ab\ncd\r\nef"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}}, // сам '\n' принадлежит первой строке
		{3, LineCol{Line: 2, Col: 1}},
		{7, LineCol{Line: 3, Col: 1}},
		{9, LineCol{Line: 3, Col: 3}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestFile_GetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("x.gts", []byte("first\r\nsecond\nthird")))

	want := []string{"", "first", "second", "third", ""}
	for i, w := range want {
		if got := f.GetLine(uint32(i)); got != w {
			t.Errorf("GetLine(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestFileSet_LoadKeepsLineEndings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.gjs")
	content := "\xEF\xBB\xBFconst a = 1;\r\n<template>x</template>\r\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if f.Flags&FileHadBOM == 0 {
		t.Errorf("expected FileHadBOM flag")
	}
	if string(f.Content) != content[3:] {
		t.Errorf("content changed: %q", f.Content)
	}
	if got, ok := fs.Lookup(path); !ok || got != id {
		t.Errorf("Lookup = %d, %v", got, ok)
	}
}

func TestFile_LineCount(t *testing.T) {
	fs := NewFileSet()
	tests := map[string]int{"": 0, "a": 1, "a\n": 1, "a\nb": 2, "\n\n": 2}
	for content, want := range tests {
		if got := fs.Get(fs.AddVirtual("x.gjs", []byte(content))).LineCount(); got != want {
			t.Errorf("LineCount(%q) = %d, want %d", content, got, want)
		}
	}
}
