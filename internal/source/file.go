package source

import (
	"bytes"
	"slices"
)

// FileID identifies a file within a FileSet.
type FileID uint32

// FileFlags describe where a file came from.
type FileFlags uint8

const (
	FileVirtual FileFlags = 1 << iota // не с диска: тест, stdin, пустышка для ошибки
	FileHadBOM                        // BOM снят при загрузке, вернуть при записи
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// File is one registered file.
//
// Content is kept byte-for-byte: match ranges and replacement ledgers refer
// to these offsets, so line endings are never normalised.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds the offset of every '\n'.
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based line and a 1-based byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

func newlineOffsets(content []byte) []uint32 {
	offs := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			offs = append(offs, uint32(i))
		}
	}
	return offs
}

// Position converts a byte offset; a '\n' belongs to the line it ends.
func (f *File) Position(off uint32) LineCol {
	line, _ := slices.BinarySearch(f.LineIdx, off)
	lineStart := uint32(0)
	if line > 0 {
		lineStart = f.LineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - lineStart + 1}
}

// Resolve converts both ends of span.
func (f *File) Resolve(span Span) (start, end LineCol) {
	return f.Position(span.Start), f.Position(span.End)
}

// LineCount is the number of lines; a trailing newline does not open a new one.
func (f *File) LineCount() int {
	n := len(f.LineIdx)
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}

// GetLine returns line n (1-based) without its terminator, or "" when the
// file has no such line.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	return string(bytes.TrimSuffix(f.Content[start:end], []byte{'\r'}))
}
