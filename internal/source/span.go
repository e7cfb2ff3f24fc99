package source

import (
	"fmt"
)

// Span is a half-open byte range inside a single file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	if s.File != other.File {
		return false
	}
	return s.Start < other.End && other.Start < s.End
}

// Shift moves the span by delta bytes. Negative deltas that would cross
// zero leave the span untouched.
func (s Span) Shift(delta int) Span {
	if delta < 0 && uint32(-delta) > s.Start {
		return s
	}
	if delta < 0 {
		n := uint32(-delta)
		return Span{File: s.File, Start: s.Start - n, End: s.End - n}
	}
	n := uint32(delta)
	return Span{File: s.File, Start: s.Start + n, End: s.End + n}
}

// Slice returns the bytes of content covered by the span, clamped to content.
func (s Span) Slice(content []byte) []byte {
	start, end := int(s.Start), int(s.End)
	if start > len(content) {
		start = len(content)
	}
	if end > len(content) {
		end = len(content)
	}
	if end < start {
		end = start
	}
	return content[start:end]
}
