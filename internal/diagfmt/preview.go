package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"contenttag/internal/diag"
	"contenttag/internal/source"
)

// editPreview holds the whole lines touched by an edit, before and after it.
type editPreview struct {
	before []string
	after  []string
}

func previewEdit(fs *source.FileSet, e diag.FixEdit) (editPreview, error) {
	f := fileOf(fs, e.Span)
	if f == nil {
		return editPreview{}, errors.New("edit outside the file set")
	}
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return editPreview{}, fmt.Errorf("file too large for preview: %w", err)
	}
	if e.Span.Start > e.Span.End || e.Span.End > size {
		return editPreview{}, fmt.Errorf("edit %d..%d out of range", e.Span.Start, e.Span.End)
	}

	// расширяем до границ строк
	from := e.Span.Start
	for from > 0 && f.Content[from-1] != '\n' {
		from--
	}
	to := e.Span.End
	for to < size && f.Content[to] != '\n' {
		to++
	}

	block := string(f.Content[from:to])
	head := block[:e.Span.Start-from]
	tail := block[e.Span.End-from:]
	return editPreview{
		before: previewLines(block),
		after:  previewLines(head + e.NewText + tail),
	}, nil
}

func previewLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
