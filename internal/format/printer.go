package format

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"contenttag/internal/parser"
	"contenttag/internal/source"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
	// Compact prints generated code on a single line.
	Compact bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 2
	}
	return o
}

// Edit replaces Span (empty for a pure insertion) with whatever Print writes.
// A nil Print deletes the span.
type Edit struct {
	Span  source.Span
	Print func(w *Writer)
}

// SpliceFile copies sf to the output, replacing every edited span. Bytes
// outside the edits are copied verbatim. Edits must not overlap; insertions
// at the same offset keep their order.
func SpliceFile(sf *source.File, edits []Edit, opt Options) ([]byte, []Mapping, error) {
	if sf == nil {
		return nil, nil, errors.New("format: nil source file")
	}
	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b Edit) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})

	contentLen := len(sf.Content)
	w := NewWriter(sf, opt)
	prev := 0
	for i, e := range sorted {
		start := clampToContent(int(e.Span.Start), contentLen)
		end := clampToContent(int(e.Span.End), contentLen)
		if start < prev {
			return nil, nil, fmt.Errorf("format: edit #%d at %d overlaps previous edit ending at %d", i, start, prev)
		}
		w.copyRange(prev, start)
		if e.Print != nil {
			e.Print(w)
		}
		prev = max(end, start)
	}
	w.copyRange(prev, contentLen)
	return w.Bytes(), w.Mappings(), nil
}

// PrintNode prints one generated fragment with a fresh writer.
func PrintNode(opt Options, base string, print func(w *Writer)) string {
	w := NewWriter(nil, opt)
	w.SetBase(base)
	print(w)
	return string(w.Bytes())
}

// CheckRoundTrip re-parses generated output as plain host source (no
// template extension) to make sure the rewrite produced valid code.
func CheckRoundTrip(path string, output []byte) (ok bool, msg string) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(path, output))
	if _, err := parser.ParseFile(file, parser.Options{}); err != nil {
		return false, "round-trip: reparse failed: " + err.Error()
	}
	return true, "round-trip: OK"
}

func clampToContent(pos, length int) int {
	if pos < 0 {
		return 0
	}
	if pos > length {
		return length
	}
	return pos
}
