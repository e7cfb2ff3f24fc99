package format

import (
	"strings"

	"contenttag/internal/source"
)

// Mapping ties a generated position to a byte offset of the original file.
// Columns are counted in UTF-16 code units, as source maps expect.
type Mapping struct {
	GenLine int
	GenCol  int
	Origin  uint32
}

// Writer builds one output file: verbatim copies of the original bytes and
// generated code, tracking the generated line and column as it goes.
type Writer struct {
	sf  *source.File
	opt Options
	out strings.Builder

	depth int
	// base prefixes every generated line after the first
	base    string
	pending bool // перед следующим выводом нужен отступ

	line, col int
	mappings  []Mapping
}

// NewWriter returns a writer over sf; sf may be nil when only generated code
// is printed.
func NewWriter(sf *source.File, opt Options) *Writer {
	w := &Writer{sf: sf, opt: opt.withDefaults()}
	if sf != nil {
		w.out.Grow(len(sf.Content) + 256)
	}
	return w
}

func (w *Writer) Bytes() []byte { return []byte(w.out.String()) }

func (w *Writer) String() string { return w.out.String() }

// Mappings returns the recorded mappings in output order.
func (w *Writer) Mappings() []Mapping { return w.mappings }

// SetBase replaces the line prefix and returns the previous one.
func (w *Writer) SetBase(base string) (prev string) {
	prev, w.base = w.base, base
	return prev
}

func (w *Writer) IndentPush() { w.depth++ }

func (w *Writer) IndentPop() { w.depth = max(w.depth-1, 0) }

// Mark records that the next byte written comes from origin.
func (w *Writer) Mark(origin uint32) {
	w.flushIndent()
	w.mappings = append(w.mappings, Mapping{GenLine: w.line, GenCol: w.col, Origin: origin})
}

// WriteString writes generated text.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.flushIndent()
	w.emit(s)
	w.pending = s[len(s)-1] == '\n'
}

// Newline ends a generated line. Compact writers never add lines: they emit
// a single separating space instead.
func (w *Writer) Newline() {
	if !w.opt.Compact {
		w.emit("\n")
		w.pending = true
		return
	}
	if s := w.out.String(); s != "" && !w.pending && !strings.ContainsAny(s[len(s)-1:], " \t\n") {
		w.emit(" ")
	}
}

func (w *Writer) flushIndent() {
	if !w.pending {
		return
	}
	w.pending = false
	unit := strings.Repeat(" ", w.opt.IndentWidth)
	if w.opt.UseTabs {
		unit = "\t"
	}
	w.emit(w.base + strings.Repeat(unit, w.depth))
}

// emit appends s and advances line and column.
func (w *Writer) emit(s string) {
	w.out.WriteString(s)
	for _, r := range s {
		switch {
		case r == '\n':
			w.line, w.col = w.line+1, 0
		case r >= 0x10000:
			// суррогатная пара
			w.col += 2
		default:
			w.col++
		}
	}
}

// copyRange copies original bytes [start, end) and records an identity
// mapping at the start of the range and of every copied line.
func (w *Writer) copyRange(start, end int) {
	if w.sf == nil {
		return
	}
	start, end = max(start, 0), min(end, len(w.sf.Content))
	if start >= end {
		return
	}
	w.pending = false
	for start < end {
		stop := end
		if i := strings.IndexByte(string(w.sf.Content[start:end]), '\n'); i >= 0 {
			stop = start + i + 1
		}
		w.mappings = append(w.mappings, Mapping{GenLine: w.line, GenCol: w.col, Origin: uint32(start)})
		w.emit(string(w.sf.Content[start:stop]))
		start = stop
	}
	w.pending = w.sf.Content[end-1] == '\n'
}
