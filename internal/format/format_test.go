package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contenttag/internal/source"
)

func virtual(t *testing.T, content string) *source.File {
	t.Helper()
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("a.gjs", []byte(content)))
}

func TestSpliceFileReplacesAndMaps(t *testing.T) {
	sf := virtual(t, "a = X;\nb = Y;\n")
	out, maps, err := SpliceFile(sf, []Edit{
		{Span: source.Span{Start: 11, End: 12}, Print: func(w *Writer) { w.WriteString("😀") }},
		{Span: source.Span{Start: 4, End: 5}, Print: func(w *Writer) { w.WriteString("f(1)") }},
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "a = f(1);\nb = 😀;\n", string(out))

	// копии: "a = ", ";\n", "b = ", ";\n"
	require.Len(t, maps, 4)
	assert.Equal(t, Mapping{GenLine: 0, GenCol: 0, Origin: 0}, maps[0])
	assert.Equal(t, Mapping{GenLine: 0, GenCol: 8, Origin: 5}, maps[1])
	assert.Equal(t, Mapping{GenLine: 1, GenCol: 0, Origin: 7}, maps[2])
	// эмодзи занимает две единицы UTF-16
	assert.Equal(t, Mapping{GenLine: 1, GenCol: 6, Origin: 12}, maps[3])
}

func TestSpliceFileRejectsOverlap(t *testing.T) {
	sf := virtual(t, "abcdef")
	_, _, err := SpliceFile(sf, []Edit{
		{Span: source.Span{Start: 1, End: 4}},
		{Span: source.Span{Start: 2, End: 3}},
	}, Options{})
	require.Error(t, err)

	_, _, err = SpliceFile(nil, nil, Options{})
	require.Error(t, err)
}

func TestSpliceFileDeletesWithNilPrint(t *testing.T) {
	sf := virtual(t, "keep<drop>keep")
	out, _, err := SpliceFile(sf, []Edit{{Span: source.Span{Start: 4, End: 10}}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "keepkeep", string(out))
}

func TestWriterIndentAndBase(t *testing.T) {
	got := PrintNode(Options{}, "    ", func(w *Writer) {
		w.WriteString("{")
		w.IndentPush()
		w.Newline()
		w.WriteString("a: 1")
		w.IndentPop()
		w.Newline()
		w.WriteString("}")
	})
	assert.Equal(t, "{\n      a: 1\n    }", got)

	tabs := PrintNode(Options{UseTabs: true}, "", func(w *Writer) {
		w.IndentPush()
		w.Newline()
		w.WriteString("x")
	})
	assert.Equal(t, "\n\tx", tabs)
}

func TestWriterCompactNewline(t *testing.T) {
	got := PrintNode(Options{Compact: true}, "  ", func(w *Writer) {
		w.WriteString("{")
		w.IndentPush()
		w.Newline()
		w.Newline()
		w.WriteString("a")
		w.IndentPop()
		w.Newline()
		w.WriteString("}")
	})
	assert.Equal(t, "{ a }", got)
}

func TestWriterMarkAfterIndent(t *testing.T) {
	w := NewWriter(nil, Options{})
	w.SetBase("  ")
	w.WriteString("x\n")
	w.Mark(42)
	w.WriteString("y")
	require.Len(t, w.Mappings(), 1)
	assert.Equal(t, Mapping{GenLine: 1, GenCol: 2, Origin: 42}, w.Mappings()[0])
	assert.Equal(t, "x\n  y", w.String())
}

func TestCheckRoundTrip(t *testing.T) {
	ok, _ := CheckRoundTrip("a.js", []byte("const a = template(\"x\", {});\n"))
	assert.True(t, ok)
	ok, msg := CheckRoundTrip("a.js", []byte("const a = (;\n"))
	assert.False(t, ok)
	assert.Contains(t, msg, "reparse failed")
}
