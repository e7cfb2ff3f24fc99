package edit

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contenttag/internal/source"
)

func virtualFile(content string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("foo.gjs", []byte(content)))
}

func spanOf(t *testing.T, f *source.File, needle string) source.Span {
	t.Helper()
	i := strings.Index(string(f.Content), needle)
	if i < 0 {
		t.Fatalf("%q not found", needle)
	}
	return source.Span{File: f.ID, Start: uint32(i), End: uint32(i + len(needle))}
}

func TestApplyLedgerSlicesOutput(t *testing.T) {
	f := virtualFile("const a = <template>A</template>;\nclass X {\n  <template>BB</template>\n}\n")
	first := spanOf(t, f, "<template>A</template>")
	second := spanOf(t, f, "<template>BB</template>")
	edits := []Edit{
		{Span: first, NewText: `template("A", {})`, Content: source.Span{Start: first.Start + 10, End: first.Start + 11}},
		{Span: second, NewText: `static { template("BB", { component: this }); }`},
	}

	res, err := Apply(f, edits)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := "const a = template(\"A\", {});\nclass X {\n  static { template(\"BB\", { component: this }); }\n}\n"
	if string(res.Output) != want {
		t.Fatalf("output mismatch:\n got %q\nwant %q", res.Output, want)
	}

	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - int(e.Span.Len())
	}
	if len(res.Output) != len(f.Content)+delta {
		t.Fatalf("output length %d, want %d", len(res.Output), len(f.Content)+delta)
	}

	if len(res.Replacements) != 2 {
		t.Fatalf("expected 2 replacements, got %d", len(res.Replacements))
	}
	for i, r := range res.Replacements {
		got := string(r.Replaced.Range.Slice(res.Output))
		if got != edits[i].NewText {
			t.Fatalf("replacement %d slices to %q, want %q", i, got, edits[i].NewText)
		}
		if r.Original.Range != edits[i].Span {
			t.Fatalf("replacement %d original range %v, want %v", i, r.Original.Range, edits[i].Span)
		}
	}

	r := res.Replacements[1]
	if r.Original.Start.Line != 3 || r.Original.Start.Col != 3 {
		t.Fatalf("unexpected original start %+v", r.Original.Start)
	}
	if res.Replacements[0].Original.ContentRange.Len() != 1 {
		t.Fatalf("content range not carried: %+v", res.Replacements[0].Original.ContentRange)
	}
}

func TestApplyShrinkingEdits(t *testing.T) {
	f := virtualFile("aaaa bbbb cccc")
	edits := []Edit{
		{Span: spanOf(t, f, "aaaa"), NewText: "1"},
		{Span: spanOf(t, f, "bbbb"), NewText: "22"},
		{Span: spanOf(t, f, "cccc"), NewText: "333333"},
	}
	res, err := Apply(f, edits)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if string(res.Output) != "1 22 333333" {
		t.Fatalf("got %q", res.Output)
	}
	wantRanges := [][2]uint32{{0, 1}, {2, 4}, {5, 11}}
	for i, r := range res.Replacements {
		if r.Replaced.Range.Start != wantRanges[i][0] || r.Replaced.Range.End != wantRanges[i][1] {
			t.Fatalf("replacement %d at %d-%d, want %v", i, r.Replaced.Range.Start, r.Replaced.Range.End, wantRanges[i])
		}
	}
}

func TestApplyInsertionsKeepOrder(t *testing.T) {
	f := virtualFile("ab")
	at := source.Span{File: f.ID, Start: 1, End: 1}
	res, err := Apply(f, []Edit{{Span: at, NewText: "X"}, {Span: at, NewText: "Y"}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if string(res.Output) != "aXYb" {
		t.Fatalf("got %q", res.Output)
	}
	if got := string(res.Replacements[0].Replaced.Range.Slice(res.Output)); got != "X" {
		t.Fatalf("first insertion slices to %q", got)
	}
	if got := string(res.Replacements[1].Replaced.Range.Slice(res.Output)); got != "Y" {
		t.Fatalf("second insertion slices to %q", got)
	}
}

func TestApplyRejectsConflicts(t *testing.T) {
	f := virtualFile("0123456789")
	_, err := Apply(f, []Edit{
		{Span: source.Span{File: f.ID, Start: 0, End: 5}, NewText: "a"},
		{Span: source.Span{File: f.ID, Start: 4, End: 8}, NewText: "b"},
	})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestApplyGuards(t *testing.T) {
	f := virtualFile("hello world")
	_, err := Apply(f, []Edit{{Span: spanOf(t, f, "world"), NewText: "there", OldText: "earth"}})
	if err == nil || !strings.Contains(err.Error(), "does not match") {
		t.Fatalf("expected guard mismatch, got %v", err)
	}

	_, err = Apply(f, []Edit{{Span: source.Span{File: f.ID, Start: 5, End: 40}, NewText: ""}})
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected range error, got %v", err)
	}

	if _, err := Apply(f, nil); !errors.Is(err, ErrNoEdits) {
		t.Fatalf("expected ErrNoEdits, got %v", err)
	}
}

func TestSpansConflict(t *testing.T) {
	tests := []struct {
		a, b source.Span
		want bool
	}{
		{source.Span{Start: 0, End: 0}, source.Span{Start: 0, End: 0}, false},
		{source.Span{Start: 2, End: 2}, source.Span{Start: 0, End: 5}, true},
		{source.Span{Start: 5, End: 5}, source.Span{Start: 0, End: 5}, false},
		{source.Span{Start: 0, End: 3}, source.Span{Start: 3, End: 6}, false},
		{source.Span{Start: 0, End: 4}, source.Span{Start: 3, End: 6}, true},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got := spansConflict(tt.b, tt.a); got != tt.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestWriteFileKeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.gjs")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, []byte("new")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode changed to %v", info.Mode().Perm())
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Fatalf("got %q", data)
	}
}
