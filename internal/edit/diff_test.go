package edit

import (
	"strings"
	"testing"

	"github.com/sourcegraph/go-diff/diff"
)

func TestLedgerDiff(t *testing.T) {
	f := virtualFile("a\nb <template>x</template>\nc\n")
	res, err := Apply(f, []Edit{{Span: spanOf(t, f, "<template>x</template>"), NewText: "T"}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	out, err := LedgerDiff("f.gjs", f.Content, res.Output, res.Replacements)
	if err != nil {
		t.Fatalf("LedgerDiff: %v", err)
	}
	want := "--- a/f.gjs\n+++ b/f.gjs\n@@ -1,3 +1,3 @@\n a\n-b <template>x</template>\n+b T\n c\n"
	if string(out) != want {
		t.Fatalf("diff mismatch:\n got %q\nwant %q", out, want)
	}
}

func TestLedgerDiffSplitsDistantHunks(t *testing.T) {
	var b strings.Builder
	b.WriteString("<template>one</template>\n")
	for i := 0; i < 10; i++ {
		b.WriteString("filler\n")
	}
	b.WriteString("<template>two</template>\n")
	f := virtualFile(b.String())

	res, err := Apply(f, []Edit{
		{Span: spanOf(t, f, "<template>one</template>"), NewText: "1\n1"},
		{Span: spanOf(t, f, "<template>two</template>"), NewText: "2"},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	out, err := LedgerDiff("f.gjs", f.Content, res.Output, res.Replacements)
	if err != nil {
		t.Fatalf("LedgerDiff: %v", err)
	}

	fd, err := diff.ParseFileDiff(out)
	if err != nil {
		t.Fatalf("parse produced diff: %v", err)
	}
	if len(fd.Hunks) != 2 {
		t.Fatalf("expected 2 hunks, got %d:\n%s", len(fd.Hunks), out)
	}
	h := fd.Hunks[1]
	if h.OrigStartLine != 9 || h.NewStartLine != 10 {
		t.Fatalf("second hunk at -%d +%d, want -9 +10", h.OrigStartLine, h.NewStartLine)
	}
	if h.OrigLines != 4 || h.NewLines != 4 {
		t.Fatalf("second hunk sizes -%d +%d", h.OrigLines, h.NewLines)
	}
}

func TestLedgerDiffEmpty(t *testing.T) {
	out, err := LedgerDiff("f.gjs", []byte("x"), []byte("x"), nil)
	if err != nil {
		t.Fatalf("LedgerDiff: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty diff, got %q", out)
	}
}

func TestUnifiedDiff(t *testing.T) {
	out, err := UnifiedDiff("f.gjs", []byte("a\nb\n"), []byte("a\nc\n"))
	if err != nil {
		t.Fatalf("UnifiedDiff: %v", err)
	}
	for _, line := range []string{"--- a/f.gjs", "+++ b/f.gjs", "-b", "+c"} {
		if !strings.Contains(out, line+"\n") {
			t.Fatalf("missing %q in:\n%s", line, out)
		}
	}
}
