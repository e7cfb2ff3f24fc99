package edit

import (
	"sort"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"
)

// DiffContext is the number of unchanged lines shown around a change.
const DiffContext = 3

// block is a run of changed lines: [oStart, oEnd] in the original,
// [nStart, nEnd] in the output, 0-based and inclusive.
type block struct {
	oStart, oEnd int
	nStart, nEnd int
}

// LedgerDiff renders a unified diff of a position-preserving rewrite from
// its ledger. Bytes outside the replaced ranges are equal in before and
// after, so every hunk is built from the ledger alone without a line
// matching pass.
func LedgerDiff(path string, before, after []byte, reps []Replacement) ([]byte, error) {
	fd := &diff.FileDiff{OrigName: "a/" + path, NewName: "b/" + path}
	if len(reps) == 0 {
		return diff.PrintFileDiff(fd)
	}
	oLines, nLines := splitLines(before), splitLines(after)
	oStarts, nStarts := lineStarts(before), lineStarts(after)

	blocks := make([]block, 0, len(reps))
	for _, r := range reps {
		b := block{
			oStart: lineOf(oStarts, int(r.Original.Range.Start)),
			oEnd:   lastLineOf(oStarts, int(r.Original.Range.Start), int(r.Original.Range.End)),
			nStart: lineOf(nStarts, int(r.Replaced.Range.Start)),
			nEnd:   lastLineOf(nStarts, int(r.Replaced.Range.Start), int(r.Replaced.Range.End)),
		}
		// две замены на одной строке сливаются в один блок
		if n := len(blocks); n > 0 && b.oStart <= blocks[n-1].oEnd {
			last := &blocks[n-1]
			last.oEnd = max(last.oEnd, b.oEnd)
			last.nEnd = max(last.nEnd, b.nEnd)
			continue
		}
		blocks = append(blocks, b)
	}

	for i := 0; i < len(blocks); {
		j := i + 1
		for j < len(blocks) && blocks[j].oStart-blocks[j-1].oEnd-1 <= 2*DiffContext {
			j++
		}
		fd.Hunks = append(fd.Hunks, buildHunk(blocks[i:j], oLines, nLines))
		i = j
	}
	return diff.PrintFileDiff(fd)
}

func buildHunk(group []block, oLines, nLines [][]byte) *diff.Hunk {
	first, last := group[0], group[len(group)-1]
	ctxStart := max(0, first.oStart-DiffContext)
	ctxEnd := min(len(oLines)-1, last.oEnd+DiffContext)

	h := &diff.Hunk{
		OrigStartLine: int32(ctxStart + 1),
		NewStartLine:  int32(ctxStart + first.nStart - first.oStart + 1),
	}
	var body []byte
	emit := func(prefix byte, line []byte) {
		body = append(body, prefix)
		body = append(body, line...)
		if len(line) == 0 || line[len(line)-1] != '\n' {
			body = append(body, '\n')
		}
	}
	context := func(from, to int) {
		for k := from; k <= to && k < len(oLines); k++ {
			emit(' ', oLines[k])
			h.OrigLines++
			h.NewLines++
		}
	}

	context(ctxStart, first.oStart-1)
	for i, b := range group {
		if i > 0 {
			context(group[i-1].oEnd+1, b.oStart-1)
		}
		for k := b.oStart; k <= b.oEnd && k < len(oLines); k++ {
			emit('-', oLines[k])
			h.OrigLines++
		}
		for k := b.nStart; k <= b.nEnd && k < len(nLines); k++ {
			emit('+', nLines[k])
			h.NewLines++
		}
	}
	context(last.oEnd+1, ctxEnd)
	h.Body = body
	return h
}

// UnifiedDiff renders a line diff of two arbitrary texts; used when no
// ledger exists (full regeneration).
func UnifiedDiff(path string, before, after []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  DiffContext,
	})
}

func splitLines(b []byte) [][]byte {
	var out [][]byte
	for len(b) > 0 {
		i := 0
		for i < len(b) && b[i] != '\n' {
			i++
		}
		if i < len(b) {
			i++
		}
		out = append(out, b[:i])
		b = b[i:]
	}
	return out
}

func lineStarts(b []byte) []int {
	starts := []int{0}
	for i, c := range b {
		if c == '\n' && i+1 < len(b) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOf возвращает 0-based номер строки, содержащей off.
func lineOf(starts []int, off int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > off }) - 1
}

func lastLineOf(starts []int, start, end int) int {
	if end > start {
		return lineOf(starts, end-1)
	}
	return lineOf(starts, start)
}
