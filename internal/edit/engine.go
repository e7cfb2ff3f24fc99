// Package edit splices replacement texts into a source file back to front
// and keeps a ledger mapping every replaced range of the original text to
// its range in the output.
package edit

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"fortio.org/safecast"

	"contenttag/internal/source"
)

// ErrNoEdits is returned when Apply is called without edits.
var ErrNoEdits = errors.New("no edits to apply")

// Edit replaces the bytes at Span with NewText.
type Edit struct {
	Span    source.Span
	NewText string
	// OldText, when set, must equal the original text at Span.
	OldText string
	// Content is recorded in the ledger as the original content range.
	Content source.Span
}

// Original describes the replaced region of the input.
type Original struct {
	Range        source.Span
	ContentRange source.Span
	Start        source.LineCol
	End          source.LineCol
}

// Replaced describes where the new text ended up in the output.
type Replaced struct {
	Range source.Span
}

// Replacement is one ledger entry.
type Replacement struct {
	Original Original
	Replaced Replaced
}

// Result is the outcome of Apply.
type Result struct {
	Output       []byte
	Replacements []Replacement // в порядке исходного текста
}

// ConflictError reports two edits whose spans overlap.
type ConflictError struct {
	Path string
	A, B source.Span
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: edit %d-%d conflicts with edit %d-%d", e.Path, e.A.Start, e.A.End, e.B.Start, e.B.End)
}

type candidate struct {
	edit  Edit
	index int
}

// Apply splices edits into file.Content. Edits are applied from the last
// one in the text to the first, so every span still refers to untouched
// original bytes when it is spliced; ledger entries recorded earlier (they
// sit later in the text) are shifted by the length delta of each splice.
func Apply(file *source.File, edits []Edit) (*Result, error) {
	if len(edits) == 0 {
		return nil, ErrNoEdits
	}
	candidates := make([]candidate, len(edits))
	for i, e := range edits {
		candidates[i] = candidate{edit: e, index: i}
	}
	sortCandidates(candidates)

	for i := 1; i < len(candidates); i++ {
		prev, cur := candidates[i-1].edit.Span, candidates[i].edit.Span
		if spansConflict(cur, prev) {
			return nil, &ConflictError{Path: file.Path, A: cur, B: prev}
		}
	}

	working := append([]byte(nil), file.Content...)
	ledger := make([]Replacement, 0, len(candidates))
	for _, cand := range candidates {
		e := cand.edit
		start, end := int(e.Span.Start), int(e.Span.End)
		if end < start || end > len(file.Content) {
			return nil, fmt.Errorf("%s: edit span %d-%d out of range", file.Path, start, end)
		}
		// всё, что левее start, ещё не тронуто
		if e.OldText != "" && string(working[start:end]) != e.OldText {
			return nil, fmt.Errorf("%s: existing text at %d-%d does not match expected content", file.Path, start, end)
		}
		suffix := append([]byte(nil), working[end:]...)
		working = append(append(working[:start], e.NewText...), suffix...)

		delta := len(e.NewText) - (end - start)
		for j := range ledger {
			ledger[j].Replaced.Range = ledger[j].Replaced.Range.Shift(delta)
		}

		newLen, err := safecast.Conv[uint32](len(e.NewText))
		if err != nil {
			return nil, fmt.Errorf("%s: replacement too large: %w", file.Path, err)
		}
		startLC, endLC := file.Resolve(e.Span)
		ledger = append(ledger, Replacement{
			Original: Original{
				Range:        e.Span,
				ContentRange: e.Content,
				Start:        startLC,
				End:          endLC,
			},
			Replaced: Replaced{Range: source.Span{File: e.Span.File, Start: e.Span.Start, End: e.Span.Start + newLen}},
		})
	}
	slices.Reverse(ledger)
	return &Result{Output: working, Replacements: ledger}, nil
}

// sortCandidates orders edits from the end of the file to the start. For
// equal spans the later edit goes first so insertions at one offset keep
// their input order in the output.
func sortCandidates(c []candidate) {
	sort.SliceStable(c, func(i, j int) bool {
		a, b := c[i].edit.Span, c[j].edit.Span
		if a.Start != b.Start {
			return a.Start > b.Start
		}
		if a.End != b.End {
			return a.End > b.End
		}
		return c[i].index > c[j].index
	})
}

// spansConflict reports whether two edit spans overlap.
// Spans are half-open. Two zero-length edits never conflict; a zero-length
// edit conflicts with a non-empty span if Start <= pos < End.
func spansConflict(a, b source.Span) bool {
	if a.Empty() && b.Empty() {
		return false
	}
	if a.Empty() {
		return b.Start <= a.Start && a.Start < b.End
	}
	if b.Empty() {
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}
