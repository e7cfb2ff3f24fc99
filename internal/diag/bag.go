package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics up to a limit. It is a Reporter; it is not safe
// for concurrent use, the driver fills one bag per run after workers finish.
type Bag struct {
	items   []Diagnostic
	limit   int
	dropped int
}

// NewBag returns a bag keeping at most limit diagnostics; limit <= 0 means
// no limit.
func NewBag(limit int) *Bag {
	return &Bag{limit: limit}
}

// Add keeps d unless the limit is reached; it reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if b.limit > 0 && len(b.items) >= b.limit {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Report(d Diagnostic) { b.Add(d) }

// Len returns the number of kept diagnostics.
func (b *Bag) Len() int { return len(b.items) }

// Dropped returns how many diagnostics the limit rejected.
func (b *Bag) Dropped() int { return b.dropped }

// Items exposes the kept diagnostics; callers must not modify the slice.
func (b *Bag) Items() []Diagnostic { return b.items }

// Count returns the number of diagnostics with severity sev or higher.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= sev {
			n++
		}
	}
	return n
}

func (b *Bag) HasErrors() bool { return b.Count(SevError) > 0 }

// Sort orders by file, span, severity (most severe first) and code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
