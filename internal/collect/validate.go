package collect

import (
	"fmt"

	"fortio.org/safecast"
)

// Validate checks the range invariants of a match list against the text it
// was collected from:
// 1) every range lies within the text
// 2) start delimiter, content and end delimiter are ordered, disjoint and
// inside the whole range
// 3) RawContent is exactly the text at ContentRange
// 4) matches are sorted and never overlap
func Validate(matches []Match, content []byte) error {
	n, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var prevEnd uint32
	for i := range matches {
		m := &matches[i]
		r := m.Range
		if r.Start >= r.End || r.End > n {
			return fmt.Errorf("match %d: range %v outside text of %d bytes", i, r, n)
		}
		if m.StartRange.Start != r.Start || m.EndRange.End != r.End {
			return fmt.Errorf("match %d: delimiters %v..%v do not bound range %v", i, m.StartRange, m.EndRange, r)
		}
		if m.StartRange.End > m.ContentRange.Start ||
			m.ContentRange.Start > m.ContentRange.End ||
			m.ContentRange.End > m.EndRange.Start ||
			m.EndRange.Start >= m.EndRange.End {
			return fmt.Errorf("match %d: ranges out of order: start %v content %v end %v", i, m.StartRange, m.ContentRange, m.EndRange)
		}
		if got := string(m.ContentRange.Slice(content)); got != m.RawContent {
			return fmt.Errorf("match %d: raw content %q does not match text %q", i, m.RawContent, got)
		}
		if i > 0 && r.Start < prevEnd {
			return fmt.Errorf("match %d: range %v overlaps previous match ending at %d", i, r, prevEnd)
		}
		if m.Kind == KindCall && len(m.Properties) != 0 {
			return fmt.Errorf("match %d: call-style match carries properties", i)
		}
		prevEnd = r.End
	}
	return nil
}
