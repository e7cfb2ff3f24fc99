package source

import (
	"testing"
)

func TestSpan_Shift(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		delta    int
		expected Span
	}{
		{
			name:     "shift right",
			span:     Span{File: 1, Start: 10, End: 20},
			delta:    5,
			expected: Span{File: 1, Start: 15, End: 25},
		},
		{
			name:     "shift left",
			span:     Span{File: 1, Start: 10, End: 20},
			delta:    -10,
			expected: Span{File: 1, Start: 0, End: 10},
		},
		{
			name:     "shift left past zero keeps span",
			span:     Span{File: 1, Start: 5, End: 10},
			delta:    -6,
			expected: Span{File: 1, Start: 5, End: 10},
		},
		{
			name:     "zero delta",
			span:     Span{File: 2, Start: 3, End: 3},
			delta:    0,
			expected: Span{File: 2, Start: 3, End: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Shift(tt.delta); got != tt.expected {
				t.Errorf("Shift(%d) = %v, want %v", tt.delta, got, tt.expected)
			}
		})
	}
}

func TestSpan_ContainsOverlaps(t *testing.T) {
	outer := Span{Start: 0, End: 27}
	inner := Span{Start: 10, End: 16}
	if !outer.Contains(inner) {
		t.Errorf("expected %v to contain %v", outer, inner)
	}
	if inner.Contains(outer) {
		t.Errorf("did not expect %v to contain %v", inner, outer)
	}
	if !outer.Overlaps(inner) {
		t.Errorf("expected overlap")
	}
	// смежные диапазоны не пересекаются
	if (Span{Start: 0, End: 10}).Overlaps(Span{Start: 10, End: 16}) {
		t.Errorf("adjacent spans must not overlap")
	}
}

func TestSpan_Slice(t *testing.T) {
	content := []byte("<template>Hello!</template>")
	if got := string(Span{Start: 10, End: 16}.Slice(content)); got != "Hello!" {
		t.Errorf("Slice = %q, want %q", got, "Hello!")
	}
	if got := string(Span{Start: 20, End: 99}.Slice(content)); got != "plate>" {
		t.Errorf("clamped Slice = %q", got)
	}
}
