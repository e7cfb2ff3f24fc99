package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"contenttag/internal/ast"
	"contenttag/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) program span is the whole file
// 2) every top-level statement span is non-empty, inside the file and
// after the previous one
// 3) every child span lies inside its parent span
// 4) template nodes keep start tag, content and end tag in order
func CheckSpanInvariants(prog *ast.Program, sf *source.File) error {
	if prog == nil || sf == nil {
		return fmt.Errorf("nil program or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	// 1) program span sanity
	ps := prog.Span()
	if ps.Start != 0 || ps.End != lenContent {
		return fmt.Errorf("program span %v does not cover file of %d bytes", ps, lenContent)
	}
	if ps.File != sf.ID {
		return fmt.Errorf("program span points to different file id: got=%d want=%d", ps.File, sf.ID)
	}

	// 2) statements in order
	var prevEnd uint32
	for i, st := range prog.Body {
		sp := st.Span()
		if sp.End <= sp.Start {
			return fmt.Errorf("empty statement span #%d: %v", i, sp)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("statement #%d span %v overlaps previous ending at %d", i, sp, prevEnd)
		}
		prevEnd = sp.End
	}

	// 3) children inside parents; 4) template ranges
	var failure error
	ast.Inspect(prog, func(n, parent ast.Node) bool {
		if failure != nil {
			return false
		}
		sp := n.Span()
		if sp.File != sf.ID {
			failure = fmt.Errorf("%s span file mismatch: got=%d want=%d", n.Kind(), sp.File, sf.ID)
			return false
		}
		if parent != nil && !parent.Span().Contains(sp) {
			failure = fmt.Errorf("%s span %v is outside parent %s span %v", n.Kind(), sp, parent.Kind(), parent.Span())
			return false
		}
		if t, ok := n.(*ast.Template); ok {
			failure = checkTemplate(t, sf)
		}
		return failure == nil
	})
	return failure
}

func checkTemplate(t *ast.Template, sf *source.File) error {
	sp := t.Span()
	if t.StartRange.Start != sp.Start || t.EndRange.End != sp.End {
		return fmt.Errorf("template tags %v..%v do not bound node span %v", t.StartRange, t.EndRange, sp)
	}
	if t.StartRange.End > t.ContentRange.Start || t.ContentRange.End > t.EndRange.Start {
		return fmt.Errorf("template ranges out of order: %v %v %v", t.StartRange, t.ContentRange, t.EndRange)
	}
	if got := string(t.ContentRange.Slice(sf.Content)); got != t.Content {
		return fmt.Errorf("template content %q differs from text %q", t.Content, got)
	}
	return nil
}
