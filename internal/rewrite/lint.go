package rewrite

import (
	"fmt"

	"contenttag/internal/edit"
	"contenttag/internal/format"
	"contenttag/internal/jsgen"
	"contenttag/internal/source"
)

// lint splices a one-line replacement over every match, leaving all other
// bytes and every line number alone. Class templates become a static block
// in place; nothing is imported.
func lint(file *source.File, st *state) (*Result, error) {
	compact := format.Options{Compact: true}
	edits := make([]edit.Edit, 0, len(st.sites))
	for _, s := range st.sites {
		var node jsgen.Node = s.call
		if s.target == TargetClassStatic {
			node = staticBlock([]*jsgen.Call{s.call})
		}
		edits = append(edits, edit.Edit{
			Span:    s.match.Range,
			NewText: jsgen.Sprint(node, compact),
			Content: s.match.ContentRange,
		})
	}
	applied, err := edit.Apply(file, edits)
	if err != nil {
		return nil, fmt.Errorf("rewrite %s: %w", file.Path, err)
	}
	return &Result{Output: applied.Output, Replacements: applied.Replacements}, nil
}
