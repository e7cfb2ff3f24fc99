// Package rewrite turns collected matches into `template(…)` calls, either
// by regenerating the whole file around them (with the managed import and
// an optional source map) or by splicing only the matched ranges and
// keeping a replacement ledger.
package rewrite

import (
	"context"
	"fmt"

	"contenttag/internal/ast"
	"contenttag/internal/collect"
	"contenttag/internal/edit"
	"contenttag/internal/jsgen"
	"contenttag/internal/source"
	"contenttag/internal/srcmap"
	"contenttag/internal/trace"
)

// Site is one rewritten match and the shape it took.
type Site struct {
	Match  *collect.Match
	Target Target
}

// Result is the outcome of File.
type Result struct {
	Output []byte
	// SourceMap is set in ModeFull when the flavor returns a separate map
	// and at least one match was rewritten.
	SourceMap []byte
	// Anchors maps the generated position of every emitted template string
	// to the start of its original content (zero-based, UTF-16 columns).
	Anchors map[[2]int]srcmap.Position
	// Replacements is the ledger of ModePositionPreserving, in source order.
	Replacements []edit.Replacement
	ImportName   string
	Sites        []Site
}

// File rewrites the matches of one collected file. A file without
// rewritable matches comes back byte for byte, with no map and no ledger.
func File(ctx context.Context, res *collect.Result, opts Options) (*Result, error) {
	if res == nil || res.File == nil || res.Parse == nil {
		return nil, fmt.Errorf("rewrite: incomplete collect result")
	}
	file := res.File
	opts = opts.withDefaults(file.Path)

	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "rewrite", trace.CurrentSpan(ctx).SpanID).
		WithExtra("mode", opts.Mode.String())

	selected := selectMatches(res.Matches, opts)
	if len(selected) == 0 {
		span.End("no matches")
		return &Result{Output: append([]byte(nil), file.Content...)}, nil
	}

	st := newState(res.Parse, opts.ImportName)
	parents := parentsOf(res.Parse.Program, selected)
	scopes := res.Parse.Scopes
	for _, m := range selected {
		parent := parents[m.Node]
		target := classify(parent, opts.Mode)

		name := ""
		if opts.Mode == ModePositionPreserving {
			name = opts.ImportName
			if isIdentifier(m.TagName) {
				name = m.TagName
			}
		}
		scope := scopeOf(scopes, m)
		visible := func(n string) bool { return scopes.Has(scope, n) }
		call := buildCall(st.callee(name), m, target, visible, opts)

		st.sites = append(st.sites, &site{match: m, parent: parent, target: target, call: call})
		if body, ok := parent.(*ast.ClassBody); ok && opts.Mode == ModeFull {
			st.addToClass(body, call)
		}
	}
	st.freeze(opts.Mode == ModeFull)

	var (
		out *Result
		err error
	)
	if opts.Mode == ModePositionPreserving {
		out, err = lint(file, st)
	} else {
		out, err = full(file, st, opts)
	}
	if err != nil {
		span.End("error")
		return nil, err
	}
	out.ImportName = st.importName
	for _, s := range st.sites {
		out.Sites = append(out.Sites, Site{Match: s.match, Target: s.target})
	}
	span.End(fmt.Sprintf("%d rewritten", len(st.sites)))
	return out, nil
}

func selectMatches(matches []collect.Match, opts Options) []*collect.Match {
	out := make([]*collect.Match, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		if m.Kind == collect.KindCall && !opts.RewriteLiterals {
			continue
		}
		out = append(out, m)
	}
	return out
}

// parentsOf finds the syntactic parent of every selected match node.
func parentsOf(prog *ast.Program, matches []*collect.Match) map[ast.Node]ast.Node {
	want := make(map[ast.Node]struct{}, len(matches))
	for _, m := range matches {
		want[m.Node] = struct{}{}
	}
	parents := make(map[ast.Node]ast.Node, len(matches))
	ast.Inspect(prog, func(n, parent ast.Node) bool {
		if _, ok := want[n]; ok {
			parents[n] = parent
		}
		return true
	})
	return parents
}

func classify(parent ast.Node, mode Mode) Target {
	switch parent.(type) {
	case *ast.ClassBody:
		return TargetClassStatic
	case *ast.Program:
		if mode == ModeFull {
			return TargetExportDefault
		}
	}
	return TargetInline
}

// staticBlock wraps each call in its own block: `static { { a; } { b; } }`.
func staticBlock(calls []*jsgen.Call) *jsgen.StaticBlock {
	body := make([]jsgen.Node, 0, len(calls))
	for _, c := range calls {
		body = append(body, &jsgen.Block{Body: []jsgen.Node{&jsgen.ExprStmt{X: c}}})
	}
	return &jsgen.StaticBlock{Body: body}
}

// sourcePosition converts a byte offset into a zero-based line and a
// UTF-16 column.
func sourcePosition(file *source.File, off uint32) (line, col int) {
	lc := file.Position(off)
	lineStart := off - (lc.Col - 1)
	return int(lc.Line) - 1, utf16Len(file.Content[lineStart:off])
}

func utf16Len(b []byte) int {
	n := 0
	for _, r := range string(b) {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
