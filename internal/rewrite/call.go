package rewrite

import (
	"strings"

	"contenttag/internal/ast"
	"contenttag/internal/collect"
	"contenttag/internal/glimmer"
	"contenttag/internal/jsgen"
)

// buildCall builds `callee("content", { [component: this,] moduleName, scope })`.
func buildCall(callee *jsgen.Ident, m *collect.Match, target Target, visible func(string) bool, opts Options) *jsgen.Call {
	var props []jsgen.Node
	if target == TargetClassStatic {
		props = append(props, &jsgen.KeyValue{Key: "component", Value: &jsgen.This{}})
	}
	props = append(props, &jsgen.KeyValue{Key: "moduleName", Value: &jsgen.String{Value: opts.ModuleName}})
	if opts.ScopeMode == ScopeImplicit {
		props = append(props, evalMethod())
	} else {
		props = append(props, scopeProperty(m.RawContent, visible, opts.Analyzer))
	}

	content := m.ContentRange
	origin := m.Range
	return &jsgen.Call{
		Callee: callee,
		Args: []jsgen.Node{
			&jsgen.String{Value: m.Content, Origin: &content},
			&jsgen.Object{Props: props},
		},
		Origin: &origin,
	}
}

// scopeProperty lists every free name of the template: the non-element
// names always, element names only when a binding of that name is visible.
func scopeProperty(content string, visible func(string) bool, analyzer glimmer.Analyzer) jsgen.Node {
	names := ScopeNames(content, visible, analyzer)
	props := make([]jsgen.Node, 0, len(names))
	for _, n := range names {
		props = append(props, &jsgen.KeyValue{Key: n, Value: &jsgen.Ident{Name: n}, Shorthand: true})
	}
	return &jsgen.KeyValue{Key: "scope", Value: &jsgen.Arrow{
		Params: []string{"instance"},
		Body:   []jsgen.Node{&jsgen.Return{X: &jsgen.Object{Props: props}}},
	}}
}

// ScopeNames returns the identifiers captured for a template body, each cut
// at its first '.', deduplicated in order.
func ScopeNames(content string, visible func(string) bool, analyzer glimmer.Analyzer) []string {
	locals := analyzer.Locals(content, glimmer.LocalsOptions{})
	withElements := analyzer.Locals(content, glimmer.LocalsOptions{IncludeHTMLElements: true})

	known := make(map[string]struct{}, len(locals))
	for _, l := range locals {
		known[l] = struct{}{}
	}
	all := append([]string(nil), locals...)
	for _, l := range withElements {
		if _, ok := known[l]; ok {
			continue
		}
		if visible != nil && visible(head(l)) {
			all = append(all, l)
		}
	}

	seen := make(map[string]struct{}, len(all))
	out := make([]string, 0, len(all))
	for _, l := range all {
		id := head(l)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func head(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// evalMethod — `eval() { return eval(arguments[0]); }`
func evalMethod() jsgen.Node {
	return &jsgen.Method{Name: "eval", Body: []jsgen.Node{
		&jsgen.Return{X: &jsgen.Call{
			Callee: &jsgen.Ident{Name: "eval"},
			Args: []jsgen.Node{&jsgen.Member{
				X:        &jsgen.Ident{Name: "arguments"},
				Prop:     &jsgen.Number{Text: "0"},
				Computed: true,
			}},
		}},
	}}
}

// scopeAt returns the innermost scope whose span contains off.
func scopeAt(scopes *ast.Scopes, off uint32) ast.ScopeID {
	if scopes == nil {
		return ast.NoScopeID
	}
	best := ast.NoScopeID
	var bestLen uint32
	for i, sc := range scopes.Arena.Slice() {
		if sc.Span.Start > off || off >= sc.Span.End {
			continue
		}
		if best == ast.NoScopeID || sc.Span.Len() <= bestLen {
			best = ast.ScopeID(i + 1)
			bestLen = sc.Span.Len()
		}
	}
	return best
}

// scopeOf returns the lexical scope a match appears in.
func scopeOf(scopes *ast.Scopes, m *collect.Match) ast.ScopeID {
	if t, ok := m.Template(); ok && t.Scope.IsValid() {
		return t.Scope
	}
	return scopeAt(scopes, m.Range.Start)
}

// isIdentifier reports whether name can be used as a JS binding name.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '$' || r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 0x7f:
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
