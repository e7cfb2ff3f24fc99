// Package imports resolves which local identifiers are bound, through
// static import declarations, to template-literal functions of interest.
package imports

import (
	"context"
	"fmt"

	"contenttag/internal/ast"
	"contenttag/internal/source"
)

// DefaultSentinel in Entry.ImportIdentifier selects the default export.
const DefaultSentinel = "default"

// Entry is one (module specifier, exported identifier) pair of interest.
type Entry struct {
	ImportPath       string `toml:"path" yaml:"path" json:"importPath" msgpack:"importPath"`
	ImportIdentifier string `toml:"identifier" yaml:"identifier" json:"importIdentifier" msgpack:"importIdentifier"`
}

func (e Entry) String() string { return e.ImportPath + ":" + e.ImportIdentifier }

// DefaultEntries — известные пакеты экосистемы, экспортирующие hbs.
var DefaultEntries = []Entry{
	{ImportPath: "ember-cli-htmlbars", ImportIdentifier: "hbs"},
	{ImportPath: "@ember/template-compilation", ImportIdentifier: "hbs"},
	{ImportPath: "ember-template-imports", ImportIdentifier: "hbs"},
	{ImportPath: "ember-cli-htmlbars-inline-precompile", ImportIdentifier: DefaultSentinel},
	{ImportPath: "htmlbars-inline-precompile", ImportIdentifier: DefaultSentinel},
	{ImportPath: "@ember/template-compilation", ImportIdentifier: "precompileTemplate"},
}

// NamedImport is one `{ imported as local }` specifier.
type NamedImport struct {
	Imported string
	Local    string
}

// StaticImport is one top-level `import … from '…'` declaration.
type StaticImport struct {
	Module         string
	Default        string // локальное имя default-импорта, "" если нет
	Namespace      string
	Named          []NamedImport
	SideEffectOnly bool
	TypeOnly       bool
	Span           source.Span
}

// Enumerator lists the static imports of one file in source order.
type Enumerator interface {
	Imports(ctx context.Context, file *source.File) ([]StaticImport, error)
}

// Masker is implemented by enumerators that re-read the raw text and must
// not see the given byte ranges (template bodies).
type Masker interface {
	WithMasks(spans []source.Span) Enumerator
}

// FromProgram enumerates the top-level import declarations of an already
// parsed program. Type-only specifiers are dropped.
func FromProgram(prog *ast.Program) []StaticImport {
	if prog == nil {
		return nil
	}
	var out []StaticImport
	for _, st := range prog.Body {
		d, ok := st.(*ast.ImportDecl)
		if !ok {
			continue
		}
		imp := StaticImport{
			Module:         d.Module,
			SideEffectOnly: d.SideEffectOnly,
			TypeOnly:       d.TypeOnly,
			Span:           d.Span(),
		}
		if d.Default != nil {
			imp.Default = d.Default.Name
		}
		if d.Namespace != nil {
			imp.Namespace = d.Namespace.Name
		}
		for _, spec := range d.Named {
			if spec.TypeOnly {
				continue
			}
			imp.Named = append(imp.Named, NamedImport{Imported: spec.Imported, Local: spec.Local.Name})
		}
		out = append(out, imp)
	}
	return out
}

// ProgramEnumerator adapts an already parsed program to Enumerator.
type ProgramEnumerator struct {
	Program *ast.Program
}

func (e ProgramEnumerator) Imports(context.Context, *source.File) ([]StaticImport, error) {
	return FromProgram(e.Program), nil
}

// Bindings maps a local identifier to the entry it is bound to.
type Bindings map[string]Entry

// Lookup returns the entry bound to local.
func (b Bindings) Lookup(local string) (Entry, bool) {
	e, ok := b[local]
	return e, ok
}

// Resolve builds the local-name table. Declarations are examined in
// source order and a later binding of the same local name overwrites an
// earlier one. Type-only declarations bind nothing.
func Resolve(imports []StaticImport, entries []Entry) Bindings {
	out := make(Bindings)
	if len(entries) == 0 {
		return out
	}
	byPath := make(map[string][]Entry, len(entries))
	for _, e := range entries {
		byPath[e.ImportPath] = append(byPath[e.ImportPath], e)
	}

	for _, imp := range imports {
		if imp.TypeOnly || imp.SideEffectOnly {
			continue
		}
		candidates := byPath[imp.Module]
		if len(candidates) == 0 {
			continue
		}
		for _, e := range candidates {
			if imp.Default != "" && e.ImportIdentifier == DefaultSentinel {
				out[imp.Default] = e
			}
			for _, n := range imp.Named {
				if n.Imported == e.ImportIdentifier {
					out[n.Local] = e
				}
			}
		}
	}
	return out
}

// ParseEntry parses the `path:identifier` form used on the command line.
// The identifier is split at the last ':' so scoped paths keep theirs.
func ParseEntry(s string) (Entry, error) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			if i == 0 || i == len(s)-1 {
				break
			}
			return Entry{ImportPath: s[:i], ImportIdentifier: s[i+1:]}, nil
		}
	}
	return Entry{}, fmt.Errorf("invalid literal binding %q: want path:identifier", s)
}
