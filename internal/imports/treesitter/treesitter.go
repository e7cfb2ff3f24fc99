// Package treesitter enumerates static imports with the tree-sitter
// TypeScript grammar. It is an alternative to the host parser's own view
// and is used to cross-check it.
package treesitter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"contenttag/internal/imports"
	"contenttag/internal/source"
)

// Enumerator implements imports.Enumerator. Masks are byte ranges (usually
// template regions) blanked out with spaces before parsing, so the grammar
// never sees markup.
type Enumerator struct {
	Masks []source.Span
}

var (
	_ imports.Enumerator = Enumerator{}
	_ imports.Masker     = Enumerator{}
)

// WithMasks returns a copy of e that also blanks out spans.
func (e Enumerator) WithMasks(spans []source.Span) imports.Enumerator {
	masks := make([]source.Span, 0, len(e.Masks)+len(spans))
	masks = append(masks, e.Masks...)
	return Enumerator{Masks: append(masks, spans...)}
}

func (e Enumerator) Imports(ctx context.Context, file *source.File) ([]imports.StaticImport, error) {
	content := mask(file.Content, e.Masks)

	// парсер tree-sitter не потокобезопасен: новый на каждый вызов
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse %s: %w", file.Path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var out []imports.StaticImport
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "import_statement" {
			continue
		}
		if imp, ok := importStatement(child, content, file.ID); ok {
			out = append(out, imp)
		}
	}
	return out, nil
}

func mask(content []byte, spans []source.Span) []byte {
	if len(spans) == 0 {
		return content
	}
	out := make([]byte, len(content))
	copy(out, content)
	for _, sp := range spans {
		for i := sp.Start; i < sp.End && int(i) < len(out); i++ {
			// переводы строк сохраняем, чтобы не сдвигать строки
			if out[i] != '\n' && out[i] != '\r' {
				out[i] = ' '
			}
		}
	}
	return out
}

func text(n *sitter.Node, content []byte) string {
	return string(content[n.StartByte():n.EndByte()])
}

// stringValue — содержимое строкового литерала без кавычек.
func stringValue(n *sitter.Node, content []byte) string {
	s := text(n, content)
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

func importStatement(node *sitter.Node, content []byte, fileID source.FileID) (imports.StaticImport, bool) {
	imp := imports.StaticImport{
		Span: source.Span{File: fileID, Start: node.StartByte(), End: node.EndByte()},
	}
	src := node.ChildByFieldName("source")
	if src == nil {
		return imp, false
	}
	imp.Module = stringValue(src, content)

	hasClause := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type":
			imp.TypeOnly = true
		case "import_clause":
			hasClause = true
			importClause(child, content, &imp)
		}
	}
	imp.SideEffectOnly = !hasClause
	return imp, true
}

func importClause(node *sitter.Node, content []byte, imp *imports.StaticImport) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "identifier":
			imp.Default = text(child, content)
		case "namespace_import":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if gc := child.NamedChild(j); gc.Type() == "identifier" {
					imp.Namespace = text(gc, content)
				}
			}
		case "named_imports":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				gc := child.NamedChild(j)
				if gc.Type() != "import_specifier" {
					continue
				}
				if named, ok := importSpecifier(gc, content); ok {
					imp.Named = append(imp.Named, named)
				}
			}
		}
	}
}

// importSpecifier: `name`, `name as alias`, `'str' as alias`. Спецификаторы
// `type X` пропускаются.
func importSpecifier(node *sitter.Node, content []byte) (imports.NamedImport, bool) {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "type" {
			return imports.NamedImport{}, false
		}
	}
	name := node.ChildByFieldName("name")
	if name == nil {
		return imports.NamedImport{}, false
	}
	imported := text(name, content)
	if name.Type() == "string" {
		imported = stringValue(name, content)
	}
	local := imported
	if alias := node.ChildByFieldName("alias"); alias != nil {
		local = text(alias, content)
	}
	return imports.NamedImport{Imported: imported, Local: local}, true
}
