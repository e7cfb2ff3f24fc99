package parser

import (
	"strings"

	"contenttag/internal/ast"
	"contenttag/internal/diag"
	"contenttag/internal/token"
)

// parseImport разбирает статический импорт. Локальные имена объявляются в
// области модуля.
//
//	import 'side-effect';
//	import def, * as ns from 'm';
//	import def, { a, b as c, type T } from 'm';
//	import type { T } from 'm';
//	import x = require('m');
func (p *Parser) parseImport() ast.Stmt {
	start := p.tok.Span.Start
	p.next() // import
	d := &ast.ImportDecl{}

	if p.at(token.StringLit) {
		p.importSource(d)
		d.SideEffectOnly = true
		p.skipImportAttributes()
		p.semicolon()
		d.At(p.span(start))
		return d
	}

	if p.atWord("type") {
		// `import type X from`, но не `import type from 'm'`
		if nxt := p.peek(); !nxt.IsWord("from") && (nxt.Is(token.Ident) || nxt.Is(token.LBrace) || nxt.IsOp("*")) {
			p.next()
			d.TypeOnly = true
		}
	}

	if p.at(token.Ident) {
		tok := p.next()
		local := ast.NewIdent(tok.Span, tok.Text)
		if p.eat(token.Assign) {
			// import x = require('m') | import x = A.B
			p.declare(local, declLexical)
			p.parseMaybeAssign()
			p.semicolon()
			s := &ast.OpaqueStmt{Keyword: "import"}
			s.At(p.span(start))
			return s
		}
		d.Default = local
	}

	if d.Default == nil || p.eat(token.Comma) {
		switch {
		case p.tok.IsOp("*"):
			p.next()
			if !p.atWord("as") {
				p.failHere(diag.SynUnexpectedToken, "expected 'as'")
			}
			p.next()
			tok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected namespace name")
			d.Namespace = ast.NewIdent(tok.Span, tok.Text)
		case p.at(token.LBrace):
			d.Named = p.parseImportSpecifiers()
		default:
			p.failHere(diag.SynUnexpectedToken, "expected import clause")
		}
	}

	if !p.atWord("from") {
		p.failHere(diag.SynExpectFrom, "expected 'from'")
	}
	p.next()
	p.importSource(d)
	p.skipImportAttributes()
	p.semicolon()

	if !d.TypeOnly {
		p.declare(d.Default, declLexical)
		p.declare(d.Namespace, declLexical)
		for _, spec := range d.Named {
			if !spec.TypeOnly {
				p.declare(spec.Local, declLexical)
			}
		}
	}
	d.At(p.span(start))
	return d
}

func (p *Parser) importSource(d *ast.ImportDecl) {
	tok := p.expect(token.StringLit, diag.SynExpectModulePath, "expected module path")
	d.Module = unquote(tok.Text)
	d.ModuleSpan = tok.Span
}

// parseImportSpecifiers: { a, b as c, type T, 'str' as d, default as e }
func (p *Parser) parseImportSpecifiers() []ast.ImportSpecifier {
	open := p.next() // '{'
	var specs []ast.ImportSpecifier
	for !p.at(token.RBrace) {
		var spec ast.ImportSpecifier
		if p.atWord("type") {
			// `type as x` — это импорт имени type под псевдонимом
			if nxt := p.peek(); (nxt.IsIdentName() || nxt.Is(token.StringLit)) && !nxt.IsWord("as") {
				p.next()
				spec.TypeOnly = true
			}
		}
		if !p.tok.IsIdentName() && !p.at(token.StringLit) {
			p.failHere(diag.SynExpectIdentifier, "expected imported name")
		}
		imported := p.next()
		spec.Imported = imported.Text
		if imported.Kind == token.StringLit {
			spec.Imported = unquote(imported.Text)
		}
		if p.atWord("as") {
			p.next()
			imported = p.expect(token.Ident, diag.SynExpectIdentifier, "expected local name")
		} else if imported.Kind != token.Ident {
			p.failHere(diag.SynUnexpectedToken, "expected 'as'")
		}
		spec.Local = ast.NewIdent(imported.Span, imported.Text)
		specs = append(specs, spec)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.at(token.RBrace) {
		p.Fail(diag.SynUnclosedBrace, open.Span, "unclosed import list")
	}
	p.next()
	return specs
}

// skipImportAttributes: `with { type: 'json' }` / `assert { ... }`.
func (p *Parser) skipImportAttributes() {
	if (p.at(token.KwWith) || p.atWord("assert")) && !p.tok.NewlineBefore && p.peek().Is(token.LBrace) {
		p.next()
		p.skipBalanced()
	}
}

// parseExport разбирает все формы export.
func (p *Parser) parseExport() ast.Stmt {
	start := p.tok.Span.Start
	p.next() // export
	d := &ast.ExportDecl{}

	switch {
	case p.at(token.KwDefault):
		p.next()
		d.Default = true
		switch {
		case p.at(token.KwFunction), p.atWord("async") && p.peek().Is(token.KwFunction):
			d.Decl = p.parseFuncDecl(p.tok.Span.Start, true)
		case p.at(token.KwClass), p.at(token.At), p.atWord("abstract") && p.peek().Is(token.KwClass):
			d.Decl = p.parseClassDecl(p.tok.Span.Start)
		case p.atWord("interface") && p.peek().Is(token.Ident):
			d.Decl = p.parseTSDeclaration(p.tok.Span.Start)
		default:
			d.X = p.parseMaybeAssign()
			p.semicolon()
		}

	case p.tok.IsOp("*"):
		// export * from 'm' | export * as ns from 'm'
		p.next()
		if p.atWord("as") {
			p.next()
			if !p.tok.IsIdentName() && !p.at(token.StringLit) {
				p.failHere(diag.SynExpectIdentifier, "expected export name")
			}
			p.next()
		}
		p.exportFrom(true)

	case p.at(token.LBrace), p.atWord("type") && p.peek().Is(token.LBrace):
		if p.atWord("type") {
			p.next()
		}
		p.skipBalanced()
		p.exportFrom(false)

	case p.at(token.Assign):
		// export = x
		p.next()
		d.X = p.parseMaybeAssign()
		p.semicolon()

	case p.atWord("as"):
		// export as namespace X
		p.next()
		p.next()
		p.expect(token.Ident, diag.SynExpectIdentifier, "expected namespace name")
		p.semicolon()

	case p.at(token.KwImport):
		// export import A = B.C
		d.Decl = p.parseImport()

	default:
		d.Decl = p.parseStatementBase()
		switch d.Decl.(type) {
		case *ast.VarDecl, *ast.FuncDecl, *ast.ClassDecl, *ast.OpaqueStmt, *ast.ControlStmt:
		default:
			p.Fail(diag.SynUnexpectedToken, d.Decl.Span(), "expected declaration after 'export'")
		}
	}

	d.At(p.span(start))
	return d
}

// exportFrom дочитывает хвост списка экспорта: `from 'm'` обязательно
// только для `export *`.
func (p *Parser) exportFrom(required bool) {
	if p.atWord("from") {
		p.next()
		p.expect(token.StringLit, diag.SynExpectModulePath, "expected module path")
		p.skipImportAttributes()
	} else if required {
		p.failHere(diag.SynExpectFrom, "expected 'from'")
	}
	p.semicolon()
}

// unquote снимает кавычки со строкового литерала и раскрывает простые
// escape-последовательности.
func unquote(lit string) string {
	if len(lit) < 2 {
		return lit
	}
	s := lit[1 : len(lit)-1]
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\n':
			// продолжение строки
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
