package parser

import (
	"contenttag/internal/ast"
	"contenttag/internal/source"
)

// pushScope открывает дочернюю область и возвращает предыдущую.
func (p *Parser) pushScope(kind ast.ScopeKind, start uint32) ast.ScopeID {
	prev := p.scope
	sp := source.Span{File: p.file.ID, Start: start, End: start}
	p.scope = p.scopes.New(kind, prev, sp)
	return prev
}

// popScope закрывает текущую область на конце последнего токена.
func (p *Parser) popScope(prev ast.ScopeID) {
	if sc := p.scopes.Get(p.scope); sc != nil {
		sc.Span.End = p.prevEnd
	}
	p.scope = prev
}

type declKind uint8

const (
	declLexical declKind = iota // let/const/class/function/import/параметры
	declVar                     // var: поднимается до функции
)

// declarePattern объявляет все имена, связанные шаблоном деструктуризации.
func (p *Parser) declarePattern(target ast.Expr, kind declKind) {
	for _, id := range bindingNames(target, nil) {
		p.declare(id, kind)
	}
}

func (p *Parser) declare(id *ast.Ident, kind declKind) {
	if id == nil || id.Name == "this" {
		return
	}
	if kind == declVar {
		p.scopes.DeclareVar(p.scope, id.Name, id.Span())
		return
	}
	p.scopes.Declare(p.scope, id.Name, id.Span())
}

// bindingNames собирает идентификаторы, которые шаблон связывает:
// `a`, `{a, b: c, ...d}`, `[e, , f = 1, ...g]`.
func bindingNames(target ast.Expr, out []*ast.Ident) []*ast.Ident {
	switch t := target.(type) {
	case *ast.Ident:
		out = append(out, t)
	case *ast.Object:
		for _, prop := range t.Props {
			out = bindingNames(prop, out)
		}
	case *ast.Prop:
		switch {
		case t.Shorthand:
			if id, ok := t.Key.(*ast.Ident); ok {
				out = append(out, id)
			}
		case t.Value != nil:
			out = bindingNames(t.Value, out)
		}
	case *ast.Array:
		for _, el := range t.Elems {
			out = bindingNames(el, out)
		}
	case *ast.Spread:
		out = bindingNames(t.X, out)
	case *ast.Seq:
		// значение по умолчанию: цель слева от '='
		if len(t.Parts) > 0 {
			out = bindingNames(t.Parts[0], out)
		}
	case *ast.Paren:
		for _, it := range t.Items {
			out = bindingNames(it, out)
		}
	}
	return out
}
