package parser

import (
	"contenttag/internal/ast"
	"contenttag/internal/diag"
	"contenttag/internal/token"
)

// parseFunction: [async] function [*] [name] [<T>] (params) [: R] { body }.
// Имя объявления связывается во внешней области, имя выражения — внутри.
func (p *Parser) parseFunction(decl, anonymousOK bool) *ast.Function {
	start := p.tok.Span.Start
	if p.atWord("async") {
		p.next()
	}
	p.expect(token.KwFunction, diag.SynUnexpectedToken, "expected 'function'")
	if p.tok.IsOp("*") {
		p.next()
	}

	fn := &ast.Function{}
	switch {
	case p.at(token.Ident):
		tok := p.next()
		fn.Name = ast.NewIdent(tok.Span, tok.Text)
	case decl && !anonymousOK:
		p.failHere(diag.SynExpectIdentifier, "expected function name")
	}
	if decl {
		p.declare(fn.Name, declLexical)
	}

	prev := p.pushScope(ast.ScopeFunction, start)
	fn.Scope = p.scope
	if !decl {
		p.declare(fn.Name, declLexical)
	}
	p.parseFunctionRest(fn)
	p.popScope(prev)
	fn.At(p.span(start))
	return fn
}

// parseMethodFunction — функция метода объекта или класса; ключ уже съеден.
func (p *Parser) parseMethodFunction(start uint32) *ast.Function {
	fn := &ast.Function{}
	prev := p.pushScope(ast.ScopeFunction, start)
	fn.Scope = p.scope
	p.parseFunctionRest(fn)
	p.popScope(prev)
	fn.At(p.span(start))
	return fn
}

// parseFunctionRest: [<T>] (params) [: R] и тело. Без тела (перегрузка,
// abstract, declare) ожидается конец инструкции.
func (p *Parser) parseFunctionRest(fn *ast.Function) {
	if p.at(token.Lt) {
		p.skipAngles()
	}
	fn.Params = p.parseParams()
	if p.eat(token.Colon) {
		p.parseType()
	}
	if p.eat(token.LBrace) {
		fn.Body = p.parseStatementsUntilBrace()
		return
	}
	p.semicolon()
}

var paramModifiers = map[string]bool{
	"public":    true,
	"private":   true,
	"protected": true,
	"readonly":  true,
	"override":  true,
}

// parseParams разбирает список формальных параметров и объявляет их в
// текущей (функциональной) области.
func (p *Parser) parseParams() []ast.Expr {
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	var params []ast.Expr
	for !p.at(token.RParen) {
		start := p.tok.Span.Start
		p.skipDecorators()
		for p.at(token.Ident) && paramModifiers[p.tok.Text] && p.startsBinding(p.peek()) {
			p.next()
		}
		rest := p.eat(token.DotDotDot)
		target := p.parseBindingTarget()
		p.eat(token.Question)
		if p.eat(token.Colon) {
			p.parseType()
		}
		param := target
		if p.eat(token.Assign) {
			param = p.chain(start, []ast.Expr{target, p.parseMaybeAssign()})
		}
		if rest {
			param = p.spread(start, param)
		}
		p.declarePattern(param, declLexical)
		params = append(params, param)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	return params
}
