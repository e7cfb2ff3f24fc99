package parser

import (
	"contenttag/internal/ast"
	"contenttag/internal/diag"
	"contenttag/internal/token"
)

// parseStatement — точка расширения "инструкция": сначала расширение,
// затем встроенное правило.
func (p *Parser) parseStatement() ast.Stmt {
	if ext := p.opts.Extension; ext != nil {
		if s := ext.ParseStatement(p); s != nil {
			return s
		}
	}
	return p.parseStatementBase()
}

func (p *Parser) parseStatementBase() ast.Stmt {
	start := p.tok.Span.Start
	switch p.tok.Kind {
	case token.LBrace:
		return p.parseBlock(ast.ScopeBlock)
	case token.Semicolon:
		p.next()
		s := &ast.EmptyStmt{}
		s.At(p.span(start))
		return s
	case token.KwVar, token.KwConst:
		if p.at(token.KwConst) && p.peek().Is(token.KwEnum) {
			return p.parseEnum(start)
		}
		d := p.parseVarDecl()
		p.semicolon()
		d.At(p.span(start))
		return d
	case token.KwFunction:
		return p.parseFuncDecl(start, false)
	case token.KwClass, token.At:
		return p.parseClassDecl(start)
	case token.KwImport:
		if nxt := p.peek(); !nxt.Is(token.LParen) && !nxt.Is(token.Dot) {
			return p.parseImport()
		}
	case token.KwExport:
		return p.parseExport()
	case token.KwEnum:
		return p.parseEnum(start)
	case token.KwIf, token.KwFor, token.KwWhile, token.KwDo, token.KwSwitch, token.KwTry,
		token.KwReturn, token.KwThrow, token.KwBreak, token.KwContinue, token.KwWith, token.KwDebugger:
		return p.parseControl()
	case token.Ident:
		if s := p.parseWordStatement(start); s != nil {
			return s
		}
	}

	x := p.parseExpression()
	p.semicolon()
	s := &ast.ExprStmt{X: x}
	s.At(p.span(start))
	return s
}

// parseWordStatement разбирает инструкции, которые начинаются с
// контекстного слова: let, async function, метки и TS-объявления.
// Возвращает nil, если слово оказалось обычным идентификатором.
func (p *Parser) parseWordStatement(start uint32) ast.Stmt {
	nxt := p.peek()
	switch p.tok.Text {
	case "let":
		if nxt.Is(token.Ident) || nxt.Is(token.LBrace) || nxt.Is(token.LBracket) {
			d := p.parseVarDecl()
			p.semicolon()
			d.At(p.span(start))
			return d
		}
	case "async":
		if nxt.Is(token.KwFunction) && !nxt.NewlineBefore {
			return p.parseFuncDecl(start, false)
		}
	case "type", "interface", "declare", "namespace", "module", "abstract", "global":
		if s := p.parseTSDeclaration(start); s != nil {
			return s
		}
	}
	if nxt.Is(token.Colon) {
		label := p.next()
		p.next() // ':'
		body := p.parseStatement()
		s := &ast.ControlStmt{Keyword: label.Text, Body: []ast.Stmt{body}}
		s.At(p.span(start))
		return s
	}
	return nil
}

// parseBlock разбирает `{ ... }` в новой области.
func (p *Parser) parseBlock(kind ast.ScopeKind) *ast.Block {
	open := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	prev := p.pushScope(kind, open.Span.Start)
	b := &ast.Block{Scope: p.scope}
	b.Body = p.parseStatementsUntilBrace()
	p.popScope(prev)
	b.At(p.span(open.Span.Start))
	return b
}

// parseStatementsUntilBrace читает инструкции до парной '}' и съедает её.
func (p *Parser) parseStatementsUntilBrace() []ast.Stmt {
	var body []ast.Stmt
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.failHere(diag.SynUnclosedBrace, "expected '}'")
		}
		body = append(body, p.parseStatement())
	}
	p.next()
	return body
}

// parseVarDecl разбирает var/let/const без завершающей ';'. В заголовке
// for объявление заканчивается на `in`/`of`/`;`.
func (p *Parser) parseVarDecl() *ast.VarDecl {
	start := p.tok.Span.Start
	kw := p.next()
	kind := declLexical
	if kw.Kind == token.KwVar {
		kind = declVar
	}
	d := &ast.VarDecl{Keyword: kw.Text}
	for {
		target := p.parseBindingTarget()
		p.eat(token.Bang) // definite assignment: let x!: T
		if p.eat(token.Colon) {
			p.parseType()
		}
		var init ast.Expr
		if p.eat(token.Assign) {
			init = p.parseMaybeAssign()
		}
		names := bindingNames(target, nil)
		for _, id := range names {
			p.declare(id, kind)
		}
		d.Names = append(d.Names, names...)
		d.Targets = append(d.Targets, target)
		d.Inits = append(d.Inits, init)
		if !p.eat(token.Comma) {
			break
		}
	}
	d.At(p.span(start))
	return d
}

// parseBindingTarget — идентификатор или шаблон деструктуризации.
func (p *Parser) parseBindingTarget() ast.Expr {
	switch {
	case p.at(token.LBrace):
		return p.parseObject()
	case p.at(token.LBracket):
		return p.parseArray()
	case p.at(token.Ident), p.at(token.KwThis):
		tok := p.next()
		return ast.NewIdent(tok.Span, tok.Text)
	}
	p.failHere(diag.SynExpectIdentifier, "expected binding name")
	return nil
}

func (p *Parser) parseFuncDecl(start uint32, exportDefault bool) ast.Stmt {
	fn := p.parseFunction(true, exportDefault)
	d := &ast.FuncDecl{Func: fn}
	d.At(p.span(start))
	return d
}

func (p *Parser) parseClassDecl(start uint32) ast.Stmt {
	p.skipDecorators()
	if p.at(token.KwExport) {
		return p.parseExport()
	}
	if p.atWord("abstract") {
		p.next()
	}
	cls := p.parseClass(true)
	d := &ast.ClassDecl{Class: cls}
	d.At(p.span(start))
	return d
}

// skipDecorators пропускает `@expr` перед классом или членом класса.
func (p *Parser) skipDecorators() {
	for p.at(token.At) {
		p.next()
		if p.at(token.LParen) {
			p.skipBalanced()
			continue
		}
		if !p.tok.IsIdentName() {
			p.failHere(diag.SynExpectIdentifier, "expected decorator name")
		}
		p.next()
		for p.at(token.Dot) || p.at(token.LParen) {
			if p.at(token.LParen) {
				p.parseArguments()
				continue
			}
			p.next()
			if !p.tok.IsIdentName() {
				p.failHere(diag.SynExpectIdentifier, "expected property name")
			}
			p.next()
		}
	}
}
