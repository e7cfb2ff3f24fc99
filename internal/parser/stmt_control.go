package parser

import (
	"contenttag/internal/ast"
	"contenttag/internal/diag"
	"contenttag/internal/token"
)

// parseControl разбирает управляющие инструкции. Семантика не нужна:
// сохраняем только дочерние выражения и инструкции.
func (p *Parser) parseControl() ast.Stmt {
	start := p.tok.Span.Start
	kw := p.next()
	s := &ast.ControlStmt{Keyword: kw.Text}

	switch kw.Kind {
	case token.KwIf:
		s.Exprs = append(s.Exprs, p.parseParenCond())
		s.Body = append(s.Body, p.parseStatement())
		if p.eat(token.KwElse) {
			s.Body = append(s.Body, p.parseStatement())
		}

	case token.KwWhile, token.KwWith:
		s.Exprs = append(s.Exprs, p.parseParenCond())
		s.Body = append(s.Body, p.parseStatement())

	case token.KwDo:
		s.Body = append(s.Body, p.parseStatement())
		p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while'")
		s.Exprs = append(s.Exprs, p.parseParenCond())
		// после do-while ';' вставляется всегда
		p.eat(token.Semicolon)

	case token.KwFor:
		p.parseForRest(s)

	case token.KwSwitch:
		p.parseSwitchRest(s)

	case token.KwTry:
		p.parseTryRest(s)

	case token.KwReturn, token.KwThrow:
		if !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.at(token.EOF) && !p.tok.NewlineBefore {
			s.Exprs = append(s.Exprs, p.parseExpression())
		}
		p.semicolon()

	case token.KwBreak, token.KwContinue:
		if p.at(token.Ident) && !p.tok.NewlineBefore {
			p.next()
		}
		p.semicolon()

	case token.KwDebugger:
		p.semicolon()
	}

	s.At(p.span(start))
	return s
}

func (p *Parser) parseParenCond() ast.Expr {
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	x := p.parseExpression()
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	return x
}

// parseForRest: for [await] ( init ; test ; update ) | ( lhs in/of rhs ).
// Заголовок живёт в собственной блочной области (let в заголовке).
func (p *Parser) parseForRest(s *ast.ControlStmt) {
	if p.atWord("await") {
		p.next()
	}
	open := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	prev := p.pushScope(ast.ScopeBlock, open.Span.Start)
	defer p.popScope(prev)

	// в инициализаторе `in` — не оператор, а часть for-in
	p.noIn = true
	switch {
	case p.at(token.Semicolon):
	case p.at(token.KwVar), p.at(token.KwConst), p.atWord("let") && p.startsBinding(p.peek()):
		s.Body = append(s.Body, p.parseVarDecl())
	default:
		s.Exprs = append(s.Exprs, p.parseExpression())
	}
	p.noIn = false

	if p.at(token.KwIn) || p.atWord("of") {
		p.next()
		s.Exprs = append(s.Exprs, p.parseExpression())
	} else {
		p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' in for header")
		if !p.at(token.Semicolon) {
			s.Exprs = append(s.Exprs, p.parseExpression())
		}
		p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' in for header")
		if !p.at(token.RParen) {
			s.Exprs = append(s.Exprs, p.parseExpression())
		}
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	s.Body = append(s.Body, p.parseStatement())
}

func (p *Parser) startsBinding(t token.Token) bool {
	return t.Is(token.Ident) || t.Is(token.LBrace) || t.Is(token.LBracket)
}

func (p *Parser) parseSwitchRest(s *ast.ControlStmt) {
	s.Exprs = append(s.Exprs, p.parseParenCond())
	open := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	prev := p.pushScope(ast.ScopeBlock, open.Span.Start)
	defer p.popScope(prev)

	for !p.at(token.RBrace) {
		switch {
		case p.at(token.KwCase):
			p.next()
			s.Exprs = append(s.Exprs, p.parseExpression())
		case p.at(token.KwDefault):
			p.next()
		default:
			p.failHere(diag.SynUnexpectedToken, "expected 'case' or 'default'")
		}
		p.expect(token.Colon, diag.SynExpectColon, "expected ':'")
		for !p.at(token.KwCase) && !p.at(token.KwDefault) && !p.at(token.RBrace) {
			if p.at(token.EOF) {
				p.failHere(diag.SynUnclosedBrace, "expected '}'")
			}
			s.Body = append(s.Body, p.parseStatement())
		}
	}
	p.next()
}

func (p *Parser) parseTryRest(s *ast.ControlStmt) {
	s.Body = append(s.Body, p.parseBlock(ast.ScopeBlock))
	if p.at(token.KwCatch) {
		catch := p.next()
		prev := p.pushScope(ast.ScopeCatch, catch.Span.Start)
		if p.eat(token.LParen) {
			target := p.parseBindingTarget()
			if p.eat(token.Colon) {
				p.parseType()
			}
			p.declarePattern(target, declLexical)
			p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		}
		s.Body = append(s.Body, p.parseBlock(ast.ScopeBlock))
		p.popScope(prev)
	}
	if p.eat(token.KwFinally) {
		s.Body = append(s.Body, p.parseBlock(ast.ScopeBlock))
	}
	if len(s.Body) < 2 {
		p.failHere(diag.SynUnexpectedToken, "expected 'catch' or 'finally'")
	}
}
