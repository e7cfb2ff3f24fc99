package parser

import (
	"contenttag/internal/ast"
	"contenttag/internal/diag"
	"contenttag/internal/token"
)

// parseClass: class [Name] [<T>] [extends X] [implements A, B] { body }.
func (p *Parser) parseClass(decl bool) *ast.Class {
	start := p.tok.Span.Start
	p.expect(token.KwClass, diag.SynUnexpectedToken, "expected 'class'")
	cls := &ast.Class{}
	if p.at(token.Ident) && !p.atWord("implements") {
		tok := p.next()
		cls.Name = ast.NewIdent(tok.Span, tok.Text)
		if decl {
			p.declare(cls.Name, declLexical)
		}
	}

	prev := p.pushScope(ast.ScopeClass, start)
	cls.Scope = p.scope
	p.declare(cls.Name, declLexical)

	if p.at(token.Lt) {
		p.skipAngles()
	}
	if p.eat(token.KwExtends) {
		cls.Super = p.parsePostfix(p.parsePrimary())
		if p.at(token.Lt) {
			p.skipAngles()
		}
	}
	if p.atWord("implements") {
		p.next()
		p.parseTypeList()
	}
	cls.Body = p.parseClassBody()
	p.popScope(prev)
	cls.At(p.span(start))
	return cls
}

func (p *Parser) parseClassBody() *ast.ClassBody {
	open := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	body := &ast.ClassBody{}
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.Fail(diag.SynUnclosedBrace, open.Span, "unclosed class body")
		}
		if p.eat(token.Semicolon) {
			continue
		}
		body.Members = append(body.Members, p.parseClassMember())
	}
	p.next()
	body.At(p.span(open.Span.Start))
	return body
}

// parseClassMember — точка расширения "член класса".
func (p *Parser) parseClassMember() ast.ClassMember {
	if ext := p.opts.Extension; ext != nil {
		if m := ext.ParseClassMember(p); m != nil {
			return m
		}
	}
	return p.parseClassMemberBase()
}

var memberModifiers = map[string]bool{
	"static":    true,
	"public":    true,
	"private":   true,
	"protected": true,
	"readonly":  true,
	"abstract":  true,
	"override":  true,
	"declare":   true,
	"accessor":  true,
	"async":     true,
	"get":       true,
	"set":       true,
}

func (p *Parser) parseClassMemberBase() ast.ClassMember {
	start := p.tok.Span.Start
	p.skipDecorators()

	static := false
	for p.at(token.Ident) && memberModifiers[p.tok.Text] {
		nxt := p.peek()
		if p.tok.Text == "static" && nxt.Is(token.LBrace) {
			return p.parseStaticBlock(start)
		}
		if !startsPropName(nxt) || (p.tok.Text == "async" && nxt.NewlineBefore) {
			break // это имя члена, а не модификатор
		}
		if p.tok.Text == "static" {
			static = true
		}
		p.next()
	}
	if p.tok.IsOp("*") {
		p.next()
	}

	if p.at(token.LBracket) && p.try(p.indexSignature) {
		m := &ast.OpaqueMember{}
		m.At(p.span(start))
		return m
	}

	key, _ := p.parsePropKey()
	p.eat(token.Question)
	p.eat(token.Bang)

	if p.at(token.LParen) || p.at(token.Lt) {
		m := &ast.Method{Static: static, Key: key, Func: p.parseMethodFunction(start)}
		m.At(p.span(start))
		return m
	}

	f := &ast.Field{Static: static, Key: key}
	if p.eat(token.Colon) {
		p.parseType()
	}
	if p.eat(token.Assign) {
		f.Value = p.parseMaybeAssign()
	}
	p.semicolon()
	f.At(p.span(start))
	return f
}

// indexSignature: [key: T]: U; (спекулятивно, чтобы не спутать с [computed]).
func (p *Parser) indexSignature() bool {
	p.next() // '['
	if !p.at(token.Ident) {
		return false
	}
	p.next()
	if !p.eat(token.Colon) {
		return false
	}
	p.parseType()
	p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
	p.eat(token.Question)
	if p.eat(token.Colon) {
		p.parseType()
	}
	p.semicolon()
	return true
}

func (p *Parser) parseStaticBlock(start uint32) ast.ClassMember {
	p.next() // static
	open := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	prev := p.pushScope(ast.ScopeFunction, open.Span.Start)
	sb := &ast.StaticBlock{Scope: p.scope}
	sb.Body = p.parseStatementsUntilBrace()
	p.popScope(prev)
	sb.At(p.span(start))
	return sb
}
