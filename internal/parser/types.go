package parser

import (
	"contenttag/internal/ast"
	"contenttag/internal/diag"
	"contenttag/internal/token"
)

// Типы TypeScript нам не нужны: их разбираем ровно настолько, чтобы
// корректно пропустить. Аннотации встречаются после ':' в параметрах,
// полях и переменных, после `as`/`satisfies` и в объявлениях type/interface.

// parseType пропускает тип, включая union/intersection и условный тип.
func (p *Parser) parseType() {
	if p.atWord("asserts") && p.peek().Is(token.Ident) {
		p.next()
		p.next()
		if p.atWord("is") {
			p.next()
			p.parseType()
		}
		return
	}
	p.parseUnionType()
	if p.at(token.KwExtends) {
		p.next()
		p.parseUnionType()
		p.expect(token.Question, diag.SynUnexpectedToken, "expected '?' in conditional type")
		p.parseType()
		p.expect(token.Colon, diag.SynExpectColon, "expected ':' in conditional type")
		p.parseType()
	}
}

func (p *Parser) parseUnionType() {
	if p.tok.IsOp("|") || p.tok.IsOp("&") {
		p.next()
	}
	p.parseTypeOperand()
	for p.tok.IsOp("|") || p.tok.IsOp("&") {
		p.next()
		p.parseTypeOperand()
	}
}

var typePrefixWords = map[string]bool{
	"keyof":    true,
	"unique":   true,
	"readonly": true,
	"infer":    true,
}

func (p *Parser) parseTypeOperand() {
	for p.at(token.Ident) && typePrefixWords[p.tok.Text] {
		nxt := p.peek()
		if nxt.NewlineBefore || !startsType(nxt) {
			break
		}
		p.next()
	}

	switch {
	case p.at(token.KwNew), p.atWord("abstract") && p.peek().Is(token.KwNew):
		// конструкторный тип: new (...) => T
		if p.atWord("abstract") {
			p.next()
		}
		p.next()
		p.parseFunctionType()
		return
	case p.at(token.Lt):
		p.parseFunctionType()
		return
	case p.at(token.LParen):
		p.skipBalanced()
		if p.eat(token.Arrow) {
			p.parseType()
			return
		}
	case p.at(token.LBrace), p.at(token.LBracket):
		p.skipBalanced()
	case p.at(token.StringLit), p.at(token.NumberLit), p.at(token.NoSubstTemplate):
		p.next()
	case p.tok.IsOp("-"):
		p.next()
		p.expect(token.NumberLit, diag.SynUnexpectedToken, "expected number")
	case p.at(token.TemplateHead):
		p.next()
		for {
			p.parseType()
			if p.eat(token.TemplateTail) {
				break
			}
			p.expect(token.TemplateMiddle, diag.SynUnexpectedToken, "expected template continuation")
		}
	case p.at(token.KwTypeof):
		p.next()
		p.parseTypeReference()
	case p.at(token.KwImport):
		p.next()
		p.skipBalanced()
		for p.eat(token.Dot) {
			p.next()
		}
		if p.at(token.Lt) && !p.tok.NewlineBefore {
			p.skipAngles()
		}
	case p.tok.IsIdentName():
		p.parseTypeReference()
		if p.atWord("is") && !p.tok.NewlineBefore {
			p.next()
			p.parseType()
			return
		}
	default:
		p.failHere(diag.SynUnexpectedToken, "expected type")
	}

	// T[] и T[K]
	for p.at(token.LBracket) && !p.tok.NewlineBefore {
		p.skipBalanced()
	}
}

// parseTypeReference: A.B.C<Args>
func (p *Parser) parseTypeReference() {
	if !p.tok.IsIdentName() {
		p.failHere(diag.SynExpectIdentifier, "expected type name")
	}
	p.next()
	for p.at(token.Dot) {
		p.next()
		if !p.tok.IsIdentName() {
			p.failHere(diag.SynExpectIdentifier, "expected type name")
		}
		p.next()
	}
	if p.at(token.Lt) && !p.tok.NewlineBefore {
		p.skipAngles()
	}
}

// parseFunctionType: [<T>] (params) => T
func (p *Parser) parseFunctionType() {
	if p.at(token.Lt) {
		p.skipAngles()
	}
	if !p.at(token.LParen) {
		p.failHere(diag.SynUnexpectedToken, "expected '('")
	}
	p.skipBalanced()
	p.expect(token.Arrow, diag.SynUnexpectedToken, "expected '=>'")
	p.parseType()
}

func startsType(t token.Token) bool {
	switch t.Kind {
	case token.Ident, token.LParen, token.LBracket, token.LBrace, token.Lt,
		token.StringLit, token.NumberLit, token.NoSubstTemplate, token.TemplateHead:
		return true
	}
	return t.Kind.IsKeyword()
}

// parseTSDeclaration разбирает объявления, которые начинаются с
// контекстного слова TypeScript. nil — это не объявление.
func (p *Parser) parseTSDeclaration(start uint32) ast.Stmt {
	nxt := p.peek()
	if nxt.NewlineBefore {
		return nil
	}
	word := p.tok.Text
	switch word {
	case "type":
		if !nxt.Is(token.Ident) {
			return nil
		}
		p.next()
		p.next()
		if p.at(token.Lt) {
			p.skipAngles()
		}
		p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in type alias")
		p.parseType()
		p.semicolon()

	case "interface":
		if !nxt.Is(token.Ident) {
			return nil
		}
		p.next()
		p.next()
		if p.at(token.Lt) {
			p.skipAngles()
		}
		if p.eat(token.KwExtends) {
			p.parseTypeList()
		}
		if !p.at(token.LBrace) {
			p.failHere(diag.SynUnexpectedToken, "expected '{'")
		}
		p.skipBalanced()

	case "declare":
		if !nxt.IsIdentName() {
			return nil
		}
		p.next()
		p.parseAmbient()

	case "namespace", "module", "global":
		if word == "global" && !nxt.Is(token.LBrace) {
			return nil
		}
		if word != "global" && !nxt.Is(token.Ident) && !nxt.Is(token.StringLit) {
			return nil
		}
		p.next()
		if !p.at(token.LBrace) {
			name := p.next()
			if name.Kind == token.Ident {
				p.declare(ast.NewIdent(name.Span, name.Text), declLexical)
			}
			for p.eat(token.Dot) {
				p.next()
			}
		}
		if !p.at(token.LBrace) {
			// `declare module 'x';`
			p.semicolon()
			break
		}
		body := p.parseBlock(ast.ScopeBlock)
		s := &ast.ControlStmt{Keyword: word, Body: []ast.Stmt{body}}
		s.At(p.span(start))
		return s

	case "abstract":
		if !nxt.Is(token.KwClass) {
			return nil
		}
		p.next()
		cls := p.parseClass(true)
		d := &ast.ClassDecl{Class: cls}
		d.At(p.span(start))
		return d

	default:
		return nil
	}

	s := &ast.OpaqueStmt{Keyword: word}
	s.At(p.span(start))
	return s
}

// parseAmbient разбирает тело `declare ...`: внутри нет выполняемого кода,
// поэтому после ключевого слова всё пропускается структурно.
func (p *Parser) parseAmbient() {
	switch {
	case p.at(token.KwEnum), p.at(token.KwConst) && p.peek().Is(token.KwEnum):
		p.parseEnum(p.tok.Span.Start)
	case p.at(token.KwVar), p.at(token.KwConst), p.atWord("let"):
		p.parseVarDecl()
		p.semicolon()
	case p.at(token.KwFunction):
		p.parseFunction(true, false)
	case p.at(token.KwClass), p.atWord("abstract"):
		if p.atWord("abstract") {
			p.next()
		}
		p.parseClass(true)
	default:
		// declare module/namespace/global/type/interface
		for !p.at(token.LBrace) && !p.at(token.Semicolon) && !p.at(token.EOF) {
			if p.at(token.Assign) {
				p.next()
				p.parseType()
				break
			}
			p.next()
		}
		if p.at(token.LBrace) {
			p.skipBalanced()
			return
		}
		p.semicolon()
	}
}

func (p *Parser) parseTypeList() {
	p.parseType()
	for p.eat(token.Comma) {
		p.parseType()
	}
}

// parseEnum: [const] enum Name { ... }. Имя перечисления — значение.
func (p *Parser) parseEnum(start uint32) ast.Stmt {
	p.eat(token.KwConst)
	p.expect(token.KwEnum, diag.SynUnexpectedToken, "expected 'enum'")
	name := p.expect(token.Ident, diag.SynExpectIdentifier, "expected enum name")
	p.declare(ast.NewIdent(name.Span, name.Text), declLexical)
	if !p.at(token.LBrace) {
		p.failHere(diag.SynUnexpectedToken, "expected '{'")
	}
	p.skipBalanced()
	s := &ast.OpaqueStmt{Keyword: "enum"}
	s.At(p.span(start))
	return s
}
