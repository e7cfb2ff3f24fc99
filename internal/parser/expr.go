package parser

import (
	"contenttag/internal/ast"
	"contenttag/internal/diag"
	"contenttag/internal/source"
	"contenttag/internal/token"
)

// Выражения разбираются грубо: цепочка операндов и операторов без
// приоритетов (ast.Seq). Для поиска шаблонов и областей видимости важны
// только границы выражений и вложенные функции/классы.

// parseExpression: AssignmentExpression { ',' AssignmentExpression }
func (p *Parser) parseExpression() ast.Expr {
	start := p.tok.Span.Start
	x := p.parseMaybeAssign()
	if !p.at(token.Comma) {
		return x
	}
	seq := &ast.Seq{Parts: []ast.Expr{x}}
	for p.eat(token.Comma) {
		seq.Parts = append(seq.Parts, p.parseMaybeAssign())
	}
	seq.At(p.span(start))
	return seq
}

// parseMaybeAssign — точка расширения "выражение присваивания".
func (p *Parser) parseMaybeAssign() ast.Expr {
	if ext := p.opts.Extension; ext != nil {
		if x := ext.ParseMaybeAssign(p); x != nil {
			return x
		}
	}
	return p.parseAssignBase()
}

func (p *Parser) parseAssignBase() ast.Expr {
	start := p.tok.Span.Start
	parts := []ast.Expr{p.parseUnary()}

	for {
		switch {
		case p.tok.IsAssignOp():
			p.next()
			// правая часть присваивания — снова точка расширения
			parts = append(parts, p.parseMaybeAssign())
			return p.chain(start, parts)

		case p.at(token.Question):
			if p.optionalMarker() {
				return p.chain(start, parts)
			}
			p.next()
			parts = append(parts, p.parseMaybeAssign())
			p.expect(token.Colon, diag.SynExpectColon, "expected ':' in conditional expression")
			parts = append(parts, p.parseMaybeAssign())
			return p.chain(start, parts)

		case p.at(token.Lt), p.at(token.Gt):
			if p.shiftAssign() {
				parts = append(parts, p.parseMaybeAssign())
				return p.chain(start, parts)
			}
			parts = append(parts, p.parseUnary())

		case p.isBinaryOp():
			p.next()
			parts = append(parts, p.parseUnary())

		case (p.atWord("as") || p.atWord("satisfies")) && !p.tok.NewlineBefore:
			p.next()
			p.parseType()

		default:
			return p.chain(start, parts)
		}
	}
}

func (p *Parser) chain(start uint32, parts []ast.Expr) ast.Expr {
	if len(parts) == 1 {
		return parts[0]
	}
	s := &ast.Seq{Parts: parts}
	s.At(p.span(start))
	return s
}

// optionalMarker: `?` перед ':' ',' ')' '=' — это необязательный параметр
// (`(a?: T) =>`), а не тернарный оператор.
func (p *Parser) optionalMarker() bool {
	switch p.peek().Kind {
	case token.Colon, token.Comma, token.RParen, token.Assign:
		return true
	}
	return false
}

// shiftAssign съедает оператор из одиночных '<'/'>' (`<`, `<=`, `<<`,
// `>>>=` ...) и сообщает, было ли это присваиванием.
func (p *Parser) shiftAssign() bool {
	first := p.next()
	n := 1
	end := first.Span.End
	for (p.at(token.Lt) || p.at(token.Gt)) && p.tok.Span.Start == end && p.tok.Kind == first.Kind {
		end = p.next().Span.End
		n++
	}
	if p.tok.Span.Start == end && (p.at(token.Assign) || p.tok.IsOp("==") || p.tok.IsOp("===")) {
		eq := p.next()
		return n > 1 && eq.Kind == token.Assign
	}
	return false
}

func (p *Parser) isBinaryOp() bool {
	switch p.tok.Kind {
	case token.Op:
		switch p.tok.Text {
		case "~", "++", "--":
			return false
		}
		return true
	case token.Slash:
		return true
	case token.KwInstanceof:
		return true
	case token.KwIn:
		return !p.noIn
	}
	return false
}

// parseUnary: префиксные операторы, затем операнд с постфиксами.
func (p *Parser) parseUnary() ast.Expr {
	start := p.tok.Span.Start
	switch {
	case p.at(token.Bang), p.at(token.KwTypeof), p.at(token.KwVoid), p.at(token.KwDelete),
		p.tok.IsOp("~"), p.tok.IsOp("+"), p.tok.IsOp("-"), p.tok.IsOp("++"), p.tok.IsOp("--"):
		p.next()
		return p.wrap(start, p.parseUnary())

	case p.atWord("await"), p.atWord("yield"):
		nxt := p.peek()
		if !nxt.NewlineBefore && startsExpr(nxt) {
			word := p.next()
			if word.Text == "yield" && p.tok.IsOp("*") {
				p.next()
			}
			return p.wrap(start, p.parseUnary())
		}

	case p.at(token.Lt):
		// <T>expr (утверждение типа) или <T>(x) => x
		p.skipAngles()
		return p.wrap(start, p.parseUnary())
	}

	x := p.parsePostfix(p.parsePrimary())
	if (p.tok.IsOp("++") || p.tok.IsOp("--")) && !p.tok.NewlineBefore {
		p.next()
		x = p.wrap(start, x)
	}
	return x
}

// wrap оборачивает операнд с префиксом в Seq из одного элемента, чтобы
// span покрывал оператор.
func (p *Parser) wrap(start uint32, x ast.Expr) ast.Expr {
	s := &ast.Seq{Parts: []ast.Expr{x}}
	s.At(p.span(start))
	return s
}

func startsExpr(t token.Token) bool {
	switch t.Kind {
	case token.Ident, token.PrivateName, token.NumberLit, token.StringLit, token.RegexLit,
		token.NoSubstTemplate, token.TemplateHead,
		token.LParen, token.LBracket, token.LBrace, token.Lt, token.Bang, token.Slash,
		token.KwThis, token.KwSuper, token.KwNull, token.KwTrue, token.KwFalse,
		token.KwFunction, token.KwClass, token.KwNew, token.KwTypeof, token.KwVoid,
		token.KwDelete, token.KwImport:
		return true
	case token.Op:
		switch t.Text {
		case "+", "-", "~", "++", "--", "*":
			return true
		}
	}
	return false
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.tok.Span.Start
	switch p.tok.Kind {
	case token.Ident:
		return p.parseIdentExpr()

	case token.NumberLit, token.StringLit, token.RegexLit, token.PrivateName,
		token.KwThis, token.KwSuper, token.KwNull, token.KwTrue, token.KwFalse:
		tok := p.next()
		lit := &ast.Literal{Raw: tok.Text}
		lit.At(tok.Span)
		return lit

	case token.KwImport:
		// import(...) / import.meta
		tok := p.next()
		lit := &ast.Literal{Raw: tok.Text}
		lit.At(tok.Span)
		return lit

	case token.NoSubstTemplate, token.TemplateHead:
		return p.parseTemplateLit()

	case token.LParen:
		return p.parseParenOrArrow(start, nil)

	case token.LBracket:
		return p.parseArray()

	case token.LBrace:
		return p.parseObject()

	case token.KwFunction:
		return p.parseFunction(false, false)

	case token.KwClass:
		return p.parseClass(false)

	case token.At:
		p.skipDecorators()
		return p.parseClass(false)

	case token.KwNew:
		return p.parseNew()
	}

	p.failHere(diag.SynExpectExpression, "expected expression")
	return nil
}

// parseIdentExpr: идентификатор, `x => ...`, `async x => ...`,
// `async (...) => ...`, `async function`.
func (p *Parser) parseIdentExpr() ast.Expr {
	start := p.tok.Span.Start
	nxt := p.peek()
	if nxt.Is(token.Arrow) && !nxt.NewlineBefore {
		id := p.next()
		param := ast.NewIdent(id.Span, id.Text)
		return p.parseArrowRest(start, []ast.Expr{param})
	}
	if p.atWord("async") && !nxt.NewlineBefore {
		switch {
		case nxt.Is(token.KwFunction):
			p.next()
			return p.parseFunction(false, false)
		case nxt.Is(token.Ident):
			p.next()
			id := p.next()
			if !p.at(token.Arrow) {
				p.unexpected()
			}
			return p.parseArrowRest(start, []ast.Expr{ast.NewIdent(id.Span, id.Text)})
		case nxt.Is(token.LParen), nxt.Is(token.Lt):
			async := p.next()
			if p.at(token.Lt) {
				p.skipAngles()
			}
			return p.parseParenOrArrow(start, ast.NewIdent(async.Span, async.Text))
		}
	}
	id := p.next()
	return ast.NewIdent(id.Span, id.Text)
}

// parseParenOrArrow разбирает `( ... )`: список параметров стрелочной
// функции или выражение в скобках. Для `async (...)` без `=>` это вызов
// функции async.
func (p *Parser) parseParenOrArrow(start uint32, async *ast.Ident) ast.Expr {
	open := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	saveIn := p.noIn
	p.noIn = false
	items := p.parseParenItems()
	p.noIn = saveIn
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")

	if p.at(token.Colon) && p.try(p.returnTypeThenArrow) {
		return p.parseArrowRest(start, items)
	}
	if p.at(token.Arrow) && !p.tok.NewlineBefore {
		return p.parseArrowRest(start, items)
	}
	if async != nil {
		call := &ast.Call{Callee: async, Args: items}
		call.At(p.span(start))
		return call
	}
	if len(items) == 0 {
		p.Fail(diag.SynExpectExpression, p.span(open.Span.Start), "empty parenthesized expression")
	}
	paren := &ast.Paren{Items: items}
	paren.At(p.span(start))
	return paren
}

// returnTypeThenArrow: `: T =>` после списка параметров. Вызывается
// спекулятивно, потому что `c ? (a) : b` выглядит так же.
func (p *Parser) returnTypeThenArrow() bool {
	p.next() // ':'
	p.parseType()
	return p.at(token.Arrow)
}

// parseParenItems разбирает элементы в скобках до ')'. Допускает
// TS-аннотации параметров: `a?: T = d`, модификаторы, rest.
func (p *Parser) parseParenItems() []ast.Expr {
	var items []ast.Expr
	for !p.at(token.RParen) {
		start := p.tok.Span.Start
		var item ast.Expr
		if p.at(token.DotDotDot) {
			p.next()
			item = p.spread(start, p.parseMaybeAssign())
		} else {
			item = p.parseMaybeAssign()
		}
		p.eat(token.Question)
		if p.eat(token.Colon) {
			p.parseType()
		}
		if p.eat(token.Assign) {
			item = p.chain(start, []ast.Expr{item, p.parseMaybeAssign()})
		}
		items = append(items, item)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.at(token.RParen) {
		p.failHere(diag.SynUnclosedParen, "expected ')'")
	}
	return items
}

func (p *Parser) spread(start uint32, x ast.Expr) ast.Expr {
	s := &ast.Spread{X: x}
	s.At(p.span(start))
	return s
}

// parseArrowRest — тело стрелочной функции после списка параметров.
func (p *Parser) parseArrowRest(start uint32, params []ast.Expr) ast.Expr {
	p.expect(token.Arrow, diag.SynUnexpectedToken, "expected '=>'")
	fn := &ast.Function{Params: params, Arrow: true}
	prev := p.pushScope(ast.ScopeFunction, start)
	fn.Scope = p.scope
	for _, param := range params {
		p.declarePattern(param, declLexical)
	}
	if p.at(token.LBrace) {
		p.next()
		fn.Body = p.parseStatementsUntilBrace()
	} else {
		fn.X = p.parseMaybeAssign()
	}
	p.popScope(prev)
	fn.At(p.span(start))
	return fn
}

// parsePostfix: доступ к членам, вызовы, tagged templates, `x!`.
func (p *Parser) parsePostfix(x ast.Expr) ast.Expr {
	start := x.Span().Start
	for {
		switch {
		case p.at(token.Dot), p.at(token.QuestionDot):
			p.next()
			switch {
			case p.at(token.LParen):
				x = p.call(start, x)
			case p.at(token.LBracket):
				x = p.computedMember(start, x)
			case p.tok.IsIdentName(), p.at(token.PrivateName):
				prop := p.next()
				m := &ast.Member{X: x, Prop: ast.NewIdent(prop.Span, prop.Text)}
				m.At(p.span(start))
				x = m
			default:
				p.failHere(diag.SynExpectIdentifier, "expected property name")
			}

		case p.at(token.LBracket):
			x = p.computedMember(start, x)

		case p.at(token.LParen):
			x = p.call(start, x)

		case p.at(token.NoSubstTemplate), p.at(token.TemplateHead):
			quasi := p.parseTemplateLit()
			tt := &ast.TaggedTemplate{Tag: x, Quasi: quasi}
			tt.At(p.span(start))
			x = tt

		case p.at(token.Bang) && !p.tok.NewlineBefore:
			// non-null assertion
			p.next()

		case p.at(token.Lt) && !p.tok.NewlineBefore:
			// f<T>(...) — только если после '>' идёт вызов
			if !p.try(p.typeArgsThenCall) {
				return x
			}

		default:
			return x
		}
	}
}

// typeArgsThenCall пропускает `<...>`, если внутри только то, что бывает
// в типах, и после него идёт вызов. `a < b` отбрасывается на первом
// неподходящем токене.
func (p *Parser) typeArgsThenCall() bool {
	depth := 0
	for {
		switch p.tok.Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
		case token.LParen, token.LBracket, token.LBrace:
			p.skipBalanced()
			continue
		case token.Ident, token.Comma, token.Dot, token.StringLit, token.NumberLit,
			token.Question, token.Colon, token.Arrow, token.NoSubstTemplate:
		case token.Op:
			if p.tok.Text != "|" && p.tok.Text != "&" {
				return false
			}
		default:
			if !p.tok.Kind.IsKeyword() {
				return false
			}
		}
		p.next()
		if depth <= 0 {
			break
		}
	}
	return p.at(token.LParen) || p.at(token.NoSubstTemplate) || p.at(token.TemplateHead)
}

func (p *Parser) computedMember(start uint32, x ast.Expr) ast.Expr {
	p.next() // '['
	saveIn := p.noIn
	p.noIn = false
	prop := p.parseExpression()
	p.noIn = saveIn
	p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
	m := &ast.Member{X: x, Prop: prop, Computed: true}
	m.At(p.span(start))
	return m
}

func (p *Parser) call(start uint32, callee ast.Expr) ast.Expr {
	c := &ast.Call{Callee: callee, Args: p.parseArguments()}
	c.At(p.span(start))
	return c
}

// parseArguments: ( [...]expr, ... )
func (p *Parser) parseArguments() []ast.Expr {
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	saveIn := p.noIn
	p.noIn = false
	var args []ast.Expr
	for !p.at(token.RParen) {
		start := p.tok.Span.Start
		if p.eat(token.DotDotDot) {
			args = append(args, p.spread(start, p.parseMaybeAssign()))
		} else {
			args = append(args, p.parseMaybeAssign())
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.noIn = saveIn
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	return args
}

// parseNew: new X(...), new X, new.target
func (p *Parser) parseNew() ast.Expr {
	start := p.tok.Span.Start
	kw := p.next()
	if p.eat(token.Dot) {
		prop := p.expect(token.Ident, diag.SynExpectIdentifier, "expected 'target'")
		lit := &ast.Literal{Raw: kw.Text}
		lit.At(kw.Span)
		m := &ast.Member{X: lit, Prop: ast.NewIdent(prop.Span, prop.Text)}
		m.At(p.span(start))
		return m
	}
	var callee ast.Expr
	if p.at(token.KwNew) {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	// без вызовов: `new a.b.C(...)` — аргументы принадлежат new
	for p.at(token.Dot) || p.at(token.LBracket) {
		if p.at(token.LBracket) {
			callee = p.computedMember(start, callee)
			continue
		}
		p.next()
		prop := p.next()
		m := &ast.Member{X: callee, Prop: ast.NewIdent(prop.Span, prop.Text)}
		m.At(p.span(start))
		callee = m
	}
	if p.at(token.Lt) {
		p.try(p.typeArgsThenCall)
	}
	c := &ast.Call{Callee: callee}
	if p.at(token.LParen) {
		c.Args = p.parseArguments()
	}
	c.At(p.span(start))
	return c
}

// parseTemplateLit: `a` или `a${x}b${y}c`.
func (p *Parser) parseTemplateLit() *ast.TemplateLit {
	first := p.next()
	t := &ast.TemplateLit{}
	if first.Kind == token.NoSubstTemplate {
		t.Quasis = append(t.Quasis, quasiSpan(first, 1, 1))
		t.At(first.Span)
		return t
	}
	t.Quasis = append(t.Quasis, quasiSpan(first, 1, 2))
	saveIn := p.noIn
	p.noIn = false
	for {
		t.Exprs = append(t.Exprs, p.parseExpression())
		switch p.tok.Kind {
		case token.TemplateMiddle:
			t.Quasis = append(t.Quasis, quasiSpan(p.next(), 1, 2))
			continue
		case token.TemplateTail:
			t.Quasis = append(t.Quasis, quasiSpan(p.next(), 1, 1))
		default:
			p.failHere(diag.SynUnclosedBrace, "expected '}' in template literal")
		}
		break
	}
	p.noIn = saveIn
	t.At(p.span(first.Span.Start))
	return t
}

// quasiSpan — span текста куска без разделителей (`, }, ${).
func quasiSpan(tok token.Token, head, tail uint32) source.Span {
	sp := tok.Span
	sp.Start += head
	sp.End -= tail
	if sp.End < sp.Start {
		sp.End = sp.Start
	}
	return sp
}

// parseArray — литерал массива или шаблон `[a, , ...b]`.
func (p *Parser) parseArray() ast.Expr {
	start := p.tok.Span.Start
	p.next() // '['
	saveIn := p.noIn
	p.noIn = false
	arr := &ast.Array{}
	for !p.at(token.RBracket) {
		if p.eat(token.Comma) {
			continue // дырка
		}
		elStart := p.tok.Span.Start
		if p.eat(token.DotDotDot) {
			arr.Elems = append(arr.Elems, p.spread(elStart, p.parseMaybeAssign()))
		} else {
			arr.Elems = append(arr.Elems, p.parseMaybeAssign())
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.noIn = saveIn
	p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
	arr.At(p.span(start))
	return arr
}

// parseObject — литерал объекта или шаблон деструктуризации.
func (p *Parser) parseObject() ast.Expr {
	start := p.tok.Span.Start
	p.next() // '{'
	saveIn := p.noIn
	p.noIn = false
	obj := &ast.Object{}
	for !p.at(token.RBrace) {
		obj.Props = append(obj.Props, p.parseProp())
		if !p.eat(token.Comma) {
			break
		}
	}
	p.noIn = saveIn
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'")
	obj.At(p.span(start))
	return obj
}

var accessorWords = map[string]bool{"get": true, "set": true, "async": true}

func (p *Parser) parseProp() ast.Expr {
	start := p.tok.Span.Start
	if p.eat(token.DotDotDot) {
		return p.spread(start, p.parseMaybeAssign())
	}

	method := false
	for (p.at(token.Ident) && accessorWords[p.tok.Text] && startsPropName(p.peek())) || p.tok.IsOp("*") {
		p.next()
		method = true
	}

	key, computed := p.parsePropKey()
	prop := &ast.Prop{Key: key, Computed: computed}

	switch {
	case method || p.at(token.LParen) || p.at(token.Lt):
		prop.Value = p.parseMethodFunction(start)
	case p.eat(token.Colon):
		prop.Value = p.parseMaybeAssign()
	case p.at(token.Assign):
		// {a = 1}: значение по умолчанию в шаблоне
		p.next()
		prop.Shorthand = true
		prop.Value = p.parseMaybeAssign()
	default:
		if _, ok := key.(*ast.Ident); !ok || computed {
			p.failHere(diag.SynExpectColon, "expected ':'")
		}
		prop.Shorthand = true
	}
	prop.At(p.span(start))
	return prop
}

func startsPropName(t token.Token) bool {
	return t.IsIdentName() || t.Is(token.StringLit) || t.Is(token.NumberLit) ||
		t.Is(token.LBracket) || t.Is(token.PrivateName) || t.IsOp("*")
}

// parsePropKey: имя, строка, число, #private или [computed].
func (p *Parser) parsePropKey() (ast.Expr, bool) {
	switch {
	case p.at(token.LBracket):
		p.next()
		k := p.parseMaybeAssign()
		p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
		return k, true
	case p.at(token.Ident):
		tok := p.next()
		return ast.NewIdent(tok.Span, tok.Text), false
	case p.tok.IsIdentName(), p.at(token.StringLit), p.at(token.NumberLit), p.at(token.PrivateName):
		tok := p.next()
		lit := &ast.Literal{Raw: tok.Text}
		lit.At(tok.Span)
		return lit, false
	}
	p.failHere(diag.SynExpectIdentifier, "expected property name")
	return nil, false
}
