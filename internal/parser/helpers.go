package parser

import (
	"fmt"

	"contenttag/internal/diag"
	"contenttag/internal/lexer"
	"contenttag/internal/source"
	"contenttag/internal/token"
)

// next съедает текущий токен и возвращает его.
func (p *Parser) next() token.Token {
	tok := p.tok
	if tok.Kind == token.EOF {
		return tok
	}
	p.prevEnd = tok.Span.End
	if tok.Kind == token.Ident {
		p.noteIdent(tok.Text)
	}
	p.tok = p.lx.Next()
	p.checkInvalid()
	return tok
}

// checkInvalid прерывает разбор, если текущим стал ошибочный токен.
// При спекулятивном разборе вместо этого откатываемся (см. try).
func (p *Parser) checkInvalid() {
	if p.tok.Kind != token.Invalid {
		return
	}
	if p.spec > 0 {
		panic(speculationFailed{})
	}
	if d, ok := p.lexDiag.at(p.tok.Span.Start); ok {
		panic(bailout{d: d})
	}
	p.Fail(diag.SynUnexpectedToken, p.tok.Span, fmt.Sprintf("unexpected %q", p.tok.Text))
}

func (p *Parser) at(k token.Kind) bool { return p.tok.Kind == k }

func (p *Parser) atWord(w string) bool { return p.tok.IsWord(w) }

func (p *Parser) peek() token.Token { return p.lx.Peek() }

func (p *Parser) eat(k token.Kind) bool {
	if p.tok.Kind == k {
		p.next()
		return true
	}
	return false
}

// expect — ожидаем конкретный токен, иначе синтаксическая ошибка.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) token.Token {
	if p.tok.Kind != k {
		p.failHere(code, msg)
	}
	return p.next()
}

// failHere падает на текущем токене; на EOF сообщение про конец ввода.
func (p *Parser) failHere(code diag.Code, msg string) {
	if p.tok.Kind == token.EOF {
		if d, ok := p.lexDiag.after(p.prevEnd); ok {
			panic(bailout{d: d})
		}
		msg += ", got end of input"
	} else {
		msg += fmt.Sprintf(", got %q", p.tok.Text)
	}
	p.Fail(code, p.tok.Span, msg)
}

func (p *Parser) unexpected() {
	p.failHere(diag.SynUnexpectedToken, "unexpected token")
}

// semicolon — конец инструкции: ';' или автоматическая вставка
// (перевод строки, '}' или конец файла).
func (p *Parser) semicolon() {
	switch {
	case p.at(token.Semicolon):
		p.next()
	case p.at(token.RBrace), p.at(token.EOF), p.tok.NewlineBefore:
	default:
		p.failHere(diag.SynUnexpectedToken, "expected ';'")
	}
}

func (p *Parser) span(start uint32) source.Span { return p.SpanFrom(start) }

// speculationFailed — паника отката спекулятивного разбора.
type speculationFailed struct{}

type snapshot struct {
	lx      lexer.State
	tok     token.Token
	prevEnd uint32
	idents  int
}

// noteIdent запоминает имя; новые имена попадают в журнал, чтобы
// откат спекуляции мог их забыть.
func (p *Parser) noteIdent(name string) {
	if _, seen := p.idents[name]; seen {
		return
	}
	p.idents[name] = struct{}{}
	p.identLog = append(p.identLog, name)
}

func (p *Parser) save() snapshot {
	return snapshot{lx: p.lx.Save(), tok: p.tok, prevEnd: p.prevEnd, idents: len(p.identLog)}
}

func (p *Parser) restore(s snapshot) {
	p.lx.Restore(s.lx)
	p.tok = s.tok
	p.prevEnd = s.prevEnd
	for _, name := range p.identLog[s.idents:] {
		delete(p.idents, name)
	}
	p.identLog = p.identLog[:s.idents]
}

// try выполняет fn спекулятивно: при false или ошибке разбора состояние
// токенов откатывается. Области видимости, созданные внутри fn, не
// откатываются, поэтому fn не должен объявлять имена.
func (p *Parser) try(fn func() bool) (ok bool) {
	snap := p.save()
	p.spec++
	defer func() {
		p.spec--
		if r := recover(); r != nil {
			if _, spec := r.(speculationFailed); !spec {
				panic(r)
			}
			ok = false
		}
		if !ok {
			p.restore(snap)
		}
	}()
	return fn()
}

// skipBalanced пропускает группу от открывающей скобки до парной
// закрывающей, считая все три вида скобок.
func (p *Parser) skipBalanced() {
	open := p.tok
	depth := 0
	for {
		switch p.tok.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		case token.EOF:
			p.Fail(unclosedCode(open.Kind), open.Span, fmt.Sprintf("unclosed %q", open.Text))
		}
		p.next()
		if depth <= 0 {
			return
		}
	}
}

func unclosedCode(k token.Kind) diag.Code {
	switch k {
	case token.LParen:
		return diag.SynUnclosedParen
	case token.LBrace:
		return diag.SynUnclosedBrace
	case token.LBracket:
		return diag.SynUnclosedBracket
	}
	return diag.SynUnclosedDelimiter
}

// skipAngles пропускает список типовых параметров/аргументов `<...>`.
// '<' и '>' лексер всегда отдаёт по одному, так что `>>` — это два Gt.
func (p *Parser) skipAngles() {
	open := p.tok
	depth := 0
	for {
		switch p.tok.Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
		case token.EOF, token.Semicolon:
			p.Fail(diag.SynUnclosedDelimiter, open.Span, "unclosed type parameter list")
		case token.LParen, token.LBracket, token.LBrace:
			p.skipBalanced()
			continue
		}
		p.next()
		if depth <= 0 {
			return
		}
	}
}
