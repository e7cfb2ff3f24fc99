package lexer

import (
	"unicode/utf8"

	"contenttag/internal/diag"
	"contenttag/internal/token"
)

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Ключевые слова регистрозависимые. Token.Text — ровно исходный срез.
// Escape-последовательности \uXXXX и \u{...} считаем частью идентификатора.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.scanIdentTail(true)
	if lx.cursor.Off == uint32(start) {
		return lx.scanOperatorOrPunct()
	}

	tok := lx.tokenFrom(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

// scanPrivateName сканирует `#name` внутри классов.
func (lx *Lexer) scanPrivateName() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	before := lx.cursor.Off
	lx.scanIdentTail(true)
	if lx.cursor.Off == before {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "expected identifier after '#'")
		return lx.tokenFrom(token.Invalid, start)
	}
	return lx.tokenFrom(token.PrivateName, start)
}

func (lx *Lexer) scanIdentTail(first bool) {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b < utf8.RuneSelf && first && isIdentStartByte(b):
			lx.cursor.Bump()
		case b < utf8.RuneSelf && !first && isIdentContinueByte(b):
			lx.cursor.Bump()
		case b == '\\' && lx.cursor.PeekAt(1) == 'u':
			lx.cursor.Bump()
			lx.cursor.Bump()
			if lx.cursor.Eat('{') {
				for !lx.cursor.EOF() && lx.cursor.Peek() != '}' && isHex(lx.cursor.Peek()) {
					lx.cursor.Bump()
				}
				lx.cursor.Eat('}')
			} else {
				for i := 0; i < 4 && isHex(lx.cursor.Peek()); i++ {
					lx.cursor.Bump()
				}
			}
		case b >= utf8.RuneSelf:
			r, _ := lx.peekRune()
			if (first && !isIdentStartRune(r)) || (!first && !isIdentContinueRune(r)) {
				return
			}
			lx.bumpRune()
		default:
			return
		}
		first = false
	}
}
