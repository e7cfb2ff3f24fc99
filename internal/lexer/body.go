package lexer

import (
	"contenttag/internal/token"
)

// scanBody — токенизация тела встроенного шаблона.
// Пробелы пропускаются, комментарии НЕ распознаются: `//` внутри разметки
// (например, в URL) — это просто два токена Char.
func (lx *Lexer) scanBody() token.Token {
	newline := false
	for !lx.cursor.EOF() && isSpace(lx.cursor.Peek()) {
		if isLineTerminator(lx.cursor.Peek()) {
			newline = true
		}
		lx.cursor.Bump()
	}
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan(), NewlineBefore: newline}
	}

	start := lx.cursor.Mark()
	kind := token.Char
	if isAlnum(lx.cursor.Peek()) {
		kind = token.Word
		for !lx.cursor.EOF() && isAlnum(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	} else {
		lx.cursor.Bump()
	}
	tok := lx.tokenFrom(kind, start)
	tok.NewlineBefore = newline
	return tok
}
