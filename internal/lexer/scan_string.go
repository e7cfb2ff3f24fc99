package lexer

import (
	"contenttag/internal/diag"
	"contenttag/internal/token"
)

// scanString сканирует '...' или "..." с escape-последовательностями.
// Перевод строки без '\' — ошибка (незакрытая строка).
func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == quote {
			lx.cursor.Bump()
			return lx.tokenFrom(token.StringLit, start)
		}
		if b == '\\' {
			// грубая обработка escape: съесть '\' и следующий байт (в т.ч. перевод строки)
			lx.cursor.Bump()
			if lx.cursor.Peek() == '\r' && lx.cursor.PeekAt(1) == '\n' {
				lx.cursor.Bump()
			}
			lx.cursor.Bump()
			continue
		}
		if isLineTerminator(b) {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return lx.tokenFrom(token.Invalid, start)
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return lx.tokenFrom(token.Invalid, start)
}

// scanTemplateChunk дочитывает кусок template literal после '`' или '}'.
// Если встретили закрывающий '`' — возвращаем closed, если '${' — open и
// запоминаем на стеке скобок, что следующая парная '}' продолжает шаблон.
func (lx *Lexer) scanTemplateChunk(start Mark, closed, open token.Kind) token.Token {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '`':
			lx.cursor.Bump()
			return lx.tokenFrom(closed, start)
		case b == '\\':
			lx.cursor.Bump()
			lx.cursor.Bump()
		case b == '$' && lx.cursor.PeekAt(1) == '{':
			lx.cursor.Bump()
			lx.cursor.Bump()
			lx.braces = append(lx.braces, braceTemplate)
			return lx.tokenFrom(open, start)
		default:
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedTemplate, sp, "unterminated template literal")
	return lx.tokenFrom(token.Invalid, start)
}

// scanRegex сканирует /body/flags. Внутри класса [...] символ '/' не закрывает литерал.
func (lx *Lexer) scanRegex() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	inClass := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case isLineTerminator(b):
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedRegex, sp, "unterminated regular expression")
			return lx.tokenFrom(token.Invalid, start)
		case b == '\\':
			lx.cursor.Bump()
			if !isLineTerminator(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		case b == '[':
			inClass = true
			lx.cursor.Bump()
		case b == ']':
			inClass = false
			lx.cursor.Bump()
		case b == '/' && !inClass:
			lx.cursor.Bump()
			for isIdentContinueByte(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			return lx.tokenFrom(token.RegexLit, start)
		default:
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedRegex, sp, "unterminated regular expression")
	return lx.tokenFrom(token.Invalid, start)
}
