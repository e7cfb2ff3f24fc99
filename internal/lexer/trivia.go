package lexer

import (
	"contenttag/internal/diag"
)

// skipTrivia пропускает пробелы, переводы строк и комментарии host-кода.
// Возвращает true, если по дороге встретился перевод строки (нужно для ASI).
//   - '#!' в самом начале файла — hashbang до конца строки
//   - //... до \n
//   - /* ... */ (без вложенности; незакрытый — репорт, обрезаем на EOF)
func (lx *Lexer) skipTrivia() bool {
	newline := false
	if lx.cursor.Off == 0 && lx.cursor.HasPrefix("#!") {
		for !lx.cursor.EOF() && !isLineTerminator(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case isLineTerminator(b):
			newline = true
			lx.cursor.Bump()
		case isSpace(b):
			lx.cursor.Bump()
		case b == 0xC2 && lx.cursor.PeekAt(1) == 0xA0: // NBSP
			lx.cursor.Bump()
			lx.cursor.Bump()
		case b == 0xE2 && lx.cursor.PeekAt(1) == 0x80 && (lx.cursor.PeekAt(2) == 0xA8 || lx.cursor.PeekAt(2) == 0xA9):
			// U+2028 / U+2029
			newline = true
			lx.cursor.Off += 3
		case b == 0xEF && lx.cursor.PeekAt(1) == 0xBB && lx.cursor.PeekAt(2) == 0xBF: // BOM посреди файла
			lx.cursor.Off += 3
		case b == '/' && lx.cursor.PeekAt(1) == '/':
			for !lx.cursor.EOF() && !isLineTerminator(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		case b == '/' && lx.cursor.PeekAt(1) == '*':
			if lx.skipBlockComment() {
				newline = true
			}
		default:
			return newline
		}
	}
	return newline
}

// skipBlockComment съедает /* ... */ и сообщает, был ли внутри перевод строки.
func (lx *Lexer) skipBlockComment() bool {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	newline := false
	for !lx.cursor.EOF() {
		if lx.cursor.EatString("*/") {
			return newline
		}
		if isLineTerminator(lx.cursor.Bump()) {
			newline = true
		}
	}
	lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
	return newline
}
