package lexer

import (
	"contenttag/internal/diag"
	"contenttag/internal/token"
)

// операторы, отсортированные по убыванию длины внутри каждой группы:
// жадный матч берёт первое совпадение.
var opsByFirstByte = map[byte][]string{
	'=': {"===", "==", "=>", "="},
	'!': {"!==", "!=", "!"},
	'+': {"++", "+=", "+"},
	'-': {"--", "-=", "-"},
	'*': {"**=", "**", "*=", "*"},
	'%': {"%=", "%"},
	'&': {"&&=", "&&", "&=", "&"},
	'|': {"||=", "||", "|=", "|"},
	'^': {"^=", "^"},
	'~': {"~"},
	'/': {"/=", "/"},
	'?': {"??=", "??", "?.", "?"},
	'.': {"...", "."},
}

var singlePunct = map[byte]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	';': token.Semicolon,
	',': token.Comma,
	':': token.Colon,
	'@': token.At,
	'<': token.Lt,
	'>': token.Gt,
}

// scanOperatorOrPunct сканирует пунктуацию и операторы (жадно).
// '<' и '>' всегда одиночные: '<<', '>=' и т.п. собирает парсер.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Peek()

	switch b {
	case '{':
		lx.cursor.Bump()
		lx.braces = append(lx.braces, braceBlock)
		return lx.tokenFrom(token.LBrace, start)
	case '}':
		lx.cursor.Bump()
		if n := len(lx.braces); n > 0 {
			lx.braces = lx.braces[:n-1]
		}
		return lx.tokenFrom(token.RBrace, start)
	}

	if k, ok := singlePunct[b]; ok {
		lx.cursor.Bump()
		return lx.tokenFrom(k, start)
	}

	for _, op := range opsByFirstByte[b] {
		if op == "?." && isDec(lx.cursor.PeekAt(2)) {
			// a?.5:b — это тернарный оператор и число
			continue
		}
		if lx.cursor.EatString(op) {
			return lx.tokenFrom(opKind(op), start)
		}
	}

	lx.bumpRune()
	if lx.cursor.Off == uint32(start) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unexpected character")
	return lx.tokenFrom(token.Invalid, start)
}

func opKind(op string) token.Kind {
	switch op {
	case "=":
		return token.Assign
	case "=>":
		return token.Arrow
	case "!":
		return token.Bang
	case "/":
		return token.Slash
	case "?":
		return token.Question
	case "?.":
		return token.QuestionDot
	case ".":
		return token.Dot
	case "...":
		return token.DotDotDot
	}
	return token.Op
}
