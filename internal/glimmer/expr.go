package glimmer

type exprTokenKind uint8

const (
	tokWord exprTokenKind = iota
	tokString
	tokOpen
	tokClose
	tokEquals
	tokBar
)

type exprToken struct {
	kind exprTokenKind
	text string
}

// lexExpr splits a mustache body into words, string literals and the
// punctuation that matters for name analysis.
func lexExpr(src string) []exprToken {
	var toks []exprToken
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case isSpace(c):
			i++
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(src) && src[j] != c {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j > len(src) {
				j = len(src)
			}
			toks = append(toks, exprToken{kind: tokString, text: src[i:j]})
			i = j + 1
		case c == '(':
			toks = append(toks, exprToken{kind: tokOpen, text: "("})
			i++
		case c == ')':
			toks = append(toks, exprToken{kind: tokClose, text: ")"})
			i++
		case c == '=':
			toks = append(toks, exprToken{kind: tokEquals, text: "="})
			i++
		case c == '|':
			toks = append(toks, exprToken{kind: tokBar, text: "|"})
			i++
		default:
			j := i
			for j < len(src) && !isSpace(src[j]) && !isExprPunct(src[j]) {
				j++
			}
			toks = append(toks, exprToken{kind: tokWord, text: src[i:j]})
			i = j
		}
	}
	return toks
}

func isExprPunct(c byte) bool {
	switch c {
	case '(', ')', '=', '|', '"', '\'':
		return true
	}
	return false
}
