package token

import (
	"contenttag/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	// NewlineBefore is set when a line terminator separates this token from
	// the previous one. The parser uses it for automatic semicolon insertion.
	NewlineBefore bool
}

// Is reports whether the token has kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// IsWord reports whether the token is an identifier spelled word. Contextual
// keywords (`async`, `of`, `from`, `static`, ...) are matched this way.
func (t Token) IsWord(word string) bool {
	return t.Kind == Ident && t.Text == word
}

// IsOp reports whether the token is an operator spelled op.
func (t Token) IsOp(op string) bool {
	return t.Kind == Op && t.Text == op
}

// IsIdentName reports whether the token may serve as a property or member
// name: identifiers and every reserved word.
func (t Token) IsIdentName() bool {
	return t.Kind == Ident || t.Kind.IsKeyword()
}

// IsAssignOp reports whether the token is `=` or a compound assignment.
func (t Token) IsAssignOp() bool {
	if t.Kind == Assign {
		return true
	}
	if t.Kind != Op {
		return false
	}
	switch t.Text {
	case "+=", "-=", "*=", "/=", "%=", "**=", "<<=", ">>=", ">>>=", "&=", "|=", "^=", "&&=", "||=", "??=":
		return true
	}
	return false
}

// EndsExpression reports whether an expression may end with a token of kind k.
// The lexer uses it to tell a division operator from a regular expression.
// A closing brace is treated as the end of a block, so `/` after it starts
// a regular expression.
func EndsExpression(k Kind, text string) bool {
	switch k {
	case Ident, PrivateName, NumberLit, StringLit, RegexLit, NoSubstTemplate, TemplateTail,
		RParen, RBracket, KwThis, KwSuper, KwNull, KwTrue, KwFalse:
		return true
	case Op:
		return text == "++" || text == "--"
	}
	return false
}
