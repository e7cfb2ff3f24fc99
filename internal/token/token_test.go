package token_test

import (
	"testing"

	"contenttag/internal/source"
	"contenttag/internal/token"
)

func tok(k token.Kind, text string) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}, Text: text}
}

func TestLookupKeyword(t *testing.T) {
	for word, want := range map[string]token.Kind{
		"class":  token.KwClass,
		"import": token.KwImport,
		"this":   token.KwThis,
	} {
		got, ok := token.LookupKeyword(word)
		if !ok || got != want {
			t.Errorf("LookupKeyword(%q) = %v, %v", word, got, ok)
		}
	}
	// contextual words stay identifiers
	for _, word := range []string{"async", "let", "static", "from", "of", "template", "Class"} {
		if _, ok := token.LookupKeyword(word); ok {
			t.Errorf("%q must not be a keyword", word)
		}
	}
}

func TestIsAssignOp(t *testing.T) {
	assign := []token.Token{tok(token.Assign, "="), tok(token.Op, "+="), tok(token.Op, "??="), tok(token.Op, ">>>=")}
	for _, tk := range assign {
		if !tk.IsAssignOp() {
			t.Errorf("%q should be assignment", tk.Text)
		}
	}
	other := []token.Token{tok(token.Op, "=="), tok(token.Arrow, "=>"), tok(token.Op, "+")}
	for _, tk := range other {
		if tk.IsAssignOp() {
			t.Errorf("%q must NOT be assignment", tk.Text)
		}
	}
}

func TestEndsExpression(t *testing.T) {
	tests := []struct {
		kind token.Kind
		text string
		want bool
	}{
		{token.Ident, "a", true},
		{token.RParen, ")", true},
		{token.NumberLit, "4", true},
		{token.Op, "++", true},
		{token.Assign, "=", false},
		{token.LParen, "(", false},
		{token.KwReturn, "return", false},
		{token.Arrow, "=>", false},
		{token.RBrace, "}", false},
		{token.Gt, ">", false},
		{token.Op, "+", false},
	}
	for _, tt := range tests {
		if got := token.EndsExpression(tt.kind, tt.text); got != tt.want {
			t.Errorf("EndsExpression(%v, %q) = %v, want %v", tt.kind, tt.text, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := token.KwClass.String(); got != "Kw(class)" {
		t.Errorf("KwClass.String() = %q", got)
	}
	if got := token.Lt.String(); got != "Lt" {
		t.Errorf("Lt.String() = %q", got)
	}
}
