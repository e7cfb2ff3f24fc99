package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"contenttag/internal/diag"
	"contenttag/internal/lexer"
	"contenttag/internal/source"
	"contenttag/internal/token"
)

// codes перечисляет коды в порядке поступления
func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.gjs", []byte(input)))
	bag := diag.NewBag(0)
	return lexer.New(file, lexer.Options{Reporter: bag}), bag
}

// collectAllTokens собирает все токены до EOF (EOF не включается)
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// expectTokens проверяет последовательность видов токенов
func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nErrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), codes(reporter))
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	if reporter.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", codes(reporter))
	}
}

func TestIdentifiersAndKeywords(t *testing.T) {
	expectTokens(t, "const $x = _y; class A extends B {}", []token.Kind{
		token.KwConst, token.Ident, token.Assign, token.Ident, token.Semicolon,
		token.KwClass, token.Ident, token.KwExtends, token.Ident, token.LBrace, token.RBrace,
	})
	expectTokens(t, "привет #secret a\\u0062c", []token.Kind{
		token.Ident, token.PrivateName, token.Ident,
	})
}

func TestDivisionVersusRegex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{
			name:  "division after number",
			input: "4 / 2",
			want:  []token.Kind{token.NumberLit, token.Slash, token.NumberLit},
		},
		{
			name:  "division after paren",
			input: "(a) / b",
			want:  []token.Kind{token.LParen, token.Ident, token.RParen, token.Slash, token.Ident},
		},
		{
			name:  "regex after assign",
			input: "const r = /<template>/g;",
			want:  []token.Kind{token.KwConst, token.Ident, token.Assign, token.RegexLit, token.Semicolon},
		},
		{
			name:  "regex with slash in class",
			input: "x = /[/]+/",
			want:  []token.Kind{token.Ident, token.Assign, token.RegexLit},
		},
		{
			name:  "regex after return",
			input: "return /a\\/b/.test(s)",
			want: []token.Kind{
				token.KwReturn, token.RegexLit, token.Dot, token.Ident,
				token.LParen, token.Ident, token.RParen,
			},
		},
		{
			name:  "compound division",
			input: "a /= 2",
			want:  []token.Kind{token.Ident, token.Op, token.NumberLit},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectTokens(t, tt.input, tt.want)
		})
	}
}

func TestTemplateLiterals(t *testing.T) {
	expectTokens(t, "hbs`Hello!`", []token.Kind{token.Ident, token.NoSubstTemplate})
	expectTokens(t, "`a${b}c${d}e`", []token.Kind{
		token.TemplateHead, token.Ident, token.TemplateMiddle, token.Ident, token.TemplateTail,
	})
	// объект внутри подстановки не закрывает шаблон раньше времени
	expectTokens(t, "`${ {a: 1}.a }`", []token.Kind{
		token.TemplateHead, token.LBrace, token.Ident, token.Colon, token.NumberLit,
		token.RBrace, token.Dot, token.Ident, token.TemplateTail,
	})
	expectTokens(t, "`x \\` y`", []token.Kind{token.NoSubstTemplate})
}

func TestAngleBracketsStaySingle(t *testing.T) {
	expectTokens(t, "a >>= b <= c", []token.Kind{
		token.Ident, token.Gt, token.Gt, token.Assign, token.Ident, token.Lt, token.Assign, token.Ident,
	})
}

func TestOperators(t *testing.T) {
	lx, _ := makeTestLexer("a ?? b?.c ... => === !== **= ?.5")
	var texts []string
	for _, tok := range collectAllTokens(lx) {
		texts = append(texts, tok.Text)
	}
	got := strings.Join(texts, " ")
	want := "a ?? b ?. c ... => === !== **= ? .5"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCommentsAndNewlines(t *testing.T) {
	lx, _ := makeTestLexer("a // <template>\n/* x\n */ b c")
	toks := collectAllTokens(lx)
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %v", tokensToString(toks))
	}
	if toks[0].NewlineBefore || !toks[1].NewlineBefore || toks[2].NewlineBefore {
		t.Errorf("unexpected NewlineBefore flags: %v %v %v",
			toks[0].NewlineBefore, toks[1].NewlineBefore, toks[2].NewlineBefore)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
	}{
		{"'abc", diag.LexUnterminatedString},
		{"\"ab\ncd\"", diag.LexUnterminatedString},
		{"`abc", diag.LexUnterminatedTemplate},
		{"/* abc", diag.LexUnterminatedBlockComment},
		{"x = /abc", diag.LexUnterminatedRegex},
		{"1px", diag.LexBadNumber},
	}
	for _, tt := range tests {
		lx, reporter := makeTestLexer(tt.input)
		toks := collectAllTokens(lx)
		found := false
		for _, c := range codes(reporter) {
			if c == tt.code {
				found = true
			}
		}
		if !found {
			t.Errorf("%q: expected %s, got %v (tokens %s)", tt.input, tt.code.ID(), codes(reporter), tokensToString(toks))
		}
	}
}

func TestBodyMode(t *testing.T) {
	input := "<template>It's a/b {{x}} ünï</template>"
	lx, reporter := makeTestLexer(input)

	if tok := lx.Next(); tok.Kind != token.Lt {
		t.Fatalf("expected Lt, got %v", tok.Kind)
	}
	lx.SetMode(lexer.ModeBody, 1)

	var got []string
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		got = append(got, tok.Kind.String()+":"+tok.Text)
	}
	want := []string{
		"Word:template", "Char:>", "Word:It", "Char:'", "Word:s", "Word:a", "Char:/", "Word:b",
		"Char:{", "Char:{", "Word:x", "Char:}", "Char:}", "Word:ünï",
		"Char:<", "Char:/", "Word:template", "Char:>",
	}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("body tokens:\n got %v\nwant %v", got, want)
	}
	if reporter.Len() != 0 {
		t.Errorf("body mode must not report: %v", codes(reporter))
	}
}

func TestSetModeDropsLookahead(t *testing.T) {
	input := "<template>don't</template> / 2"
	lx, _ := makeTestLexer(input)
	lx.Next() // '<'
	lx.Peek() // просканировано в host-режиме, должно быть выброшено
	lx.SetMode(lexer.ModeBody, 1)
	if tok := lx.Next(); tok.Kind != token.Word || tok.Text != "template" {
		t.Fatalf("expected Word(template), got %v(%q)", tok.Kind, tok.Text)
	}
	end := uint32(strings.Index(input, " /"))
	lx.SetMode(lexer.ModeHost, end)
	if tok := lx.Next(); tok.Kind != token.RegexLit && tok.Kind != token.Invalid {
		t.Fatalf("after a template '/' starts a regex, got %v", tok.Kind)
	}
}
