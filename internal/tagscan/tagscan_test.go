package tagscan_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contenttag/internal/ast"
	"contenttag/internal/diag"
	"contenttag/internal/parser"
	"contenttag/internal/source"
	"contenttag/internal/tagscan"
	"contenttag/internal/testkit"
)

// scanString разбирает input с расширением tagscan для тега tag
func scanString(t *testing.T, input, tag string) (*parser.Result, *tagscan.Scanner, error) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.gjs", []byte(input)))
	sc := tagscan.New(tag)
	res, err := parser.ParseFile(file, parser.Options{Extension: sc})
	if err == nil {
		require.NoError(t, testkit.CheckSpanInvariants(res.Program, file))
	}
	return res, sc, err
}

func slice(input string, sp source.Span) string {
	return input[sp.Start:sp.End]
}

func TestScanPositions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		content string
		pos     ast.Position
	}{
		{"statement", "<template>Hello!</template>", "Hello!", ast.PosStatement},
		{"expression", "const Foo = <template>Hi</template>;", "Hi", ast.PosExpression},
		{"argument", "foo(<template>x</template>, 1)", "x", ast.PosExpression},
		{"arrow body", "const f = () => <template>a</template>;", "a", ast.PosExpression},
		{"class member", "class X { <template>Hello {{this.message}}!</template> }", "Hello {{this.message}}!", ast.PosClassMember},
		{"export default", "export default <template>d</template>", "d", ast.PosExpression},
		{"nested block", "function f() { return <template>r</template> }", "r", ast.PosExpression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, sc, err := scanString(t, tt.input, "template")
			require.NoError(t, err)
			require.NotNil(t, res)
			require.Len(t, sc.Nodes(), 1)

			n := sc.Nodes()[0]
			assert.Equal(t, tt.content, n.Content)
			assert.Equal(t, tt.content, slice(tt.input, n.ContentRange))
			assert.Equal(t, "<template>", slice(tt.input, n.StartRange))
			assert.Equal(t, "</template>", slice(tt.input, n.EndRange))
			assert.Equal(t, "<template>"+tt.content+"</template>", slice(tt.input, n.Span()))
			assert.Equal(t, tt.pos, n.Pos)
			assert.Equal(t, "template", n.TagName)
		})
	}
}

func TestScanBodyIgnoresHostSyntax(t *testing.T) {
	// кавычки, слэши и скобки внутри разметки не должны ломать разбор
	input := "const a = <template>it's a /path/ {{if x}} \"q` // not a comment</template>;\nconst b = 'after';"
	res, sc, err := scanString(t, input, "template")
	require.NoError(t, err)
	require.Len(t, sc.Nodes(), 1)
	assert.Equal(t, "it's a /path/ {{if x}} \"q` // not a comment", sc.Nodes()[0].Content)
	assert.True(t, res.Scopes.Has(res.Program.Scope, "b"))
}

func TestScanNestedSameTag(t *testing.T) {
	input := "<template><template>x</template></template>"
	_, sc, err := scanString(t, input, "template")
	require.NoError(t, err)
	require.Len(t, sc.Nodes(), 1)
	assert.Equal(t, "<template>x</template>", sc.Nodes()[0].Content)
}

func TestScanIgnoresLookalikes(t *testing.T) {
	input := "const myregex = /<template>/;\nconst s = '<template>';\n// <template>\n<template>Hello!</template>"
	_, sc, err := scanString(t, input, "template")
	require.NoError(t, err)
	require.Len(t, sc.Nodes(), 1)
	assert.Equal(t, "Hello!", sc.Nodes()[0].Content)
}

func TestScanTagNameMatching(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		content string // "" — региона нет
	}{
		{"other case", "const a = <Template>x;", ""},
		{"space after lt", "const a = < template>x;", ""},
		{"exact", "const a = <template>x</template>;", "x"},
		// имя сравнивается по префиксу, как и в проверке вложенности
		{"prefix", "const a = <templates>x</template>;", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sc, err := scanString(t, tt.input, "template")
			require.NoError(t, err)
			if tt.content == "" {
				assert.Empty(t, sc.Nodes())
				return
			}
			require.Len(t, sc.Nodes(), 1)
			assert.Equal(t, tt.content, sc.Nodes()[0].Content)
		})
	}
}

func TestScanComparisonIsNotTag(t *testing.T) {
	_, sc, err := scanString(t, "const template = 1; if (a <template) {}", "template")
	require.NoError(t, err)
	// `a <template` — это сравнение в позиции бинарного оператора, хук не вызывается
	assert.Empty(t, sc.Nodes())
}

func TestScanMultipleInDetectionOrder(t *testing.T) {
	input := `const A = <template>a</template>;
class B {
  <template>b</template>
}
<template>c</template>`
	_, sc, err := scanString(t, input, "template")
	require.NoError(t, err)
	require.Len(t, sc.Nodes(), 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, sc.Nodes()[i].Content)
	}
	assert.Equal(t, ast.PosClassMember, sc.Nodes()[1].Pos)
}

func TestScanCustomTag(t *testing.T) {
	input := "const x = <hbs>one</hbs>; const y = 1 < 2;"
	_, sc, err := scanString(t, input, "hbs")
	require.NoError(t, err)
	require.Len(t, sc.Nodes(), 1)
	assert.Equal(t, "hbs", sc.Nodes()[0].TagName)
	assert.Equal(t, "one", sc.Nodes()[0].Content)
}

func TestScanDisabled(t *testing.T) {
	_, sc, err := scanString(t, "let x = 1;", "")
	require.NoError(t, err)
	assert.Empty(t, sc.Nodes())
}

func TestScanScope(t *testing.T) {
	input := `const message = 'm';
class X {
  <template>{{message.x}}</template>
}
function f(arg) {
  return <template>{{arg}}</template>;
}`
	res, sc, err := scanString(t, input, "template")
	require.NoError(t, err)
	require.Len(t, sc.Nodes(), 2)

	cls := sc.Nodes()[0]
	assert.Equal(t, ast.ScopeClass, res.Scopes.Get(cls.Scope).Kind)
	assert.True(t, res.Scopes.Has(cls.Scope, "message"))

	fn := sc.Nodes()[1]
	assert.True(t, res.Scopes.Has(fn.Scope, "arg"))
	assert.False(t, res.Scopes.Has(res.Program.Scope, "arg"))
}

func TestScanProperties(t *testing.T) {
	input := `<template trim minify=true args=a=b>x</template>`
	_, sc, err := scanString(t, input, "template")
	require.NoError(t, err)
	require.Len(t, sc.Nodes(), 1)

	n := sc.Nodes()[0]
	assert.Equal(t, []ast.Property{
		{Key: "trim"},
		{Key: "minify", Value: "true", HasValue: true},
		{Key: "args", Value: "a=b", HasValue: true},
	}, n.Properties)
	assert.Equal(t, "<template trim minify=true args=a=b>", slice(input, n.StartRange))
}

func TestParseProperties(t *testing.T) {
	tests := []struct {
		in   string
		want []ast.Property
	}{
		{"<template", nil},
		{"<template  trim ", []ast.Property{{Key: "trim"}}},
		{"<template a=1 a=2", []ast.Property{{Key: "a", Value: "2", HasValue: true}}},
		{"<template x= y", []ast.Property{{Key: "x", HasValue: true}, {Key: "y"}}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tagscan.ParseProperties(tt.in), tt.in)
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"unclosed body", "const a = <template>hello", diag.SynUnclosedTemplate},
		{"unclosed nested", "<template><template>x</template>", diag.SynUnclosedTemplate},
		{"unclosed opening tag", "<template trim", diag.SynUnclosedTemplateTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := scanString(t, tt.input, "template")
			require.Error(t, err)
			assert.Nil(t, res)
			var se *parser.SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.code, se.Diagnostic.Code)
			// ошибка указывает на открывающий тег
			assert.Equal(t, uint32(1), se.Pos.Line)
		})
	}
}

func TestScanFollowingStatementASI(t *testing.T) {
	input := "const a = <template>x</template>\nconst b = a"
	res, sc, err := scanString(t, input, "template")
	require.NoError(t, err)
	require.Len(t, sc.Nodes(), 1)
	require.Len(t, res.Program.Body, 2)

	decl, ok := res.Program.Body[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Same(t, sc.Nodes()[0], decl.Inits[0])
	assert.Equal(t, "const a = <template>x</template>", slice(input, decl.Span()))
}
