package collect_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contenttag/internal/ast"
	"contenttag/internal/collect"
	"contenttag/internal/diag"
	"contenttag/internal/imports"
	"contenttag/internal/imports/treesitter"
	"contenttag/internal/parser"
	"contenttag/internal/source"
)

func collectString(t *testing.T, input string, opts collect.Options) (*collect.Result, error) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("foo.gjs", []byte(input)))
	if opts.Path == "" {
		opts.Path = "foo.gjs"
	}
	res, err := collect.Collect(context.Background(), file, opts)
	if err == nil {
		require.NoError(t, collect.Validate(res.Matches, file.Content))
	}
	return res, err
}

func text(input string, sp source.Span) string {
	return input[sp.Start:sp.End]
}

func TestCollectTag(t *testing.T) {
	input := "<template>Hello!</template>"
	res, err := collectString(t, input, collect.Options{TagName: "template"})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)

	m := res.Matches[0]
	assert.Equal(t, collect.KindTag, m.Kind)
	assert.Equal(t, "template", m.TagName)
	assert.Equal(t, source.Span{Start: 0, End: 27}, m.Range)
	assert.Equal(t, source.Span{Start: 0, End: 10}, m.StartRange)
	assert.Equal(t, source.Span{Start: 10, End: 16}, m.ContentRange)
	assert.Equal(t, source.Span{Start: 16, End: 27}, m.EndRange)
	assert.Equal(t, "Hello!", m.RawContent)
	assert.Equal(t, "Hello!", m.Content)

	tpl, ok := m.Template()
	require.True(t, ok)
	assert.Equal(t, ast.PosStatement, tpl.Pos)
}

func TestCollectIgnoresLookalikes(t *testing.T) {
	input := "const myregex = /<template>/;\n<template>Hello!</template>"
	res, err := collectString(t, input, collect.Options{TagName: "template"})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "Hello!", res.Matches[0].Content)
}

func TestCollectAliasFidelity(t *testing.T) {
	input := `import { hbs as someHbs } from 'ember-cli-htmlbars';
import { hbs } from 'not-the-hbs-you-want';
let a = someHbs` + "`hello`" + `;
let b = hbs` + "`nope`" + `;
let c = someHbs` + "`x ${a} y`" + `;
`
	res, err := collectString(t, input, collect.Options{Entries: imports.DefaultEntries})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)

	m := res.Matches[0]
	assert.Equal(t, collect.KindCall, m.Kind)
	assert.Equal(t, "someHbs", m.TagName)
	assert.Equal(t, "hbs", m.ImportIdentifier)
	assert.Equal(t, "ember-cli-htmlbars", m.ImportPath)
	assert.Equal(t, "hello", m.Content)
	assert.Equal(t, "someHbs`", text(input, m.StartRange))
	assert.Equal(t, "`", text(input, m.EndRange))
	assert.Equal(t, "someHbs`hello`", text(input, m.Range))
	assert.Empty(t, m.Properties)
}

func TestCollectModesAreIndependent(t *testing.T) {
	input := "import { hbs } from 'ember-cli-htmlbars';\nconst a = hbs`x`;\nconst b = 1;"

	res, err := collectString(t, input, collect.Options{TagName: "template"})
	require.NoError(t, err)
	assert.Empty(t, res.Matches, "no import table, no call-style matches")

	res, err = collectString(t, input, collect.Options{Entries: imports.DefaultEntries})
	require.NoError(t, err)
	assert.Len(t, res.Matches, 1)
}

func TestCollectSortedByStart(t *testing.T) {
	input := "import { hbs } from 'ember-cli-htmlbars';\nconst a = hbs`first`;\nconst b = <template>second</template>;\nconst c = hbs`third`;"
	res, err := collectString(t, input, collect.Options{TagName: "template", Entries: imports.DefaultEntries})
	require.NoError(t, err)
	require.Len(t, res.Matches, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{res.Matches[0].Content, res.Matches[1].Content, res.Matches[2].Content})
	assert.Equal(t, collect.KindTag, res.Matches[1].Kind)
}

func TestCollectTrimAndMinify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trim", "<template trim>  hi  </template>", "hi"},
		{"minify", "<template minify><div>\n  a  b\n</div></template>", "<div> a b</div>"},
		{"both", "<template trim minify>\n  <p>a   b</p>\n</template>", "<p>a b</p>"},
		{"none", "<template>  x  </template>", "  x  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := collectString(t, tt.input, collect.Options{TagName: "template"})
			require.NoError(t, err)
			require.Len(t, res.Matches, 1)
			assert.Equal(t, tt.want, res.Matches[0].Content)
		})
	}
}

type upperMinifier struct{}

func (upperMinifier) Minify(string) string { return "MIN" }

func TestCollectCustomMinifier(t *testing.T) {
	res, err := collectString(t, "<template minify>a</template>", collect.Options{TagName: "template", Minifier: upperMinifier{}})
	require.NoError(t, err)
	assert.Equal(t, "MIN", res.Matches[0].Content)
	assert.Equal(t, "a", res.Matches[0].RawContent)
}

func TestCollectUnsupportedProperty(t *testing.T) {
	tests := []struct {
		input      string
		property   string
		suggestion string
	}{
		{"<template args=x>a</template>", "args", ""},
		{"<template trm>a</template>", "trm", "trim"},
		{"<template minfy>a</template>", "minfy", "minify"},
		{"<template trimm>a</template>", "trimm", "trim"},
	}
	for _, tt := range tests {
		t.Run(tt.property, func(t *testing.T) {
			res, err := collectString(t, tt.input, collect.Options{Path: "app/foo.gjs", TagName: "template"})
			require.Error(t, err)
			assert.Nil(t, res)

			var ce *collect.ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, "app/foo.gjs", ce.Path)
			assert.Equal(t, tt.property, ce.Property)
			assert.Equal(t, tt.suggestion, ce.Suggestion)
			assert.Contains(t, err.Error(), "app/foo.gjs")
			assert.Equal(t, diag.CfgUnsupportedProperty, ce.Diagnostic.Code)
		})
	}
}

func TestCollectSyntaxError(t *testing.T) {
	bag := diag.NewBag(10)
	_, err := collectString(t, "const a = <template>open", collect.Options{
		TagName:  "template",
		Reporter: bag,
	})
	var se *parser.SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, diag.SynUnclosedTemplate, se.Diagnostic.Code)
	assert.Equal(t, 1, bag.Len())
}

func TestCollectTreeSitterEnumerator(t *testing.T) {
	input := "<template>import { hbs } from 'ember-cli-htmlbars';</template>\nimport { hbs as h } from 'ember-cli-htmlbars';\nconst a = h`x`;\nconst b = hbs`y`;"
	res, err := collectString(t, input, collect.Options{
		TagName:    "template",
		Entries:    imports.DefaultEntries,
		Enumerator: treesitter.Enumerator{},
	})
	require.NoError(t, err)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, collect.KindTag, res.Matches[0].Kind)
	assert.Equal(t, "h", res.Matches[1].TagName)
	_, bound := res.Bindings.Lookup("hbs")
	assert.False(t, bound, "markup inside the template must not bind names")
}

func TestKindText(t *testing.T) {
	for _, k := range []collect.Kind{collect.KindTag, collect.KindCall} {
		text, err := k.MarshalText()
		require.NoError(t, err)
		var back collect.Kind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, k, back)
	}
	var k collect.Kind
	assert.Error(t, k.UnmarshalText([]byte("other")))
}
