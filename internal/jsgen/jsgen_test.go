package jsgen

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contenttag/internal/format"
	"contenttag/internal/source"
)

func templateCall(content string, props ...Node) *Call {
	return &Call{
		Callee: &Ident{Name: "template"},
		Args:   []Node{&String{Value: content}, &Object{Props: props}},
	}
}

func scopeProp(names ...string) Node {
	props := make([]Node, 0, len(names))
	for _, n := range names {
		props = append(props, &KeyValue{Key: n, Value: &Ident{Name: n}, Shorthand: true})
	}
	return &KeyValue{Key: "scope", Value: &Arrow{
		Params: []string{"instance"},
		Body:   []Node{&Return{X: &Object{Props: props}}},
	}}
}

func TestPrintPretty(t *testing.T) {
	call := templateCall("Hello!",
		&KeyValue{Key: "moduleName", Value: &String{Value: "foo.gjs"}},
		scopeProp(),
	)
	want := `export default template("Hello!", {
  moduleName: "foo.gjs",
  scope: instance => {
    return {};
  }
});`
	assert.Equal(t, want, Sprint(&ExportDefault{X: call}, format.Options{}))
}

func TestPrintStaticBlock(t *testing.T) {
	call := templateCall("Hello {{message.x}}!",
		&KeyValue{Key: "component", Value: &This{}},
		&KeyValue{Key: "moduleName", Value: &String{Value: "foo.gjs"}},
		scopeProp("message"),
	)
	block := &StaticBlock{Body: []Node{&Block{Body: []Node{&ExprStmt{X: call}}}}}
	want := `static {
  {
    template("Hello {{message.x}}!", {
      component: this,
      moduleName: "foo.gjs",
      scope: instance => {
        return {
          message
        };
      }
    });
  }
}`
	assert.Equal(t, want, Sprint(block, format.Options{}))
}

func TestPrintCompact(t *testing.T) {
	call := templateCall("x",
		&KeyValue{Key: "moduleName", Value: &String{Value: "m"}},
		&Method{Name: "eval", Body: []Node{&Return{X: &Call{
			Callee: &Ident{Name: "eval"},
			Args:   []Node{&Member{X: &Ident{Name: "arguments"}, Prop: &Number{Text: "0"}, Computed: true}},
		}}}},
	)
	got := Sprint(call, format.Options{Compact: true})
	assert.Equal(t, `template("x", { moduleName: "m", eval() { return eval(arguments[0]); } })`, got)
	assert.NotContains(t, got, "\n")
}

func TestPrintImport(t *testing.T) {
	assert.Equal(t, `import { template } from "@ember/template-compiler";`,
		Sprint(&Import{Imported: "template", Local: "template", Source: "@ember/template-compiler"}, format.Options{}))
	assert.Equal(t, `import { template as template1 } from "@ember/template-compiler";`,
		Sprint(&Import{Imported: "template", Local: "template1", Source: "@ember/template-compiler"}, format.Options{}))
}

func TestQuoteRoundTripsThroughJS(t *testing.T) {
	tests := []string{
		"Hello!",
		"Hello `world`!",
		`it's "quoted" \ back`,
		"line\nbreak\r\n\ttab",
		"nul\x00 and nul\x001",
		"ctrl\x01\x1f\x7f",
		"привет ✓ 😀",
		"sep\u2028para\u2029",
		"${not interpolated}",
		"</script>",
	}
	vm := goja.New()
	_, err := vm.RunString(`function template(s, opts) { return s; }`)
	require.NoError(t, err)

	for _, s := range tests {
		src := Sprint(templateCall(s, &KeyValue{Key: "moduleName", Value: &String{Value: "m"}}), format.Options{Compact: true})

		_, err := parser.ParseFile(nil, "", src, 0)
		require.NoError(t, err, src)

		v, err := vm.RunString(src)
		require.NoError(t, err, src)
		assert.Equal(t, s, v.Export(), src)
	}
}

func TestStringOriginIsMapped(t *testing.T) {
	origin := source.Span{Start: 10, End: 16}
	w := format.NewWriter(nil, format.Options{})
	w.WriteString("x = ")
	Print(w, &Call{Callee: &Ident{Name: "t"}, Args: []Node{&String{Value: "Hello!", Origin: &origin}}})

	require.Len(t, w.Mappings(), 1)
	m := w.Mappings()[0]
	assert.Equal(t, 0, m.GenLine)
	assert.Equal(t, 6, m.GenCol) // после `x = t(`
	assert.Equal(t, uint32(10), m.Origin)
}
