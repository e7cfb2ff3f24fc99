package treesitter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contenttag/internal/imports"
	"contenttag/internal/source"
)

func TestEnumeratorImports(t *testing.T) {
	src := `import 'side';
import def, * as ns from 'a';
import { hbs as someHbs, x } from "ember-cli-htmlbars";
import type { T } from 'types';
const y = 1;
`
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.ts", []byte(src)))

	got, err := Enumerator{}.Imports(context.Background(), file)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.True(t, got[0].SideEffectOnly)
	assert.Equal(t, "a", got[1].Module)
	assert.Equal(t, "def", got[1].Default)
	assert.Equal(t, "ns", got[1].Namespace)
	assert.Equal(t, "ember-cli-htmlbars", got[2].Module)
	assert.Equal(t, []imports.NamedImport{{Imported: "hbs", Local: "someHbs"}, {Imported: "x", Local: "x"}}, got[2].Named)
	assert.True(t, got[3].TypeOnly)

	b := imports.Resolve(got, imports.DefaultEntries)
	e, ok := b.Lookup("someHbs")
	require.True(t, ok)
	assert.Equal(t, "hbs", e.ImportIdentifier)
}

func TestMaskKeepsNewlines(t *testing.T) {
	in := []byte("a<b>\nc</b>d")
	out := mask(in, []source.Span{{Start: 1, End: 10}})
	assert.Equal(t, "a   \n     d", string(out))
	// исходный буфер не меняется
	assert.Equal(t, "a<b>\nc</b>d", string(in))
}
