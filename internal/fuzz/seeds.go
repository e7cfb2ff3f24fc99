package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB

// builtinSeeds cover every embedding position and the tricky lexical spots
// around them.
var builtinSeeds = []string{
	"",
	"<template>Hello</template>\n",
	"export default <template>{{this.x}}</template>;\n",
	"const a = <template trim minify>  <Foo @x={{y}} />  </template>;\n",
	"class A {\n  <template>{{this.name}}</template>\n}\n",
	"import { hbs } from 'ember-cli-htmlbars';\nconst t = hbs`<b>{{x}}</b>`;\n",
	"import h from 'htmlbars-inline-precompile';\nh`x`;\n",
	"const re = /<template>/g; const s = '<template>';\n",
	"// <template>\n/* </template> */\nlet x = `${1}<template>`;\n",
	"a < template > b\n",
	"<template>{{#if x}}<template>nested</template>{{/if}}</template>\n",
	"<template args>x</template>\n",
	"<template>never closed\n",
	"\xEF\xBB\xBF<template>bom</template>\r\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every .gjs/.gts file found under ../../testdata.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".gjs" && ext != ".gts" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
