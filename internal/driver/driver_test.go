package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contenttag"
	"contenttag/internal/config"
	"contenttag/internal/diag"
	"contenttag/internal/driver"
	"contenttag/internal/pipeline"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.gjs":                "",
		"sub/b.gts":            "",
		"c.js":                 "",
		"node_modules/x.gjs":   "",
		".cache/y.gjs":         "",
		"sub/deeper/z.gjs":     "",
		"sub/deeper/notes.txt": "",
	})
	files, err := driver.ListFiles([]string{root, filepath.Join(root, "c.js")}, config.Defaults())
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"a.gjs", "c.js", "sub/b.gts", "sub/deeper/z.gjs"}, rel)

	_, err = driver.ListFiles([]string{filepath.Join(root, "missing")}, config.Defaults())
	require.Error(t, err)
}

func TestRunIsolatesFailures(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"good.gjs":   "<template>Hello</template>\n",
		"broken.gjs": "<template>never closed\n",
		"args.gjs":   "<template args>x</template>\n",
		"plain.gjs":  "export const a = 1;\n",
	})
	files, err := driver.ListFiles([]string{root}, config.Defaults())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out")
	var rec pipeline.Recorder
	res, err := driver.Run(context.Background(), &driver.Request{
		Files:    files,
		BaseDir:  root,
		Jobs:     2,
		OutDir:   out,
		Progress: &rec,
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 4)
	assert.Equal(t, 2, res.Failed())

	byName := make(map[string]driver.FileResult)
	for _, fr := range res.Files {
		byName[fr.Display] = fr
	}

	good := byName["good.gjs"]
	require.NoError(t, good.Err)
	assert.True(t, good.Changed)
	assert.Equal(t, 1, good.MatchCount)
	written, err := os.ReadFile(filepath.Join(out, "good.gjs"))
	require.NoError(t, err)
	assert.Equal(t, string(good.Output), string(written))
	assert.Contains(t, string(written), `template("Hello"`)

	broken := byName["broken.gjs"]
	var syn *contenttag.SyntaxError
	require.True(t, errors.As(broken.Err, &syn))
	assert.Equal(t, "broken.gjs", syn.Path)
	require.Len(t, broken.Diagnostics, 1)
	assert.Equal(t, diag.SynUnclosedTemplate, broken.Diagnostics[0].Code)
	assert.Equal(t, broken.File.ID, broken.Diagnostics[0].Primary.File)
	assert.NoFileExists(t, filepath.Join(out, "broken.gjs"))

	args := byName["args.gjs"]
	var cfgErr *contenttag.ConfigError
	require.True(t, errors.As(args.Err, &cfgErr))
	assert.Contains(t, args.Err.Error(), "found args in: args.gjs")

	plain := byName["plain.gjs"]
	require.NoError(t, plain.Err)
	assert.False(t, plain.Changed)
	assert.Equal(t, "export const a = 1;\n", string(plain.Output))

	var queued, done, failed int
	for _, ev := range rec.Events() {
		switch ev.Status {
		case pipeline.StatusQueued:
			queued++
		case pipeline.StatusDone:
			done++
		case pipeline.StatusError:
			failed++
		}
	}
	assert.Equal(t, 4, queued)
	assert.Equal(t, 2, done)
	assert.Equal(t, 2, failed)
	assert.True(t, res.Timings.Has(pipeline.StageLoad))
	assert.True(t, res.Timings.Has(pipeline.StageRewrite))
}

func TestRunWriteInPlaceKeepsBOM(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "bom.gjs")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBF<template>x</template>\n"), 0o600))

	res, err := driver.Run(context.Background(), &driver.Request{
		Files:   []string{path},
		BaseDir: root,
		Write:   true,
		Options: contenttag.RewriteOptions{PositionPreserving: true},
	})
	require.NoError(t, err)
	require.NoError(t, res.Files[0].Err)
	assert.Equal(t, []string{path}, res.Files[0].Written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBFtemplate(\"x\""), string(data))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	require.Len(t, res.Files[0].Replacements, 1)
}

func TestRunLocate(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.gjs": "import { hbs } from 'ember-cli-htmlbars';\nconst a = hbs`x`;\nconst b = <template>y</template>;\n",
	})
	res, err := driver.Run(context.Background(), &driver.Request{
		Files:   []string{filepath.Join(root, "a.gjs")},
		BaseDir: root,
		Mode:    driver.ModeLocate,
	})
	require.NoError(t, err)
	fr := res.Files[0]
	require.NoError(t, fr.Err)
	require.Len(t, fr.Matches, 2)
	assert.Equal(t, contenttag.KindCall, fr.Matches[0].Kind)
	assert.Equal(t, contenttag.KindTag, fr.Matches[1].Kind)
	assert.Nil(t, fr.Output)
	assert.True(t, res.Timings.Has(pipeline.StageLocate))
}

func TestRunUsesCache(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.gjs": "<template>x</template>\n"})
	cache, err := driver.NewCache(8, filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	req := &driver.Request{Files: []string{filepath.Join(root, "a.gjs")}, BaseDir: root, Cache: cache}
	first, err := driver.Run(context.Background(), req)
	require.NoError(t, err)
	require.False(t, first.Files[0].Cached)

	var rec pipeline.Recorder
	req.Progress = &rec
	second, err := driver.Run(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Files[0].Cached)
	assert.Equal(t, first.Files[0].Output, second.Files[0].Output)
	assert.Equal(t, 1, second.Files[0].MatchCount)
	events := rec.Events()
	assert.Equal(t, pipeline.StatusSkipped, events[len(events)-1].Status)

	// другие опции - другой ключ
	req.Options.PositionPreserving = true
	third, err := driver.Run(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, third.Files[0].Cached)
}

func TestRunCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.gjs": "", "b.gjs": ""})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.Run(ctx, &driver.Request{
		Files: []string{filepath.Join(root, "a.gjs"), filepath.Join(root, "b.gjs")},
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestTimingDiagnostic(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.gjs": "<template>x</template>"})
	res, err := driver.Run(context.Background(), &driver.Request{Files: []string{filepath.Join(root, "a.gjs")}, BaseDir: root})
	require.NoError(t, err)
	d, ok := driver.TimingDiagnostic(&res.Files[0])
	require.True(t, ok)
	assert.Equal(t, diag.ObsTimings, d.Code)
	require.Len(t, d.Notes, 1)
	assert.Contains(t, d.Notes[0].Msg, `"path":"a.gjs"`)
	assert.Contains(t, d.Notes[0].Msg, `"name":"rewrite"`)
}

func TestRunMissingFile(t *testing.T) {
	root := t.TempDir()
	res, err := driver.Run(context.Background(), &driver.Request{
		Files:   []string{filepath.Join(root, "gone.gjs")},
		BaseDir: root,
	})
	require.NoError(t, err)
	fr := res.Files[0]
	var ioErr *driver.IOError
	require.True(t, errors.As(fr.Err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
	require.NotNil(t, fr.File)
	assert.Equal(t, "gone.gjs", fr.File.Path)
	require.Len(t, fr.Diagnostics, 1)
	assert.Equal(t, diag.IOReadFailed, fr.Diagnostics[0].Code)
	assert.Equal(t, fr.File.ID, fr.Diagnostics[0].Primary.File)
}
