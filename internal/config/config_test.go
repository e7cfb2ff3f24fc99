package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contenttag/internal/imports"
	"contenttag/internal/rewrite"
	"contenttag/internal/srcmap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "contenttag.toml", `
tag = "hbs"
scope = "implicit"
source_maps = "inline"
rewrite_literals = true
include = ["*.gjs"]
jobs = 3

[[literal]]
path = "my-addon"
identifier = "hbs"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tag != "hbs" || cfg.Scope != "implicit" || cfg.SourceMaps != "inline" || !cfg.RewriteLiterals || cfg.Jobs != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Path != path {
		t.Fatalf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.Matches("a/b.gts") {
		t.Fatalf("include override should drop *.gts")
	}
	got := cfg.LiteralBindings()
	want := []imports.Entry{{ImportPath: "my-addon", ImportIdentifier: "hbs"}}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("LiteralBindings = %v, want %v", got, want)
	}

	opts, err := cfg.RewriteOptions()
	if err != nil {
		t.Fatalf("RewriteOptions: %v", err)
	}
	if opts.TagName != "hbs" || opts.ScopeMode != rewrite.ScopeImplicit || opts.SourceMaps != srcmap.FlavorInline || !opts.RewriteLiterals {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".contenttag.yaml", "tag: template\nsource_maps: both\nliteral:\n  - path: x\n    identifier: default\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SourceMaps != "both" || len(cfg.Literals) != 1 || cfg.Literals[0].Identifier != "default" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	// значения по умолчанию сохраняются
	if cfg.Scope != "explicit" || !cfg.Matches("x.gts") {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unknown toml key", "contenttag.toml", "tagg = \"x\"\n", "unknown config key: tagg"},
		{"unknown yaml key", ".contenttag.yml", "tagg: x\n", "tagg"},
		{"bad scope", "contenttag.toml", "scope = \"dynamic\"\n", "scope:"},
		{"bad flavor", "contenttag.toml", "source_maps = \"external\"\n", "source_maps:"},
		{"bad tag", "contenttag.toml", "tag = \"1x\"\n", "invalid tag name"},
		{"empty include", "contenttag.toml", "include = []\n", "include: empty list"},
		{"literal without identifier", "contenttag.toml", "[[literal]]\npath = \"x\"\n", "literal[0]"},
		{"negative jobs", ".contenttag.yaml", "jobs: -1\n", "jobs:"},
		{"broken toml", "contenttag.toml", "tag = \n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
			if !strings.Contains(err.Error(), path) {
				t.Fatalf("error %q does not name the file", err)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "app", "components")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := writeFile(t, root, ".contenttag.yml", "tag: hbs\n")

	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("Find = %q, want %q", got, want)
	}

	// toml в том же каталоге важнее yaml
	wantTOML := writeFile(t, root, "contenttag.toml", "tag = \"template\"\n")
	got, _, _ = Find(nested)
	if got != wantTOML {
		t.Fatalf("Find = %q, want %q", got, wantTOML)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Tag != "template" {
		t.Fatalf("Tag = %q", cfg.Tag)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	for _, path := range []string{"a.gjs", "dir/b.gts"} {
		if !cfg.Matches(path) {
			t.Fatalf("%s should match", path)
		}
	}
	if cfg.Matches("c.js") {
		t.Fatalf("c.js should not match")
	}
	if cfg.LiteralBindings() != nil {
		t.Fatalf("no literal entries means built-in table")
	}
}
