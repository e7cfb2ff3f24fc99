package driver

import (
	"path/filepath"
	"testing"

	"contenttag"
	"contenttag/internal/edit"
	"contenttag/internal/source"
)

func TestCacheKeyDependsOnInputs(t *testing.T) {
	var content Digest
	content[0] = 1
	base := CacheKey(content, "a.gjs", contenttag.RewriteOptions{})

	var other Digest
	other[0] = 2
	variants := map[string]Digest{
		"content": CacheKey(other, "a.gjs", contenttag.RewriteOptions{}),
		"path":    CacheKey(content, "b.gjs", contenttag.RewriteOptions{}),
		"lint":    CacheKey(content, "a.gjs", contenttag.RewriteOptions{PositionPreserving: true}),
		"scope":   CacheKey(content, "a.gjs", contenttag.RewriteOptions{ScopeMode: contenttag.ScopeImplicit}),
		"maps":    CacheKey(content, "a.gjs", contenttag.RewriteOptions{SourceMaps: contenttag.SourceMapInline}),
		"literals": CacheKey(content, "a.gjs", contenttag.RewriteOptions{LocateOptions: contenttag.LocateOptions{
			LiteralBindings: []contenttag.ImportEntry{{ImportPath: "x", ImportIdentifier: "hbs"}},
		}}),
	}
	for name, key := range variants {
		if key == base {
			t.Fatalf("%s does not change the key", name)
		}
	}
	if CacheKey(content, "a.gjs", contenttag.RewriteOptions{}) != base {
		t.Fatalf("key is not deterministic")
	}
}

func TestCacheMemoryAndDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := NewCache(2, dir)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	var k1 Digest
	k1[0] = 1
	entry := &Entry{
		Schema:     cacheSchemaVersion,
		Path:       "a.gjs",
		Output:     []byte("out"),
		ImportName: "template",
		Replacements: []contenttag.Replacement{{
			Original: edit.Original{
				Range: source.Span{Start: 1, End: 5},
				Start: source.LineCol{Line: 1, Col: 2},
			},
			Replaced: edit.Replaced{Range: source.Span{Start: 1, End: 3}},
		}},
		MatchCount: 1,
	}
	if _, ok := c.Get(k1); ok {
		t.Fatalf("unexpected hit")
	}
	if err := c.Put(k1, entry); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got, ok := c.Get(k1); !ok || string(got.Output) != "out" {
		t.Fatalf("memory miss")
	}

	// новый процесс: только диск
	fresh, err := NewCache(2, dir)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	got, ok := fresh.Get(k1)
	if !ok {
		t.Fatalf("disk miss")
	}
	if got.ImportName != "template" || len(got.Replacements) != 1 || got.Replacements[0].Original.Range.End != 5 {
		t.Fatalf("disk entry = %+v", got)
	}
	if fresh.Len() != 1 {
		t.Fatalf("disk hit should warm memory, len=%d", fresh.Len())
	}

	if err := fresh.disk.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	again, _ := NewCache(2, dir)
	if _, ok := again.Get(k1); ok {
		t.Fatalf("hit after DropAll")
	}
}

func TestCacheEvicts(t *testing.T) {
	c, err := NewCache(1, "")
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	var k1, k2 Digest
	k1[0], k2[0] = 1, 2
	_ = c.Put(k1, &Entry{Output: []byte("1")})
	_ = c.Put(k2, &Entry{Output: []byte("2")})
	if _, ok := c.Get(k1); ok {
		t.Fatalf("k1 should be evicted")
	}
	if _, ok := c.Get(k2); !ok {
		t.Fatalf("k2 missing")
	}

	var nilCache *Cache
	if _, ok := nilCache.Get(k1); ok || nilCache.Put(k1, &Entry{}) != nil || nilCache.Len() != 0 {
		t.Fatalf("nil cache must be inert")
	}
}
