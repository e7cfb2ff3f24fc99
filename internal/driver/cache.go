package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vmihailenco/msgpack/v5"

	"contenttag"
)

// Current schema version - increment when Entry format changes
const cacheSchemaVersion uint16 = 1

// DefaultCacheSize is the number of entries kept in memory.
const DefaultCacheSize = 512

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// combineDigest: H(content || part1 || part2 ...).
func combineDigest(content Digest, parts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write(p)
		_, _ = h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// CacheKey identifies the rewrite of content at path under opts. The path
// takes part because it ends up in moduleName and in error messages.
func CacheKey(content Digest, path string, opts contenttag.RewriteOptions) Digest {
	parts := [][]byte{
		[]byte(path),
		[]byte(opts.TagName),
		fmt.Appendf(nil, "%t|%t|%t|%t", opts.NoTags, opts.NoLiterals, opts.TreeSitterImports, opts.RewriteLiterals),
		[]byte(opts.ModuleName),
		[]byte(opts.ScopeMode.String()),
		fmt.Appendf(nil, "%t", opts.PositionPreserving),
		[]byte(opts.SourceMaps.String()),
		[]byte(opts.MapFile),
	}
	if opts.LiteralBindings == nil {
		parts = append(parts, []byte("default-literals"))
	}
	for _, e := range opts.LiteralBindings {
		parts = append(parts, []byte(e.String()))
	}
	return combineDigest(content, parts...)
}

// Entry is a cached rewrite outcome. Matches are not kept: they point into
// a syntax tree.
type Entry struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path         string
	Output       []byte
	SourceMap    []byte
	ImportName   string
	Replacements []contenttag.Replacement
	MatchCount   int
}

func entryFromResult(path string, res *contenttag.Result) *Entry {
	return &Entry{
		Schema:       cacheSchemaVersion,
		Path:         path,
		Output:       res.Output,
		SourceMap:    res.SourceMap,
		ImportName:   res.ImportName,
		Replacements: res.Replacements,
		MatchCount:   len(res.Matches),
	}
}

// Cache memoises rewrite outcomes by content and options. The in-memory
// layer is an LRU; an optional disk layer survives between runs.
// Thread-safe for concurrent access.
type Cache struct {
	mem  *lru.Cache[Digest, *Entry]
	disk *DiskCache
}

// NewCache creates a Cache holding size entries in memory. A non-empty dir
// adds the disk layer there.
func NewCache(size int, dir string) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	mem, err := lru.New[Digest, *Entry](size)
	if err != nil {
		return nil, err
	}
	c := &Cache{mem: mem}
	if dir != "" {
		disk, err := OpenDiskCache(dir)
		if err != nil {
			return nil, err
		}
		c.disk = disk
	}
	return c, nil
}

// Get looks the key up in memory first, then on disk.
func (c *Cache) Get(key Digest) (*Entry, bool) {
	if c == nil {
		return nil, false
	}
	if e, ok := c.mem.Get(key); ok {
		return e, true
	}
	if c.disk == nil {
		return nil, false
	}
	var e Entry
	ok, err := c.disk.Get(key, &e)
	if err != nil || !ok || e.Schema != cacheSchemaVersion {
		return nil, false
	}
	c.mem.Add(key, &e)
	return &e, true
}

// Put stores e in every layer. Disk failures are returned but the memory
// layer is updated regardless.
func (c *Cache) Put(key Digest, e *Entry) error {
	if c == nil || e == nil {
		return nil
	}
	c.mem.Add(key, e)
	if c.disk == nil {
		return nil
	}
	return c.disk.Put(key, e)
}

// Len returns the number of in-memory entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.mem.Len()
}

// DiskCache хранит результаты переписывания по ключу на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DefaultCacheDir returns the standard per-user cache location for app.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenDiskCache initializes a disk cache rooted at dir.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "out", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes an entry to the disk cache.
func (c *DiskCache) Put(key Digest, e *Entry) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(e); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes an entry from the disk cache.
func (c *DiskCache) Get(key Digest, out *Entry) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	// #nosec G304 -- path is derived from the cache key
	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "out"))
}
