package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
)

// FileSet owns the files of one run. Workers of the batch driver register
// files concurrently, so every method locks.
type FileSet struct {
	mu     sync.RWMutex
	files  []*File
	byPath map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{byPath: make(map[string]FileID)}
}

// Add registers content under path and returns a fresh id; re-adding a path
// makes Lookup return the newest id.
func (s *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	f := &File{
		Path:    filepath.ToSlash(filepath.Clean(path)),
		Content: content,
		LineIdx: newlineOffsets(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	f.ID = FileID(n)
	s.files = append(s.files, f)
	s.byPath[f.Path] = f.ID
	return f.ID
}

// AddVirtual registers in-memory content.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	return s.Add(name, content, FileVirtual)
}

// Load reads path; a leading UTF-8 BOM is dropped and remembered in Flags.
func (s *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- пути приходят из командной строки
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content, flags = rest, FileHadBOM
	}
	return s.Add(path, content, flags), nil
}

// Get returns the file with id; it panics on an unknown id.
func (s *FileSet) Get(id FileID) *File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files[id]
}

// Lookup finds the newest file registered under path.
func (s *FileSet) Lookup(path string) (FileID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPath[filepath.ToSlash(filepath.Clean(path))]
	return id, ok
}

func (s *FileSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Resolve converts a span of any registered file.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	return s.Get(span.File).Resolve(span)
}
