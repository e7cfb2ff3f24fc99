package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"contenttag/internal/config"
)

// DefaultDebounce is how long the watcher waits for a burst of events to end.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports batches of changed source files under a directory tree.
type Watcher struct {
	fsw      *fsnotify.Watcher
	cfg      config.Config
	ignore   string
	debounce time.Duration
}

// NewWatcher watches root and every searchable directory below it. Files
// under ignoreDir (usually the output directory) never trigger a batch.
func NewWatcher(root string, cfg config.Config, ignoreDir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsw: fsw, cfg: cfg, debounce: DefaultDebounce}
	if ignoreDir != "" {
		if abs, err := filepath.Abs(ignoreDir); err == nil {
			w.ignore = abs
		}
	}
	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// SetDebounce overrides DefaultDebounce.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Close stops watching.
func (w *Watcher) Close() error { return w.fsw.Close() }

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (SkipDir(d.Name()) || w.ignored(path)) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) ignored(path string) bool {
	if w.ignore == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == w.ignore || strings.HasPrefix(abs, w.ignore+string(filepath.Separator))
}

// Run delivers sorted batches of changed files to onBatch until ctx is
// done. Watch errors are passed to onError and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, onBatch func([]string), onError func(error)) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.ignored(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				// новые каталоги тоже надо слушать
				if err := w.addTree(ev.Name); err == nil && !w.cfg.Matches(ev.Name) {
					continue
				}
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !w.cfg.Matches(ev.Name) {
				continue
			}
			pending[filepath.Clean(ev.Name)] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				// переименованные и удалённые файлы пропускаем
				if info, err := os.Stat(p); err == nil && !info.IsDir() {
					batch = append(batch, p)
				}
			}
			clear(pending)
			if len(batch) == 0 {
				continue
			}
			sort.Strings(batch)
			onBatch(batch)
		}
	}
}
