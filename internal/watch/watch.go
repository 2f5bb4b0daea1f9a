// Package watch reports batches of changed files below a directory tree.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"wscheck/internal/config"
)

// DefaultInterval is how long a tree must stay quiet before a batch is sent.
const DefaultInterval = 125 * time.Millisecond

type Options struct {
	// Interval is the debounce delay; zero means DefaultInterval.
	Interval time.Duration
	// Config filters which files are reported. Nil reports every file.
	Config *config.Config
	// Logf receives watch errors and newly added directories.
	Logf func(format string, args ...any)
}

// Watcher watches a directory tree, including directories created later.
type Watcher struct {
	fsw  *fsnotify.Watcher
	root string
	opts Options
}

// New starts watching root recursively. Excluded directories are not entered.
func New(root string, opts Options) (*Watcher, error) {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	w := &Watcher{fsw: fsw, root: root, opts: opts}
	if err := w.addRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks until ctx is done or the watcher is closed. onChange gets the
// sorted list of files created or written since the previous batch; files
// removed before the batch fires are left out.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	pending := make(map[string]struct{})
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.opts.Logf("file watch error: %v", err)
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !has(ev, fsnotify.Create) && !has(ev, fsnotify.Write) {
				continue
			}
			if !checkableName(ev.Name) {
				continue
			}
			if has(ev, fsnotify.Create) && isDir(ev.Name) {
				if err := w.addRecursive(ev.Name); err != nil {
					w.opts.Logf("%v", err)
				}
				continue
			}
			if !w.included(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.opts.Interval)
			} else {
				timer.Reset(w.opts.Interval)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				if isRegular(p) {
					paths = append(paths, p)
				}
			}
			clear(pending)
			if len(paths) == 0 {
				continue
			}
			sort.Strings(paths)
			onChange(paths)
		}
	}
}

func (w *Watcher) included(path string) bool {
	cfg := w.opts.Config
	if cfg == nil {
		return true
	}
	if filepath.Base(path) == config.FileName {
		return false
	}
	return cfg.Includes(cfg.Rel(path))
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// the directory may be gone already
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if cfg := w.opts.Config; cfg != nil && path != w.root && cfg.SkipDir(cfg.Rel(path)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("adding %s to watch: %w", path, err)
		}
		w.opts.Logf("watching %s", path)
		return nil
	})
}

func has(ev fsnotify.Event, op fsnotify.Op) bool {
	return ev.Op&op == op
}

// checkableName filters editor temporaries: vim swap files, backups ending
// in '~' and Emacs autosave files.
func checkableName(path string) bool {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if len(ext) == 4 && strings.HasPrefix(ext, ".sw") {
		return false
	}
	if strings.HasSuffix(base, "~") {
		return false
	}
	if strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return false
	}
	return true
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func isRegular(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
