// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It recursively watches a source tree, filters out dependency and build
// directories, and debounces rapid events (editors often trigger multiple
// writes per save).
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/corey/jsgettext/internal/ports"
)

// Directories to ignore when watching.
var ignoreDirs = map[string]bool{
	".git":             true,
	".hg":              true,
	"node_modules":     true,
	"bower_components": true,
	".idea":            true,
	".vscode":          true,
	"dist":             true,
	"build":            true,
	"coverage":         true,
	".jsgettext":       true,
	".next":            true,
	".nuxt":            true,
	".cache":           true,
}

// File names and suffixes to ignore.
var ignoreFiles = map[string]bool{
	".DS_Store": true,
	".swp":      true,
	".swx":      true,
	"~":         true,
	".map":      true,
	".min.js":   true,
}

const debounceInterval = 50 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	root    string
	accept  func(path string) bool
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

var _ ports.Watcher = (*Watcher)(nil)

// Option configures a Watcher.
type Option func(*Watcher)

// WithFilter restricts callbacks to paths accept returns true for, e.g. only
// JavaScript-family sources. Ignored directories are skipped regardless.
func WithFilter(accept func(path string) bool) Option {
	return func(w *Watcher) { w.accept = accept }
}

// NewWatcher creates a new file system watcher.
func NewWatcher(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch starts monitoring root recursively.
// onChange is called with the absolute path of each changed file.
func (w *Watcher) Watch(root string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absPath); err != nil {
		return err
	}
	w.root = absPath

	// Walk and add all directories
	err = filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if shouldIgnoreDir(info.Name()) && path != absPath {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Debounce state: last event time per file
	debounce := make(map[string]time.Time)

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name

				// For Create events, add new directories to the watch list
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						if !shouldIgnoreDir(info.Name()) {
							if err := w.fw.Add(path); err != nil {
								log.Debug().Err(err).Str("dir", path).Msg("watch new directory")
							}
						}
						continue
					}
				}

				if shouldIgnorePath(w.root, path) {
					continue
				}
				if w.accept != nil && !w.accept(path) {
					continue
				}

				now := time.Now()
				if last, seen := debounce[path]; seen && now.Sub(last) < debounceInterval {
					continue
				}
				debounce[path] = now

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					select {
					case <-w.done:
						return
					default:
					}
					onChange(path)
				}

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// fsnotify recovers on its own; overflow means events were lost.
				log.Debug().Err(err).Msg("watcher error")

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

// shouldIgnoreDir returns true if the directory name should be skipped.
func shouldIgnoreDir(name string) bool {
	return ignoreDirs[name]
}

// shouldIgnorePath returns true if the file path should not trigger onChange.
// Only directories below root are matched against ignoreDirs.
func shouldIgnorePath(root, path string) bool {
	base := filepath.Base(path)

	if ignoreFiles[base] {
		return true
	}
	for suffix := range ignoreFiles {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if ignoreDirs[part] {
			return true
		}
	}

	return false
}
