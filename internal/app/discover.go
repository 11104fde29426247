package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
)

// StdinPath names standard input as a source.
const StdinPath = "-"

// Source is one file queued for extraction.
type Source struct {
	Path string // absolute path, or StdinPath
	Rel  string // slash-separated path written into references
}

// discoverer expands command-line paths into source files.
type discoverer struct {
	root    string
	include []string
	exclude []string
}

// discover expands paths in argument order. Directories are walked in
// lexical order and filtered by the include and exclude globs; files named
// explicitly are always taken. Duplicates keep their first position.
// No paths means the project root.
func (d *discoverer) discover(paths []string) ([]Source, error) {
	if len(paths) == 0 {
		paths = []string{d.root}
	}

	var out []Source
	seen := make(map[string]bool)
	add := func(s Source) {
		if seen[s.Path] {
			return
		}
		seen[s.Path] = true
		out = append(out, s)
	}

	for _, p := range paths {
		if p == StdinPath {
			add(Source{Path: StdinPath, Rel: StdinPath})
			continue
		}

		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(d.root, p)
		}

		info, err := os.Stat(abs)
		if err != nil && isGlob(p) {
			matches, gerr := doublestar.FilepathGlob(filepath.ToSlash(abs))
			if gerr != nil {
				return nil, fmt.Errorf("glob %s: %w", p, gerr)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("%s: no files match", p)
			}
			for _, m := range matches {
				if err := d.expand(filepath.FromSlash(m), add); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(Source{Path: abs, Rel: d.rel(abs)})
			continue
		}
		if err := d.walk(abs, add); err != nil {
			return nil, err
		}
	}

	log.Debug().Int("count", len(out)).Str("root", d.root).Msg("Discovered files")
	return out, nil
}

// expand adds a glob match: files directly, directories by walking.
func (d *discoverer) expand(path string, add func(Source)) error {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if info.IsDir() {
		return d.walk(path, add)
	}
	add(Source{Path: path, Rel: d.rel(path)})
	return nil
}

func (d *discoverer) walk(dir string, add func(Source)) error {
	err := filepath.WalkDir(dir, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			if e != nil && e.IsDir() && path != dir {
				return fs.SkipDir
			}
			return nil
		}
		rel := d.rel(path)
		if e.IsDir() {
			// A directory is pruned when anything inside it would be excluded.
			if path != dir && d.excluded(rel+"/_") {
				return fs.SkipDir
			}
			return nil
		}
		if !e.Type().IsRegular() {
			return nil
		}
		if d.included(rel) && !d.excluded(rel) {
			add(Source{Path: path, Rel: rel})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", dir, err)
	}
	return nil
}

func (d *discoverer) included(rel string) bool {
	return matchAny(d.include, rel)
}

func (d *discoverer) excluded(rel string) bool {
	return matchAny(d.exclude, rel)
}

// accepts reports whether a watched path would be picked up by a walk.
func (d *discoverer) accepts(path string) bool {
	rel := d.rel(path)
	return d.included(rel) && !d.excluded(rel)
}

// rel returns path relative to the root when it lies inside it, else the
// cleaned path, always slash-separated.
func (d *discoverer) rel(path string) string {
	if r, err := filepath.Rel(d.root, path); err == nil && !strings.HasPrefix(r, "..") {
		return filepath.ToSlash(r)
	}
	return filepath.ToSlash(filepath.Clean(path))
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func isGlob(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
