package app

import (
	"os"
	"path/filepath"
)

// DirName is the per-project state directory.
const DirName = ".jsgettext"

// Paths holds all resolved filesystem paths for the .jsgettext/ project directory.
type Paths struct {
	Root        string // .jsgettext/
	DB          string // .jsgettext/cache.db
	Status      string // .jsgettext/status.json
	GrammarsDir string // .jsgettext/grammars/
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, DirName)
	return &Paths{
		Root:        root,
		DB:          filepath.Join(root, "cache.db"),
		Status:      filepath.Join(root, "status.json"),
		GrammarsDir: filepath.Join(root, "grammars"),
	}
}

// EnsureDirs creates all subdirectories under .jsgettext/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.GrammarsDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Clean removes the cache database and status file. The grammars directory
// is left alone.
func (p *Paths) Clean() error {
	for _, f := range []string{p.DB, p.Status} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
