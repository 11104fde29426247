package treesitter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// ManifestFile is the optional file in a grammar directory that maps extra
// dialects to file extensions.
const ManifestFile = "manifest.json"

// GrammarInfo describes one dialect grammar.
type GrammarInfo struct {
	Name       string   `json:"name"`
	Version    string   `json:"version,omitempty"`
	Extensions []string `json:"extensions"`
	RepoURL    string   `json:"repo_url,omitempty"`
	SHA256     string   `json:"sha256,omitempty"` // of the library, when generated
	Builtin    bool     `json:"-"`
}

// Manifest lists known dialect grammars.
type Manifest struct {
	Version  int                    `json:"version"`
	Grammars map[string]GrammarInfo `json:"grammars"`
}

// LoadManifest reads a manifest from a JSON file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	for name, info := range m.Grammars {
		if info.Name == "" {
			info.Name = name
			m.Grammars[name] = info
		}
		for _, ext := range info.Extensions {
			if !strings.HasPrefix(ext, ".") {
				return nil, fmt.Errorf("parse manifest: dialect %q: extension %q must start with '.'", name, ext)
			}
		}
	}
	return &m, nil
}

// Names returns the dialect names in the manifest, sorted.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Grammars))
	for name := range m.Grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinManifest describes the grammars compiled into the default build.
func BuiltinManifest() *Manifest {
	return &Manifest{
		Version: 1,
		Grammars: map[string]GrammarInfo{
			"javascript": {Name: "javascript", Version: "0.23.1", Extensions: []string{".js", ".jsx", ".mjs", ".cjs"}, RepoURL: "https://github.com/tree-sitter/tree-sitter-javascript", Builtin: true},
			"typescript": {Name: "typescript", Version: "0.23.2", Extensions: []string{".ts", ".mts", ".cts"}, RepoURL: "https://github.com/tree-sitter/tree-sitter-typescript", Builtin: true},
			"tsx":        {Name: "tsx", Version: "0.23.2", Extensions: []string{".tsx"}, RepoURL: "https://github.com/tree-sitter/tree-sitter-typescript", Builtin: true},
		},
	}
}

// RegisterManifest maps the manifest's extensions to its dialects. Later
// registrations override earlier ones for the same extension.
func (p *Parser) RegisterManifest(m *Manifest) {
	if m == nil {
		return
	}
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	for _, name := range m.Names() {
		for _, ext := range m.Grammars[name].Extensions {
			p.g.extToLang[strings.ToLower(ext)] = name
		}
	}
}

// LoadManifests reads ManifestFile from each search path, lowest priority
// first, and registers what it finds. Missing files are skipped.
func (p *Parser) LoadManifests(paths []string) error {
	for i := len(paths) - 1; i >= 0; i-- {
		m, err := LoadManifest(filepath.Join(paths[i], ManifestFile))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", paths[i], err)
		}
		p.RegisterManifest(m)
	}
	return nil
}

// PlatformString returns the OS-arch string for the current platform,
// e.g. "linux-amd64", "darwin-arm64".
func PlatformString() string {
	return runtime.GOOS + "-" + runtime.GOARCH
}
