package treesitter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// DynamicLoader loads dialect grammars from shared libraries (.so on Linux,
// .dylib on macOS) using purego. The first search path holding a matching
// library wins; loaded languages are cached for the life of the loader.
type DynamicLoader struct {
	searchPaths []string
	mu          sync.Mutex
	loaded      map[string]*tree_sitter.Language
	handles     []uintptr
}

// NewDynamicLoader creates a loader over the given search paths, in priority order.
func NewDynamicLoader(searchPaths []string) *DynamicLoader {
	return &DynamicLoader{
		searchPaths: searchPaths,
		loaded:      make(map[string]*tree_sitter.Language),
	}
}

// DefaultGrammarPaths returns .jsgettext/grammars under the project root,
// then ~/.jsgettext/grammars.
func DefaultGrammarPaths(projectRoot string) []string {
	var paths []string
	if projectRoot != "" {
		paths = append(paths, filepath.Join(projectRoot, ".jsgettext", "grammars"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".jsgettext", "grammars"))
	}
	return paths
}

// LibExtension returns the shared library extension for the current platform.
func LibExtension() string {
	if runtime.GOOS == "darwin" {
		return ".dylib"
	}
	return ".so"
}

// soFileOverrides maps dialects to the library that carries them; the
// typescript library exports both typescript and tsx.
var soFileOverrides = map[string]string{
	"tsx": "typescript",
}

// SOBaseName returns the expected shared library base name for a dialect.
func SOBaseName(dialect string) string {
	if base, ok := soFileOverrides[dialect]; ok {
		return base
	}
	return dialect
}

// CSymbolName returns the exported constructor for a dialect's grammar,
// tree_sitter_{dialect} with dashes folded to underscores.
func CSymbolName(dialect string) string {
	return "tree_sitter_" + strings.ReplaceAll(dialect, "-", "_")
}

// LoadGrammar opens the dialect's shared library and calls its constructor.
func (dl *DynamicLoader) LoadGrammar(dialect string) (*tree_sitter.Language, error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	if cached, ok := dl.loaded[dialect]; ok {
		return cached, nil
	}

	soPath := dl.find(dialect)
	if soPath == "" {
		return nil, fmt.Errorf("dialect %q: %s%s not found in %s",
			dialect, SOBaseName(dialect), LibExtension(), strings.Join(dl.searchPaths, ", "))
	}

	handle, err := purego.Dlopen(soPath, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("dialect %q: dlopen %s: %w", dialect, soPath, err)
	}
	dl.handles = append(dl.handles, handle)

	var constructor func() uintptr
	purego.RegisterLibFunc(&constructor, handle, CSymbolName(dialect))

	ptr := constructor()
	if ptr == 0 {
		return nil, fmt.Errorf("dialect %q: %s() returned null", dialect, CSymbolName(dialect))
	}

	// ptr is a static TSLanguage* inside the library, never moved by the GC.
	language := tree_sitter.NewLanguage(*(*unsafe.Pointer)(unsafe.Pointer(&ptr)))
	dl.loaded[dialect] = language
	return language, nil
}

// GrammarPath returns the library path for a dialect, or "" if not found.
func (dl *DynamicLoader) GrammarPath(dialect string) string {
	return dl.find(dialect)
}

func (dl *DynamicLoader) find(dialect string) string {
	name := SOBaseName(dialect) + LibExtension()
	for _, dir := range dl.searchPaths {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// InstalledGrammars lists dialect libraries present in the search paths, sorted.
func (dl *DynamicLoader) InstalledGrammars() []string {
	ext := LibExtension()
	seen := make(map[string]bool)
	var names []string
	for _, dir := range dl.searchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
				continue
			}
			name := strings.TrimSuffix(e.Name(), ext)
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// SearchPaths returns the configured search paths.
func (dl *DynamicLoader) SearchPaths() []string {
	return dl.searchPaths
}
