//go:build !lean

package treesitter

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSymbolName(t *testing.T) {
	tests := []struct {
		dialect  string
		expected string
	}{
		{"javascript", "tree_sitter_javascript"},
		{"typescript", "tree_sitter_typescript"},
		{"tsx", "tree_sitter_tsx"},
		{"flow", "tree_sitter_flow"},
		{"glimmer-javascript", "tree_sitter_glimmer_javascript"},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			assert.Equal(t, tt.expected, CSymbolName(tt.dialect))
		})
	}
}

func TestSOBaseName(t *testing.T) {
	assert.Equal(t, "javascript", SOBaseName("javascript"))
	assert.Equal(t, "typescript", SOBaseName("tsx"), "tsx ships inside the typescript library")
	assert.Equal(t, "flow", SOBaseName("flow"))
}

func TestLibExtension(t *testing.T) {
	ext := LibExtension()
	switch runtime.GOOS {
	case "darwin":
		assert.Equal(t, ".dylib", ext)
	default:
		assert.Equal(t, ".so", ext)
	}
}

func TestDefaultGrammarPaths(t *testing.T) {
	paths := DefaultGrammarPaths("/project/root")
	require.GreaterOrEqual(t, len(paths), 1)
	assert.Equal(t, filepath.Join("/project/root", ".jsgettext", "grammars"), paths[0])

	if len(paths) > 1 {
		home, _ := os.UserHomeDir()
		assert.Equal(t, filepath.Join(home, ".jsgettext", "grammars"), paths[1])
	}
}

func TestDefaultGrammarPaths_EmptyRoot(t *testing.T) {
	paths := DefaultGrammarPaths("")
	for _, p := range paths {
		assert.NotContains(t, p, "/project")
	}
}

func TestDynamicLoader_LoadGrammar_NotFound(t *testing.T) {
	dl := NewDynamicLoader([]string{t.TempDir()})
	_, err := dl.LoadGrammar("flow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow")
}

func TestDynamicLoader_FindsAndPrioritizes(t *testing.T) {
	local, global := t.TempDir(), t.TempDir()
	ext := LibExtension()
	require.NoError(t, os.WriteFile(filepath.Join(local, "flow"+ext), []byte("stub"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(global, "flow"+ext), []byte("stub"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(global, "typescript"+ext), []byte("stub"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(global, "README.md"), []byte("x"), 0644))

	dl := NewDynamicLoader([]string{local, global})
	assert.Equal(t, filepath.Join(local, "flow"+ext), dl.GrammarPath("flow"))
	assert.Equal(t, filepath.Join(global, "typescript"+ext), dl.GrammarPath("tsx"))
	assert.Equal(t, "", dl.GrammarPath("hermes"))
	assert.Equal(t, []string{"flow", "typescript"}, dl.InstalledGrammars())
	assert.Equal(t, []string{local, global}, dl.SearchPaths())
}

func TestParser_HasDialect_WithLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flow"+LibExtension()), []byte("stub"), 0644))

	p := NewParser()
	assert.True(t, p.HasDialect("javascript"))
	assert.False(t, p.HasDialect("flow"))

	p.SetGrammarPaths([]string{dir})
	assert.True(t, p.HasDialect("flow"))
	require.NotNil(t, p.Loader())
}

func TestParser_WithDialect_Unknown(t *testing.T) {
	p := NewParser()
	_, err := p.WithDialect("coffeescript")
	require.Error(t, err)

	p.SetGrammarPaths([]string{t.TempDir()})
	_, err = p.WithDialect("coffeescript")
	require.Error(t, err)
}
