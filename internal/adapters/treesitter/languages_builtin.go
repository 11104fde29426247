//go:build !lean

package treesitter

// This file registers the compiled-in grammars. It is included in the default
// build but excluded when building with -tags lean, which produces a binary
// that loads every grammar dynamically from .so/.dylib files.

import (
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// langPtr wraps a Language() call that returns unsafe.Pointer.
func langPtr(p unsafe.Pointer) *tree_sitter.Language {
	return tree_sitter.NewLanguage(p)
}

// registerBuiltinLanguages adds all compiled-in grammars to the parser.
// The javascript grammar includes JSX.
func (p *Parser) registerBuiltinLanguages() {
	p.addLang("javascript", langPtr(ts_javascript.Language()))
	p.addLang("typescript", langPtr(ts_typescript.LanguageTypescript()))
	p.addLang("tsx", langPtr(ts_typescript.LanguageTSX()))
}
