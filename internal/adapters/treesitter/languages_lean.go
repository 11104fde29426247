//go:build lean

package treesitter

// This file is included only when building with -tags lean.
// It provides an empty registerBuiltinLanguages(); every dialect, javascript
// included, is loaded from .so/.dylib files via the DynamicLoader.
//
// Build with: go build -tags lean ./cmd/jsgettext/

// registerBuiltinLanguages is a no-op in lean builds.
func (p *Parser) registerBuiltinLanguages() {}
