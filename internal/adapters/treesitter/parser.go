// Package treesitter implements ports.SourceParser using tree-sitter grammars.
// It parses JavaScript-family source (JavaScript with JSX, TypeScript, TSX),
// reports comments in source order, and lowers the concrete syntax tree into
// the ports.Node variants the extraction engine walks.
//
// JavaScript and TypeScript grammars are compiled in via CGo. Other dialects
// (a Flow or Hermes grammar, say) load at runtime from .so/.dylib files via
// the DynamicLoader.
package treesitter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/jsgettext/internal/ports"
)

// DefaultDialect is the grammar used when none is selected.
const DefaultDialect = "javascript"

// grammars is the set of known languages, shared by every Parser derived from
// the same NewParser call. Dynamic loads mutate it, hence the lock.
type grammars struct {
	mu        sync.Mutex
	languages map[string]*tree_sitter.Language // dialect -> language
	extToLang map[string]string                // extension -> dialect
	loader    *DynamicLoader                   // optional: loads grammars from .so/.dylib
}

// Parser parses source text of one dialect.
type Parser struct {
	g       *grammars
	dialect string
}

var _ ports.SourceParser = (*Parser)(nil)

// NewParser creates a JavaScript parser with all built-in grammars registered.
func NewParser() *Parser {
	g := &grammars{
		languages: make(map[string]*tree_sitter.Language),
		extToLang: make(map[string]string),
	}
	p := &Parser{g: g, dialect: DefaultDialect}
	p.registerBuiltinLanguages()
	p.registerExtensions()
	return p
}

// addLang registers a language by name.
func (p *Parser) addLang(name string, lang *tree_sitter.Language) {
	if lang != nil {
		p.g.languages[name] = lang
	}
}

// addExt maps file extensions to a dialect name.
func (p *Parser) addExt(dialect string, exts ...string) {
	for _, ext := range exts {
		p.g.extToLang[ext] = dialect
	}
}

// Dialect returns the dialect this parser parses.
func (p *Parser) Dialect() string {
	return p.dialect
}

// WithDialect returns a parser for another dialect sharing the same grammar
// set. The grammar is resolved eagerly so a bad dialect fails here, not on
// the first Parse.
func (p *Parser) WithDialect(dialect string) (*Parser, error) {
	if _, err := p.g.language(dialect); err != nil {
		return nil, err
	}
	return &Parser{g: p.g, dialect: dialect}, nil
}

// Parse implements ports.SourceParser.
func (p *Parser) Parse(source []byte, onComment func(ports.Comment)) (ports.Node, error) {
	lang, err := p.g.language(p.dialect)
	if err != nil {
		return nil, err
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("set language %s: %w", p.dialect, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse %s: no tree produced", p.dialect)
	}
	defer tree.Close()

	doc := newDocument(source)
	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root, doc)
	}
	if onComment != nil {
		walkComments(root, doc, onComment)
	}
	return lower(root, doc), nil
}

// DialectFor returns the dialect registered for the file's extension, or ""
// when the file is not JavaScript-family source.
func (p *Parser) DialectFor(filePath string) string {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	return p.g.extToLang[strings.ToLower(filepath.Ext(filePath))]
}

// SupportsExtension returns true if the parser recognizes this file extension.
func (p *Parser) SupportsExtension(ext string) bool {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	_, ok := p.g.extToLang[strings.ToLower(ext)]
	return ok
}

// SupportedExtensions returns all registered file extensions, sorted.
func (p *Parser) SupportedExtensions() []string {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	exts := make([]string, 0, len(p.g.extToLang))
	for ext := range p.g.extToLang {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// SetGrammarPaths configures the parser to load grammars dynamically from
// shared libraries found in the given directories. Project-local paths should
// come first, global paths last.
func (p *Parser) SetGrammarPaths(paths []string) {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	p.g.loader = NewDynamicLoader(paths)
}

// Loader returns the dynamic grammar loader, or nil if not configured.
func (p *Parser) Loader() *DynamicLoader {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	return p.g.loader
}

// Dialects returns the compiled-in dialect names, sorted.
func (p *Parser) Dialects() []string {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	names := make([]string, 0, len(p.g.languages))
	for name := range p.g.languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasDialect returns true if a grammar is available (compiled-in or
// loadable) for the given dialect.
func (p *Parser) HasDialect(dialect string) bool {
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	if _, ok := p.g.languages[dialect]; ok {
		return true
	}
	return p.g.loader != nil && p.g.loader.GrammarPath(dialect) != ""
}

// language resolves a dialect, loading it from a shared library on first use.
func (g *grammars) language(dialect string) (*tree_sitter.Language, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if lang, ok := g.languages[dialect]; ok {
		return lang, nil
	}
	if g.loader == nil {
		return nil, fmt.Errorf("dialect %q: no compiled-in grammar and no grammar paths configured", dialect)
	}
	lang, err := g.loader.LoadGrammar(dialect)
	if err != nil {
		return nil, err
	}
	g.languages[dialect] = lang
	return lang, nil
}
