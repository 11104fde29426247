package treesitter

// registerExtensions maps file extensions to dialects. Mappings exist even
// when the grammar is not compiled in (lean builds); the dialect is then
// resolved through the DynamicLoader.
func (p *Parser) registerExtensions() {
	p.addExt("javascript", ".js", ".jsx", ".mjs", ".cjs")
	p.addExt("typescript", ".ts", ".mts", ".cts")
	p.addExt("tsx", ".tsx")
}
