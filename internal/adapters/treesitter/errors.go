package treesitter

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/jsgettext/internal/ports"
)

// maxSnippet bounds the offending text quoted in a parse error message.
const maxSnippet = 24

// syntaxError locates the first ERROR or MISSING node in document order.
// tree-sitter recovers from bad input; the engine must not, so any error
// node fails the parse.
func syntaxError(root *tree_sitter.Node, src *document) *ports.ParseError {
	n := firstError(root)
	if n == nil {
		n = root
	}
	pos := position(n, src)
	return &ports.ParseError{Message: errorMessage(n, src), Line: pos.Line, Column: pos.Column}
}

func firstError(n *tree_sitter.Node) *tree_sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if found := firstError(c); found != nil {
			return found
		}
	}
	return nil
}

func errorMessage(n *tree_sitter.Node, src *document) string {
	if n.IsMissing() {
		return fmt.Sprintf("missing %q", n.Kind())
	}
	text := nodeText(n, src)
	if line, _, ok := strings.Cut(text, "\n"); ok {
		text = line
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "unexpected end of input"
	}
	if len(text) > maxSnippet {
		text = text[:maxSnippet] + "..."
	}
	return fmt.Sprintf("unexpected %q", text)
}
