package treesitter

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/jsgettext/internal/ports"
)

// walkComments reports every comment node in document order. Comments are
// extras, so they can hang off any node, including call arguments.
func walkComments(n *tree_sitter.Node, src *document, onComment func(ports.Comment)) {
	if isComment(n) {
		onComment(commentOf(n, src))
		return
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c != nil {
			walkComments(c, src, onComment)
		}
	}
}

// commentOf strips the delimiters the way ESTree parsers report comment text.
func commentOf(n *tree_sitter.Node, src *document) ports.Comment {
	raw := nodeText(n, src)
	line, _ := src.locate(n.StartByte())
	c := ports.Comment{Line: line}
	switch {
	case strings.HasPrefix(raw, "/*"):
		c.Block = true
		c.Text = strings.TrimSuffix(raw[2:], "*/")
	case strings.HasPrefix(raw, "//"):
		c.Text = raw[2:]
	default:
		c.Text = raw
	}
	return c
}
