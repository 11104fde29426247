package treesitter

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/jsgettext/internal/ports"
)

// lower converts a tree-sitter subtree into ports nodes. Parentheses are
// transparent, matching how ESTree parsers shape (0, fn)(): the callee is the
// sequence itself. Comments are dropped here; walkComments reports them.
func lower(n *tree_sitter.Node, src *document) ports.Node {
	if n == nil {
		return nil
	}
	pos := position(n, src)

	switch n.Kind() {
	case "call_expression":
		args := n.ChildByFieldName("arguments")
		if args == nil || args.Kind() != "arguments" {
			// fn`template` is a tagged template, not a call.
			return &ports.Other{Position: pos, Type: "tagged_template", Kids: lowerNamed(n, src)}
		}
		return &ports.Call{
			Position: pos,
			Callee:   lower(n.ChildByFieldName("function"), src),
			Args:     lowerNamed(args, src),
		}

	case "identifier", "property_identifier", "shorthand_property_identifier":
		return &ports.Ident{Position: pos, Name: nodeText(n, src)}

	case "private_property_identifier":
		return &ports.Ident{Position: pos, Name: strings.TrimPrefix(nodeText(n, src), "#")}

	case "member_expression":
		return &ports.Member{
			Position: pos,
			Object:   lower(n.ChildByFieldName("object"), src),
			Property: lower(n.ChildByFieldName("property"), src),
		}

	case "subscript_expression":
		return &ports.Member{
			Position: pos,
			Object:   lower(n.ChildByFieldName("object"), src),
			Property: lower(n.ChildByFieldName("index"), src),
			Computed: true,
		}

	case "parenthesized_expression":
		if inner := firstNamed(n); inner != nil {
			return lower(inner, src)
		}

	case "sequence_expression":
		return &ports.Sequence{Position: pos, Exprs: flattenSequence(n, src, nil)}

	case "string":
		return &ports.StringLit{Position: pos, Value: stringValue(n, src), Raw: nodeText(n, src)}
	}

	return &ports.Other{Position: pos, Type: n.Kind(), Kids: lowerNamed(n, src)}
}

// lowerNamed lowers the named, non-comment children of n.
func lowerNamed(n *tree_sitter.Node, src *document) []ports.Node {
	count := n.NamedChildCount()
	kids := make([]ports.Node, 0, count)
	for i := uint(0); i < count; i++ {
		c := n.NamedChild(i)
		if c == nil || isComment(c) {
			continue
		}
		kids = append(kids, lower(c, src))
	}
	return kids
}

// flattenSequence collects a, b, c into one list. Grammars nest unparenthesized
// comma chains (a, (b, c)); a parenthesized inner sequence stays nested.
func flattenSequence(n *tree_sitter.Node, src *document, out []ports.Node) []ports.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c == nil || isComment(c) {
			continue
		}
		if c.Kind() == "sequence_expression" {
			out = flattenSequence(c, src, out)
			continue
		}
		out = append(out, lower(c, src))
	}
	return out
}

func firstNamed(n *tree_sitter.Node) *tree_sitter.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if c := n.NamedChild(i); c != nil && !isComment(c) {
			return c
		}
	}
	return nil
}

func isComment(n *tree_sitter.Node) bool {
	return n.Kind() == "comment"
}

// stringValue decodes a string literal. JSX attribute strings take no
// backslash escapes, so their content is used as written.
func stringValue(n *tree_sitter.Node, src *document) string {
	raw := nodeText(n, src)
	if parent := n.Parent(); parent != nil && parent.Kind() == "jsx_attribute" {
		if len(raw) >= 2 {
			return raw[1 : len(raw)-1]
		}
		return raw
	}
	return unquote(raw)
}
