package extract

import "github.com/corey/jsgettext/internal/ports"

// discover walks the tree and returns a Match for every call whose resolved
// callee name is registered. The walk is post-order: a call's callee and
// arguments are visited before the call itself, so in _(_("x")) the inner
// call is matched first. Calls that do not nest come out in source order.
func discover(root ports.Node, comments []TranslatorComment, reg *Registry) []Match {
	var matches []Match

	var visit func(n ports.Node)
	visit = func(n ports.Node) {
		if n == nil {
			return
		}
		for _, child := range n.Children() {
			visit(child)
		}

		call, ok := n.(*ports.Call)
		if !ok {
			return
		}
		name := calleeName(call.Callee)
		if name == "" || !reg.Has(name) {
			return
		}
		pos := call.Pos()
		matches = append(matches, Match{
			Keyword:   name,
			Arguments: call.Args,
			Line:      pos.Line,
			Column:    pos.Column,
			Comment:   commentFor(comments, pos.Line),
		})
	}
	visit(root)

	return matches
}

// calleeName resolves the name a call is made through. Comma expressions,
// as emitted by compilers for (0, fn)(), are unwrapped to their last
// expression at any depth. Dotted member access yields the property name.
// Anything else has no name.
func calleeName(callee ports.Node) string {
	n := unwrapSequence(callee)
	switch c := n.(type) {
	case *ports.Ident:
		return c.Name
	case *ports.Member:
		if c.Computed {
			return ""
		}
		if id, ok := c.Property.(*ports.Ident); ok {
			return id.Name
		}
	}
	return ""
}

func unwrapSequence(n ports.Node) ports.Node {
	for {
		seq, ok := n.(*ports.Sequence)
		if !ok || len(seq.Exprs) == 0 {
			return n
		}
		n = seq.Exprs[len(seq.Exprs)-1]
	}
}
