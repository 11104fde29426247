package ports

// =============================================================================
// Syntax tree contract
//
// The parser adapter lowers its concrete syntax tree into this small set of
// node variants. Only the shapes the extraction engine branches on get their
// own type; everything else is an Other carrying its grammar type name and
// its children, so a walk still reaches every nested call.
// =============================================================================

// Position is a node's start location. Line is 1-based, Column is a 0-based
// byte offset within the line.
type Position struct {
	Line   int
	Column int
}

// Node is a lowered syntax tree node. The set of implementations is closed:
// Call, Ident, Member, Sequence, StringLit and Other.
type Node interface {
	Pos() Position
	// Children returns child nodes in document order.
	Children() []Node
	node()
}

// Call is a call expression: callee(args...).
type Call struct {
	Position
	Callee Node
	Args   []Node
}

// Ident is an identifier, or the name part of a property access.
type Ident struct {
	Position
	Name string
}

// Member is a property access. Dotted access (obj.fn) has an Ident property;
// computed access (obj[expr]) sets Computed and carries the index expression.
type Member struct {
	Position
	Object   Node
	Property Node
	Computed bool
}

// Sequence is a comma expression (a, b, c). Exprs is never empty.
type Sequence struct {
	Position
	Exprs []Node
}

// StringLit is a plain string literal. Value has escapes decoded; Raw is the
// source text including quotes.
type StringLit struct {
	Position
	Value string
	Raw   string
}

// Other is any node kind the engine does not inspect directly.
type Other struct {
	Position
	Type string
	Kids []Node
}

func (p Position) Pos() Position { return p }

func (n *Call) Children() []Node {
	kids := make([]Node, 0, len(n.Args)+1)
	kids = append(kids, n.Callee)
	return append(kids, n.Args...)
}

func (n *Ident) Children() []Node { return nil }

func (n *Member) Children() []Node { return []Node{n.Object, n.Property} }

func (n *Sequence) Children() []Node { return n.Exprs }

func (n *StringLit) Children() []Node { return nil }

func (n *Other) Children() []Node { return n.Kids }

func (*Call) node()      {}
func (*Ident) node()     {}
func (*Member) node()    {}
func (*Sequence) node()  {}
func (*StringLit) node() {}
func (*Other) node()     {}
