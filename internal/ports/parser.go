package ports

import "fmt"

// SourceParser turns source text into a lowered syntax tree.
// The concrete implementation (tree-sitter) lives in internal/adapters/treesitter.
type SourceParser interface {
	// Parse parses source and returns the root node. Every node carries its
	// start position. When onComment is non-nil it is invoked once per comment,
	// in source order, before Parse returns. Invalid source yields a *ParseError.
	Parse(source []byte, onComment func(Comment)) (Node, error)
}

// Comment is a source comment as reported to the comment hook.
// Text excludes the comment delimiters (//, /* and */).
type Comment struct {
	Text  string
	Line  int // starting line, 1-based
	Block bool
}

// ParseError reports source text that is not valid for the parser's dialect.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (%d:%d)", e.Message, e.Line, e.Column)
}
