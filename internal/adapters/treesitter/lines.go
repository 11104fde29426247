package treesitter

import (
	"sort"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/jsgettext/internal/ports"
)

// document is source text plus its line starts. tree-sitter rows only break
// on \n, while ECMAScript also ends lines at a lone \r, U+2028 and U+2029.
type document struct {
	text  []byte
	lines []uint // byte offset where each line starts
}

func newDocument(text []byte) *document {
	d := &document{text: text, lines: []uint{0}}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			d.lines = append(d.lines, uint(i+1))
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			d.lines = append(d.lines, uint(i+1))
		case 0xE2:
			// U+2028 and U+2029 encode as E2 80 A8 and E2 80 A9.
			if i+2 < len(text) && text[i+1] == 0x80 && (text[i+2] == 0xA8 || text[i+2] == 0xA9) {
				i += 2
				d.lines = append(d.lines, uint(i+1))
			}
		}
	}
	return d
}

// locate returns the 1-based line and 0-based byte column of offset.
func (d *document) locate(offset uint) (line, column int) {
	i := sort.Search(len(d.lines), func(i int) bool { return d.lines[i] > offset })
	return i, int(offset - d.lines[i-1])
}

// nodeText returns the source text for a node.
func nodeText(n *tree_sitter.Node, d *document) string {
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(d.text) || start > end {
		return ""
	}
	return string(d.text[start:end])
}

// position reports where n starts.
func position(n *tree_sitter.Node, d *document) ports.Position {
	line, col := d.locate(n.StartByte())
	return ports.Position{Line: line, Column: col}
}
