package lang

import (
	"unsafe"

	"github.com/ardnew/stencil/pkg"
)

// Kind identifies the type of a [Node].
type Kind uint8

const (
	KindText Kind = iota
	KindInterpolate
	KindSection
	KindInclude
	KindExecute
)

// String returns the lowercase name of k.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInterpolate:
		return "interpolate"
	case KindSection:
		return "section"
	case KindInclude:
		return "include"
	case KindExecute:
		return "execute"
	default:
		return "unknown"
	}
}

// Node is an element of a parsed template.
//
// Which fields are meaningful depends on Kind:
//
//	Text         Content is literal output
//	Interpolate  Path is the value to substitute
//	Section      Path is the source; Iterator, Join, Joined, and Body
//	Include      Path holds the entries to include
//	Execute      Content is the code passed to the evaluator
type Node struct {
	Content  string
	Iterator string
	Join     string
	Path     Path
	Body     []*Node
	Offset   int // byte offset of the node in the template source
	Kind     Kind
	Joined   bool // Join is set, possibly to the empty string
}

// nodeSize is the memory charged against an arena for each parsed node.
const nodeSize = int(unsafe.Sizeof(Node{}))

// Template is a parsed template. It is immutable and safe for concurrent
// rendering.
type Template struct {
	Nodes  []*Node
	source string
	syntax Syntax
}

// Source returns the text the template was parsed from.
func (t *Template) Source() string { return t.source }

// Syntax returns the dialect the template was parsed with.
func (t *Template) Syntax() Syntax { return t.syntax }

// Position returns the line and column of n in the template source.
func (t *Template) Position(n *Node) pkg.Position {
	return pkg.PositionOf(t.source, n.Offset)
}

// Walk calls fn for each node in document order, descending into section
// bodies after visiting the section itself. Walk stops early if fn returns
// false.
func (t *Template) Walk(fn func(n *Node, depth int) bool) {
	walk(t.Nodes, 0, fn)
}

func walk(nodes []*Node, depth int, fn func(*Node, int) bool) bool {
	for _, n := range nodes {
		if !fn(n, depth) {
			return false
		}

		if n.Kind == KindSection && !walk(n.Body, depth+1, fn) {
			return false
		}
	}

	return true
}
