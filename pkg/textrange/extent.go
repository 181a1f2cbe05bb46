package textrange

import "github.com/yaklabco/flatrange/pkg/dom"

// Boundary is one end of a range in node coordinates.
type Boundary struct {
	Node   *dom.Node
	Offset int
}

// Extent is the positioned shape of a range. SingleNode is the only
// variant: both boundaries share one node.
type Extent interface {
	// Boundaries returns the start and end of the extent.
	Boundaries() (Boundary, Boundary)

	// CommonAncestor returns the deepest node holding both boundaries.
	CommonAncestor() *dom.Node

	isExtent()
}

// SingleNode is an extent whose boundaries lie in the same node.
type SingleNode struct {
	Node        *dom.Node
	StartOffset int
	EndOffset   int
}

// Boundaries implements Extent.
func (s SingleNode) Boundaries() (Boundary, Boundary) {
	return Boundary{Node: s.Node, Offset: s.StartOffset}, Boundary{Node: s.Node, Offset: s.EndOffset}
}

// CommonAncestor implements Extent.
func (s SingleNode) CommonAncestor() *dom.Node {
	return s.Node
}

func (SingleNode) isExtent() {}
