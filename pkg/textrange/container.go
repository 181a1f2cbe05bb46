package textrange

import "github.com/yaklabco/flatrange/pkg/dom"

// ChildKind tells text children from element children.
type ChildKind uint8

const (
	ChildText ChildKind = iota
	ChildElement
)

// String returns the kind name.
func (k ChildKind) String() string {
	if k == ChildText {
		return "text"
	}
	return "element"
}

// Child is one entry of the container's flat offset space.
type Child struct {
	Node   *dom.Node
	Kind   ChildKind
	Length int
}

// Container is the focused element that defines the coordinate origin.
// Its child list is read on demand; nothing is cached because the tree may
// be edited between calls.
type Container struct {
	node *dom.Node
}

// NewContainer binds a container to node.
func NewContainer(node *dom.Node) *Container {
	return &Container{node: node}
}

// Node returns the bound element.
func (c *Container) Node() *dom.Node {
	return c.node
}

// Children lists the direct children with their rendered lengths.
func (c *Container) Children() []Child {
	if c.node == nil {
		return nil
	}

	var children []Child
	for n := c.node.FirstChild; n != nil; n = n.Next {
		kind := ChildElement
		if n.IsText() {
			kind = ChildText
		}
		children = append(children, Child{Node: n, Kind: kind, Length: dom.Len(n)})
	}
	return children
}

// Len returns the total length of the flat offset space.
func (c *Container) Len() int {
	return dom.Len(c.node)
}

// Contains reports whether n is the container or one of its descendants.
func (c *Container) Contains(n *dom.Node) bool {
	return c.node != nil && c.node.Contains(n)
}

// TopLevel returns the direct child of the container that holds n, or nil
// when n is the container itself or lies outside it.
func (c *Container) TopLevel(n *dom.Node) *dom.Node {
	if c.node == nil {
		return nil
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Parent == c.node {
			return cur
		}
	}
	return nil
}
