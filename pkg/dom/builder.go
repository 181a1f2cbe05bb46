package dom

// NewDocument creates a new document root node.
func NewDocument() *Node {
	return &Node{Kind: NodeDocument}
}

// NewElement creates a detached element with the given tag.
func NewElement(tag string) *Node {
	return &Node{Kind: NodeElement, Tag: tag}
}

// NewText creates a detached text node.
func NewText(data string) *Node {
	return &Node{Kind: NodeText, Data: data}
}

// AppendChild appends a child node to a parent.
// It maintains the parent/child/sibling relationships correctly.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}

	// Remove from previous parent if any.
	if child.Parent != nil {
		RemoveChild(child.Parent, child)
	}

	child.Parent = parent
	child.Prev = parent.LastChild
	child.Next = nil

	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}

	parent.LastChild = child
}

// InsertBefore inserts newNode before sibling.
// sibling must have a parent.
func InsertBefore(sibling, newNode *Node) {
	if sibling == nil || newNode == nil || sibling.Parent == nil {
		return
	}

	parent := sibling.Parent

	if newNode.Parent != nil {
		RemoveChild(newNode.Parent, newNode)
	}

	newNode.Parent = parent
	newNode.Prev = sibling.Prev
	newNode.Next = sibling

	if sibling.Prev != nil {
		sibling.Prev.Next = newNode
	} else {
		parent.FirstChild = newNode
	}

	sibling.Prev = newNode
}

// InsertAfter inserts newNode after sibling.
// sibling must have a parent.
func InsertAfter(sibling, newNode *Node) {
	if sibling == nil || newNode == nil || sibling.Parent == nil {
		return
	}

	parent := sibling.Parent

	if newNode.Parent != nil {
		RemoveChild(newNode.Parent, newNode)
	}

	newNode.Parent = parent
	newNode.Prev = sibling
	newNode.Next = sibling.Next

	if sibling.Next != nil {
		sibling.Next.Prev = newNode
	} else {
		parent.LastChild = newNode
	}

	sibling.Next = newNode
}

// RemoveChild removes a child from its parent.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}

	if child.Prev != nil {
		child.Prev.Next = child.Next
	} else {
		parent.FirstChild = child.Next
	}

	if child.Next != nil {
		child.Next.Prev = child.Prev
	} else {
		parent.LastChild = child.Prev
	}

	child.Parent = nil
	child.Prev = nil
	child.Next = nil
}

// Remove detaches n from its parent, if any.
func Remove(n *Node) {
	if n == nil || n.Parent == nil {
		return
	}
	RemoveChild(n.Parent, n)
}

// Clone returns a detached deep copy of n.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}

	cp := &Node{Kind: n.Kind, Tag: n.Tag, Data: n.Data}
	if n.Attrs != nil {
		cp.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			cp.Attrs[k] = v
		}
	}

	for child := n.FirstChild; child != nil; child = child.Next {
		AppendChild(cp, Clone(child))
	}

	return cp
}

// Build is a convenience for tests and fixtures: it creates an element and
// appends the given children in order.
func Build(tag string, children ...*Node) *Node {
	el := NewElement(tag)
	for _, child := range children {
		AppendChild(el, child)
	}
	return el
}
