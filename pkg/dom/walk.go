package dom

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the tree starting at root.
// If walkFunc returns a non-nil error, the walk stops immediately and returns that error.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		return err
	}

	// Capture Next before descending so callbacks may detach the visited child.
	for child := root.FirstChild; child != nil; {
		next := child.Next
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
		child = next
	}

	return nil
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindByTag returns all elements with the given tag.
func FindByTag(root *Node, tag string) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind == NodeElement && n.Tag == tag
	})
}

// TextLeaves returns the text nodes under root in document order.
func TextLeaves(root *Node) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind == NodeText
	})
}
