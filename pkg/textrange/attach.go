package textrange

import "github.com/yaklabco/flatrange/pkg/dom"

// CheckAttached walks node's ancestry and succeeds when it reaches doc.
// With a nil doc any document root is accepted.
func CheckAttached(op string, node, doc *dom.Node) error {
	for cur := node; cur != nil; cur = cur.Parent {
		if cur == doc || (doc == nil && cur.IsDocument()) {
			return nil
		}
	}
	return &AttachError{Op: op, Node: node}
}
