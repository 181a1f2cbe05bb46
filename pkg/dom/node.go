// Package dom provides the document tree the range engine addresses.
// It is a small, mutable model of a rendered document: a Document root,
// Elements identified by tag, and Text leaves holding rendered characters.
package dom

// NodeKind classifies a node in the tree.
type NodeKind uint8

const (
	NodeDocument NodeKind = iota
	NodeElement
	NodeText
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case NodeDocument:
		return "Document"
	case NodeElement:
		return "Element"
	case NodeText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Common element tags produced by the Markdown mapper.
const (
	TagParagraph  = "p"
	TagEmphasis   = "em"
	TagStrong     = "strong"
	TagCode       = "code"
	TagLink       = "a"
	TagDelete     = "del"
	TagSpan       = "span"
	TagBlockquote = "blockquote"
	TagList       = "ul"
	TagOrdered    = "ol"
	TagListItem   = "li"
	TagPre        = "pre"
	TagRule       = "hr"
)

// Node is a single node of the document tree.
// Nodes form a tree with parent/child/sibling links, like mdast nodes.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Tag is the element name for NodeElement ("p", "em", "h2", ...).
	Tag string

	// Data is the rendered text of a NodeText.
	Data string

	// Attrs holds element attributes (e.g. "href" for links).
	Attrs map[string]string

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node
}

// IsText returns true for text leaves.
func (n *Node) IsText() bool {
	return n != nil && n.Kind == NodeText
}

// IsElement returns true for element nodes.
func (n *Node) IsElement() bool {
	return n != nil && n.Kind == NodeElement
}

// IsDocument returns true for the document root.
func (n *Node) IsDocument() bool {
	return n != nil && n.Kind == NodeDocument
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// ChildAt returns the i-th direct child, or nil.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 {
		return nil
	}
	for child := n.FirstChild; child != nil; child = child.Next {
		if i == 0 {
			return child
		}
		i--
	}
	return nil
}

// Index returns the position of n among its siblings, or -1 for a detached node.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	idx := 0
	for sib := n.Prev; sib != nil; sib = sib.Prev {
		idx++
	}
	return idx
}

// Root returns the topmost ancestor of n (n itself when detached).
func (n *Node) Root() *Node {
	root := n
	for root.Parent != nil {
		root = root.Parent
	}
	return root
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Attr returns the attribute value for key.
func (n *Node) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// SetAttr sets an attribute, allocating the map on first use.
func (n *Node) SetAttr(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
}

// Name returns a short human-readable label: "#text", "#document" or the tag.
func (n *Node) Name() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case NodeText:
		return "#text"
	case NodeDocument:
		return "#document"
	default:
		return n.Tag
	}
}
