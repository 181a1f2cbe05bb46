package dom

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Graphemes splits s into extended grapheme clusters, the character unit
// shared by the range engine and the host cursor.
func Graphemes(s string) []string {
	if s == "" {
		return nil
	}
	clusters := make([]string, 0, len(s))
	state := -1
	for s != "" {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		clusters = append(clusters, cluster)
	}
	return clusters
}

// CharCount returns the number of characters in s.
func CharCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// TextContent returns the concatenated rendered text under n.
func TextContent(n *Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == NodeText {
		return n.Data
	}

	var sb strings.Builder
	for _, leaf := range TextLeaves(n) {
		sb.WriteString(leaf.Data)
	}
	return sb.String()
}

// Len returns the rendered character count of n.
func Len(n *Node) int {
	if n == nil {
		return 0
	}
	if n.Kind == NodeText {
		return CharCount(n.Data)
	}

	total := 0
	for _, leaf := range TextLeaves(n) {
		total += CharCount(leaf.Data)
	}
	return total
}

// SplitText splits a text node at the given character offset and returns the
// new node holding the tail. The tail is inserted right after n.
// Offsets at either end return nil and leave n untouched.
func SplitText(n *Node, offset int) *Node {
	if n == nil || n.Kind != NodeText {
		return nil
	}

	clusters := Graphemes(n.Data)
	if offset <= 0 || offset >= len(clusters) {
		return nil
	}

	tail := NewText(strings.Join(clusters[offset:], ""))
	n.Data = strings.Join(clusters[:offset], "")
	if n.Parent != nil {
		InsertAfter(n, tail)
	}
	return tail
}

// Normalize merges adjacent text siblings and drops empty text nodes
// throughout the subtree rooted at n.
func Normalize(n *Node) {
	if n == nil {
		return
	}

	child := n.FirstChild
	for child != nil {
		next := child.Next

		switch {
		case child.Kind == NodeText && child.Data == "":
			RemoveChild(n, child)
		case child.Kind == NodeText && next != nil && next.Kind == NodeText:
			child.Data += next.Data
			RemoveChild(n, next)
			// Re-examine the merged node against its new neighbour.
			continue
		default:
			Normalize(child)
		}

		child = next
	}
}

// PruneEmpty removes inline elements that no longer render any character.
// Block elements and the document are left in place.
func PruneEmpty(n *Node) {
	if n == nil {
		return
	}

	for child := n.FirstChild; child != nil; {
		next := child.Next
		if child.Kind == NodeElement {
			PruneEmpty(child)
			if IsInlineTag(child.Tag) && Len(child) == 0 {
				RemoveChild(n, child)
			}
		}
		child = next
	}
}
