package dom

import (
	"strconv"
	"strings"
)

// IsInlineTag reports whether tag names an inline element.
func IsInlineTag(tag string) bool {
	switch tag {
	case TagEmphasis, TagStrong, TagCode, TagLink, TagDelete, TagSpan:
		return true
	default:
		return false
	}
}

// IsHeadingTag reports whether tag is h1..h6.
func IsHeadingTag(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

// HeadingLevel returns the level of an h1..h6 tag, or 0.
func HeadingLevel(tag string) int {
	if !IsHeadingTag(tag) {
		return 0
	}
	return int(tag[1] - '0')
}

// IsTextBlock reports whether n is a block that directly holds inline
// content: a paragraph or a heading. These are the candidate containers a
// range can be bound to.
func IsTextBlock(n *Node) bool {
	if n == nil || n.Kind != NodeElement {
		return false
	}
	return n.Tag == TagParagraph || IsHeadingTag(n.Tag)
}

// TextBlocks returns every paragraph and heading under root, in document order.
func TextBlocks(root *Node) []*Node {
	return FindAll(root, IsTextBlock)
}

// Path returns a slash separated description of n's ancestry, for diagnostics.
func Path(n *Node) string {
	if n == nil {
		return "<nil>"
	}

	var parts []string
	for cur := n; cur != nil; cur = cur.Parent {
		label := cur.Name()
		if cur.Parent != nil {
			label += "[" + strconv.Itoa(cur.Index()) + "]"
		}
		parts = append(parts, label)
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
