package memhost

import (
	"strings"

	"github.com/yaklabco/flatrange/pkg/dom"
)

// span is a half-open character interval in document coordinates.
type span struct {
	start int
	end   int
}

func (s span) len() int { return s.end - s.start }

// layout is the flat rendering of a document: every grapheme in document
// order plus the interval each node covers. It is rebuilt on every cursor
// operation since the tree may have been edited in between.
type layout struct {
	root     *dom.Node
	clusters []string
	spans    map[*dom.Node]span

	// elements holds the document and every element in pre-order, so the
	// last match of a containment test is the deepest one.
	elements []*dom.Node
	leaves   []*dom.Node
}

func computeLayout(root *dom.Node) *layout {
	l := &layout{
		root:  root,
		spans: make(map[*dom.Node]span),
	}
	l.visit(root)
	return l
}

func (l *layout) visit(n *dom.Node) {
	start := len(l.clusters)

	if n.IsText() {
		l.clusters = append(l.clusters, dom.Graphemes(n.Data)...)
		l.leaves = append(l.leaves, n)
	} else {
		l.elements = append(l.elements, n)
		for child := n.FirstChild; child != nil; child = child.Next {
			l.visit(child)
		}
	}

	l.spans[n] = span{start: start, end: len(l.clusters)}
}

func (l *layout) total() int {
	return len(l.clusters)
}

func (l *layout) clamp(pos int) int {
	return max(0, min(pos, l.total()))
}

func (l *layout) has(n *dom.Node) bool {
	_, ok := l.spans[n]
	return ok
}

func (l *layout) text(from, to int) string {
	if from >= to {
		return ""
	}
	return strings.Join(l.clusters[from:to], "")
}

// following returns the deepest element whose content holds the character
// right after pos.
func (l *layout) following(pos int) *dom.Node {
	var found *dom.Node
	for _, el := range l.elements {
		sp := l.spans[el]
		if sp.start <= pos && pos < sp.end {
			found = el
		}
	}
	return found
}

// preceding returns the deepest element whose content holds the character
// right before pos.
func (l *layout) preceding(pos int) *dom.Node {
	var found *dom.Node
	for _, el := range l.elements {
		sp := l.spans[el]
		if sp.start < pos && pos <= sp.end {
			found = el
		}
	}
	return found
}

// startOwner derives the owner of a start boundary at pos.
func (l *layout) startOwner(pos int) *dom.Node {
	owner := l.following(pos)
	if owner == nil {
		owner = l.preceding(pos)
	}
	if owner == nil {
		owner = l.root
	}
	return owner
}

// endOwner derives the owner of an end boundary at pos.
func (l *layout) endOwner(pos int) *dom.Node {
	owner := l.preceding(pos)
	if owner == nil {
		owner = l.following(pos)
	}
	if owner == nil {
		owner = l.root
	}
	return owner
}
