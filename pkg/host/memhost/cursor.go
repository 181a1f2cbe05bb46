package memhost

import (
	"fmt"

	"github.com/yaklabco/flatrange/pkg/dom"
	"github.com/yaklabco/flatrange/pkg/host"
)

// point is one cursor boundary: a document offset and the element it is
// considered to sit in. Several elements can share an offset, so the owner
// is part of the position.
type point struct {
	pos   int
	owner *dom.Node
}

// Cursor is the in-memory FlatCursor.
//
// Besides plain arithmetic moves it reproduces the edge behavior of rich
// text hosts:
//   - after MoveToNode both boundaries sit on the element's outer edges;
//     MoveStart(1) or MoveEnd(-1) there steps inside without moving.
//   - MoveStart(-1) on the inner start edge of the owner steps out to the
//     parent without moving.
type Cursor struct {
	host  *Host
	start point
	end   point

	// outerStart/outerEnd are set while a boundary sits on the outer edge
	// of the element last passed to MoveToNode.
	outerStart *dom.Node
	outerEnd   *dom.Node

	released bool
}

var _ host.FlatCursor = (*Cursor)(nil)

// sync clamps both boundaries into the current layout and re-derives owners
// that were removed from the document or no longer enclose their offset.
func (c *Cursor) sync(l *layout) {
	c.start.pos = l.clamp(c.start.pos)
	c.end.pos = l.clamp(c.end.pos)
	if c.end.pos < c.start.pos {
		c.end.pos = c.start.pos
	}

	if !encloses(l, c.start.owner, c.start.pos) {
		c.start.owner = l.startOwner(c.start.pos)
		c.outerStart = nil
	}
	if !encloses(l, c.end.owner, c.end.pos) {
		c.end.owner = l.endOwner(c.end.pos)
		c.outerEnd = nil
	}
	if c.outerStart != nil && !l.has(c.outerStart) {
		c.outerStart = nil
	}
	if c.outerEnd != nil && !l.has(c.outerEnd) {
		c.outerEnd = nil
	}
}

func encloses(l *layout, owner *dom.Node, pos int) bool {
	if owner == nil || owner.IsText() {
		return false
	}
	sp, ok := l.spans[owner]
	return ok && sp.start <= pos && pos <= sp.end
}

func (c *Cursor) layout() *layout {
	l := computeLayout(c.host.doc)
	c.sync(l)
	return l
}

// MoveStart moves the start boundary by n characters.
func (c *Cursor) MoveStart(n int) int {
	if c.released || n == 0 {
		return 0
	}

	l := c.layout()

	switch {
	case n == 1 && c.outerStart != nil:
		el := c.outerStart
		c.outerStart = nil
		if sp := l.spans[el]; sp.start == c.start.pos && sp.len() > 0 {
			c.start.owner = el
		}
		return 0

	case n == -1 && c.start.owner != l.root && l.spans[c.start.owner].start == c.start.pos:
		c.start.owner = c.start.owner.Parent
		c.outerStart = nil
		return 0
	}

	target := l.clamp(c.start.pos + n)
	moved := target - c.start.pos

	c.start = point{pos: target, owner: l.startOwner(target)}
	c.outerStart = nil

	if c.start.pos > c.end.pos {
		c.end = point{pos: c.start.pos, owner: l.endOwner(c.start.pos)}
		c.outerEnd = nil
	}

	return moved
}

// MoveEnd moves the end boundary by n characters.
func (c *Cursor) MoveEnd(n int) int {
	if c.released || n == 0 {
		return 0
	}

	l := c.layout()

	if n == -1 && c.outerEnd != nil {
		el := c.outerEnd
		c.outerEnd = nil
		if sp := l.spans[el]; sp.end == c.end.pos && sp.len() > 0 {
			c.end.owner = el
		}
		return 0
	}

	target := l.clamp(c.end.pos + n)
	moved := target - c.end.pos

	c.end = point{pos: target, owner: l.endOwner(target)}
	c.outerEnd = nil

	if c.end.pos < c.start.pos {
		c.start = point{pos: c.end.pos, owner: l.startOwner(c.end.pos)}
		c.outerStart = nil
	}

	return moved
}

// Collapse moves one boundary onto the other.
func (c *Cursor) Collapse(toStart bool) {
	if c.released {
		return
	}

	c.layout()

	if toStart {
		c.end = c.start
	} else {
		c.start = c.end
	}
	c.outerStart = nil
	c.outerEnd = nil
}

// Text returns the characters between the boundaries.
func (c *Cursor) Text() string {
	if c.released {
		return ""
	}

	l := c.layout()
	return l.text(c.start.pos, c.end.pos)
}

// Owner returns the innermost element enclosing both boundaries.
func (c *Cursor) Owner() *dom.Node {
	if c.released {
		return nil
	}

	c.layout()
	return commonAncestor(c.start.owner, c.end.owner)
}

// MoveToNode spans the rendered bounds of node. Elements leave both
// boundaries on their outer edges; text nodes are spanned from inside
// their parent.
func (c *Cursor) MoveToNode(node *dom.Node) error {
	if c.released {
		return ErrReleased
	}

	l := c.layout()
	if node == nil || !l.has(node) {
		return fmt.Errorf("move to node: %w", ErrNotInDocument)
	}

	sp := l.spans[node]

	owner := node.Parent
	if owner == nil {
		owner = l.root
	}

	c.start = point{pos: sp.start, owner: owner}
	c.end = point{pos: sp.end, owner: owner}
	c.outerStart = nil
	c.outerEnd = nil

	if node.IsElement() {
		c.outerStart = node
		c.outerEnd = node
	}

	return nil
}

// Clone returns an independent copy of the cursor.
//
//nolint:ireturn // implements host.FlatCursor
func (c *Cursor) Clone() host.FlatCursor {
	return c.clone()
}

func (c *Cursor) clone() *Cursor {
	cp := *c
	if !cp.released {
		c.host.live++
	}
	return &cp
}

// Release frees the cursor. Further calls are no-ops.
func (c *Cursor) Release() {
	if c.released {
		return
	}
	c.released = true
	c.host.live--
}

// Offsets returns the document offsets of both boundaries.
func (c *Cursor) Offsets() (int, int) {
	if c.released {
		return 0, 0
	}

	c.layout()
	return c.start.pos, c.end.pos
}

func commonAncestor(a, b *dom.Node) *dom.Node {
	if a == nil {
		return b
	}
	for cur := a; cur != nil; cur = cur.Parent {
		if cur.Contains(b) {
			return cur
		}
	}
	return nil
}
