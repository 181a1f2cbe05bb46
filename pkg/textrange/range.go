// Package textrange exposes node-and-offset ranges and selections over a
// host that only understands a flat character cursor.
//
// A Range owns one host cursor. Every mutating call moves or collapses that
// cursor and then re-derives the public boundaries from it through a
// Resolver. Only single-node extents are represented: both boundaries of a
// positioned range lie in the same child of the bound container.
//
// Ranges are not safe for concurrent use. The host has one active-selection
// slot and committing a range overwrites it.
package textrange

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/flatrange/pkg/dom"
	"github.com/yaklabco/flatrange/pkg/host"
)

// Range is a node-and-offset view of a host cursor.
type Range struct {
	host     host.Host
	resolver *Resolver
	logger   *log.Logger

	cursor host.FlatCursor
	extent Extent
}

// NewRange creates a range bound to the host's focused container, anchored
// at the live selection. The range is Empty when the selection does not
// resolve inside the container.
func NewRange(h host.Host, opts ...Option) (*Range, error) {
	container := h.Container()
	if container == nil {
		return nil, ErrNoFocus
	}

	s := newSettings(opts)
	r := &Range{
		host:     h,
		resolver: newResolver(NewContainer(container), s),
		logger:   s.logger,
		cursor:   h.NewCursor(),
	}
	r.refresh()
	return r, nil
}

// Container returns the bound container element.
func (r *Range) Container() *dom.Node {
	return r.resolver.Container().Node()
}

// Resolver returns the resolver translating this range's cursor.
func (r *Range) Resolver() *Resolver {
	return r.resolver
}

// Extent returns the positioned shape, or nil when Empty.
//
//nolint:ireturn // sealed sum type
func (r *Range) Extent() Extent {
	return r.extent
}

// IsEmpty reports whether the range holds no position.
func (r *Range) IsEmpty() bool {
	return r.extent == nil
}

// IsDetached reports whether the range has released its cursor.
func (r *Range) IsDetached() bool {
	return r.cursor == nil
}

// CommonAncestorContainer returns the node holding both boundaries.
func (r *Range) CommonAncestorContainer() *dom.Node {
	if r.extent == nil {
		return nil
	}
	return r.extent.CommonAncestor()
}

// StartContainer returns the node of the start boundary.
func (r *Range) StartContainer() *dom.Node {
	start, _ := r.boundaries()
	return start.Node
}

// StartOffset returns the offset of the start boundary.
func (r *Range) StartOffset() int {
	start, _ := r.boundaries()
	return start.Offset
}

// EndContainer returns the node of the end boundary.
func (r *Range) EndContainer() *dom.Node {
	_, end := r.boundaries()
	return end.Node
}

// EndOffset returns the offset of the end boundary.
func (r *Range) EndOffset() int {
	_, end := r.boundaries()
	return end.Offset
}

func (r *Range) boundaries() (Boundary, Boundary) {
	if r.extent == nil {
		return Boundary{}, Boundary{}
	}
	return r.extent.Boundaries()
}

// SelectNode positions the range over node. Text children of the container
// are spanned by their flat interval; elements (including the container)
// by their rendered bounds narrowed one character inward on each side.
//
// A detached range acquires a new cursor, which is released again if
// positioning fails.
func (r *Range) SelectNode(node *dom.Node) error {
	if err := CheckAttached("SelectNode", node, r.host.Document()); err != nil {
		return err
	}

	return r.position("SelectNode", node, true)
}

// SelectNodeContents positions the range over the full rendered bounds of
// node. Only the bound container is narrowed, since its outer edges lie
// outside the coordinate space.
func (r *Range) SelectNodeContents(node *dom.Node) error {
	if err := CheckAttached("SelectNodeContents", node, r.host.Document()); err != nil {
		return err
	}

	return r.position("SelectNodeContents", node, node == r.Container())
}

func (r *Range) position(op string, node *dom.Node, narrow bool) error {
	acquired := false
	if r.cursor == nil {
		r.cursor = r.host.NewCursor()
		acquired = true
	}

	if err := r.moveTo(node, narrow); err != nil {
		r.extent = nil
		if acquired {
			r.cursor.Release()
			r.cursor = nil
		}
		r.logger.Debug("positioning failed", "op", op, "node", dom.Path(node), "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	r.host.Commit(r.cursor)
	r.refresh()
	return nil
}

func (r *Range) moveTo(node *dom.Node, narrow bool) error {
	container := r.Container()

	if node.IsText() && node.Parent == container {
		start, end, _ := r.resolver.SpanOf(node)
		if err := r.cursor.MoveToNode(container); err != nil {
			return err
		}
		r.narrow()
		r.cursor.Collapse(true)
		r.cursor.MoveEnd(end)
		r.cursor.MoveStart(start)
		return nil
	}

	if !container.Contains(node) {
		return ErrNotInContainer
	}

	if err := r.cursor.MoveToNode(node); err != nil {
		return err
	}
	if narrow && node.IsElement() {
		r.narrow()
	}
	return nil
}

func (r *Range) narrow() {
	r.cursor.MoveStart(1)
	r.cursor.MoveEnd(-1)
}

// SetStart moves the start boundary to offset inside node. An Empty range,
// or one whose start lies in another node, is first anchored on node with
// SelectNode. It reports whether the range was anchored on node.
//
// Offset dom.Len(node) is the boundary shared with the next child of the
// container, so the start is then reported as that child at offset 0, like
// ResolveNodeAt does.
func (r *Range) SetStart(node *dom.Node, offset int) (bool, error) {
	return r.setBoundary("SetStart", node, offset, true)
}

// SetEnd moves the end boundary to offset inside node, anchoring like
// SetStart.
func (r *Range) SetEnd(node *dom.Node, offset int) (bool, error) {
	return r.setBoundary("SetEnd", node, offset, false)
}

func (r *Range) setBoundary(op string, node *dom.Node, offset int, start bool) (bool, error) {
	if err := CheckAttached(op, node, r.host.Document()); err != nil {
		return false, err
	}
	if offset < 0 || offset > dom.Len(node) {
		return false, fmt.Errorf("%s: %w: %d not in [0, %d]", op, ErrOffsetOutOfRange, offset, dom.Len(node))
	}

	current := r.StartContainer()
	if !start {
		current = r.EndContainer()
	}

	if r.IsEmpty() || current != node {
		if err := r.SelectNode(node); err != nil {
			return false, err
		}
		if r.IsEmpty() {
			return false, nil
		}
	}

	if start {
		r.cursor.MoveStart(offset - r.StartOffset())
	} else {
		r.cursor.MoveEnd(offset - r.EndOffset())
	}

	r.host.Commit(r.cursor)
	r.refresh()
	return true, nil
}

// Collapse moves one boundary onto the other. Collapsing a selected text
// child to its end reports the next child at offset 0.
func (r *Range) Collapse(toStart bool) {
	if r.cursor == nil {
		return
	}
	r.cursor.Collapse(toStart)
	r.refresh()
}

// InsertNode injects a copy of ref's content at the start of the range:
// text nodes verbatim, elements as markup. ref itself is not attached.
// It returns the common ancestor after the insertion.
func (r *Range) InsertNode(ref *dom.Node) (*dom.Node, error) {
	if r.cursor == nil {
		return nil, fmt.Errorf("InsertNode: %w", ErrDetached)
	}
	if ref == nil {
		return nil, fmt.Errorf("InsertNode: %w", &AttachError{Op: "InsertNode"})
	}

	markup := ref.Data
	if !ref.IsText() {
		markup = dom.Markup(ref)
	}

	r.cursor.Collapse(true)
	err := r.host.InsertMarkup(r.cursor, markup)
	r.refresh()
	if err != nil {
		return nil, fmt.Errorf("InsertNode: %w", err)
	}

	return r.CommonAncestorContainer(), nil
}

// DeleteContents runs the host's delete command and empties the range.
//
// The command acts on the host's live selection, not on this range: commit
// the range first when several ranges exist.
func (r *Range) DeleteContents() error {
	if err := r.host.DeleteSelection(); err != nil {
		return fmt.Errorf("DeleteContents: %w", err)
	}
	r.extent = nil
	return nil
}

// Detach releases the cursor and leaves the range Empty.
func (r *Range) Detach() {
	if r.cursor != nil {
		r.cursor.Release()
		r.cursor = nil
	}
	r.extent = nil
	r.logger.Debug("range detached")
}

// Commit makes the range the host's live selection.
func (r *Range) Commit() error {
	if r.cursor == nil {
		return ErrDetached
	}
	r.host.Commit(r.cursor)
	return nil
}

// String returns the text matched by the cursor.
func (r *Range) String() string {
	if r.cursor == nil {
		return ""
	}
	return r.cursor.Text()
}

// refresh re-derives the boundaries from the cursor. The end offset is the
// start offset plus the matched length, clamped to the node.
func (r *Range) refresh() {
	if r.cursor == nil {
		r.extent = nil
		return
	}

	node, rel, ok := r.resolver.Locate(r.cursor)
	if !ok {
		r.extent = nil
		return
	}

	end := min(rel+dom.CharCount(r.cursor.Text()), dom.Len(node))
	r.extent = SingleNode{Node: node, StartOffset: rel, EndOffset: end}
}
