// Package memhost is an in-memory editing host over a dom document.
//
// It gives the range engine something to drive outside a browser: a
// FlatCursor with host-like edge behavior, the single active-selection slot,
// the delete and markup-injection commands, and the environment slot a range
// factory is installed into.
package memhost

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/flatrange/pkg/dom"
	"github.com/yaklabco/flatrange/pkg/host"
	"github.com/yaklabco/flatrange/pkg/textrange"
)

var (
	// ErrNotInDocument is returned when a node is not part of the host document.
	ErrNotInDocument = errors.New("node is not in the host document")

	// ErrReleased is returned when a released cursor is used for an edit.
	ErrReleased = errors.New("cursor has been released")

	// ErrForeignCursor is returned when a cursor from another host is passed in.
	ErrForeignCursor = errors.New("cursor does not belong to this host")

	// ErrNoInsertionPoint is returned when markup is injected outside any element.
	ErrNoInsertionPoint = errors.New("cursor is not inside an element")
)

// MarkupParser turns an inline markup fragment into detached nodes.
type MarkupParser interface {
	ParseInline(markup string) ([]*dom.Node, error)
}

// Host is an in-memory editing surface.
type Host struct {
	doc     *dom.Node
	focus   *dom.Node
	parser  MarkupParser
	logger  *log.Logger
	active  *Cursor
	factory textrange.RangeFactory

	// live counts cursors handed out and not yet released.
	live int
}

var (
	_ host.Host             = (*Host)(nil)
	_ textrange.Environment = (*Host)(nil)
)

// Option configures a Host.
type Option func(*Host)

// WithParser sets the parser used by InsertMarkup. Without one, markup is
// inserted as literal text.
func WithParser(p MarkupParser) Option {
	return func(h *Host) {
		h.parser = p
	}
}

// WithFocus sets the initially focused container.
func WithFocus(n *dom.Node) Option {
	return func(h *Host) {
		h.focus = n
	}
}

// WithLogger sets the logger for host events.
func WithLogger(l *log.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a host over doc.
func New(doc *dom.Node, opts ...Option) *Host {
	h := &Host{
		doc:    doc,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Document returns the document root.
func (h *Host) Document() *dom.Node {
	return h.doc
}

// Container returns the focused container, or nil when nothing is focused
// or the focused element was removed from the document.
func (h *Host) Container() *dom.Node {
	if h.focus == nil || h.focus.Root() != h.doc {
		return nil
	}
	return h.focus
}

// Focus makes n the focused container. A nil n clears focus.
func (h *Host) Focus(n *dom.Node) error {
	if n == nil {
		h.focus = nil
		return nil
	}
	if !n.IsElement() || n.Root() != h.doc {
		return fmt.Errorf("focus %s: %w", n.Name(), ErrNotInDocument)
	}
	h.focus = n
	return nil
}

// NewCursor clones the live selection, or returns a cursor collapsed at the
// inner start of the focused container.
//
//nolint:ireturn // implements host.Host
func (h *Host) NewCursor() host.FlatCursor {
	if h.active != nil && !h.active.released {
		return h.active.clone()
	}

	c := &Cursor{host: h}
	h.live++

	l := computeLayout(h.doc)
	if container := h.Container(); container != nil {
		pos := l.spans[container].start
		c.start = point{pos: pos, owner: container}
		c.end = c.start
		return c
	}

	c.start = point{pos: 0, owner: l.startOwner(0)}
	c.end = c.start
	return c
}

// Commit makes a copy of cursor the live selection. A nil cursor clears it.
func (h *Host) Commit(cursor host.FlatCursor) {
	var next *Cursor
	if mc, ok := cursor.(*Cursor); ok && mc != nil && mc.host == h && !mc.released {
		next = mc.clone()
	}

	if h.active != nil {
		h.active.Release()
	}
	h.active = next
	if next == nil {
		return
	}

	h.logger.Debug("selection committed", "text", h.active.Text())
}

// Active returns the live selection, or nil.
//
//nolint:ireturn // implements host.Slot
func (h *Host) Active() host.FlatCursor {
	if h.active == nil {
		return nil
	}
	return h.active
}

// RangeFactory returns the installed range factory, or nil.
//
//nolint:ireturn // implements textrange.Environment
func (h *Host) RangeFactory() textrange.RangeFactory {
	return h.factory
}

// SetRangeFactory installs f as the environment's range factory.
func (h *Host) SetRangeFactory(f textrange.RangeFactory) {
	h.factory = f
}

// LiveCursors reports how many cursors are held and not yet released,
// including the live selection.
func (h *Host) LiveCursors() int {
	return h.live
}

// Text returns the whole rendered text of the document.
func (h *Host) Text() string {
	return dom.TextContent(h.doc)
}
