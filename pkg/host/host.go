// Package host defines the capabilities an editing surface must expose for
// the range engine to drive it.
//
// The surface is addressed only through a flat cursor: a pair of boundaries
// that move by character counts and report the element owning them. The
// engine never reads element offsets from the host directly.
package host

import (
	"github.com/yaklabco/flatrange/pkg/dom"
)

// FlatCursor is the host's opaque selection primitive.
//
// Move methods return the number of characters actually moved, signed, and
// may report 0 when a boundary crosses an element edge without consuming a
// character. A cursor must be released when no longer needed.
type FlatCursor interface {
	// MoveStart moves the start boundary by n characters.
	MoveStart(n int) int

	// MoveEnd moves the end boundary by n characters.
	MoveEnd(n int) int

	// Collapse moves one boundary onto the other.
	Collapse(toStart bool)

	// Text returns the characters between the boundaries.
	Text() string

	// Owner returns the innermost element enclosing the cursor.
	Owner() *dom.Node

	// MoveToNode spans the rendered bounds of an element.
	MoveToNode(node *dom.Node) error

	// Clone returns an independent copy of the cursor.
	Clone() FlatCursor

	// Release frees host resources held by the cursor.
	Release()
}

// Slot is the host's single active-selection slot.
type Slot interface {
	// Commit makes cursor the live selection.
	Commit(cursor FlatCursor)

	// Active returns the live selection, or nil.
	Active() FlatCursor
}

// Editor groups the host's editing commands.
type Editor interface {
	// DeleteSelection removes the content of the live selection.
	DeleteSelection() error

	// InsertMarkup injects markup at cursor's position.
	InsertMarkup(cursor FlatCursor, markup string) error
}

// Host is the full capability set.
type Host interface {
	Slot
	Editor

	// Document returns the document root node.
	Document() *dom.Node

	// Container returns the focused editable element, or nil.
	Container() *dom.Node

	// NewCursor returns a fresh cursor anchored at the live selection.
	NewCursor() FlatCursor
}
