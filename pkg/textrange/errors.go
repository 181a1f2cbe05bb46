package textrange

import (
	"errors"
	"fmt"

	"github.com/yaklabco/flatrange/pkg/dom"
)

// Sentinel errors for range operations.
var (
	// ErrNotAttached is wrapped by AttachError.
	ErrNotAttached = errors.New("node is not attached to the document")

	// ErrNoFocus is returned when a range is created without a focused container.
	ErrNoFocus = errors.New("no focused container")

	// ErrIndexOutOfRange is returned by Selection.GetRangeAt for a bad index.
	ErrIndexOutOfRange = errors.New("range index out of range")

	// ErrOffsetOutOfRange is returned when a boundary offset exceeds the node length.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrNotInContainer is returned when a node lies outside the bound container.
	ErrNotInContainer = errors.New("node is not inside the bound container")

	// ErrDetached is returned when a detached range is asked to touch the host.
	ErrDetached = errors.New("range is detached")
)

// AttachError reports a positioning call made with a node that is not part
// of the host document. It is raised before any host primitive runs.
type AttachError struct {
	// Op is the operation that received the node ("SelectNode", "SetEnd", ...).
	Op string

	// Node is the offending node (may be nil).
	Node *dom.Node
}

// Error implements the error interface.
func (e *AttachError) Error() string {
	return fmt.Sprintf("%s: %s is not attached to the document", e.Op, e.Node.Name())
}

// Unwrap returns ErrNotAttached.
func (e *AttachError) Unwrap() error {
	return ErrNotAttached
}
