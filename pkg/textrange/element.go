package textrange

import (
	"github.com/yaklabco/flatrange/pkg/dom"
	"github.com/yaklabco/flatrange/pkg/host"
)

// Unbounded is a move count larger than any document.
const Unbounded = 1 << 30

// ElementLocator measures where a boundary sits inside an element.
type ElementLocator interface {
	// ElementOffset returns the character offset of boundary's start
	// inside element, or false when it cannot be measured.
	ElementOffset(boundary host.FlatCursor, element *dom.Node) (int, bool)
}

// DifferentialLocator measures element offsets with two long backward
// moves: one from the element's start edge, one from the boundary. Both
// run into the document start, so the difference of the reported distances
// is the boundary's offset inside the element.
type DifferentialLocator struct{}

// ElementOffset implements ElementLocator.
func (DifferentialLocator) ElementOffset(boundary host.FlatCursor, element *dom.Node) (int, bool) {
	edge := boundary.Clone()
	defer edge.Release()

	if err := edge.MoveToNode(element); err != nil {
		return 0, false
	}
	edge.Collapse(true)

	probe := boundary.Clone()
	defer probe.Release()
	probe.Collapse(true)

	fromEdge := -edge.MoveStart(-Unbounded)
	fromBoundary := -probe.MoveStart(-Unbounded)

	rel := fromBoundary - fromEdge
	if rel < 0 || rel > dom.Len(element) {
		return 0, false
	}
	return rel, true
}
