package textrange

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/flatrange/pkg/dom"
	"github.com/yaklabco/flatrange/pkg/host"
)

// OffsetFinder is the outcome of a backward probe.
type OffsetFinder struct {
	// NodeIndex is the number of element edges crossed minus one, so -1 when
	// the probe never left flat text.
	NodeIndex int

	// RelOffset counts characters seen before the first element edge.
	RelOffset int

	// AbsOffset is the boundary's offset from the container start.
	AbsOffset int

	// Steps is the number of probe iterations performed.
	Steps int
}

// Resolver translates between cursor boundaries and (node, offset) pairs
// of one container. It holds no derived state.
type Resolver struct {
	container *Container
	locator   ElementLocator
	logger    *log.Logger
	maxSteps  int
	maxStalls int
}

// NewResolver creates a resolver bound to container.
func NewResolver(container *dom.Node, opts ...Option) *Resolver {
	s := newSettings(opts)
	return newResolver(NewContainer(container), s)
}

func newResolver(container *Container, s settings) *Resolver {
	return &Resolver{
		container: container,
		locator:   s.locator,
		logger:    s.logger,
		maxSteps:  s.maxSteps,
		maxStalls: s.maxStalls,
	}
}

// Container returns the bound container.
func (r *Resolver) Container() *Container {
	return r.container
}

// AbsoluteOffset measures the start of boundary from the container start by
// stepping a collapsed copy backward one character at a time until its
// owner leaves the container.
//
// A step that neither moves, changes the matched text, nor changes the
// owner ends the probe. Cost is linear in the offset, with a text
// comparison per step.
func (r *Resolver) AbsoluteOffset(boundary host.FlatCursor) OffsetFinder {
	res := OffsetFinder{NodeIndex: -1}

	probe := boundary.Clone()
	defer probe.Release()
	probe.Collapse(true)

	owner := startOwner(probe)
	if !r.container.Contains(owner) {
		return res
	}

	var (
		prevText    = probe.Text()
		transitions int
		stalls      int
	)

	for res.Steps < r.maxSteps {
		res.Steps++

		moved := probe.MoveStart(-1)
		text := probe.Text()
		next := startOwner(probe)

		if !r.container.Contains(next) {
			break
		}

		textChanged := text != prevText
		ownerChanged := next != owner

		if moved == 0 && !textChanged && !ownerChanged {
			break
		}

		if moved == 0 {
			stalls++
			if stalls > r.maxStalls {
				r.logger.Debug("probe stalled", "steps", res.Steps, "stalls", stalls)
				break
			}
		} else {
			stalls = 0
		}

		switch {
		case textChanged:
			res.AbsOffset++
			if transitions == 0 {
				res.RelOffset++
			}
		case ownerChanged:
			transitions++
		}

		prevText, owner = text, next
	}

	res.NodeIndex = transitions - 1
	return res
}

// ResolveNodeAt finds the child holding flat offset abs and the offset
// inside it. A boundary between two children belongs to the following one;
// abs equal to the total length resolves to the end of the last child.
func (r *Resolver) ResolveNodeAt(abs int) (*dom.Node, int, bool) {
	children := r.container.Children()
	if abs < 0 || len(children) == 0 {
		return nil, 0, false
	}

	cumulative := 0
	for _, child := range children {
		cumulative += child.Length
		if cumulative > abs {
			return child.Node, child.Length - (cumulative - abs), true
		}
	}

	if abs == cumulative {
		last := children[len(children)-1]
		return last.Node, last.Length, true
	}

	return nil, 0, false
}

// SpanOf returns the flat interval occupied by a direct child.
func (r *Resolver) SpanOf(child *dom.Node) (int, int, bool) {
	start := 0
	for _, c := range r.container.Children() {
		if c.Node == child {
			return start, start + c.Length, true
		}
		start += c.Length
	}
	return 0, 0, false
}

// ElementOffset locates a boundary sitting inside an element child and
// returns that top-level child with the boundary's offset in it.
func (r *Resolver) ElementOffset(boundary host.FlatCursor) (*dom.Node, int, bool) {
	top := r.container.TopLevel(startOwner(boundary))
	if top == nil || !top.IsElement() {
		return nil, 0, false
	}

	rel, ok := r.locator.ElementOffset(boundary, top)
	if !ok {
		return nil, 0, false
	}
	return top, rel, true
}

// Locate resolves the start of boundary to a (child, offset) pair.
// Boundaries owned by the container itself are measured by probing;
// boundaries inside an element child go through the element locator.
func (r *Resolver) Locate(boundary host.FlatCursor) (*dom.Node, int, bool) {
	owner := startOwner(boundary)

	switch {
	case owner == r.container.Node():
		found := r.AbsoluteOffset(boundary)
		node, rel, ok := r.ResolveNodeAt(found.AbsOffset)
		if !ok {
			r.logger.Debug("offset not resolved", "abs", found.AbsOffset, "steps", found.Steps)
		}
		return node, rel, ok

	case r.container.Contains(owner):
		return r.ElementOffset(boundary)

	default:
		r.logger.Debug("boundary outside container", "owner", dom.Path(owner))
		return nil, 0, false
	}
}

// startOwner reads the owner of a cursor's start boundary.
func startOwner(cursor host.FlatCursor) *dom.Node {
	probe := cursor.Clone()
	defer probe.Release()
	probe.Collapse(true)
	return probe.Owner()
}
