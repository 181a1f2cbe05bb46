package reporter

import (
	"github.com/yaklabco/flatrange/pkg/dom"
	"github.com/yaklabco/flatrange/pkg/textrange"
)

// ChildSpan is one top-level child of a container and the flat interval
// it occupies.
type ChildSpan struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Inspection describes the flat offset space of one container.
type Inspection struct {
	Path      string      `json:"path"`
	Focus     int         `json:"focus"`
	Container string      `json:"container"`
	Length    int         `json:"length"`
	Children  []ChildSpan `json:"children"`
}

// NewInspection lists the children of container with their spans.
func NewInspection(path string, focus int, container *dom.Node) Inspection {
	resolver := textrange.NewResolver(container)
	c := resolver.Container()

	children := c.Children()
	in := Inspection{
		Path:      path,
		Focus:     focus,
		Container: dom.Path(container),
		Length:    c.Len(),
		Children:  make([]ChildSpan, 0, len(children)),
	}

	start := 0
	for i, child := range children {
		in.Children = append(in.Children, ChildSpan{
			Index: i,
			Kind:  child.Kind.String(),
			Name:  child.Node.Name(),
			Start: start,
			End:   start + child.Length,
			Text:  dom.TextContent(child.Node),
		})
		start += child.Length
	}
	return in
}

// OffsetHit is the child owning one flat offset.
type OffsetHit struct {
	Offset int    `json:"offset"`
	Found  bool   `json:"found"`
	Index  int    `json:"index"`
	Node   string `json:"node,omitempty"`
	Rel    int    `json:"rel"`
}

// Resolution holds the hits for a list of offsets in one container.
type Resolution struct {
	Path      string      `json:"path"`
	Focus     int         `json:"focus"`
	Container string      `json:"container"`
	Length    int         `json:"length"`
	Hits      []OffsetHit `json:"hits"`
}

// NewResolution resolves every offset against container.
func NewResolution(path string, focus int, container *dom.Node, offsets []int) *Resolution {
	resolver := textrange.NewResolver(container)

	res := &Resolution{
		Path:      path,
		Focus:     focus,
		Container: dom.Path(container),
		Length:    resolver.Container().Len(),
		Hits:      make([]OffsetHit, 0, len(offsets)),
	}

	for _, offset := range offsets {
		hit := OffsetHit{Offset: offset, Index: -1}
		if node, rel, ok := resolver.ResolveNodeAt(offset); ok {
			hit.Found = true
			hit.Index = node.Index()
			hit.Node = dom.Path(node)
			hit.Rel = rel
		}
		res.Hits = append(res.Hits, hit)
	}
	return res
}
