package memhost

import (
	"fmt"
	"strings"

	"github.com/yaklabco/flatrange/pkg/dom"
	"github.com/yaklabco/flatrange/pkg/host"
)

// DeleteSelection removes the characters of the live selection, drops inline
// elements left empty and collapses the selection where the content was.
func (h *Host) DeleteSelection() error {
	c := h.active
	if c == nil || c.released {
		return nil
	}

	l := c.layout()
	from, to := c.start.pos, c.end.pos
	if from == to {
		return nil
	}

	for _, leaf := range l.leaves {
		sp := l.spans[leaf]
		lo := max(from, sp.start)
		hi := min(to, sp.end)
		if lo >= hi {
			continue
		}

		clusters := l.clusters[sp.start:sp.end]
		leaf.Data = strings.Join(clusters[:lo-sp.start], "") + strings.Join(clusters[hi-sp.start:], "")
	}

	dom.PruneEmpty(h.doc)
	dom.Normalize(h.doc)

	l = computeLayout(h.doc)
	pos := l.clamp(from)
	c.start = point{pos: pos, owner: l.startOwner(pos)}
	c.end = c.start
	c.outerStart = nil
	c.outerEnd = nil

	h.logger.Debug("selection deleted", "from", from, "to", to)
	return nil
}

// InsertMarkup parses markup and splices the resulting nodes at cursor's
// start, leaving cursor collapsed after the inserted content.
func (h *Host) InsertMarkup(cursor host.FlatCursor, markup string) error {
	c, ok := cursor.(*Cursor)
	if !ok || c == nil || c.host != h {
		return ErrForeignCursor
	}
	if c.released {
		return ErrReleased
	}

	nodes, err := h.parseMarkup(markup)
	if err != nil {
		return fmt.Errorf("insert markup: %w", err)
	}

	l := c.layout()
	pos := c.start.pos

	owner := c.start.owner
	if owner == l.root {
		owner = l.following(pos)
		if owner == nil || owner == l.root {
			return fmt.Errorf("insert markup at %d: %w", pos, ErrNoInsertionPoint)
		}
	}

	inserted := 0
	for _, n := range nodes {
		inserted += dom.Len(n)
	}

	insertAt(l, owner, pos, nodes)
	dom.Normalize(h.doc)

	l = computeLayout(h.doc)
	after := l.clamp(pos + inserted)
	c.start = point{pos: after, owner: l.startOwner(after)}
	c.end = c.start
	c.outerStart = nil
	c.outerEnd = nil

	h.logger.Debug("markup inserted", "at", pos, "chars", inserted)
	return nil
}

func (h *Host) parseMarkup(markup string) ([]*dom.Node, error) {
	if h.parser == nil {
		if markup == "" {
			return nil, nil
		}
		return []*dom.Node{dom.NewText(markup)}, nil
	}
	return h.parser.ParseInline(markup)
}

// insertAt places nodes at document offset pos inside parent, splitting the
// text leaf that straddles pos.
func insertAt(l *layout, parent *dom.Node, pos int, nodes []*dom.Node) {
	for child := parent.FirstChild; child != nil; child = child.Next {
		sp := l.spans[child]

		if pos <= sp.start {
			for _, n := range nodes {
				dom.InsertBefore(child, n)
			}
			return
		}

		if pos < sp.end {
			if child.IsText() {
				tail := dom.SplitText(child, pos-sp.start)
				for _, n := range nodes {
					dom.InsertBefore(tail, n)
				}
				return
			}
			insertAt(l, child, pos, nodes)
			return
		}
	}

	for _, n := range nodes {
		dom.AppendChild(parent, n)
	}
}
