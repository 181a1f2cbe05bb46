package textrange_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/flatrange/pkg/dom"
	"github.com/yaklabco/flatrange/pkg/host"
	"github.com/yaklabco/flatrange/pkg/textrange"
)

func containerOf(lengths ...int) *dom.Node {
	para := dom.NewElement(dom.TagParagraph)
	for i, l := range lengths {
		text := dom.NewText(strings.Repeat("x", l))
		if i%2 == 1 {
			dom.AppendChild(para, dom.Build(dom.TagSpan, text))
			continue
		}
		dom.AppendChild(para, text)
	}
	return para
}

func TestResolveNodeAt_SpanProperty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		lengths []int
	}{
		{"sample", []int{12, 7, 8}},
		{"single", []int{5}},
		{"unit children", []int{1, 1, 1, 1}},
		{"uneven", []int{3, 10, 1, 2, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			para := containerOf(tt.lengths...)
			r := textrange.NewResolver(para)

			for k, child := range para.Children() {
				start, end, ok := r.SpanOf(child)
				require.True(t, ok)
				assert.Equal(t, tt.lengths[k], end-start)

				node, rel, ok := r.ResolveNodeAt(start)
				require.True(t, ok)
				assert.Same(t, child, node, "start of child %d", k)
				assert.Equal(t, 0, rel)

				node, rel, ok = r.ResolveNodeAt(end - 1)
				require.True(t, ok)
				assert.Same(t, child, node, "last character of child %d", k)
				assert.Equal(t, tt.lengths[k]-1, rel)
			}
		})
	}
}

func TestResolveNodeAt_Bounds(t *testing.T) {
	t.Parallel()

	para := containerOf(12, 7, 8)
	r := textrange.NewResolver(para)

	node, rel, ok := r.ResolveNodeAt(27)
	require.True(t, ok, "end of content resolves")
	assert.Same(t, para.LastChild, node)
	assert.Equal(t, 8, rel)

	_, _, ok = r.ResolveNodeAt(28)
	assert.False(t, ok, "beyond the content")

	_, _, ok = r.ResolveNodeAt(-1)
	assert.False(t, ok)

	_, _, ok = textrange.NewResolver(dom.NewElement(dom.TagParagraph)).ResolveNodeAt(0)
	assert.False(t, ok, "empty container")
}

func TestResolveNodeAt_SkipsEmptyChildren(t *testing.T) {
	t.Parallel()

	para := containerOf(3, 0, 4)
	r := textrange.NewResolver(para)

	node, rel, ok := r.ResolveNodeAt(3)
	require.True(t, ok)
	assert.Same(t, para.LastChild, node)
	assert.Equal(t, 0, rel)
}

func TestSpanOf_NotAChild(t *testing.T) {
	t.Parallel()

	para := containerOf(3, 4)
	r := textrange.NewResolver(para)

	_, _, ok := r.SpanOf(para.ChildAt(1).FirstChild)
	assert.False(t, ok, "grandchildren have no span")

	_, _, ok = r.SpanOf(dom.NewText("x"))
	assert.False(t, ok)
}

func TestAbsoluteOffset_EveryPosition(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	r := textrange.NewResolver(f.para)

	for pos := 0; pos <= 27; pos++ {
		c := f.cursorAt(pos)
		got := r.AbsoluteOffset(c)
		c.Release()

		assert.Equal(t, pos, got.AbsOffset, "position %d", pos)
	}
}

func TestAbsoluteOffset_NodeTransitions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	r := textrange.NewResolver(f.para)

	tests := []struct {
		name      string
		pos       int
		wantIndex int
		wantRel   int
	}{
		{"flat text", 6, -1, 6},
		{"inside element", 15, 0, 3},
		{"after element", 20, 0, 8},
		{"container start", 0, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := f.cursorAt(tt.pos)
			defer c.Release()

			got := r.AbsoluteOffset(c)
			assert.Equal(t, tt.pos, got.AbsOffset)
			assert.Equal(t, tt.wantIndex, got.NodeIndex)
			assert.Equal(t, tt.wantRel, got.RelOffset)
		})
	}
}

func TestAbsoluteOffset_DoesNotMoveBoundary(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	r := textrange.NewResolver(f.para)

	c := f.cursorAt(10)
	defer c.Release()
	c.MoveEnd(3)

	r.AbsoluteOffset(c)

	start, end := c.Offsets()
	assert.Equal(t, 10, start)
	assert.Equal(t, 13, end)
}

func TestAbsoluteOffset_MaxSteps(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	r := textrange.NewResolver(f.para, textrange.WithMaxSteps(3))

	c := f.cursorAt(10)
	defer c.Release()

	got := r.AbsoluteOffset(c)
	assert.Equal(t, 3, got.AbsOffset)
	assert.Equal(t, 3, got.Steps)
}

// stuckCursor never moves. Its owner alternates between two nodes when
// flicker is set.
type stuckCursor struct {
	owners  []*dom.Node
	flicker bool
	step    *int
}

func newStuckCursor(flicker bool, owners ...*dom.Node) stuckCursor {
	return stuckCursor{owners: owners, flicker: flicker, step: new(int)}
}

func (c stuckCursor) MoveStart(int) int {
	if c.flicker {
		*c.step++
	}
	return 0
}

func (c stuckCursor) MoveEnd(int) int {
	return 0
}

func (c stuckCursor) Collapse(bool) {}

func (c stuckCursor) Text() string {
	return ""
}

func (c stuckCursor) Owner() *dom.Node {
	return c.owners[*c.step%len(c.owners)]
}

func (c stuckCursor) MoveToNode(*dom.Node) error {
	return nil
}

func (c stuckCursor) Clone() host.FlatCursor {
	return c
}

func (c stuckCursor) Release() {}

func TestAbsoluteOffset_Termination(t *testing.T) {
	t.Parallel()

	para := containerOf(3, 4)
	span := para.ChildAt(1)

	t.Run("no progress stops immediately", func(t *testing.T) {
		t.Parallel()

		r := textrange.NewResolver(para)
		got := r.AbsoluteOffset(newStuckCursor(false, para))
		assert.Equal(t, 1, got.Steps)
		assert.Equal(t, 0, got.AbsOffset)
	})

	t.Run("flickering owner stops at the stall limit", func(t *testing.T) {
		t.Parallel()

		r := textrange.NewResolver(para, textrange.WithMaxStalls(5))
		got := r.AbsoluteOffset(newStuckCursor(true, para, span))
		assert.Equal(t, 6, got.Steps)
		assert.Equal(t, 0, got.AbsOffset)
	})

	t.Run("boundary outside the container", func(t *testing.T) {
		t.Parallel()

		r := textrange.NewResolver(para)
		got := r.AbsoluteOffset(newStuckCursor(false, dom.NewElement(dom.TagParagraph)))
		assert.Equal(t, textrange.OffsetFinder{NodeIndex: -1}, got)
	})
}

func TestElementOffset(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	r := textrange.NewResolver(f.para)

	for pos := 12; pos < 19; pos++ {
		c := f.cursorAt(pos)
		node, rel, ok := r.ElementOffset(c)
		c.Release()

		require.True(t, ok, "position %d", pos)
		assert.Same(t, f.em, node)
		assert.Equal(t, pos-12, rel)
	}

	c := f.cursorAt(3)
	defer c.Release()
	_, _, ok := r.ElementOffset(c)
	assert.False(t, ok, "flat text is not inside an element")
}

type fixedLocator int

func (l fixedLocator) ElementOffset(host.FlatCursor, *dom.Node) (int, bool) {
	return int(l), true
}

func TestLocate(t *testing.T) {
	t.Parallel()

	f := newFixtureFrom(t, "Hello World *Foo Bar* Foo Baz\n\nSecond block\n", 0)
	r := textrange.NewResolver(f.para)

	c := f.cursorAt(20)
	node, rel, ok := r.Locate(c)
	c.Release()
	require.True(t, ok)
	assert.Same(t, f.text2, node)
	assert.Equal(t, 1, rel)

	c = f.cursorAt(14)
	node, rel, ok = r.Locate(c)
	c.Release()
	require.True(t, ok)
	assert.Same(t, f.em, node)
	assert.Equal(t, 2, rel)

	c = f.cursorAt(30)
	_, _, ok = r.Locate(c)
	c.Release()
	assert.False(t, ok, "boundary in another block")

	custom := textrange.NewResolver(f.para, textrange.WithElementLocator(fixedLocator(5)))
	c = f.cursorAt(14)
	defer c.Release()
	node, rel, ok = custom.Locate(c)
	require.True(t, ok)
	assert.Same(t, f.em, node)
	assert.Equal(t, 5, rel)
}
