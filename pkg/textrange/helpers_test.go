package textrange_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/flatrange/pkg/dom"
	"github.com/yaklabco/flatrange/pkg/host/memhost"
	gm "github.com/yaklabco/flatrange/pkg/parser/goldmark"
)

// fixture is the container "Hello World *Foo Bar* Foo Baz" with children
// [text "Hello World ", em "Foo Bar", text " Foo Baz"].
type fixture struct {
	host  *memhost.Host
	para  *dom.Node
	text0 *dom.Node
	em    *dom.Node
	text2 *dom.Node
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	return newFixtureFrom(t, "Hello World *Foo Bar* Foo Baz\n", 0)
}

func newFixtureFrom(t testing.TB, markdown string, focus int) *fixture {
	t.Helper()

	parser := gm.New(gm.FlavorGFM)
	doc, err := parser.Parse(context.Background(), "fixture.md", []byte(markdown))
	require.NoError(t, err)

	blocks := dom.TextBlocks(doc.Root)
	require.Greater(t, len(blocks), focus)
	para := blocks[focus]

	return &fixture{
		host:  memhost.New(doc.Root, memhost.WithParser(parser), memhost.WithFocus(para)),
		para:  para,
		text0: para.ChildAt(0),
		em:    para.ChildAt(1),
		text2: para.ChildAt(2),
	}
}

// cursorAt returns a collapsed cursor at container offset pos.
func (f *fixture) cursorAt(pos int) *memhost.Cursor {
	c := f.host.NewCursor()
	c.MoveStart(pos)
	c.Collapse(true)
	return c.(*memhost.Cursor)
}
