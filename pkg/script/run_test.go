package script_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/flatrange/pkg/dom"
	"github.com/yaklabco/flatrange/pkg/host"
	"github.com/yaklabco/flatrange/pkg/host/memhost"
	gm "github.com/yaklabco/flatrange/pkg/parser/goldmark"
	"github.com/yaklabco/flatrange/pkg/script"
	"github.com/yaklabco/flatrange/pkg/textrange"
)

const sample = "Hello World *Foo Bar* Foo Baz\n"

func newHost(t *testing.T) (*memhost.Host, *dom.Node) {
	t.Helper()

	parser := gm.New(gm.FlavorGFM)
	doc, err := parser.Parse(context.Background(), "sample.md", []byte(sample))
	require.NoError(t, err)

	para := dom.TextBlocks(doc.Root)[0]
	return memhost.New(doc.Root, memhost.WithParser(parser), memhost.WithFocus(para)), para
}

func run(t *testing.T, h host.Host, yml string) *script.Report {
	t.Helper()

	s, err := script.Parse([]byte(yml))
	require.NoError(t, err)

	runner, err := script.New(h)
	require.NoError(t, err)

	report, err := runner.Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, len(s.Steps))
	return report
}

func TestRun_SelectAndNarrow(t *testing.T) {
	t.Parallel()

	h, _ := newHost(t)
	report := run(t, h, `
steps:
  - op: select-node
    node: 1
  - op: set-start
    node: 0
    offset: 6
  - op: set-end
    node: 0
    offset: 11
  - op: to-string
`)

	assert.Zero(t, report.Failures())

	em := report.Outcomes[0].State
	require.NotNil(t, em)
	assert.Equal(t, "#document/p[0]/em[1]", em.StartPath)
	assert.Equal(t, 0, em.StartOffset)
	assert.Equal(t, 7, em.EndOffset)
	assert.Equal(t, "Foo Bar", em.Text)

	assert.True(t, report.Outcomes[1].OK)
	assert.Equal(t, "World ", report.Outcomes[1].State.Text)

	final := report.Outcomes[2].State
	assert.Equal(t, "#document/p[0]/#text[0]", final.StartPath)
	assert.Equal(t, 6, final.StartOffset)
	assert.Equal(t, 11, final.EndOffset)

	assert.Equal(t, "World", report.Outcomes[3].Output)
	assert.Equal(t, 1, report.Ranges)
}

func TestRun_StepErrorsDoNotStopTheRun(t *testing.T) {
	t.Parallel()

	h, _ := newHost(t)
	report := run(t, h, `
steps:
  - op: select-node
    node: 1
  - op: set-start
    orphan: true
  - op: select-node
    node: 9
  - op: set-end
    node: 1
    offset: 99
  - op: to-string
    range: 3
  - op: to-string
`)

	assert.Equal(t, 4, report.Failures())

	require.ErrorIs(t, report.Outcomes[1].Err, textrange.ErrNotAttached)
	assert.False(t, report.Outcomes[1].OK)
	require.ErrorIs(t, report.Outcomes[2].Err, script.ErrNoSuchNode)
	require.ErrorIs(t, report.Outcomes[3].Err, textrange.ErrOffsetOutOfRange)
	require.ErrorIs(t, report.Outcomes[4].Err, textrange.ErrIndexOutOfRange)
	assert.Nil(t, report.Outcomes[4].State)

	assert.Equal(t, "Foo Bar", report.Outcomes[5].Output, "failed steps leave the range in place")
}

func TestRun_DeleteContents(t *testing.T) {
	t.Parallel()

	h, para := newHost(t)
	report := run(t, h, `
steps:
  - op: select-node
    node: 1
  - op: delete-contents
`)

	assert.Zero(t, report.Failures())
	assert.Equal(t, "Hello World  Foo Baz", dom.TextContent(para))
	assert.True(t, report.Outcomes[1].State.Empty)
}

func TestRun_InsertNode(t *testing.T) {
	t.Parallel()

	h, para := newHost(t)
	report := run(t, h, `
steps:
  - op: set-start
    node: 0
    offset: 6
  - op: collapse
    to_start: true
  - op: insert-node
    markup: "**big** "
`)

	assert.Zero(t, report.Failures())
	assert.Equal(t, "Hello big World Foo Bar Foo Baz", dom.TextContent(para))
	assert.Len(t, dom.FindByTag(para, dom.TagStrong), 1)

	state := report.Outcomes[2].State
	assert.Equal(t, " World ", dom.TextContent(para.ChildAt(2)))
	assert.Equal(t, "#document/p[0]/#text[2]", state.StartPath)
	assert.Equal(t, 1, state.StartOffset)
}

func TestRun_InsertNodeCopiesChild(t *testing.T) {
	t.Parallel()

	h, para := newHost(t)
	report := run(t, h, `
steps:
  - op: insert-node
    node: 1
`)

	assert.Zero(t, report.Failures())
	assert.Equal(t, "Foo BarHello World Foo Bar Foo Baz", dom.TextContent(para))
	assert.Len(t, dom.FindByTag(para, dom.TagEmphasis), 2)
}

func TestRun_SelectionOps(t *testing.T) {
	t.Parallel()

	h, _ := newHost(t)
	report := run(t, h, `
steps:
  - op: set-start
    node: 0
    offset: 6
  - op: set-end
    node: 0
    offset: 11
  - op: add-range
  - op: selection-to-string
  - op: collapse-to-end
  - op: remove-range
    range: 1
  - op: remove-range
    range: 1
  - op: remove-all-ranges
  - op: remove-all-ranges
  - op: collapse-to-start
`)

	assert.Equal(t, "World", report.Outcomes[2].State.Text, "new ranges start at the live selection")
	assert.Equal(t, "World World", report.Outcomes[3].Output)

	collapsed := report.Outcomes[4]
	assert.True(t, collapsed.OK)
	assert.Equal(t, 11, collapsed.State.StartOffset)
	assert.Equal(t, 11, collapsed.State.EndOffset)

	assert.True(t, report.Outcomes[5].OK)
	require.ErrorIs(t, report.Outcomes[6].Err, textrange.ErrIndexOutOfRange)
	assert.True(t, report.Outcomes[7].OK)
	assert.False(t, report.Outcomes[8].OK)
	assert.False(t, report.Outcomes[9].OK)
	assert.Zero(t, report.Ranges)
	assert.Equal(t, 1, h.LiveCursors(), "only the committed selection is still held")
}

func TestRun_DetachAndCommit(t *testing.T) {
	t.Parallel()

	h, _ := newHost(t)
	report := run(t, h, `
steps:
  - op: detach
  - op: commit
  - op: collapse
  - op: select-node
    container: true
  - op: commit
`)

	assert.True(t, report.Outcomes[0].State.Empty)
	require.ErrorIs(t, report.Outcomes[1].Err, textrange.ErrDetached)
	assert.True(t, report.Outcomes[2].State.Empty)
	assert.Equal(t, "Hello World Foo Bar Foo Baz", report.Outcomes[3].State.Text)
	require.NoError(t, report.Outcomes[4].Err)
	assert.Equal(t, "Hello World Foo Bar Foo Baz", h.Active().Text())
}

func TestNew_InstallsFactory(t *testing.T) {
	t.Parallel()

	h, _ := newHost(t)
	require.Nil(t, h.RangeFactory())

	runner, err := script.New(h)
	require.NoError(t, err)
	require.NotNil(t, h.RangeFactory())

	shared, err := h.RangeFactory().GetSelection()
	require.NoError(t, err)
	assert.Same(t, shared, runner.Selection())
}

// plainHost hides the environment methods of a memhost.
type plainHost struct {
	host.Host
}

func TestNew_WithoutEnvironment(t *testing.T) {
	t.Parallel()

	h, _ := newHost(t)
	report := run(t, plainHost{h}, "steps:\n  - op: select-node\n    node: 2\n")

	assert.Equal(t, " Foo Baz", report.Outcomes[0].State.Text)
	assert.Nil(t, h.RangeFactory())
}

func TestNew_NoFocus(t *testing.T) {
	t.Parallel()

	h := memhost.New(dom.NewDocument())
	_, err := script.New(h)
	require.ErrorIs(t, err, textrange.ErrNoFocus)
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	h, _ := newHost(t)
	runner, err := script.New(h)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := runner.Run(ctx, &script.Script{Steps: []script.Step{{Op: script.OpDetach}}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Outcomes)
	assert.Equal(t, 1, report.Ranges)
}
