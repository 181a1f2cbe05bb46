package script

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/flatrange/pkg/dom"
	"github.com/yaklabco/flatrange/pkg/host"
	"github.com/yaklabco/flatrange/pkg/textrange"
)

// ErrNoSuchNode is returned when a step names a container child that does
// not exist.
var ErrNoSuchNode = errors.New("no such container child")

// RangeState is a snapshot of a range after a step.
type RangeState struct {
	Empty       bool   `json:"empty"`
	StartPath   string `json:"startPath,omitempty"`
	StartOffset int    `json:"startOffset"`
	EndPath     string `json:"endPath,omitempty"`
	EndOffset   int    `json:"endOffset"`
	Text        string `json:"text"`

	// NodeText is the rendered text of the start container.
	NodeText string `json:"nodeText,omitempty"`
}

// Outcome is the result of one step.
type Outcome struct {
	Index int
	Op    Op

	// OK is the boolean result of the operation where it has one
	// (set-start, set-end, remove-range, ...), otherwise whether it succeeded.
	OK bool

	// Output holds the text produced by to-string and selection-to-string.
	Output string

	// State is the affected range after the step. Nil for operations that
	// leave no single range to report.
	State *RangeState

	Err error
}

// Report collects the outcomes of a run.
type Report struct {
	Script   string
	Outcomes []Outcome

	// Ranges is the number of ranges left in the selection.
	Ranges int
}

// Failures returns the number of steps that returned an error.
func (r *Report) Failures() int {
	if r == nil {
		return 0
	}

	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// Runner replays scripts against one host through its selection.
type Runner struct {
	host      host.Host
	factory   textrange.RangeFactory
	selection *textrange.Selection
	logger    *log.Logger
}

// Option configures a Runner.
type Option func(*runnerConfig)

type runnerConfig struct {
	logger    *log.Logger
	rangeOpts []textrange.Option
}

// WithLogger sets the logger for step events.
func WithLogger(l *log.Logger) Option {
	return func(c *runnerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRangeOptions passes options to every range the runner creates.
func WithRangeOptions(opts ...textrange.Option) Option {
	return func(c *runnerConfig) {
		c.rangeOpts = append(c.rangeOpts, opts...)
	}
}

// New creates a runner for h. When h is also a textrange.Environment the
// range factory is installed there and its shared selection is used.
func New(h host.Host, opts ...Option) (*Runner, error) {
	cfg := runnerConfig{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&cfg)
	}

	var factory textrange.RangeFactory
	if env, ok := h.(textrange.Environment); ok {
		textrange.Install(env, h, cfg.rangeOpts...)
		factory = env.RangeFactory()
	} else {
		factory = textrange.NewFactory(h, cfg.rangeOpts...)
	}

	selection, err := factory.GetSelection()
	if err != nil {
		return nil, fmt.Errorf("get selection: %w", err)
	}

	return &Runner{
		host:      h,
		factory:   factory,
		selection: selection,
		logger:    cfg.logger,
	}, nil
}

// Selection returns the selection the runner drives.
func (r *Runner) Selection() *textrange.Selection {
	return r.selection
}

// Run applies every step in order. Step errors are recorded in the report
// and do not stop the run; only cancellation does.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	report := &Report{
		Script:   s.Name,
		Outcomes: make([]Outcome, 0, len(s.Steps)),
	}

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			report.Ranges = r.selection.RangeCount()
			return report, fmt.Errorf("run cancelled: %w", err)
		}

		outcome := r.apply(step)
		outcome.Index = i
		outcome.Op = step.Op

		if outcome.Err != nil {
			r.logger.Debug("step failed", "step", i, "op", step.Op, "err", outcome.Err)
		} else {
			r.logger.Debug("step applied", "step", i, "op", step.Op, "ok", outcome.OK)
		}

		report.Outcomes = append(report.Outcomes, outcome)
	}

	report.Ranges = r.selection.RangeCount()
	return report, nil
}

func (r *Runner) apply(step Step) Outcome {
	sel := r.selection

	switch step.Op {
	case OpAddRange:
		rng, err := r.factory.CreateRange()
		if err != nil {
			return Outcome{Err: err}
		}
		sel.AddRange(rng)
		return Outcome{OK: true, State: stateOf(rng)}

	case OpRemoveRange:
		rng, err := sel.GetRangeAt(step.Range)
		if err != nil {
			return Outcome{Err: err}
		}
		return Outcome{OK: sel.RemoveRange(rng)}

	case OpRemoveAllRanges:
		return Outcome{OK: sel.RemoveAllRanges()}

	case OpCollapseToStart:
		ok := sel.CollapseToStart()
		return Outcome{OK: ok, State: stateAt(sel, 0)}

	case OpCollapseToEnd:
		ok := sel.CollapseToEnd()
		return Outcome{OK: ok, State: stateAt(sel, sel.RangeCount()-1)}

	case OpSelectionToString:
		return Outcome{OK: true, Output: sel.String()}
	}

	rng, err := sel.GetRangeAt(step.Range)
	if err != nil {
		return Outcome{Err: err}
	}

	out := r.applyRange(rng, step)
	out.State = stateOf(rng)
	return out
}

func (r *Runner) applyRange(rng *textrange.Range, step Step) Outcome {
	var (
		ok  = true
		out Outcome
		err error
	)

	switch step.Op {
	case OpSelectNode, OpSelectNodeContents, OpSetStart, OpSetEnd:
		var node *dom.Node
		node, err = r.target(step)
		if err != nil {
			break
		}

		switch step.Op {
		case OpSelectNode:
			err = rng.SelectNode(node)
		case OpSelectNodeContents:
			err = rng.SelectNodeContents(node)
		case OpSetStart:
			ok, err = rng.SetStart(node, step.Offset)
		default:
			ok, err = rng.SetEnd(node, step.Offset)
		}

	case OpCollapse:
		rng.Collapse(step.ToStart)

	case OpInsertNode:
		var ref *dom.Node
		ref, err = r.reference(step)
		if err == nil {
			_, err = rng.InsertNode(ref)
		}

	case OpDeleteContents:
		err = rng.DeleteContents()

	case OpDetach:
		rng.Detach()

	case OpCommit:
		err = rng.Commit()

	case OpToString:
		out.Output = rng.String()
	}

	out.OK = ok && err == nil
	out.Err = err
	return out
}

// target returns the node a positioning step names.
func (r *Runner) target(step Step) (*dom.Node, error) {
	if step.Orphan {
		return dom.Build(dom.TagSpan, dom.NewText("orphan")), nil
	}

	container := r.host.Container()
	if container == nil {
		return nil, textrange.ErrNoFocus
	}
	if step.Container {
		return container, nil
	}

	child := container.ChildAt(*step.Node)
	if child == nil {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoSuchNode, *step.Node, container.ChildCount())
	}
	return child, nil
}

// reference returns the node an insert-node step injects.
func (r *Runner) reference(step Step) (*dom.Node, error) {
	if step.Markup != "" {
		return dom.NewText(step.Markup), nil
	}

	node, err := r.target(step)
	if err != nil {
		return nil, err
	}
	return dom.Clone(node), nil
}

func stateAt(sel *textrange.Selection, index int) *RangeState {
	rng, err := sel.GetRangeAt(index)
	if err != nil {
		return nil
	}
	return stateOf(rng)
}

func stateOf(rng *textrange.Range) *RangeState {
	if rng.IsEmpty() {
		return &RangeState{Empty: true, Text: rng.String()}
	}

	return &RangeState{
		StartPath:   dom.Path(rng.StartContainer()),
		StartOffset: rng.StartOffset(),
		EndPath:     dom.Path(rng.EndContainer()),
		EndOffset:   rng.EndOffset(),
		Text:        rng.String(),
		NodeText:    dom.TextContent(rng.StartContainer()),
	}
}
