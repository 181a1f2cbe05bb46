package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/flatrange/internal/ui/pretty"
	"github.com/yaklabco/flatrange/pkg/runner"
	"github.com/yaklabco/flatrange/pkg/script"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	line   lipgloss.Style
	width  int
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)

	width := opts.Width
	if width <= 0 {
		width = pretty.TerminalWidth(opts.Writer)
	}

	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		line:   lipgloss.NewStyle().MaxWidth(width),
		width:  width,
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to process."))
		}
		return 0, nil
	}

	var failed int
	for _, file := range result.Files {
		path := r.styles.FilePath.Render(r.opts.displayPath(file.Path))

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
			continue
		}
		if file.Result == nil {
			continue
		}

		fmt.Fprintf(r.bw, "%s %s\n", path, r.styles.Location.Render(file.Result.Container))

		if report := file.Result.Report; report != nil {
			for _, outcome := range report.Outcomes {
				r.writeln(r.formatStep(outcome))
			}
			failed += report.Failures()
		}

		switch {
		case file.Result.Written:
			fmt.Fprintln(r.bw, "  "+r.styles.Success.Render("written"))
		case file.Result.Changed:
			fmt.Fprintln(r.bw, "  "+r.styles.Dim.Render("changed (not written)"))
		}

		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return failed, nil
}

func (r *TextReporter) writeln(s string) {
	fmt.Fprintln(r.bw, r.line.Render(s))
}

func (r *TextReporter) formatStep(outcome script.Outcome) string {
	index := r.styles.Dim.Render(fmt.Sprintf("%3d", outcome.Index))
	op := r.styles.Op.Render(fmt.Sprintf("%-20s", outcome.Op))

	var status string
	switch {
	case outcome.Err != nil:
		return fmt.Sprintf("%s %s %s %s", index, op, r.styles.Error.Render("error"),
			r.styles.Error.Render(outcome.Err.Error()))
	case outcome.OK:
		status = r.styles.Success.Render("ok   ")
	default:
		status = r.styles.Warning.Render("false")
	}

	detail := ""
	switch {
	case outcome.Op == script.OpToString || outcome.Op == script.OpSelectionToString:
		detail = r.styles.Output.Render(strconv.Quote(pretty.Truncate(outcome.Output, r.width/2)))
	case outcome.State != nil:
		detail = r.formatState(outcome.State)
	}

	return fmt.Sprintf("%s %s %s %s", index, op, status, detail)
}

func (r *TextReporter) formatState(state *script.RangeState) string {
	if state.Empty {
		return r.styles.Dim.Render("empty")
	}

	location := r.styles.Location.Render(fmt.Sprintf("%s %d..%d", state.StartPath, state.StartOffset, state.EndOffset))
	return location + " " + r.styles.FormatHighlight(state.NodeText, state.StartOffset, state.EndOffset)
}

// Inspect implements Reporter.
func (r *TextReporter) Inspect(_ context.Context, inspections []Inspection) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	for _, in := range inspections {
		fmt.Fprintf(r.bw, "%s %s %s\n",
			r.styles.FilePath.Render(r.opts.displayPath(in.Path)),
			r.styles.Location.Render(in.Container),
			r.styles.Dim.Render(fmt.Sprintf("(focus %d, %d chars)", in.Focus, in.Length)),
		)
		for _, child := range in.Children {
			r.writeln(fmt.Sprintf("%s %s %s %s",
				r.styles.Dim.Render(fmt.Sprintf("%3d", child.Index)),
				r.styles.Op.Render(fmt.Sprintf("%-8s", child.Name)),
				r.styles.Location.Render(fmt.Sprintf("%4d..%-4d", child.Start, child.End)),
				r.styles.Output.Render(strconv.Quote(child.Text)),
			))
		}
		fmt.Fprintln(r.bw)
	}
	return nil
}

// Resolve implements Reporter.
func (r *TextReporter) Resolve(_ context.Context, res *Resolution) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if res == nil {
		return nil
	}

	fmt.Fprintf(r.bw, "%s %s %s\n",
		r.styles.FilePath.Render(r.opts.displayPath(res.Path)),
		r.styles.Location.Render(res.Container),
		r.styles.Dim.Render(fmt.Sprintf("(focus %d, %d chars)", res.Focus, res.Length)),
	)
	for _, hit := range res.Hits {
		offset := r.styles.Bold.Render(fmt.Sprintf("%4d", hit.Offset))
		if !hit.Found {
			r.writeln(fmt.Sprintf("%s -> %s", offset, r.styles.Warning.Render("not found")))
			continue
		}
		r.writeln(fmt.Sprintf("%s -> %s %s", offset,
			r.styles.Location.Render(hit.Node), r.styles.SummaryValue.Render(fmt.Sprintf("+%d", hit.Rel))))
	}
	return nil
}
