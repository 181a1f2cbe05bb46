package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/flatrange/pkg/runner"
	"github.com/yaklabco/flatrange/pkg/script"
)

// JSONOutput is the top-level JSON structure of a run.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path      string     `json:"path"`
	Container string     `json:"container,omitempty"`
	Steps     []JSONStep `json:"steps"`
	Ranges    int        `json:"ranges"`
	Changed   bool       `json:"changed,omitempty"`
	Written   bool       `json:"written,omitempty"`
	Markdown  string     `json:"markdown,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// JSONStep represents the outcome of a single step.
type JSONStep struct {
	Index  int                `json:"index"`
	Op     string             `json:"op"`
	OK     bool               `json:"ok"`
	Output string             `json:"output,omitempty"`
	State  *script.RangeState `json:"state,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesProcessed int `json:"filesProcessed"`
	FilesErrored   int `json:"filesErrored"`
	FilesChanged   int `json:"filesChanged"`
	FilesWritten   int `json:"filesWritten"`
	StepsTotal     int `json:"stepsTotal"`
	StepsFailed    int `json:"stepsFailed"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.buildOutput(result)
	if err := r.encode(output); err != nil {
		return 0, err
	}
	return output.Summary.StepsFailed, nil
}

// Inspect implements Reporter.
func (r *JSONReporter) Inspect(_ context.Context, inspections []Inspection) error {
	if inspections == nil {
		inspections = []Inspection{}
	}
	return r.encode(inspections)
}

// Resolve implements Reporter.
func (r *JSONReporter) Resolve(_ context.Context, res *Resolution) error {
	return r.encode(res)
}

func (r *JSONReporter) encode(v any) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Summary = JSONSummary{
		FilesProcessed: result.Stats.FilesProcessed,
		FilesErrored:   result.Stats.FilesErrored,
		FilesChanged:   result.Stats.FilesChanged,
		FilesWritten:   result.Stats.FilesWritten,
		StepsTotal:     result.Stats.StepsTotal,
		StepsFailed:    result.Stats.StepsFailed,
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:  r.opts.displayPath(file.Path),
			Steps: make([]JSONStep, 0),
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}

		if res := file.Result; res != nil {
			fileResult.Container = res.Container
			fileResult.Changed = res.Changed
			fileResult.Written = res.Written
			if res.Changed {
				fileResult.Markdown = res.Markdown
			}

			if res.Report != nil {
				fileResult.Ranges = res.Report.Ranges
				for _, outcome := range res.Report.Outcomes {
					step := JSONStep{
						Index:  outcome.Index,
						Op:     string(outcome.Op),
						OK:     outcome.OK,
						Output: outcome.Output,
						State:  outcome.State,
					}
					if outcome.Err != nil {
						step.Error = outcome.Err.Error()
					}
					fileResult.Steps = append(fileResult.Steps, step)
				}
			}
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}
