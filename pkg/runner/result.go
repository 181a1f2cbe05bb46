package runner

import "github.com/yaklabco/flatrange/pkg/script"

// FileResult is the outcome of running the script over one file.
type FileResult struct {
	// Container is the path of the focused block inside the document.
	Container string

	// Report holds the step outcomes.
	Report *script.Report

	// Markdown is the document rendered after the run.
	Markdown string

	// Changed reports whether the steps edited the document.
	Changed bool

	// Written reports whether the edited document was saved.
	Written bool
}

// FileOutcome wraps FileResult with the file path.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result is nil when the file could not be processed.
	Result *FileResult

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int
	FilesChanged    int
	FilesWritten    int
	StepsTotal      int
	StepsFailed     int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered like the discovered paths.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any step failed or any file errored.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.StepsFailed > 0 || r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++
	if outcome.Result.Changed {
		r.Stats.FilesChanged++
	}
	if outcome.Result.Written {
		r.Stats.FilesWritten++
	}
	if report := outcome.Result.Report; report != nil {
		r.Stats.StepsTotal += len(report.Outcomes)
		r.Stats.StepsFailed += report.Failures()
	}
}
