// Package reporter renders runner results, container inspections and
// offset resolutions as styled text or JSON.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/flatrange/pkg/runner"
)

// Reporter formats and writes results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of failed steps and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)

	// Inspect writes the child spans of each focused container.
	Inspect(ctx context.Context, inspections []Inspection) error

	// Resolve writes the child owning each requested offset.
	Resolve(ctx context.Context, resolution *Resolution) error
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
