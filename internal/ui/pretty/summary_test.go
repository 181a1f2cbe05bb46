package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/flatrange/internal/ui/pretty"
	"github.com/yaklabco/flatrange/pkg/runner"
)

func TestFormatSummary_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed: 10,
		FilesChanged:   3,
		StepsTotal:     40,
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Summary")
	assert.Contains(t, result, "Files processed:   10")
	assert.Contains(t, result, "Files changed:     3")
	assert.Contains(t, result, "Steps:             40")
	assert.Contains(t, result, "Run passed")
	assert.NotContains(t, result, "Failed:")
	assert.NotContains(t, result, "Files errored:")
}

func TestFormatSummary_WithFailures(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed: 2,
		FilesErrored:   1,
		StepsTotal:     8,
		StepsFailed:    2,
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Files errored:     1")
	assert.Contains(t, result, "Failed:          2")
	assert.Contains(t, result, "Run finished with failures")
}

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "passed",
			stats: runner.Stats{FilesProcessed: 3, StepsTotal: 12},
			want:  "12 steps in 3 files, all passed\n",
		},
		{
			name:  "singular",
			stats: runner.Stats{FilesProcessed: 1, StepsTotal: 1},
			want:  "1 step in 1 file, all passed\n",
		},
		{
			name:  "failures and errors",
			stats: runner.Stats{FilesProcessed: 2, FilesErrored: 1, StepsTotal: 6, StepsFailed: 2},
			want:  "6 steps in 2 files, 2 failed, 1 file errored\n",
		},
		{
			name:  "changed",
			stats: runner.Stats{FilesProcessed: 2, FilesChanged: 2, StepsTotal: 4},
			want:  "4 steps in 2 files, all passed, 2 files changed\n",
		},
		{
			name:  "written",
			stats: runner.Stats{FilesProcessed: 1, FilesChanged: 1, FilesWritten: 1, StepsTotal: 2},
			want:  "2 steps in 1 file, all passed, 1 file written\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}
