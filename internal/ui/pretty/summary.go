package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/flatrange/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 steps in 3 files, 2 failed, 1 file changed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	parts := []string{fmt.Sprintf("%d %s in %d %s",
		stats.StepsTotal, plural(stats.StepsTotal, "step", "steps"),
		stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))}

	if stats.StepsFailed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.StepsFailed)))
	} else {
		parts = append(parts, s.Success.Render("all passed"))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s errored",
			stats.FilesErrored, plural(stats.FilesErrored, wordFile, wordFiles))))
	}

	if stats.FilesChanged > 0 {
		verb := "changed"
		if stats.FilesWritten > 0 {
			verb = "written"
		}
		n := max(stats.FilesWritten, stats.FilesChanged)
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s %s", n, plural(n, wordFile, wordFiles), verb)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files processed:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesErrored > 0 {
		builder.WriteString("  Files errored:     " +
			s.Error.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	if stats.FilesChanged > 0 {
		builder.WriteString("  Files changed:     " +
			s.SummaryValue.Render(strconv.Itoa(stats.FilesChanged)) + "\n")
	}
	if stats.FilesWritten > 0 {
		builder.WriteString("  Files written:     " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Steps:             " +
		s.SummaryValue.Render(strconv.Itoa(stats.StepsTotal)) + "\n")
	if stats.StepsFailed > 0 {
		builder.WriteString("    Failed:          " +
			s.Failure.Render(strconv.Itoa(stats.StepsFailed)) + "\n")
	}

	builder.WriteString("\n")

	switch {
	case stats.StepsFailed > 0 || stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Run finished with failures"))
	default:
		builder.WriteString(s.Success.Render("Run passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
