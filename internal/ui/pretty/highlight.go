package pretty

import (
	"strings"

	"github.com/yaklabco/flatrange/pkg/dom"
)

// FormatHighlight renders text with the graphemes in [start, end) in the
// Highlight style. Offsets are clamped to the text; a collapsed span is
// marked with a caret.
func (s *Styles) FormatHighlight(text string, start, end int) string {
	clusters := dom.Graphemes(text)
	start = min(max(start, 0), len(clusters))
	end = min(max(end, start), len(clusters))

	var builder strings.Builder
	builder.WriteString(strings.Join(clusters[:start], ""))
	if start == end {
		builder.WriteString(s.Highlight.Render("|"))
	} else {
		builder.WriteString(s.Highlight.Render(strings.Join(clusters[start:end], "")))
	}
	builder.WriteString(strings.Join(clusters[end:], ""))
	return builder.String()
}

// Truncate shortens s to at most width graphemes, marking the cut with an
// ellipsis. Widths below one leave s unchanged.
func Truncate(s string, width int) string {
	if width < 1 {
		return s
	}
	clusters := dom.Graphemes(s)
	if len(clusters) <= width {
		return s
	}
	return strings.Join(clusters[:width-1], "") + "…"
}
