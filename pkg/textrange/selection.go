package textrange

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/flatrange/pkg/host"
)

// Selection is an ordered set of ranges. Ranges are owned by the selection
// holding them and are detached when removed.
type Selection struct {
	ranges []*Range
}

// NewSelection creates a selection holding one range that reflects the
// host's live selection.
func NewSelection(h host.Host, opts ...Option) (*Selection, error) {
	r, err := NewRange(h, opts...)
	if err != nil {
		return nil, err
	}
	return &Selection{ranges: []*Range{r}}, nil
}

// AddRange appends r.
func (s *Selection) AddRange(r *Range) {
	if r == nil {
		return
	}
	s.ranges = append(s.ranges, r)
}

// GetRangeAt returns the range at index, or ErrIndexOutOfRange.
func (s *Selection) GetRangeAt(index int) (*Range, error) {
	if index < 0 || index >= len(s.ranges) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.ranges))
	}
	return s.ranges[index], nil
}

// RemoveRange detaches and removes r. It reports whether r was present.
func (s *Selection) RemoveRange(r *Range) bool {
	idx := slices.Index(s.ranges, r)
	if idx < 0 {
		return false
	}

	r.Detach()
	s.ranges = slices.Delete(s.ranges, idx, idx+1)
	return true
}

// RemoveAllRanges detaches and removes every range. It reports whether any
// range was removed.
func (s *Selection) RemoveAllRanges() bool {
	if len(s.ranges) == 0 {
		return false
	}

	for _, r := range s.ranges {
		r.Detach()
	}
	s.ranges = nil
	return true
}

// CollapseToStart collapses the first range to its start and commits it.
func (s *Selection) CollapseToStart() bool {
	if len(s.ranges) == 0 {
		return false
	}
	return collapseAndCommit(s.ranges[0], true)
}

// CollapseToEnd collapses the last range to its end and commits it.
func (s *Selection) CollapseToEnd() bool {
	if len(s.ranges) == 0 {
		return false
	}
	return collapseAndCommit(s.ranges[len(s.ranges)-1], false)
}

func collapseAndCommit(r *Range, toStart bool) bool {
	r.Collapse(toStart)
	return r.Commit() == nil
}

// RangeCount returns the number of ranges.
func (s *Selection) RangeCount() int {
	return len(s.ranges)
}

// Ranges returns a copy of the range list.
func (s *Selection) Ranges() []*Range {
	return slices.Clone(s.ranges)
}

// String joins the text of every range with spaces.
func (s *Selection) String() string {
	parts := make([]string, len(s.ranges))
	for i, r := range s.ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}
