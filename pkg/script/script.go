// Package script loads range scripts: ordered lists of range and selection
// operations replayed against an editing host.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Op names one script operation.
type Op string

// Range operations act on one range of the selection, picked by Step.Range.
const (
	OpSelectNode         Op = "select-node"
	OpSelectNodeContents Op = "select-node-contents"
	OpSetStart           Op = "set-start"
	OpSetEnd             Op = "set-end"
	OpCollapse           Op = "collapse"
	OpInsertNode         Op = "insert-node"
	OpDeleteContents     Op = "delete-contents"
	OpDetach             Op = "detach"
	OpCommit             Op = "commit"
	OpToString           Op = "to-string"
)

// Selection operations act on the selection as a whole.
const (
	OpAddRange          Op = "add-range"
	OpRemoveRange       Op = "remove-range"
	OpRemoveAllRanges   Op = "remove-all-ranges"
	OpCollapseToStart   Op = "collapse-to-start"
	OpCollapseToEnd     Op = "collapse-to-end"
	OpSelectionToString Op = "selection-to-string"
)

var allOps = []Op{
	OpSelectNode, OpSelectNodeContents, OpSetStart, OpSetEnd, OpCollapse,
	OpInsertNode, OpDeleteContents, OpDetach, OpCommit, OpToString,
	OpAddRange, OpRemoveRange, OpRemoveAllRanges, OpCollapseToStart,
	OpCollapseToEnd, OpSelectionToString,
}

// Ops returns every known operation.
func Ops() []Op {
	return slices.Clone(allOps)
}

// Valid reports whether o is a known operation.
func (o Op) Valid() bool {
	return slices.Contains(allOps, o)
}

// TargetsNode reports whether o positions a range on a node.
func (o Op) TargetsNode() bool {
	switch o {
	case OpSelectNode, OpSelectNodeContents, OpSetStart, OpSetEnd:
		return true
	default:
		return false
	}
}

// Step is one operation with its arguments.
type Step struct {
	Op Op `yaml:"op"`

	// Node is the index of a child of the focused container.
	Node *int `yaml:"node,omitempty"`

	// Container targets the focused container itself.
	Container bool `yaml:"container,omitempty"`

	// Orphan targets a node that is not part of the document.
	Orphan bool `yaml:"orphan,omitempty"`

	// Offset is the boundary offset for set-start and set-end.
	Offset int `yaml:"offset,omitempty"`

	// ToStart picks the boundary kept by collapse.
	ToStart bool `yaml:"to_start,omitempty"`

	// Markup is inserted by insert-node instead of a copy of Node.
	Markup string `yaml:"markup,omitempty"`

	// Range is the index of the range a range operation acts on.
	Range int `yaml:"range,omitempty"`
}

// Script is a named list of steps.
type Script struct {
	Name  string `yaml:"name,omitempty"`
	Steps []Step `yaml:"steps"`
}

// ErrInvalid is wrapped by every StepError.
var ErrInvalid = errors.New("invalid script")

// StepError describes a malformed step.
type StepError struct {
	Index   int
	Op      Op
	Message string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %s", e.Index, e.Op, e.Message)
}

// Unwrap returns ErrInvalid.
func (e *StepError) Unwrap() error {
	return ErrInvalid
}

// Parse decodes a script from YAML. Unknown keys are rejected.
func Parse(data []byte) (*Script, error) {
	s := &Script{}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	//nolint:gosec // G304: path comes from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Validate checks every step and joins the problems found.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalid)
	}

	var errs []error
	for i, step := range s.Steps {
		if err := step.validate(i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s Step) validate(index int) error {
	fail := func(format string, args ...any) error {
		return &StepError{Index: index, Op: s.Op, Message: fmt.Sprintf(format, args...)}
	}

	if !s.Op.Valid() {
		return fail("unknown operation")
	}
	if s.Range < 0 {
		return fail("range must be non-negative, got %d", s.Range)
	}
	if s.Node != nil && *s.Node < 0 {
		return fail("node must be non-negative, got %d", *s.Node)
	}

	targets := 0
	for _, set := range []bool{s.Node != nil, s.Container, s.Orphan} {
		if set {
			targets++
		}
	}

	switch {
	case s.Op.TargetsNode():
		if targets != 1 {
			return fail("exactly one of node, container or orphan is required")
		}
	case s.Op == OpInsertNode:
		if s.Markup != "" {
			targets++
		}
		if targets != 1 {
			return fail("exactly one of node, container, orphan or markup is required")
		}
	default:
		if targets > 0 || s.Markup != "" {
			return fail("operation takes no node")
		}
	}

	return nil
}
