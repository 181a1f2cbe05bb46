package textrange

import (
	"io"

	"github.com/charmbracelet/log"
)

// Probe limits applied when no option overrides them.
const (
	DefaultMaxSteps  = 1 << 20
	DefaultMaxStalls = 64
)

// Option configures ranges, selections and resolvers.
type Option func(*settings)

type settings struct {
	logger    *log.Logger
	maxSteps  int
	maxStalls int
	locator   ElementLocator
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:    log.New(io.Discard),
		maxSteps:  DefaultMaxSteps,
		maxStalls: DefaultMaxStalls,
		locator:   DifferentialLocator{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxSteps caps the number of backward probe steps.
func WithMaxSteps(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxSteps = n
		}
	}
}

// WithMaxStalls caps consecutive probe steps that report no movement.
func WithMaxStalls(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxStalls = n
		}
	}
}

// WithElementLocator replaces the element offset measurement.
func WithElementLocator(l ElementLocator) Option {
	return func(s *settings) {
		if l != nil {
			s.locator = l
		}
	}
}
