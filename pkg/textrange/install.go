package textrange

import "github.com/yaklabco/flatrange/pkg/host"

// RangeFactory creates ranges and hands out the environment's selection.
type RangeFactory interface {
	CreateRange() (*Range, error)
	GetSelection() (*Selection, error)
}

// Environment is where a range factory is looked up and installed.
type Environment interface {
	RangeFactory() RangeFactory
	SetRangeFactory(f RangeFactory)
}

// Factory is the RangeFactory backed by this package.
type Factory struct {
	host      host.Host
	opts      []Option
	selection *Selection
}

var _ RangeFactory = (*Factory)(nil)

// NewFactory creates a factory for h.
func NewFactory(h host.Host, opts ...Option) *Factory {
	return &Factory{host: h, opts: opts}
}

// CreateRange returns a new range anchored at the live selection.
func (f *Factory) CreateRange() (*Range, error) {
	return NewRange(f.host, f.opts...)
}

// GetSelection returns the environment's selection, creating it on first use.
func (f *Factory) GetSelection() (*Selection, error) {
	if f.selection != nil {
		return f.selection, nil
	}

	sel, err := NewSelection(f.host, f.opts...)
	if err != nil {
		return nil, err
	}
	f.selection = sel
	return sel, nil
}

// Install registers a Factory for h in env unless env already has one.
// It reports whether it installed.
func Install(env Environment, h host.Host, opts ...Option) bool {
	if env.RangeFactory() != nil {
		return false
	}
	env.SetRangeFactory(NewFactory(h, opts...))
	return true
}
