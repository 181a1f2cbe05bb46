package configloader

import (
	"slices"

	"github.com/yaklabco/flatrange/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
//   - Scalar values: override overwrites base if override is non-zero
//   - Probe limits: merged field by field
//   - Slices: override replaces base entirely if override is non-nil
//
// A zero focus in override cannot reset a non-zero base; callers that need
// that set the field directly after Load.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Focus != 0 {
		result.Focus = override.Focus
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Write {
		result.Write = true
	}

	if override.Probe.MaxSteps != 0 {
		result.Probe.MaxSteps = override.Probe.MaxSteps
	}
	if override.Probe.MaxStalls != 0 {
		result.Probe.MaxStalls = override.Probe.MaxStalls
	}

	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
