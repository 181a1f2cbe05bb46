// Package config defines core configuration types for flatrange.
// These types are pure data structures with no dependency on the loader.
package config

// Flavor specifies the Markdown flavor used to build documents.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// IsValid returns true if the flavor is known.
func (f Flavor) IsValid() bool {
	switch f {
	case FlavorCommonMark, FlavorGFM:
		return true
	default:
		return false
	}
}

// OutputFormat specifies how run results are rendered.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// Probe limits match the defaults of the textrange package.
const (
	DefaultMaxSteps  = 1 << 20
	DefaultMaxStalls = 64
)

// ProbeConfig bounds the backward offset probe.
type ProbeConfig struct {
	// MaxSteps caps the number of probe iterations per boundary.
	MaxSteps int `mapstructure:"max_steps" yaml:"max_steps"`

	// MaxStalls caps consecutive iterations that report no movement.
	MaxStalls int `mapstructure:"max_stalls" yaml:"max_stalls"`
}

// Config is the root configuration structure for flatrange.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `mapstructure:"flavor" yaml:"flavor"`

	// Focus is the index of the text block (paragraph or heading) that
	// becomes the bound container.
	Focus int `mapstructure:"focus" yaml:"focus"`

	// Probe bounds the offset probe.
	Probe ProbeConfig `mapstructure:"probe" yaml:"probe"`

	// Ignore contains glob patterns for files to skip when a directory is
	// given to run.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Write saves edited documents back to disk.
	Write bool `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Flavor: FlavorCommonMark,
		Focus:  0,
		Probe: ProbeConfig{
			MaxSteps:  DefaultMaxSteps,
			MaxStalls: DefaultMaxStalls,
		},
		Format: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}
