package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value. If false, the
	// template is mostly commented out.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate()
	}
	return generateMinimalTemplate(), nil
}

func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Markdown flavor: commonmark or gfm
flavor: commonmark

# Index of the paragraph or heading bound as the range container
# focus: 0

# Offset probe limits
# probe:
#   max_steps: 1048576
#   max_stalls: 64

# File patterns to skip when running over directories (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`)

	return buf.Bytes()
}

func generateFullTemplate() ([]byte, error) {
	cfg := NewConfig()
	cfg.Ignore = []string{"vendor/**", "node_modules/**", ".git/**"}

	return cfg.ToYAMLWithHeader(DefaultTemplateHeader() + `
#
# This template lists every setting with its default value.`)
}

// templateToJSON renders the full default configuration as JSON.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()

	doc := map[string]any{
		"flavor": cfg.Flavor,
		"focus":  cfg.Focus,
		"probe": map[string]any{
			"max_steps":  cfg.Probe.MaxSteps,
			"max_stalls": cfg.Probe.MaxStalls,
		},
		"ignore": []string{"vendor/**", "node_modules/**", ".git/**"},
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# flatrange configuration
# See: https://github.com/yaklabco/flatrange`
}
