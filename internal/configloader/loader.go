// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, layered merging,
// environment variable support and validation.
package configloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/flatrange/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// Logger receives one debug record per resolution step. Nil discards.
	Logger *log.Logger

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (FLATRANGE_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.flatrange.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/flatrange/config.yaml)
//  6. System config (/etc/flatrange/config.yaml)
//  7. Defaults
//
// Each file is decoded on top of the layers below it, so keys a file
// leaves out keep their lower-layer value and keys it sets win, zero
// values included.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []struct {
		name    string
		path    string
		skipped bool
	}{
		{name: "system", path: paths.System, skipped: opts.IgnoreSystemConfig},
		{name: "user", path: paths.User, skipped: opts.IgnoreUserConfig},
		{name: "project", path: paths.Project, skipped: opts.IgnoreProjectConfig},
		{name: "explicit", path: paths.Explicit},
	}

	for _, layer := range layers {
		if layer.skipped || layer.path == "" {
			continue
		}

		next, warnings, err := loadConfigFile(layer.path, cfg)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}

		cfg = next
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
		result.Warnings = append(result.Warnings, warnings...)
		logger.Debug("config layer loaded", "layer", layer.name, "path", layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	logger.Debug("config resolved",
		"flavor", cfg.Flavor, "focus", cfg.Focus, "files", len(result.LoadedFrom))

	result.Config = cfg
	return result, nil
}

// LoadFile decodes a single configuration file on top of the defaults.
func LoadFile(path string) (*config.Config, []string, error) {
	return loadConfigFile(path, config.NewConfig())
}

// loadConfigFile decodes the YAML file at path onto a copy of base.
// Unknown keys are reported as warnings; any other decoding problem is an
// error.
func loadConfigFile(path string, base *config.Config) (*config.Config, []string, error) {
	//nolint:gosec // G304: config paths come from discovery or the command line
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	cfg := base.Clone()

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	err = decoder.Decode(cfg)
	if err == nil || errors.Is(err, io.EOF) {
		return cfg, nil, nil
	}

	var typeErr *yaml.TypeError
	if !errors.As(err, &typeErr) {
		return nil, nil, &ValidationError{FilePath: path, Message: fmt.Sprintf("parse YAML: %v", err)}
	}

	var warnings []string
	for _, msg := range typeErr.Errors {
		if !strings.Contains(msg, "not found in type") {
			return nil, nil, &ValidationError{FilePath: path, Message: msg}
		}
		warnings = append(warnings, fmt.Sprintf("%s: unknown field ignored (%s)", path, msg))
	}

	return cfg, warnings, nil
}
