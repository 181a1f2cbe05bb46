package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/flatrange/internal/configloader"
	"github.com/yaklabco/flatrange/internal/logging"
	"github.com/yaklabco/flatrange/pkg/config"
	"github.com/yaklabco/flatrange/pkg/dom"
	"github.com/yaklabco/flatrange/pkg/fsutil"
	"github.com/yaklabco/flatrange/pkg/parser/goldmark"
	"github.com/yaklabco/flatrange/pkg/reporter"
	"github.com/yaklabco/flatrange/pkg/runner"
	"github.com/yaklabco/flatrange/pkg/script"
)

// docFlags are the flags shared by commands that read one document.
type docFlags struct {
	focus   int
	flavor  string
	format  string
	compact bool
}

func addDocFlags(cmd *cobra.Command, flags *docFlags) {
	cmd.Flags().IntVar(&flags.focus, "focus", 0, "index of the paragraph or heading to bind")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "commonmark", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify JSON output")
}

// apply copies the flags the user set onto cfg. Focus is applied here
// rather than through the CLI layer of the loader because zero is a
// meaningful focus.
func (f *docFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("focus") {
		cfg.Focus = f.focus
	}
	if cmd.Flags().Changed("flavor") {
		cfg.Flavor = config.Flavor(f.flavor)
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(f.format)
	}
}

// loadConfig resolves the layered configuration for the working
// directory and logs loader warnings.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(cmd.Context(), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		Logger:       logger,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, result.LoadedFrom)
	}

	return result.Config, workDir, nil
}

// validateConfig re-checks cfg after flags were applied on top of it.
func validateConfig(cfg *config.Config) error {
	validation := configloader.Validate(cfg)
	if !validation.Valid() {
		return &validation.Errors[0]
	}
	return nil
}

// loadScript reads a script, reporting decode problems as data errors.
func loadScript(path string) (*script.Script, error) {
	s, err := script.Load(path)
	if err == nil {
		return s, nil
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return nil, err
	}
	return nil, &DataError{Err: err}
}

// loadContainer parses the file at path and returns the focused block.
func loadContainer(cmd *cobra.Command, path string, cfg *config.Config) (*dom.Node, error) {
	content, _, err := fsutil.ReadSnapshot(cmd.Context(), path)
	if err != nil {
		return nil, err
	}

	doc, err := goldmark.New(string(cfg.Flavor)).Parse(cmd.Context(), path, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	container, err := runner.Focus(doc.Root, cfg.Focus)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return container, nil
}

// newReporter builds the reporter for cfg, honoring the global --color.
func newReporter(cmd *cobra.Command, cfg *config.Config, compact bool, workDir string) (reporter.Reporter, error) {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return nil, usageError(err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode,
		ShowSummary: true,
		Compact:     compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return nil, fmt.Errorf("create reporter: %w", err)
	}
	return rep, nil
}
