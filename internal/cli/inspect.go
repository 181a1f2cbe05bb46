package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/flatrange/pkg/config"
	"github.com/yaklabco/flatrange/pkg/dom"
	"github.com/yaklabco/flatrange/pkg/reporter"
)

type inspectFlags struct {
	docFlags

	all bool
}

func newInspectCommand() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Show the flat offset space of a paragraph or heading",
		Long: `Show the children of the focused block and the flat interval each one
occupies. Each child spans its rendered characters, so an emphasis or
link covers the text inside it.

Examples:
  flatrange inspect README.md
  flatrange inspect --focus 3 README.md
  flatrange inspect --all --format json README.md`,
		Args: func(cmd *cobra.Command, args []string) error {
			return usageError(cobra.MinimumNArgs(1)(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, flags)
		},
	}

	addDocFlags(cmd, &flags.docFlags)
	cmd.Flags().BoolVar(&flags.all, "all", false, "inspect every paragraph and heading")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, flags *inspectFlags) error {
	cfg, workDir, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	flags.apply(cmd, cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	rep, err := newReporter(cmd, cfg, flags.compact, workDir)
	if err != nil {
		return err
	}

	var inspections []reporter.Inspection
	for _, path := range args {
		found, err := inspectFile(cmd, path, cfg, flags.all)
		if err != nil {
			return err
		}
		inspections = append(inspections, found...)
	}

	if err := rep.Inspect(cmd.Context(), inspections); err != nil {
		return fmt.Errorf("report inspection: %w", err)
	}
	return nil
}

func inspectFile(cmd *cobra.Command, path string, cfg *config.Config, all bool) ([]reporter.Inspection, error) {
	container, err := loadContainer(cmd, path, cfg)
	if err != nil {
		return nil, err
	}
	if !all {
		return []reporter.Inspection{reporter.NewInspection(path, cfg.Focus, container)}, nil
	}

	blocks := dom.TextBlocks(container.Root())
	inspections := make([]reporter.Inspection, 0, len(blocks))
	for i, block := range blocks {
		inspections = append(inspections, reporter.NewInspection(path, i, block))
	}
	return inspections, nil
}
