package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yaklabco/flatrange/pkg/reporter"
)

func newResolveCommand() *cobra.Command {
	flags := &docFlags{}

	cmd := &cobra.Command{
		Use:   "resolve FILE OFFSET...",
		Short: "Resolve flat offsets to a child node and relative offset",
		Long: `Resolve each flat offset of the focused block to the child that owns it.

A boundary between two children belongs to the following child. The total
length resolves to the end of the last child. Offsets outside the block
are reported as not found.

Examples:
  flatrange resolve README.md 0 12 19
  flatrange resolve --focus 1 --format json README.md 4`,
		Args: func(cmd *cobra.Command, args []string) error {
			return usageError(cobra.MinimumNArgs(2)(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args, flags)
		},
	}

	addDocFlags(cmd, flags)

	return cmd
}

func runResolve(cmd *cobra.Command, args []string, flags *docFlags) error {
	offsets, err := parseOffsets(args[1:])
	if err != nil {
		return err
	}

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

	path := args[0]
	container, err := loadContainer(cmd, path, cfg)
	if err != nil {
		return err
	}

	resolution := reporter.NewResolution(path, cfg.Focus, container, offsets)
	if err := rep.Resolve(cmd.Context(), resolution); err != nil {
		return fmt.Errorf("report resolution: %w", err)
	}
	return nil
}

func parseOffsets(args []string) ([]int, error) {
	offsets := make([]int, 0, len(args))
	for _, arg := range args {
		offset, err := strconv.Atoi(arg)
		if err != nil {
			return nil, usageError(fmt.Errorf("invalid offset %q: must be an integer", arg))
		}
		offsets = append(offsets, offset)
	}
	return offsets, nil
}
