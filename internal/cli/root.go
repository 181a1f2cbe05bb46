// Package cli provides the Cobra command structure for flatrange.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/flatrange/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root flatrange command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "flatrange",
		Short: "Drive text ranges over Markdown blocks with flat cursor offsets",
		Long: `flatrange maps flat character offsets inside a paragraph or heading to
node and offset boundaries, and back again.

Scripts of range and selection operations run over one or many Markdown
files. Each file gets its own document, host and selection, and edited
documents can be written back atomically.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newResolveCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
