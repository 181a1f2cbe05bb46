package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/flatrange/internal/logging"
	"github.com/yaklabco/flatrange/pkg/config"
	"github.com/yaklabco/flatrange/pkg/runner"
)

type runFlags struct {
	docFlags

	script  string
	write   bool
	jobs    int
	exclude []string
}

func newRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run a range script over Markdown files",
		Long:  runLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, flags)
		},
	}

	addDocFlags(cmd, &flags.docFlags)
	cmd.Flags().StringVarP(&flags.script, "script", "s", "", "path to the step script (required)")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "save edited documents")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "glob patterns to skip")

	return cmd
}

const runLongDescription = `Run a script of range and selection steps over Markdown files.

Each path is a file or a directory searched for .md and .markdown files.
Every file gets its own document and selection. The focused paragraph or
heading becomes the container the steps address.

Examples:
  flatrange run --script steps.yml README.md
  flatrange run --script steps.yml --focus 2 docs/
  flatrange run --script steps.yml --write --exclude "drafts/**" .
  flatrange run --script steps.yml --format json notes.md`

func runRun(cmd *cobra.Command, args []string, flags *runFlags) error {
	logger := logging.Default()
	ctx := cmd.Context()

	if flags.script == "" {
		return usageError(errors.New("required flag \"script\" not set"))
	}

	s, err := loadScript(flags.script)
	if err != nil {
		return err
	}

	cfg, workDir, err := loadConfig(cmd, &config.Config{
		Write:  flags.write,
		Jobs:   flags.jobs,
		Ignore: flags.exclude,
	})
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

	logger.Debug("starting run",
		logging.FieldScript, s.Name,
		logging.FieldPaths, args,
		logging.FieldFocus, cfg.Focus,
		logging.FieldWrite, cfg.Write,
		logging.FieldJobs, cfg.Jobs,
	)

	result, err := runner.New(s, logger).Run(ctx, runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   runner.DefaultExtensions(),
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Config:       cfg,
	})
	if err != nil {
		return errors.Join(errors.New("run failed"), err)
	}

	logger.Debug("run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldStepsTotal, result.Stats.StepsTotal,
		logging.FieldStepsFailed, result.Stats.StepsFailed,
	)

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if result.HasFailures() {
		return ErrStepFailures
	}
	return nil
}
