package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/flatrange/pkg/config"
	"github.com/yaklabco/flatrange/pkg/dom"
	"github.com/yaklabco/flatrange/pkg/fsutil"
	"github.com/yaklabco/flatrange/pkg/host/memhost"
	"github.com/yaklabco/flatrange/pkg/parser/goldmark"
	"github.com/yaklabco/flatrange/pkg/script"
	"github.com/yaklabco/flatrange/pkg/textrange"
)

// ErrNoContainer is returned when the configured focus does not name a
// text block of the document.
var ErrNoContainer = errors.New("no text block to focus")

// Runner applies one script to every discovered file. Each file gets its
// own document and host, so workers share nothing but the script.
type Runner struct {
	Script *script.Script
	Logger *log.Logger
}

// New creates a runner for s. A nil logger discards output.
func New(s *script.Script, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Script: s, Logger: logger}
}

// Run discovers files under opts.Paths and processes them concurrently.
// Outcomes are returned in discovery order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	cfg := opts.config()
	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, cfg)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome, cfg *config.Config) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := FileOutcome{Path: path}
		res, err := r.ProcessFile(ctx, path, cfg)
		if err != nil {
			outcome.Error = err
		} else {
			outcome.Result = res
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// ProcessFile parses path, focuses the configured text block, runs the
// script and, when cfg.Write is set, saves an edited document atomically.
// A file edited on disk during the run is not overwritten.
func (r *Runner) ProcessFile(ctx context.Context, path string, cfg *config.Config) (*FileResult, error) {
	content, snap, err := fsutil.ReadSnapshot(ctx, path)
	if err != nil {
		return nil, err
	}

	parser := goldmark.New(string(cfg.Flavor))
	doc, err := parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	container, err := Focus(doc.Root, cfg.Focus)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger := r.Logger.With("file", path)
	h := memhost.New(doc.Root,
		memhost.WithParser(parser),
		memhost.WithFocus(container),
		memhost.WithLogger(logger),
	)

	sr, err := script.New(h,
		script.WithLogger(logger),
		script.WithRangeOptions(RangeOptions(cfg, logger)...),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	before := dom.Markdown(doc.Root)
	report, err := sr.Run(ctx, r.Script)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	after := dom.Markdown(doc.Root)

	res := &FileResult{
		Container: dom.Path(container),
		Report:    report,
		Markdown:  after,
		Changed:   after != before,
	}

	if cfg.Write && res.Changed {
		written, err := fsutil.SaveIfUnmodified(ctx, snap, []byte(after))
		if err != nil {
			return res, fmt.Errorf("write %s: %w", path, err)
		}
		res.Written = written
		logger.Debug("document saved", "written", written)
	}

	return res, nil
}

// Focus returns the index-th text block of the document.
func Focus(root *dom.Node, index int) (*dom.Node, error) {
	blocks := dom.TextBlocks(root)
	if index < 0 || index >= len(blocks) {
		return nil, fmt.Errorf("%w: focus %d, document has %d", ErrNoContainer, index, len(blocks))
	}
	return blocks[index], nil
}

// RangeOptions translates the probe settings of cfg into range options.
func RangeOptions(cfg *config.Config, logger *log.Logger) []textrange.Option {
	opts := []textrange.Option{textrange.WithLogger(logger)}
	if cfg.Probe.MaxSteps > 0 {
		opts = append(opts, textrange.WithMaxSteps(cfg.Probe.MaxSteps))
	}
	if cfg.Probe.MaxStalls > 0 {
		opts = append(opts, textrange.WithMaxStalls(cfg.Probe.MaxStalls))
	}
	return opts
}
