package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/flatrange/internal/cli"
	"github.com/yaklabco/flatrange/internal/configloader"
	"github.com/yaklabco/flatrange/pkg/runner"
	"github.com/yaklabco/flatrange/pkg/script"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test-version",
		Commit:  "test-commit",
		Date:    "test-date",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}
	if cmd.Use != "flatrange" {
		t.Errorf("expected Use to be 'flatrange', got %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"run", "inspect", "resolve", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}
		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestRunCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	runCmd, _, err := cmd.Find([]string{"run"})
	if err != nil {
		t.Fatalf("run command not found: %v", err)
	}

	for _, name := range []string{"script", "focus", "flavor", "format", "write", "jobs", "exclude", "compact"} {
		if runCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected flag %q on run", name)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"debug", "config", "color"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag %q", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"flatrange", "test-version", "test-commit", "test-date"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q: %s", want, out)
		}
	}
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"run", "--help", "--color", "never"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"Usage:", "Flags:", "--script", "Global Flags:", "--color"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	missing := fmt.Errorf("read x.md: %w", &fs.PathError{Op: "open", Path: "x.md", Err: fs.ErrNotExist})

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"step failures", cli.ErrStepFailures, cli.ExitStepFailures},
		{"usage", &cli.UsageError{Err: errors.New("bad flag")}, cli.ExitInvalidUsage},
		{"validation", fmt.Errorf("load: %w", &configloader.ValidationError{Field: "flavor"}), cli.ExitConfigError},
		{"script", fmt.Errorf("%w: no steps", script.ErrInvalid), cli.ExitConfigError},
		{"focus", fmt.Errorf("doc.md: %w", runner.ErrNoContainer), cli.ExitConfigError},
		{"data", &cli.DataError{Err: errors.New("yaml: bad")}, cli.ExitConfigError},
		{"io", missing, cli.ExitIOError},
		{"permission", fs.ErrPermission, cli.ExitIOError},
		{"other", errors.New("boom"), cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	output := filepath.Join(dir, "custom.yml")

	execute := func(args ...string) error {
		cmd := cli.NewRootCommand(testInfo())
		var sink bytes.Buffer
		cmd.SetOut(&sink)
		cmd.SetErr(&sink)
		cmd.SetArgs(append([]string{"init", "--output", output}, args...))
		return cmd.Execute()
	}

	if err := execute(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	content, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read generated config: %v", err)
	}
	if !strings.Contains(string(content), "flavor: commonmark") {
		t.Errorf("generated config missing flavor:\n%s", content)
	}

	cfg, _, err := configloader.LoadFile(output)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Flavor != "commonmark" {
		t.Errorf("Flavor = %q", cfg.Flavor)
	}

	err = execute()
	if cli.ExitCode(err) != cli.ExitInvalidUsage {
		t.Errorf("second init without --force: err = %v", err)
	}

	if err := execute("--force", "--full"); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}

	if err := execute("--force", "--format", "toml"); cli.ExitCode(err) != cli.ExitInvalidUsage {
		t.Errorf("invalid format: err = %v", err)
	}
}
