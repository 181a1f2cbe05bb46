package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/yaklabco/flatrange/pkg/config"
)

// projectDir returns a temp directory marked as a VCS root so the upward
// search never leaves it.
func projectDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(projectDir(t)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorCommonMark {
		t.Errorf("expected flavor %q, got %q", config.FlavorCommonMark, result.Config.Flavor)
	}
	if result.Config.Probe.MaxSteps != config.DefaultMaxSteps {
		t.Errorf("expected default max_steps, got %d", result.Config.Probe.MaxSteps)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeConfig(t, filepath.Join(dir, ".flatrange.yml"), `
flavor: gfm
focus: 2
probe:
  max_stalls: 8
ignore:
  - "vendor/**"
`)

	sub := filepath.Join(dir, "docs", "guide")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Load(context.Background(), isolated(sub))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Flavor != config.FlavorGFM || cfg.Focus != 2 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Probe.MaxStalls != 8 || cfg.Probe.MaxSteps != config.DefaultMaxSteps {
		t.Errorf("probe should merge field by field, got %+v", cfg.Probe)
	}
	if !slices.Equal(cfg.Ignore, []string{"vendor/**"}) {
		t.Errorf("ignore = %v", cfg.Ignore)
	}
	if len(result.LoadedFrom) != 1 {
		t.Errorf("expected 1 loaded file, got %d", len(result.LoadedFrom))
	}
}

func TestLoad_LayerPrecedence(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeConfig(t, filepath.Join(dir, ".flatrange.yml"), "flavor: gfm\nfocus: 3\n")

	explicit := filepath.Join(dir, "ci", "flatrange.yml")
	writeConfig(t, explicit, "focus: 0\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit
	opts.CLIConfig = &config.Config{Jobs: 4}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Flavor != config.FlavorGFM {
		t.Errorf("flavor from project layer lost: %q", cfg.Flavor)
	}
	if cfg.Focus != 0 {
		t.Errorf("explicit focus: 0 should override the project layer, got %d", cfg.Focus)
	}
	if cfg.Jobs != 4 {
		t.Errorf("CLI jobs not applied, got %d", cfg.Jobs)
	}
	if len(result.LoadedFrom) != 2 || result.LoadedFrom[1] != explicit {
		t.Errorf("LoadedFrom = %v", result.LoadedFrom)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := projectDir(t)
	writeConfig(t, filepath.Join(dir, ".flatrange.yml"), "flavor: gfm\nfocus: 3\n")

	t.Setenv("FLATRANGE_FOCUS", "0")
	t.Setenv("FLATRANGE_FORMAT", "json")
	t.Setenv("FLATRANGE_IGNORE", "a/**, b.md ,")

	opts := isolated(dir)
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Focus != 0 || cfg.Format != config.FormatJSON {
		t.Errorf("env not applied: %+v", cfg)
	}
	if !slices.Equal(cfg.Ignore, []string{"a/**", "b.md"}) {
		t.Errorf("ignore = %v", cfg.Ignore)
	}
}

func TestLoad_EnvInvalid(t *testing.T) {
	t.Setenv("FLATRANGE_WRITE", "maybe")

	opts := isolated(projectDir(t))
	opts.IgnoreEnv = false

	if _, err := Load(context.Background(), opts); err == nil {
		t.Fatal("expected an error for an invalid boolean")
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeConfig(t, filepath.Join(dir, ".flatrange.yml"), "flavor: rst\n")

	_, err := Load(context.Background(), isolated(dir))

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "flavor" {
		t.Errorf("Field = %q", verr.Field)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	path := filepath.Join(dir, ".flatrange.yml")
	writeConfig(t, path, "focus: [1, 2\n")

	_, err := Load(context.Background(), isolated(dir))

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.FilePath != path {
		t.Errorf("FilePath = %q", verr.FilePath)
	}
}

func TestLoad_UnknownFieldsWarn(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeConfig(t, filepath.Join(dir, ".flatrange.yml"), "flavor: gfm\nrules:\n  MD001: false\n")

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("known fields should still load, got %q", result.Config.Flavor)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "rules") {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeConfig(t, filepath.Join(dir, ".flatrange.yml"), "")

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Flavor != config.FlavorCommonMark {
		t.Errorf("empty file should keep defaults, got %q", result.Config.Flavor)
	}
}

func TestLoad_UserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	writeConfig(t, filepath.Join(home, "flatrange", "config.yaml"), "flavor: gfm\n")

	opts := isolated(projectDir(t))
	opts.IgnoreUserConfig = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("user config not applied, got %q", result.Config.Flavor)
	}
	if result.Paths.User == "" {
		t.Error("Paths.User not recorded")
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, isolated(projectDir(t))); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeConfig(t, filepath.Join(outer, ".flatrange.yml"), "focus: 1\n")

	inner := filepath.Join(outer, "repo")
	if err := os.MkdirAll(filepath.Join(inner, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	path, err := FindProjectConfig(context.Background(), inner)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if path != "" {
		t.Errorf("search should stop at the VCS root, found %q", path)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "c.yml")
	writeConfig(t, path, "probe:\n  max_steps: 100\n")

	cfg, warnings, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if cfg.Probe.MaxSteps != 100 || cfg.Probe.MaxStalls != config.DefaultMaxStalls {
		t.Errorf("probe = %+v", cfg.Probe)
	}
}
