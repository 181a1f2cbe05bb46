package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/flatrange/pkg/fsutil"
)

func readBack(t *testing.T, path string) string {
	t.Helper()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	return string(got)
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes new file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("hello"), 0o644); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}
		if got := readBack(t, path); got != "hello" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("overwrites and applies mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		if err := fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0o600); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}
		if got := readBack(t, path); got != "new" {
			t.Errorf("content = %q", got)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("mode = %o, want 600", info.Mode().Perm())
		}
	})

	t.Run("zero mode uses default", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Mode().Perm() != fsutil.DefaultFileMode {
			t.Errorf("mode = %o, want %o", info.Mode().Perm(), fsutil.DefaultFileMode)
		}
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := fsutil.WriteAtomic(context.Background(), filepath.Join(dir, "doc.md"), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("read dir: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("expected only the target file, found %d entries", len(entries))
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nope", "doc.md")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0o644); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		path := filepath.Join(t.TempDir(), "doc.md")
		if err := fsutil.WriteAtomic(ctx, path, []byte("x"), 0o644); !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Error("file must not be created")
		}
	})
}

func TestSaveIfUnmodified(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (string, *fsutil.Snapshot) {
		t.Helper()

		path := filepath.Join(t.TempDir(), "doc.md")
		if err := os.WriteFile(path, []byte("Hello *World*\n"), 0o640); err != nil {
			t.Fatalf("setup: %v", err)
		}
		_, snap, err := fsutil.ReadSnapshot(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadSnapshot() error = %v", err)
		}
		return path, snap
	}

	t.Run("writes edited content and keeps mode", func(t *testing.T) {
		t.Parallel()

		path, snap := setup(t)
		written, err := fsutil.SaveIfUnmodified(context.Background(), snap, []byte("Hello \n"))
		if err != nil {
			t.Fatalf("SaveIfUnmodified() error = %v", err)
		}
		if !written {
			t.Error("expected a write")
		}
		if got := readBack(t, path); got != "Hello \n" {
			t.Errorf("content = %q", got)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Mode().Perm() != 0o640 {
			t.Errorf("mode = %o, want 640", info.Mode().Perm())
		}
	})

	t.Run("identical content is not written", func(t *testing.T) {
		t.Parallel()

		_, snap := setup(t)
		written, err := fsutil.SaveIfUnmodified(context.Background(), snap, []byte("Hello *World*\n"))
		if err != nil {
			t.Fatalf("SaveIfUnmodified() error = %v", err)
		}
		if written {
			t.Error("identical content must not be written")
		}
	})

	t.Run("refuses to clobber external edits", func(t *testing.T) {
		t.Parallel()

		path, snap := setup(t)
		if err := os.WriteFile(path, []byte("edited elsewhere\n"), 0o640); err != nil {
			t.Fatalf("external edit: %v", err)
		}

		_, err := fsutil.SaveIfUnmodified(context.Background(), snap, []byte("Hello \n"))
		if !errors.Is(err, fsutil.ErrModified) {
			t.Fatalf("error = %v, want ErrModified", err)
		}
		if got := readBack(t, path); got != "edited elsewhere\n" {
			t.Errorf("external edit was overwritten: %q", got)
		}
	})
}
