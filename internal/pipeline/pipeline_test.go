package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/astindex/astindex/internal/errs"
	"github.com/astindex/astindex/internal/store"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPipelineRunIndexesSupportedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n\nfunc main() {\n}\n")
	writeFile(t, filepath.Join(root, "lib.py"), "class Widget:\n    pass\n")
	writeFile(t, filepath.Join(root, "README.md"), "not indexed")

	dbDir := t.TempDir()
	s, err := store.Open(filepath.Join(dbDir, "index.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	p := New(root)
	p.NoIgnore = true

	var lastParsed, lastTotal int
	p.OnProgress = func(parsed, total int) {
		lastParsed, lastTotal = parsed, total
	}

	count, err := p.Run(s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 files indexed, got %d", count)
	}
	if lastParsed != 2 || lastTotal != 2 {
		t.Errorf("expected progress callback (2,2), got (%d,%d)", lastParsed, lastTotal)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.FileCount != 2 {
		t.Errorf("expected 2 files in store, got %d", stats.FileCount)
	}
	if stats.SymbolCount == 0 {
		t.Errorf("expected at least one symbol indexed")
	}
}

func TestSubProjectSwitchRequiresBothThresholds(t *testing.T) {
	root := t.TempDir()
	// Two marked sub-projects, but well under the file-count threshold:
	// the flat walk should still be used.
	writeFile(t, filepath.Join(root, "app", "go.mod"), "module app\n")
	writeFile(t, filepath.Join(root, "app", "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "core", "go.mod"), "module core\n")
	writeFile(t, filepath.Join(root, "core", "lib.go"), "package core\n")

	p := New(root)
	p.NoIgnore = true
	if got := p.subProjectRootsIfApplicable(); got != nil {
		t.Errorf("subProjectRootsIfApplicable() = %v, want nil below the file-count threshold", got)
	}
}

func TestSubProjectSwitchRequiresTwoSubProjects(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app", "go.mod"), "module app\n")
	writeFile(t, filepath.Join(root, "app", "main.go"), "package main\n")

	p := New(root)
	p.NoIgnore = true
	if got := p.subProjectRootsIfApplicable(); got != nil {
		t.Errorf("subProjectRootsIfApplicable() = %v, want nil with only one sub-project", got)
	}
}

func TestRebuildLockPreventsConcurrentAcquire(t *testing.T) {
	dir := t.TempDir()

	lockPath, err := AcquireRebuildLock(dir)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	if _, err := AcquireRebuildLock(dir); !errors.Is(err, errs.ErrRebuildInProgress) {
		t.Errorf("expected ErrRebuildInProgress while lock held, got %v", err)
	}

	if err := ReleaseRebuildLock(lockPath); err != nil {
		t.Fatalf("release: %v", err)
	}

	lockPath2, err := AcquireRebuildLock(dir)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	ReleaseRebuildLock(lockPath2)
}
