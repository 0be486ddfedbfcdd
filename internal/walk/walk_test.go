package walk

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
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

func TestWalkSkipsDirsAndUnsupportedExt(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main")
	writeFile(t, filepath.Join(dir, "README.md"), "hi")
	writeFile(t, filepath.Join(dir, "node_modules", "pkg", "index.go"), "package pkg")
	writeFile(t, filepath.Join(dir, ".git", "config.go"), "package git")

	w := New(dir, true)
	cands, err := w.Collect()
	if err != nil {
		t.Fatal(err)
	}

	var rels []string
	for _, c := range cands {
		rel, _ := filepath.Rel(dir, c.Path)
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	want := []string{"main.go"}
	if len(rels) != len(want) || rels[0] != want[0] {
		t.Fatalf("Collect() = %v, want %v", rels, want)
	}
}

func TestWalkHonorsGitignore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gitignore"), "generated/\n*.pb.go\n")
	writeFile(t, filepath.Join(dir, "main.go"), "package main")
	writeFile(t, filepath.Join(dir, "generated", "api.go"), "package generated")
	writeFile(t, filepath.Join(dir, "thing.pb.go"), "package main")

	w := New(dir, false)
	cands, err := w.Collect()
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 1 || filepath.Base(cands[0].Path) != "main.go" {
		t.Fatalf("Collect() = %+v, want only main.go", cands)
	}
}

func TestWalkTracksOversizedFilesWithoutContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "small.go"), "package main")
	big := make([]byte, 2*1024*1024)
	writeFile(t, filepath.Join(dir, "big.go"), string(big))

	w := New(dir, true)
	cands, err := w.Collect()
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 2 {
		t.Fatalf("Collect() = %+v, want both small.go and big.go tracked", cands)
	}

	byName := make(map[string]Candidate, len(cands))
	for _, c := range cands {
		byName[filepath.Base(c.Path)] = c
	}
	if byName["small.go"].Oversized {
		t.Fatalf("small.go should not be marked oversized")
	}
	if !byName["big.go"].Oversized {
		t.Fatalf("big.go should be marked oversized (mtime/size tracked, content skipped)")
	}
}

func TestWalkCapsTraversalDepth(t *testing.T) {
	dir := t.TempDir()
	deep := dir
	for i := 0; i < 60; i++ {
		deep = filepath.Join(deep, "d")
	}
	writeFile(t, filepath.Join(deep, "too_deep.go"), "package deep")
	writeFile(t, filepath.Join(dir, "shallow.go"), "package main")

	w := New(dir, true)
	cands, err := w.Collect()
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range cands {
		if filepath.Base(c.Path) == "too_deep.go" {
			t.Fatalf("Collect() should not descend past the depth cap, got %+v", c)
		}
	}
	if len(cands) != 1 || filepath.Base(cands[0].Path) != "shallow.go" {
		t.Fatalf("Collect() = %+v, want only shallow.go", cands)
	}
}
