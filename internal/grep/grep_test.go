package grep

import (
	"os"
	"path/filepath"
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

func TestSearchLimitedFindsMatchesAcrossFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.kt"), "fun doThing() {}\nfun callSite() { doThing() }\n")
	writeFile(t, filepath.Join(root, "b.kt"), "fun another() { doThing() }\n")
	writeFile(t, filepath.Join(root, "c.txt"), "doThing()\n")

	var matches []Match
	err := SearchLimited(root, `doThing\s*\(`, []string{"kt"}, 10, func(m Match) {
		matches = append(matches, m)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches across .kt files (def + 2 calls), got %d: %+v", len(matches), matches)
	}
}

func TestSearchLimitedStopsAtLimit(t *testing.T) {
	root := t.TempDir()
	var content string
	for i := 0; i < 50; i++ {
		content += "target()\n"
	}
	writeFile(t, filepath.Join(root, "many.kt"), content)

	var count int
	err := SearchLimited(root, `target\s*\(`, []string{"kt"}, 5, func(m Match) {
		count++
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 5 {
		t.Errorf("expected exactly 5 matches delivered to handler, got %d", count)
	}
}

func TestSearchLimitedInvalidPattern(t *testing.T) {
	root := t.TempDir()
	err := SearchLimited(root, `(unclosed`, []string{"kt"}, 10, func(Match) {})
	if err == nil {
		t.Error("expected error for invalid regex pattern")
	}
}
