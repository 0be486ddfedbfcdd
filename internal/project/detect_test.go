package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/astindex/astindex/pkg/types"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDetectSingleMarker(t *testing.T) {
	cases := []struct {
		name string
		file string
		want types.ProjectType
	}{
		{"android gradle", "build.gradle.kts", types.ProjectAndroid},
		{"ios package swift", "Package.swift", types.ProjectIOS},
		{"perl cpanfile", "cpanfile", types.ProjectPerl},
		{"frontend package json", "package.json", types.ProjectFrontend},
		{"python pyproject", "pyproject.toml", types.ProjectPython},
		{"go mod", "go.mod", types.ProjectGo},
		{"rust cargo", "Cargo.toml", types.ProjectRust},
		{"bazel workspace", "WORKSPACE", types.ProjectBazel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			touch(t, dir, tc.file)
			if got := Detect(dir); got != tc.want {
				t.Errorf("Detect() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDetectUnknown(t *testing.T) {
	dir := t.TempDir()
	if got := Detect(dir); got != types.ProjectUnknown {
		t.Errorf("Detect() = %v, want Unknown", got)
	}
}

func TestDetectMixed(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "go.mod")
	touch(t, dir, "Cargo.toml")
	if got := Detect(dir); got != types.ProjectMixed {
		t.Errorf("Detect() = %v, want Mixed", got)
	}
}

func TestDetectIOSViaSubdirSPM(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "Sources")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, sub, "Package.swift")
	if got := Detect(dir); got != types.ProjectIOS {
		t.Errorf("Detect() = %v, want IOS via subdir Package.swift", got)
	}
}

func TestFindSubProjects(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"app", "core", "plain"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	touch(t, filepath.Join(dir, "app"), "build.gradle")
	touch(t, filepath.Join(dir, "core"), "go.mod")
	// "plain" has no markers and must not be reported.

	got := FindSubProjects(dir)
	if len(got) != 2 {
		t.Fatalf("FindSubProjects() = %v, want 2 entries", got)
	}
	want := map[string]bool{
		filepath.Join(dir, "app"):  true,
		filepath.Join(dir, "core"): true,
	}
	for _, g := range got {
		if !want[g] {
			t.Errorf("unexpected sub-project %s", g)
		}
	}
}
