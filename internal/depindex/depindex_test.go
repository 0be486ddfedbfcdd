package depindex

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

func TestDiscoverModulesGradle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "features", "payments", "api", "build.gradle"), "")
	writeFile(t, filepath.Join(root, "features", "payments", "impl", "build.gradle.kts"), "")

	files, err := CollectModuleFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	modules, err := DiscoverModules(root, files)
	if err != nil {
		t.Fatal(err)
	}

	names := map[string]bool{}
	for _, m := range modules {
		names[m.Name] = true
	}
	if !names["features.payments.api"] || !names["features.payments.impl"] {
		t.Errorf("expected both gradle modules discovered, got %+v", modules)
	}
}

func TestDiscoverModulesSwiftPackage(t *testing.T) {
	root := t.TempDir()
	content := `
let package = Package(
	name: "Networking",
	targets: [
		.target(name: "Networking"),
		.testTarget(name: "NetworkingTests"),
	]
)
`
	writeFile(t, filepath.Join(root, "Package.swift"), content)

	files, err := CollectModuleFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	modules, err := DiscoverModules(root, files)
	if err != nil {
		t.Fatal(err)
	}

	names := map[string]bool{}
	for _, m := range modules {
		names[m.Name] = true
	}
	if !names["Networking"] || !names["NetworkingTests"] {
		t.Errorf("expected SPM targets discovered, got %+v", modules)
	}
}

func TestModuleDependenciesAndTransitiveBFS(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "features", "payments", "api", "build.gradle"), "")
	writeFile(t, filepath.Join(root, "features", "payments", "impl", "build.gradle"), `
dependencies {
	api(projects.features.payments.api)
}
`)
	writeFile(t, filepath.Join(root, "app", "build.gradle"), `
dependencies {
	implementation(project(":features:payments:impl"))
}
`)

	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	files, err := CollectModuleFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	modules, err := DiscoverModules(root, files)
	if err != nil {
		t.Fatal(err)
	}
	ids, err := WriteModules(s.DB(), modules)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := IndexModuleDependencies(s.DB(), root, files, ids); err != nil {
		t.Fatal(err)
	}

	deps, err := GetModuleDeps(s.DB(), "features.payments.impl")
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 1 || deps[0].Name != "features.payments.api" {
		t.Errorf("expected impl to depend on api, got %+v", deps)
	}

	dependents, err := GetModuleDependents(s.DB(), "features.payments.impl")
	if err != nil {
		t.Fatal(err)
	}
	if len(dependents) != 1 || dependents[0].Name != "app" {
		t.Errorf("expected app as dependent of impl, got %+v", dependents)
	}

	count, err := BuildTransitiveDeps(s.DB())
	if err != nil {
		t.Fatal(err)
	}
	if count == 0 {
		t.Error("expected at least one transitive edge recorded")
	}

	_, err = GetModuleDeps(s.DB(), "no.such.module")
	if !errors.Is(err, errs.ErrModuleNotFound) {
		t.Errorf("expected ErrModuleNotFound for unknown module, got %v", err)
	}

	var path string
	row := s.DB().QueryRow(`
		SELECT td.path FROM transitive_deps td
		JOIN modules m1 ON td.module_id = m1.id
		JOIN modules m2 ON td.dependency_id = m2.id
		WHERE m1.name = 'app' AND m2.name = 'features.payments.api' AND td.depth = 2
	`)
	if err := row.Scan(&path); err != nil {
		t.Errorf("expected transitive edge app -> impl -> api at depth 2 via api dependency, scan failed: %v", err)
	}
}
