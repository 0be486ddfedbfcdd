// Package depindex discovers build modules (Gradle subprojects, Swift
// Package Manager targets, Perl packages) and the dependency edges
// between them, then resolves transitive reachability.
package depindex

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/astindex/astindex/internal/errs"
)

// isModuleFile reports whether name is a build manifest that declares
// modules: a Gradle, SwiftPM, CocoaPods or Carthage file, or a Perl .pm.
func isModuleFile(name string) bool {
	switch name {
	case "build.gradle", "build.gradle.kts", "Package.swift",
		"Podfile", "Podfile.lock", "Cartfile", "Cartfile.resolved":
		return true
	}
	return strings.HasSuffix(name, ".pm")
}

// CollectModuleFiles walks root looking for module manifests, skipping
// the same directories the main walker skips.
func CollectModuleFiles(root string) ([]string, error) {
	var files []string
	skip := map[string]bool{
		"node_modules": true, ".git": true, "vendor": true,
		"dist": true, "build": true, "target": true,
		"__pycache__": true, ".next": true, ".nuxt": true,
		"coverage": true, ".cache": true,
	}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (skip[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if isModuleFile(info.Name()) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

var spmTargetRe = regexp.MustCompile(`\.(?:target|testTarget|binaryTarget)\s*\(\s*name:\s*["']([^"']+)["']`)
var perlPackageRe = regexp.MustCompile(`(?m)^\s*package\s+([A-Za-z_][A-Za-z0-9_:]*)\s*;`)
var podDeclRe = regexp.MustCompile(`(?m)^\s*pod\s+["']([^"']+)["']`)
var carthageDeclRe = regexp.MustCompile(`(?m)^\s*(?:github|git|binary)\s+["']([^"']+)["']`)

// Module pairs a discovered name and path before it has a database id.
// Kind distinguishes dependency-manager origin (pod., carthage.) from
// Gradle/SPM/Perl modules, which carry no prefix.
type Module struct {
	Name string
	Path string
	Kind string
}

// DiscoverModules scans the module manifest files under root and
// returns every module they declare: one per Gradle subdirectory, one
// per Package.swift target, one per Perl package declaration.
func DiscoverModules(root string, files []string) ([]Module, error) {
	var out []Module

	for _, path := range files {
		name := filepath.Base(path)
		parent := filepath.Dir(path)

		switch {
		case name == "build.gradle" || name == "build.gradle.kts":
			relParent, err := filepath.Rel(root, parent)
			if err != nil {
				relParent = parent
			}
			relParent = filepath.ToSlash(relParent)
			moduleName := strings.ReplaceAll(relParent, "/", ".")
			if moduleName != "" && moduleName != "." {
				out = append(out, Module{Name: moduleName, Path: relParent})
			}

		case name == "Package.swift":
			relParent, err := filepath.Rel(root, parent)
			if err != nil {
				relParent = parent
			}
			relParent = filepath.ToSlash(relParent)
			if relParent == "." {
				relParent = ""
			}
			content, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			for _, m := range spmTargetRe.FindAllStringSubmatch(string(content), -1) {
				target := m[1]
				if target == "" {
					continue
				}
				moduleName := target
				modulePath := target
				if relParent != "" {
					moduleName = strings.ReplaceAll(relParent, "/", ".") + "." + target
					modulePath = relParent + "/" + target
				}
				out = append(out, Module{Name: moduleName, Path: modulePath})
			}

		case name == "Podfile" || name == "Podfile.lock":
			content, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			relPath, err := filepath.Rel(root, path)
			if err != nil {
				relPath = path
			}
			relPath = filepath.ToSlash(relPath)
			seen := map[string]bool{}
			for _, m := range podDeclRe.FindAllStringSubmatch(string(content), -1) {
				podName := strings.SplitN(m[1], "/", 2)[0]
				if podName == "" || seen[podName] {
					continue
				}
				seen[podName] = true
				out = append(out, Module{Name: "pod." + podName, Path: relPath, Kind: "pod"})
			}

		case name == "Cartfile" || name == "Cartfile.resolved":
			content, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			relPath, err := filepath.Rel(root, path)
			if err != nil {
				relPath = path
			}
			relPath = filepath.ToSlash(relPath)
			seen := map[string]bool{}
			for _, m := range carthageDeclRe.FindAllStringSubmatch(string(content), -1) {
				ref := m[1]
				parts := strings.Split(ref, "/")
				depName := parts[len(parts)-1]
				if depName == "" || seen[depName] {
					continue
				}
				seen[depName] = true
				out = append(out, Module{Name: "carthage." + depName, Path: relPath, Kind: "carthage"})
			}

		case strings.HasSuffix(name, ".pm"):
			content, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			relPath, err := filepath.Rel(root, path)
			if err != nil {
				relPath = path
			}
			for _, m := range perlPackageRe.FindAllStringSubmatch(string(content), -1) {
				if m[1] == "" {
					continue
				}
				out = append(out, Module{Name: m[1], Path: filepath.ToSlash(relPath)})
			}
		}
	}

	return out, nil
}

// WriteModules inserts every discovered module, ignoring duplicates, and
// returns a name-to-id map for the whole modules table.
func WriteModules(db *sql.DB, modules []Module) (map[string]int64, error) {
	for _, m := range modules {
		if _, err := db.Exec(`INSERT OR IGNORE INTO modules (name, path, kind) VALUES (?, ?, ?)`, m.Name, m.Path, nullableModuleKind(m.Kind)); err != nil {
			return nil, fmt.Errorf("insert module %s: %w", m.Name, err)
		}
	}
	return moduleIDsByName(db)
}

func nullableModuleKind(kind string) any {
	if kind == "" {
		return nil
	}
	return kind
}

func moduleIDsByName(db *sql.DB) (map[string]int64, error) {
	rows, err := db.Query(`SELECT id, name FROM modules`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		ids[name] = id
	}
	return ids, rows.Err()
}

var (
	gradleProjectsDepRe = regexp.MustCompile(`(?m)^\s*(api|implementation|compileOnly|testImplementation)\s*\(\s*projects\.([a-zA-Z_][a-zA-Z0-9_.]*)\s*\)`)
	gradleProjectRe     = regexp.MustCompile(`(?m)(api|implementation|compileOnly|testImplementation)\s*\(\s*project\s*\(\s*["']:([^"']+)["']\s*\)`)
)

// IndexModuleDependencies parses every build.gradle(.kts) manifest under
// root for project() / projects.* dependency declarations and writes
// the resolved edges (both module ids already known) to module_deps.
func IndexModuleDependencies(db *sql.DB, root string, gradleFiles []string, moduleIDs map[string]int64) (int, error) {
	if _, err := db.Exec(`DELETE FROM module_deps`); err != nil {
		return 0, fmt.Errorf("clear module_deps: %w", err)
	}

	count := 0
	for _, path := range gradleFiles {
		name := filepath.Base(path)
		if name != "build.gradle" && name != "build.gradle.kts" {
			continue
		}
		parent := filepath.Dir(path)
		relParent, err := filepath.Rel(root, parent)
		if err != nil {
			relParent = parent
		}
		relParent = filepath.ToSlash(relParent)
		moduleName := strings.ReplaceAll(relParent, "/", ".")

		moduleID, ok := moduleIDs[moduleName]
		if !ok {
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		text := string(content)

		for _, m := range gradleProjectsDepRe.FindAllStringSubmatch(text, -1) {
			depKind, depName := m[1], m[2]
			if depID, ok := moduleIDs[depName]; ok {
				if err := insertModuleDep(db, moduleID, depID, depKind); err != nil {
					return count, err
				}
				count++
			}
		}

		for _, m := range gradleProjectRe.FindAllStringSubmatch(text, -1) {
			depKind, depPath := m[1], m[2]
			depName := strings.ReplaceAll(strings.TrimPrefix(depPath, ":"), ":", ".")
			if depID, ok := moduleIDs[depName]; ok {
				if err := insertModuleDep(db, moduleID, depID, depKind); err != nil {
					return count, err
				}
				count++
			}
		}
	}

	return count, nil
}

func insertModuleDep(db *sql.DB, moduleID, depID int64, kind string) error {
	_, err := db.Exec(`INSERT OR IGNORE INTO module_deps (module_id, dep_module_id, dep_kind) VALUES (?, ?, ?)`, moduleID, depID, kind)
	return err
}

// DepResult names one side of a module dependency edge for display: the
// related module's name, path, and the dependency kind (api,
// implementation, ...).
type DepResult struct {
	Name string
	Path string
	Kind string
}

// GetModuleDeps returns the direct dependencies of module, identified by
// name or path.
func GetModuleDeps(db *sql.DB, module string) ([]DepResult, error) {
	rows, err := db.Query(`
		SELECT m2.name, m2.path, md.dep_kind
		FROM module_deps md
		JOIN modules m1 ON md.module_id = m1.id
		JOIN modules m2 ON md.dep_module_id = m2.id
		WHERE m1.name = ? OR m1.path = ?
		ORDER BY md.dep_kind, m2.name
	`, module, module)
	if err != nil {
		return nil, fmt.Errorf("get module deps: %w", err)
	}
	defer rows.Close()
	deps, err := scanDepResults(rows)
	if err != nil {
		return nil, err
	}
	if len(deps) == 0 && !moduleExists(db, module) {
		return nil, errs.ErrModuleNotFound
	}
	return deps, nil
}

// ListModules returns every discovered module, ordered by name.
func ListModules(db *sql.DB) ([]Module, error) {
	rows, err := db.Query(`SELECT name, path, COALESCE(kind, '') FROM modules ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var out []Module
	for rows.Next() {
		var m Module
		if err := rows.Scan(&m.Name, &m.Path, &m.Kind); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func moduleExists(db *sql.DB, module string) bool {
	var id int64
	err := db.QueryRow(`SELECT id FROM modules WHERE name = ? OR path = ?`, module, module).Scan(&id)
	return err == nil
}

// GetModuleDependents returns every module that directly depends on
// module.
func GetModuleDependents(db *sql.DB, module string) ([]DepResult, error) {
	rows, err := db.Query(`
		SELECT m1.name, m1.path, md.dep_kind
		FROM module_deps md
		JOIN modules m1 ON md.module_id = m1.id
		JOIN modules m2 ON md.dep_module_id = m2.id
		WHERE m2.name = ? OR m2.path = ?
		ORDER BY md.dep_kind, m1.name
	`, module, module)
	if err != nil {
		return nil, fmt.Errorf("get module dependents: %w", err)
	}
	defer rows.Close()
	return scanDepResults(rows)
}

func scanDepResults(rows *sql.Rows) ([]DepResult, error) {
	var out []DepResult
	for rows.Next() {
		var d DepResult
		var kind sql.NullString
		if err := rows.Scan(&d.Name, &d.Path, &kind); err != nil {
			return nil, err
		}
		d.Kind = kind.String
		out = append(out, d)
	}
	return out, rows.Err()
}

// maxTransitiveDepth bounds the BFS below so cyclic module graphs can't
// run away.
const maxTransitiveDepth = 5

// BuildTransitiveDeps recomputes the transitive_deps cache: for every
// direct dependency edge, a breadth-first search following only "api"
// edges (the only kind that re-exports transitively) up to
// maxTransitiveDepth hops.
func BuildTransitiveDeps(db *sql.DB) (int, error) {
	type directDep struct {
		moduleID, depID int64
		kind            string
	}

	rows, err := db.Query(`SELECT module_id, dep_module_id, dep_kind FROM module_deps`)
	if err != nil {
		return 0, err
	}
	var direct []directDep
	for rows.Next() {
		var d directDep
		var kind sql.NullString
		if err := rows.Scan(&d.moduleID, &d.depID, &kind); err != nil {
			rows.Close()
			return 0, err
		}
		d.kind = kind.String
		direct = append(direct, d)
	}
	rows.Close()

	names, err := namesByID(db)
	if err != nil {
		return 0, err
	}

	apiDeps := make(map[int64][]int64)
	for _, d := range direct {
		if d.kind == "api" {
			apiDeps[d.moduleID] = append(apiDeps[d.moduleID], d.depID)
		}
	}

	if _, err := db.Exec(`DELETE FROM transitive_deps`); err != nil {
		return 0, err
	}

	type queueItem struct {
		depID int64
		depth int
		path  string
	}

	count := 0
	for _, d := range direct {
		modName := names[d.moduleID]
		depName := names[d.depID]

		path := fmt.Sprintf("%s -> %s", modName, depName)
		if err := insertTransitive(db, d.moduleID, d.depID, 1, path); err != nil {
			return count, err
		}
		count++

		visited := map[int64]bool{d.depID: true}
		var queue []queueItem
		for _, next := range apiDeps[d.depID] {
			nextPath := fmt.Sprintf("%s -> %s -> %s", modName, depName, names[next])
			queue = append(queue, queueItem{depID: next, depth: 2, path: nextPath})
		}

		for len(queue) > 0 {
			item := queue[0]
			queue = queue[1:]
			if visited[item.depID] || item.depth > maxTransitiveDepth {
				continue
			}
			visited[item.depID] = true

			if err := insertTransitive(db, d.moduleID, item.depID, item.depth, item.path); err != nil {
				return count, err
			}
			count++

			for _, next := range apiDeps[item.depID] {
				if !visited[next] {
					queue = append(queue, queueItem{
						depID: next,
						depth: item.depth + 1,
						path:  item.path + " -> " + names[next],
					})
				}
			}
		}
	}

	return count, nil
}

func insertTransitive(db *sql.DB, moduleID, depID int64, depth int, path string) error {
	_, err := db.Exec(`INSERT INTO transitive_deps (module_id, dependency_id, depth, path) VALUES (?, ?, ?, ?)`,
		moduleID, depID, depth, path)
	return err
}

func namesByID(db *sql.DB) (map[int64]string, error) {
	rows, err := db.Query(`SELECT id, name FROM modules`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}
