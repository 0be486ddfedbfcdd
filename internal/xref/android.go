// Package xref scans platform-specific resource files — Android XML
// layouts/resources and iOS storyboards/asset catalogs — and records
// both the definitions they declare and the source lines that use
// them, so unused-resource and unused-dependency checks have
// something to join against.
package xref

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// moduleLookup resolves a relative file path to the longest-prefix
// module path that contains it, mirroring a build system's own nesting
// rules: a file under features/payments/impl belongs to that module,
// not to features/payments.
type moduleLookup struct {
	paths []string
	ids   []int64
}

func newModuleLookup(db *sql.DB) (*moduleLookup, error) {
	rows, err := db.Query(`SELECT id, path FROM modules WHERE path IS NOT NULL AND path != ''`)
	if err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}
	defer rows.Close()

	var paths []string
	var ids []int64
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	order := make([]int, len(paths))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return len(paths[order[i]]) > len(paths[order[j]]) })

	sortedPaths := make([]string, len(order))
	sortedIDs := make([]int64, len(order))
	for i, idx := range order {
		sortedPaths[i] = paths[idx]
		sortedIDs[i] = ids[idx]
	}
	return &moduleLookup{paths: sortedPaths, ids: sortedIDs}, nil
}

// find returns the id of the longest module path that relPath starts
// with, or (0, false) if no module claims it.
func (l *moduleLookup) find(relPath string) (int64, bool) {
	for i, p := range l.paths {
		if strings.HasPrefix(relPath, p) {
			return l.ids[i], true
		}
	}
	return 0, false
}

func nullableModuleID(id int64, ok bool) any {
	if !ok {
		return nil
	}
	return id
}

var (
	fullClassTagRe = regexp.MustCompile(`<([a-z][a-z0-9_]*(?:\.[a-z][a-z0-9_]*)*\.[A-Z][a-zA-Z0-9_]*)`)
	classAttrRe    = regexp.MustCompile(`(?:class|android:name)\s*=\s*["']([a-z][a-z0-9_]*(?:\.[a-z][a-z0-9_]*)*\.[A-Z][a-zA-Z0-9_]*)["']`)
	androidIDRe    = regexp.MustCompile(`android:id\s*=\s*["']@\+?id/([^"']+)["']`)
)

func isAndroidSkipDir(name string) bool {
	switch name {
	case "node_modules", ".git", "vendor", "dist", "build", "target", "__pycache__", ".next", ".nuxt", "coverage", ".cache":
		return true
	}
	return strings.HasPrefix(name, ".")
}

func walkFiles(root string, keep func(path string) bool) ([]string, error) {
	var out []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && isAndroidSkipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if keep(path) {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// IndexXMLUsages scans Android layout/menu/navigation XML under root
// for custom view class references (full tag names, class=/
// android:name= attributes) and records each against the module that
// owns the file, replacing whatever was previously recorded.
func IndexXMLUsages(db *sql.DB, root string) (int, error) {
	lookup, err := newModuleLookup(db)
	if err != nil {
		return 0, err
	}

	files, err := walkFiles(root, func(path string) bool {
		if filepath.Ext(path) != ".xml" {
			return false
		}
		slash := filepath.ToSlash(path)
		if !strings.Contains(slash, "/res/") {
			return false
		}
		return strings.Contains(slash, "/layout") || strings.Contains(slash, "/menu") || strings.Contains(slash, "/navigation")
	})
	if err != nil {
		return 0, fmt.Errorf("walk xml files: %w", err)
	}

	if _, err := db.Exec(`DELETE FROM xml_usages`); err != nil {
		return 0, fmt.Errorf("clear xml_usages: %w", err)
	}

	stmt, err := db.Prepare(`INSERT INTO xml_usages (module_id, file_path, line, class_name, usage_type, element_id) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, path := range files {
		relPath := relSlash(root, path)
		moduleID, hasModule := lookup.find(relPath)

		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		for lineNum, line := range strings.Split(string(content), "\n") {
			lineNum++

			var elementID any
			if m := androidIDRe.FindStringSubmatch(line); m != nil {
				elementID = m[1]
			}

			for _, m := range fullClassTagRe.FindAllStringSubmatch(line, -1) {
				if _, err := stmt.Exec(nullableModuleID(moduleID, hasModule), relPath, lineNum, m[1], "view_tag", elementID); err != nil {
					return count, fmt.Errorf("insert xml usage: %w", err)
				}
				count++
			}

			for _, m := range classAttrRe.FindAllStringSubmatch(line, -1) {
				usageType := "view_class_attr"
				if strings.Contains(line, "<fragment") || strings.Contains(line, "android:name") {
					usageType = "fragment"
				}
				if _, err := stmt.Exec(nullableModuleID(moduleID, hasModule), relPath, lineNum, m[1], usageType, elementID); err != nil {
					return count, fmt.Errorf("insert xml usage: %w", err)
				}
				count++
			}
		}
	}

	return count, nil
}

var (
	resourceRefRe = regexp.MustCompile(`R\.(drawable|string|color|dimen|style|layout|id|mipmap)\.([a-zA-Z_][a-zA-Z0-9_]*)`)
	xmlRefRe      = regexp.MustCompile(`@(drawable|string|color|dimen|style|layout|id|mipmap)/([a-zA-Z_][a-zA-Z0-9_]*)`)
	stringDefRe   = regexp.MustCompile(`<string\s+name="([^"]+)"`)
	colorDefRe    = regexp.MustCompile(`<color\s+name="([^"]+)"`)
	dimenDefRe    = regexp.MustCompile(`<dimen\s+name="([^"]+)"`)
	styleDefRe    = regexp.MustCompile(`<style\s+name="([^"]+)"`)
)

type resourceKey struct {
	kind, name string
}

// IndexResources scans the Android res/ tree for resource definitions
// (drawables and mipmaps by filename, layouts by filename, strings/
// colors/dimens/styles by regex over values/*.xml) and then scans
// Kotlin/Java/XML sources for R.type.name and @type/name references to
// them, replacing the previous contents of both tables.
func IndexResources(db *sql.DB, root string) (resources int, usages int, err error) {
	lookup, err := newModuleLookup(db)
	if err != nil {
		return 0, 0, err
	}

	resFiles, err := walkFiles(root, func(path string) bool {
		return strings.Contains(filepath.ToSlash(path), "/res/")
	})
	if err != nil {
		return 0, 0, fmt.Errorf("walk res files: %w", err)
	}

	if _, err := db.Exec(`DELETE FROM resource_usages`); err != nil {
		return 0, 0, fmt.Errorf("clear resource_usages: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM resources`); err != nil {
		return 0, 0, fmt.Errorf("clear resources: %w", err)
	}

	resStmt, err := db.Prepare(`INSERT INTO resources (module_id, type, name, file_path, line) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, err
	}
	defer resStmt.Close()

	resourceCount := 0
	for _, path := range resFiles {
		relPath := relSlash(root, path)
		moduleID, hasModule := lookup.find(relPath)
		mID := nullableModuleID(moduleID, hasModule)

		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		if strings.Contains(relPath, "/drawable") || strings.Contains(relPath, "/mipmap") {
			resType := "drawable"
			if strings.Contains(relPath, "/mipmap") {
				resType = "mipmap"
			}
			if _, err := resStmt.Exec(mID, resType, base, relPath, 1); err != nil {
				return resourceCount, 0, fmt.Errorf("insert resource: %w", err)
			}
			resourceCount++
		}

		if strings.Contains(relPath, "/layout") && strings.HasSuffix(relPath, ".xml") {
			if _, err := resStmt.Exec(mID, "layout", base, relPath, 1); err != nil {
				return resourceCount, 0, fmt.Errorf("insert resource: %w", err)
			}
			resourceCount++
		}

		if strings.Contains(relPath, "/values") && strings.HasSuffix(relPath, ".xml") {
			content, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			for lineNum, line := range strings.Split(string(content), "\n") {
				lineNum++
				for kind, re := range map[string]*regexp.Regexp{
					"string": stringDefRe, "color": colorDefRe, "dimen": dimenDefRe, "style": styleDefRe,
				} {
					if m := re.FindStringSubmatch(line); m != nil {
						if _, err := resStmt.Exec(mID, kind, m[1], relPath, lineNum); err != nil {
							return resourceCount, 0, fmt.Errorf("insert resource: %w", err)
						}
						resourceCount++
					}
				}
			}
		}
	}

	resourceIDs, err := loadResourceIDs(db)
	if err != nil {
		return resourceCount, 0, err
	}

	codeFiles, err := walkFiles(root, func(path string) bool {
		ext := filepath.Ext(path)
		return ext == ".kt" || ext == ".java" || ext == ".xml"
	})
	if err != nil {
		return resourceCount, 0, fmt.Errorf("walk code files: %w", err)
	}

	usageStmt, err := db.Prepare(`INSERT INTO resource_usages (resource_id, usage_file, usage_line, usage_type) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return resourceCount, 0, err
	}
	defer usageStmt.Close()

	usageCount := 0
	for _, path := range codeFiles {
		relPath := relSlash(root, path)
		isXML := strings.HasSuffix(relPath, ".xml")

		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		for lineNum, line := range strings.Split(string(content), "\n") {
			lineNum++

			if !isXML {
				for _, m := range resourceRefRe.FindAllStringSubmatch(line, -1) {
					if id, ok := resourceIDs[resourceKey{m[1], m[2]}]; ok {
						if _, err := usageStmt.Exec(id, relPath, lineNum, "code"); err != nil {
							return resourceCount, usageCount, fmt.Errorf("insert resource usage: %w", err)
						}
						usageCount++
					}
				}
			}

			for _, m := range xmlRefRe.FindAllStringSubmatch(line, -1) {
				if id, ok := resourceIDs[resourceKey{m[1], m[2]}]; ok {
					if _, err := usageStmt.Exec(id, relPath, lineNum, "xml"); err != nil {
						return resourceCount, usageCount, fmt.Errorf("insert resource usage: %w", err)
					}
					usageCount++
				}
			}
		}
	}

	return resourceCount, usageCount, nil
}

func loadResourceIDs(db *sql.DB) (map[resourceKey]int64, error) {
	rows, err := db.Query(`SELECT id, type, name FROM resources`)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	defer rows.Close()

	ids := make(map[resourceKey]int64)
	for rows.Next() {
		var id int64
		var kind, name string
		if err := rows.Scan(&id, &kind, &name); err != nil {
			return nil, err
		}
		ids[resourceKey{kind, name}] = id
	}
	return ids, rows.Err()
}
