// Package imports scans a source file for its import/require/use
// declarations and reports them as file-to-file or file-to-package
// edges, independent of the per-language symbol parsers in
// internal/parser (which only emit an import Ref, not a resolved
// target path).
package imports

import (
	"bufio"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	tsImportFrom    = regexp.MustCompile(`import\s+(?:(?:[\w*{}\s,]+)\s+from\s+)?['"]([^'"]+)['"]`)
	tsRequire       = regexp.MustCompile(`(?:require|import)\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	tsDynamicImport = regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`)

	goSingleImport = regexp.MustCompile(`^\s*import\s+"([^"]+)"`)
	goBlockImport  = regexp.MustCompile(`^\s*"([^"]+)"`)

	pyImport     = regexp.MustCompile(`^\s*import\s+([\w.]+)`)
	pyFromImport = regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import`)
)

// ScanContent reports the import edges declared in a file's content.
// filePath locates the file within the project so relative imports can
// be resolved against its directory and so the extension selects which
// language's import syntax to look for.
func ScanContent(filePath, content string) ([]types.ImportEdge, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var edges []types.ImportEdge
	switch ext {
	case ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs":
		edges = scanTypeScript(scanner, filePath)
	case ".go":
		edges = scanGo(scanner)
	case ".py":
		edges = scanPython(scanner, filePath)
	default:
		return nil, nil
	}
	return edges, scanner.Err()
}

func scanTypeScript(scanner *bufio.Scanner, filePath string) []types.ImportEdge {
	var edges []types.ImportEdge
	seen := make(map[string]bool)
	line := 0

	for scanner.Scan() {
		line++
		text := scanner.Text()
		for _, re := range []*regexp.Regexp{tsImportFrom, tsRequire, tsDynamicImport} {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				if len(m) < 2 || seen[m[1]] {
					continue
				}
				seen[m[1]] = true
				target := m[1]
				kind := "package"
				if strings.HasPrefix(target, ".") {
					kind = "relative"
					target = resolveRelative(filePath, target)
				}
				edges = append(edges, types.ImportEdge{Target: target, Kind: kind, Line: line})
			}
		}
	}
	return edges
}

func scanGo(scanner *bufio.Scanner) []types.ImportEdge {
	var edges []types.ImportEdge
	seen := make(map[string]bool)
	inBlock := false
	line := 0

	for scanner.Scan() {
		line++
		text := scanner.Text()
		trimmed := strings.TrimSpace(text)

		if m := goSingleImport.FindStringSubmatch(text); len(m) >= 2 {
			addGoImport(&edges, seen, m[1], line)
			continue
		}
		if trimmed == "import (" {
			inBlock = true
			continue
		}
		if inBlock && trimmed == ")" {
			inBlock = false
			continue
		}
		if inBlock {
			if m := goBlockImport.FindStringSubmatch(text); len(m) >= 2 {
				addGoImport(&edges, seen, m[1], line)
			}
		}
	}
	return edges
}

func addGoImport(edges *[]types.ImportEdge, seen map[string]bool, imp string, line int) {
	if seen[imp] {
		return
	}
	seen[imp] = true
	kind := "package"
	if !strings.Contains(imp, ".") {
		kind = "builtin"
	}
	*edges = append(*edges, types.ImportEdge{Target: imp, Kind: kind, Line: line})
}

func scanPython(scanner *bufio.Scanner, filePath string) []types.ImportEdge {
	var edges []types.ImportEdge
	seen := make(map[string]bool)
	line := 0

	for scanner.Scan() {
		line++
		text := scanner.Text()

		if m := pyFromImport.FindStringSubmatch(text); len(m) >= 2 {
			addPyImport(&edges, seen, m[1], filePath, line)
			continue
		}
		if m := pyImport.FindStringSubmatch(text); len(m) >= 2 {
			addPyImport(&edges, seen, m[1], filePath, line)
		}
	}
	return edges
}

var pyStdlib = map[string]bool{
	"os": true, "sys": true, "json": true, "re": true, "math": true,
	"datetime": true, "collections": true, "itertools": true, "functools": true,
	"typing": true, "pathlib": true, "io": true, "abc": true, "enum": true,
	"dataclasses": true, "logging": true, "unittest": true, "http": true,
	"urllib": true, "asyncio": true, "subprocess": true, "threading": true,
}

func addPyImport(edges *[]types.ImportEdge, seen map[string]bool, imp, filePath string, line int) {
	if seen[imp] {
		return
	}
	seen[imp] = true
	target := imp
	kind := "package"
	switch {
	case strings.HasPrefix(imp, "."):
		kind = "relative"
		target = resolveRelative(filePath, imp)
	case pyStdlib[strings.Split(imp, ".")[0]]:
		kind = "builtin"
	}
	*edges = append(*edges, types.ImportEdge{Target: target, Kind: kind, Line: line})
}

func resolveRelative(source, imported string) string {
	dir := filepath.Dir(source)
	return filepath.Clean(filepath.Join(dir, imported))
}
