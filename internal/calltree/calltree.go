// Package calltree builds an approximate caller hierarchy for a
// function name by grepping for call sites and walking backwards from
// each one to the enclosing definition.
package calltree

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/astindex/astindex/internal/grep"
)

// extensions mirrors the language set the rest of the cross-reference
// scanners grep over: the languages whose call syntax the regexes
// below understand.
var extensions = []string{"kt", "java", "swift", "m", "h", "pm", "pl", "t"}

var funcDefRe = regexp.MustCompile(
	`(?:fun|func|def|sub)\s+(\w+)\s*[<(\[]|(?:(?:public|private|protected|static|final|abstract|synchronized|override)\s+)*(?:void|int|long|boolean|char|byte|short|float|double|[\w.]+(?:<[^{;]*>)?(?:\[\])*)\s+(\w+)\s*\(`,
)

func callPattern(name string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(name)
	return regexp.Compile(fmt.Sprintf(
		`[.>]%s\s*\(|^\s*%s\s*\(|->%s\s*\(|&%s\s*\(|this\.%s\s*\(|super\.%s\s*\(`,
		quoted, quoted, quoted, quoted, quoted, quoted,
	))
}

func defPattern(name string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(name)
	return regexp.Compile(fmt.Sprintf(
		`\b(?:fun|func|def|sub)\s+%s\s*[<({\[]|\b(?:(?:public|private|protected|static|final|abstract|synchronized|override)\s+)*(?:void|int|long|boolean|char|byte|short|float|double|[\w.]+(?:<[^{;]*>)?(?:\[\])*)\s+%s\s*\(`,
		quoted, quoted,
	))
}

// Caller is one site that calls into the target function, resolved to
// its own enclosing function.
type Caller struct {
	FuncName string
	FilePath string
	Line     int
}

// findCallerFunctions greps root for call sites of functionName, then
// for each call site walks backwards through the file to find the
// enclosing function definition. Results are capped at limit distinct
// (function, file) pairs.
func findCallerFunctions(root, functionName string, limit int) ([]Caller, error) {
	callRe, err := callPattern(functionName)
	if err != nil {
		return nil, err
	}
	skipDefRe, err := defPattern(functionName)
	if err != nil {
		return nil, err
	}

	filesWithCalls := make(map[string][]int)
	err = grep.SearchLimited(root, callRe.String(), extensions, limit*3, func(m grep.Match) {
		if skipDefRe.MatchString(m.Text) {
			return
		}
		filesWithCalls[m.Path] = append(filesWithCalls[m.Path], m.Line)
	})
	if err != nil {
		return nil, err
	}

	var results []Caller
	seen := make(map[string]bool)

	for path, callLines := range filesWithCalls {
		if len(results) >= limit {
			break
		}

		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		lines := strings.Split(string(content), "\n")
		relPath := relative(root, path)

		for _, callLine := range callLines {
			if len(results) >= limit {
				break
			}

			funcName, funcLine, ok := findContainingFunction(lines, callLine)
			if !ok {
				continue
			}

			key := funcName + "\x00" + relPath
			if seen[key] {
				continue
			}
			seen[key] = true
			results = append(results, Caller{FuncName: funcName, FilePath: relPath, Line: funcLine})
		}
	}

	return results, nil
}

// findContainingFunction searches backwards from targetLine (1-based)
// for the nearest function definition.
func findContainingFunction(lines []string, targetLine int) (name string, line int, ok bool) {
	startIdx := targetLine - 1
	if startIdx > len(lines)-1 {
		startIdx = len(lines) - 1
	}
	if startIdx < 0 {
		return "", 0, false
	}

	for i := startIdx; i >= 0; i-- {
		m := funcDefRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		if m[1] != "" {
			return m[1], i + 1, true
		}
		if m[2] != "" {
			return m[2], i + 1, true
		}
	}
	return "", 0, false
}

func relative(root, path string) string {
	if strings.HasPrefix(path, root) {
		rel := strings.TrimPrefix(path, root)
		return strings.TrimPrefix(rel, string(os.PathSeparator))
	}
	return path
}

// Node is one entry in a call tree: the caller and the chain of its
// own callers below it.
type Node struct {
	FuncName  string
	FilePath  string
	Line      int
	Recursive bool
	Callers   []*Node
}

// Build constructs the caller hierarchy for functionName up to
// maxDepth levels deep, expanding at most limitPerLevel callers at
// each level. A function already visited anywhere earlier in the walk
// (the visited set is shared by all branches, not reset per branch) is
// recorded as Recursive instead of being expanded again, which also
// breaks cycles.
func Build(root, functionName string, maxDepth, limitPerLevel int) ([]*Node, error) {
	visited := map[string]bool{functionName: true}
	return buildLevel(root, functionName, 1, maxDepth, limitPerLevel, visited)
}

func buildLevel(root, functionName string, depth, maxDepth, limit int, visited map[string]bool) ([]*Node, error) {
	if depth > maxDepth {
		return nil, nil
	}

	callers, err := findCallerFunctions(root, functionName, limit)
	if err != nil {
		return nil, err
	}

	nodes := make([]*Node, 0, len(callers))
	for _, c := range callers {
		node := &Node{FuncName: c.FuncName, FilePath: c.FilePath, Line: c.Line}

		if visited[c.FuncName] {
			node.Recursive = true
			nodes = append(nodes, node)
			continue
		}
		visited[c.FuncName] = true

		children, err := buildLevel(root, c.FuncName, depth+1, maxDepth, limit, visited)
		if err != nil {
			return nil, err
		}
		node.Callers = children
		nodes = append(nodes, node)
	}

	return nodes, nil
}
