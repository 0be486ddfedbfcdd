// Package walk enumerates the source files of a project tree, honoring
// .gitignore and a fixed set of always-skipped directories.
package walk

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/astindex/astindex/pkg/types"
)

// SupportedExts is the set of file extensions the language parsers know
// how to handle.
var SupportedExts = map[string]bool{
	".go": true, ".py": true, ".rb": true, ".rs": true,
	".java": true, ".kt": true, ".cs": true, ".cpp": true, ".cc": true,
	".cxx": true, ".hpp": true, ".h": true, ".c": true,
	".swift": true, ".m": true, ".mm": true, ".dart": true,
	".proto": true, ".pm": true, ".pl": true, ".t": true, ".pod": true,
	".ts": true, ".tsx": true, ".js": true, ".jsx": true,
}

// isDotenvName reports whether a base filename is a dotenv variant
// (.env, .env.local, .env.production, ...), which carries configuration
// variables but no symbols of its own.
func isDotenvName(name string) bool {
	return strings.HasPrefix(name, ".env")
}

// skipDirs mirrors the original implementation's always-skip directory
// set, honored regardless of .gitignore contents.
var skipDirs = map[string]bool{
	"node_modules": true, ".git": true, "vendor": true,
	"dist": true, "build": true, "target": true,
	"__pycache__": true, ".next": true, ".nuxt": true,
	"coverage": true, ".cache": true, ".gradle": true,
	".idea": true, "Pods": true, "DerivedData": true,
	"out": true, ".venv": true, ".dart_tool": true,
	".mypy_cache": true,
}

// maxWalkDepth bounds how many directory levels below Root are
// descended into, guarding against pathological trees (symlink farms
// excluded separately since Walk never follows symlinks).
const maxWalkDepth = 50

func isBazelOutDir(name string) bool {
	return strings.HasPrefix(name, "bazel-")
}

// Walker walks a project root, yielding candidate files for parsing.
type Walker struct {
	Root         string
	NoIgnore     bool
	MaxFileBytes int64
	ignoreMatch  *ignore.GitIgnore
}

// New builds a Walker for root. When NoIgnore is false it loads and
// compiles the root's .gitignore, if one exists.
func New(root string, noIgnore bool) *Walker {
	w := &Walker{Root: root, NoIgnore: noIgnore, MaxFileBytes: types.DefaultMaxFileBytes}
	if !noIgnore {
		w.ignoreMatch = loadGitignore(root)
	}
	return w
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(lines...)
}

// Candidate is a single file found by Walk, ready to be parsed.
type Candidate struct {
	Path      string
	RelPath   string
	MTime     int64
	Size      int64
	Oversized bool
}

// Walk visits every supported source file under w.Root, invoking fn for
// each one. Errors reading individual directory entries are skipped
// rather than aborting the whole walk.
func (w *Walker) Walk(fn func(Candidate) error) error {
	return filepath.Walk(w.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			name := info.Name()
			if path != w.Root && (skipDirs[name] || isBazelOutDir(name) || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			if path != w.Root {
				if rel, rerr := filepath.Rel(w.Root, path); rerr == nil {
					depth := strings.Count(rel, string(filepath.Separator)) + 1
					if depth >= maxWalkDepth {
						return filepath.SkipDir
					}
					if w.ignoreMatch != nil && w.ignoreMatch.MatchesPath(rel) {
						return filepath.SkipDir
					}
				}
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !SupportedExts[ext] && !isDotenvName(info.Name()) {
			return nil
		}

		if w.ignoreMatch != nil {
			if rel, rerr := filepath.Rel(w.Root, path); rerr == nil && w.ignoreMatch.MatchesPath(rel) {
				return nil
			}
		}

		rel, relErr := filepath.Rel(w.Root, path)
		if relErr != nil {
			rel = path
		}

		// Oversized files are still tracked (mtime/size only) so stale
		// symbols/refs don't linger for a file that grew past the cap;
		// their content is just never parsed.
		oversized := info.Size() > w.MaxFileBytes
		return fn(Candidate{
			Path:      path,
			RelPath:   rel,
			MTime:     info.ModTime().Unix(),
			Size:      info.Size(),
			Oversized: oversized,
		})
	})
}

// Collect runs Walk and returns every matching candidate.
func (w *Walker) Collect() ([]Candidate, error) {
	var out []Candidate
	err := w.Walk(func(c Candidate) error {
		out = append(out, c)
		return nil
	})
	return out, err
}
