// Package parser extracts structural symbols (classes, functions,
// properties, ...) and inheritance relationships from source files using
// per-language regular expressions, in the spirit of a line-oriented
// skeleton extractor rather than a full AST parser.
package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

// scanner is implemented by each language's line-scanning function. It
// appends symbols and inheritance edges directly onto the result.
type scanner func(content string) ([]types.Symbol, []types.InheritanceEdge)

var dispatch = map[string]scanner{
	".go":    scanGo,
	".py":    scanPython,
	".rb":    scanRuby,
	".rs":    scanRust,
	".java":  scanJava,
	".kt":    scanKotlin,
	".cs":    scanCSharp,
	".cpp":   scanCpp,
	".cc":    scanCpp,
	".cxx":   scanCpp,
	".hpp":   scanCpp,
	".h":     scanObjCOrCpp,
	".c":     scanCpp,
	".swift": scanSwift,
	".m":     scanObjC,
	".mm":    scanObjC,
	".dart":  scanDart,
	".proto": scanProto,
	".pm":    scanPerl,
	".pl":    scanPerl,
	".t":     scanPerl,
	".pod":   scanPerl,
}

// Supported reports whether ext (including the leading dot) has a
// registered language scanner.
func Supported(ext string) bool {
	_, ok := dispatch[strings.ToLower(ext)]
	return ok
}

// ParseFile reads path and extracts its symbols and inheritance edges.
// FileID is left zero; the caller fills it in once the file row has been
// written.
func ParseFile(path string) (*types.ParsedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	fn, ok := dispatch[ext]
	if !ok {
		return &types.ParsedFile{Path: path, MTime: info.ModTime().Unix(), Size: info.Size()}, nil
	}

	symbols, inheritance := fn(string(content))
	return &types.ParsedFile{
		Path:        path,
		MTime:       info.ModTime().Unix(),
		Size:        info.Size(),
		Symbols:     symbols,
		Inheritance: inheritance,
	}, nil
}

// scanObjCOrCpp disambiguates a bare .h header between Objective-C and
// C/C++ by a cheap content sniff, mirroring how the original
// implementation treats headers as ambiguous until it sees an
// Objective-C-only construct.
func scanObjCOrCpp(content string) ([]types.Symbol, []types.InheritanceEdge) {
	if strings.Contains(content, "@interface") || strings.Contains(content, "@protocol") || strings.Contains(content, "@implementation") {
		return scanObjC(content)
	}
	return scanCpp(content)
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstWord(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t([{<"); i >= 0 {
		return s[:i]
	}
	return s
}
