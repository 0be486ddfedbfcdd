package parser

import (
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	pyClassRe = regexp.MustCompile(`(?m)^(\s*)class\s+(\w+)(?:\(([^)]*)\))?\s*:`)
	pyFuncRe  = regexp.MustCompile(`(?m)^(\s*)(async\s+)?def\s+(\w+)\s*\(([^)]*)\)(?:\s*->\s*([^:]+))?\s*:`)
)

func scanPython(content string) ([]types.Symbol, []types.InheritanceEdge) {
	lines := strings.Split(content, "\n")
	var symbols []types.Symbol
	var edges []types.InheritanceEdge

	classIndent := -1
	classSymbolIdx := -1

	for i, line := range lines {
		lineNo := i + 1
		indent := len(line) - len(strings.TrimLeft(line, " \t"))

		if classSymbolIdx >= 0 && indent <= classIndent && strings.TrimSpace(line) != "" {
			classSymbolIdx = -1
			classIndent = -1
		}

		if m := pyClassRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[2], Kind: types.KindClass, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			if m[3] != "" {
				for _, base := range splitAndTrim(m[3], ",") {
					if base == "" || strings.Contains(base, "=") {
						continue
					}
					edges = append(edges, types.InheritanceEdge{ParentName: base, Kind: "extends", SymbolIndex: idx})
				}
			}
			classIndent = indent
			classSymbolIdx = idx
			continue
		}

		if m := pyFuncRe.FindStringSubmatch(line); m != nil {
			kind := types.KindFunction
			if classSymbolIdx >= 0 && indent > classIndent {
				kind = types.KindFunction // method: still a function symbol; no ParentID is recorded for it
			}
			sym := types.Symbol{Name: m[3], Kind: kind, Line: lineNo, Signature: strings.TrimSpace(line)}
			symbols = append(symbols, sym)
			continue
		}
	}

	return symbols, edges
}
