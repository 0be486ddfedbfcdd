package parser

import (
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	rbClassRe  = regexp.MustCompile(`(?m)^(\s*)class\s+(\w+)(?:\s*<\s*([\w:]+))?`)
	rbModuleRe = regexp.MustCompile(`(?m)^(\s*)module\s+(\w+)`)
	rbMethodRe = regexp.MustCompile(`(?m)^(\s*)def\s+(self\.)?(\w+[?!=]?)`)
)

func scanRuby(content string) ([]types.Symbol, []types.InheritanceEdge) {
	lines := strings.Split(content, "\n")
	var symbols []types.Symbol
	var edges []types.InheritanceEdge

	for i, line := range lines {
		lineNo := i + 1

		if m := rbClassRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[2], Kind: types.KindClass, Line: lineNo, Signature: strings.TrimSpace(line)})
			if m[3] != "" {
				edges = append(edges, types.InheritanceEdge{ParentName: m[3], Kind: "extends", SymbolIndex: len(symbols) - 1})
			}
			continue
		}

		if m := rbModuleRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[2], Kind: types.KindObject, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := rbMethodRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindFunction, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}
	}

	return symbols, edges
}
