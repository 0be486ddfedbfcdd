package parser

import (
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	rustStructRe = regexp.MustCompile(`(?m)^(\s*)(pub\s+)?struct\s+(\w+)`)
	rustEnumRe   = regexp.MustCompile(`(?m)^(\s*)(pub\s+)?enum\s+(\w+)`)
	rustTraitRe  = regexp.MustCompile(`(?m)^(\s*)(pub\s+)?trait\s+(\w+)(?:\s*:\s*([\w\s+]+))?`)
	rustFnRe     = regexp.MustCompile(`(?m)^(\s*)(pub(?:\([^)]*\))?\s+)?(async\s+)?fn\s+(\w+)`)
	rustImplRe   = regexp.MustCompile(`(?m)^(\s*)impl(?:<[^>]*>)?\s+(\w+)\s+for\s+(\w+)`)
	rustConstRe  = regexp.MustCompile(`(?m)^(\s*)(pub\s+)?const\s+(\w+)\s*:`)
)

func scanRust(content string) ([]types.Symbol, []types.InheritanceEdge) {
	lines := strings.Split(content, "\n")
	var symbols []types.Symbol
	var edges []types.InheritanceEdge

	byName := map[string]int{}

	for i, line := range lines {
		lineNo := i + 1

		if m := rustStructRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindStruct, Line: lineNo, Signature: strings.TrimSpace(line)})
			byName[m[3]] = len(symbols) - 1
			continue
		}

		if m := rustEnumRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindEnum, Line: lineNo, Signature: strings.TrimSpace(line)})
			byName[m[3]] = len(symbols) - 1
			continue
		}

		if m := rustTraitRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindInterface, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			byName[m[3]] = idx
			if m[4] != "" {
				for _, base := range splitAndTrim(m[4], "+") {
					edges = append(edges, types.InheritanceEdge{ParentName: base, Kind: "extends", SymbolIndex: idx})
				}
			}
			continue
		}

		if m := rustFnRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[4], Kind: types.KindFunction, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := rustImplRe.FindStringSubmatch(line); m != nil {
			traitName, typeName := m[2], m[3]
			if idx, ok := byName[typeName]; ok {
				edges = append(edges, types.InheritanceEdge{ParentName: traitName, Kind: "implements", SymbolIndex: idx})
			}
			continue
		}

		if m := rustConstRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindConstant, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}
	}

	return symbols, edges
}
