package parser

import (
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	csClassRe     = regexp.MustCompile(`(?m)^(\s*)(public\s+|private\s+|protected\s+|internal\s+)?(abstract\s+|sealed\s+|static\s+)?(partial\s+)?class\s+(\w+)(?:<[^>]+>)?(?:\s*:\s*([\w,\s<>]+))?\s*\{`)
	csInterfaceRe = regexp.MustCompile(`(?m)^(\s*)(public\s+|internal\s+)?interface\s+(\w+)(?:<[^>]+>)?(?:\s*:\s*([\w,\s<>]+))?\s*\{`)
	csStructRe    = regexp.MustCompile(`(?m)^(\s*)(public\s+|internal\s+)?(readonly\s+)?(partial\s+)?struct\s+(\w+)(?:<[^>]+>)?\s*\{`)
	csEnumRe      = regexp.MustCompile(`(?m)^(\s*)(public\s+|internal\s+)?enum\s+(\w+)\s*\{`)
	csMethodRe    = regexp.MustCompile(`(?m)^(\s*)(public\s+|private\s+|protected\s+|internal\s+)?(static\s+)?(virtual\s+|override\s+|abstract\s+)?(async\s+)?(?:(\w+(?:<[^>]+>)?(?:\[\]|\?)?)\s+)?(\w+)\s*\(([^)]*)\)\s*(?:where\s+[^{]+)?\{`)
)

func scanCSharp(content string) ([]types.Symbol, []types.InheritanceEdge) {
	lines := strings.Split(content, "\n")
	var symbols []types.Symbol
	var edges []types.InheritanceEdge

	for i, line := range lines {
		lineNo := i + 1

		if m := csClassRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[5], Kind: types.KindClass, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			if m[6] != "" {
				bases := splitAndTrim(m[6], ",")
				for _, b := range bases {
					kind := "extends"
					if strings.HasPrefix(b, "I") && len(b) > 1 && b[1] >= 'A' && b[1] <= 'Z' {
						kind = "implements"
					}
					edges = append(edges, types.InheritanceEdge{ParentName: b, Kind: kind, SymbolIndex: idx})
				}
			}
			continue
		}

		if m := csInterfaceRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindInterface, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			if m[4] != "" {
				for _, b := range splitAndTrim(m[4], ",") {
					edges = append(edges, types.InheritanceEdge{ParentName: b, Kind: "extends", SymbolIndex: idx})
				}
			}
			continue
		}

		if m := csStructRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[5], Kind: types.KindStruct, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := csEnumRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindEnum, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := csMethodRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[7], Kind: types.KindFunction, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}
	}

	return symbols, edges
}
