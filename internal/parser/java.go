package parser

import (
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	javaClassRe     = regexp.MustCompile(`(?m)^(\s*)(public\s+|private\s+|protected\s+)?(abstract\s+)?(final\s+)?class\s+(\w+)(?:<[^>]+>)?(?:\s+extends\s+(\w+))?(?:\s+implements\s+([\w,\s]+))?\s*\{`)
	javaInterfaceRe = regexp.MustCompile(`(?m)^(\s*)(public\s+)?interface\s+(\w+)(?:<[^>]+>)?(?:\s+extends\s+([\w,\s]+))?\s*\{`)
	javaEnumRe      = regexp.MustCompile(`(?m)^(\s*)(public\s+)?enum\s+(\w+)\s*\{`)
	javaMethodRe    = regexp.MustCompile(`(?m)^(\s*)(public\s+|private\s+|protected\s+)?(static\s+)?(final\s+)?(synchronized\s+)?(?:(\w+(?:<[^>]+>)?(?:\[\])?)\s+)?(\w+)\s*\(([^)]*)\)(?:\s*throws\s+[\w,\s]+)?\s*\{`)
)

func scanJava(content string) ([]types.Symbol, []types.InheritanceEdge) {
	lines := strings.Split(content, "\n")
	var symbols []types.Symbol
	var edges []types.InheritanceEdge

	for i, line := range lines {
		lineNo := i + 1

		if m := javaClassRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[5], Kind: types.KindClass, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			if m[6] != "" {
				edges = append(edges, types.InheritanceEdge{ParentName: m[6], Kind: "extends", SymbolIndex: idx})
			}
			if m[7] != "" {
				for _, iface := range splitAndTrim(m[7], ",") {
					edges = append(edges, types.InheritanceEdge{ParentName: iface, Kind: "implements", SymbolIndex: idx})
				}
			}
			continue
		}

		if m := javaInterfaceRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindInterface, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			if m[4] != "" {
				for _, iface := range splitAndTrim(m[4], ",") {
					edges = append(edges, types.InheritanceEdge{ParentName: iface, Kind: "extends", SymbolIndex: idx})
				}
			}
			continue
		}

		if m := javaEnumRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindEnum, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := javaMethodRe.FindStringSubmatch(line); m != nil {
			name := m[7]
			if name == "if" || name == "for" || name == "while" || name == "switch" || name == "catch" {
				continue
			}
			symbols = append(symbols, types.Symbol{Name: name, Kind: types.KindFunction, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}
	}

	return symbols, edges
}
