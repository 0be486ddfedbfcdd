package parser

import (
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	cppClassRe    = regexp.MustCompile(`(?m)^(\s*)class\s+(\w+)(?:\s*:\s*(?:public|private|protected)\s+(\w+)(?:\s*,\s*(?:public|private|protected)\s+(\w+))?)?\s*\{?`)
	cppStructRe   = regexp.MustCompile(`(?m)^(\s*)struct\s+(\w+)\s*\{?`)
	cppNamespaceRe = regexp.MustCompile(`(?m)^(\s*)namespace\s+(\w+)\s*\{`)
	cppEnumRe     = regexp.MustCompile(`(?m)^(\s*)enum(?:\s+class)?\s+(\w+)`)
	cppFunctionRe = regexp.MustCompile(`(?m)^(\s*)(?:(static|inline|virtual|explicit)\s+)*(?:(\w+(?:\s*[*&])?(?:<[^>]+>)?)\s+)?(\w+)\s*\(([^)]*)\)(?:\s*const)?(?:\s*override)?\s*\{`)
)

func scanCpp(content string) ([]types.Symbol, []types.InheritanceEdge) {
	lines := strings.Split(content, "\n")
	var symbols []types.Symbol
	var edges []types.InheritanceEdge

	for i, line := range lines {
		lineNo := i + 1

		if m := cppClassRe.FindStringSubmatch(line); m != nil && m[2] != "" {
			symbols = append(symbols, types.Symbol{Name: m[2], Kind: types.KindClass, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			if m[3] != "" {
				edges = append(edges, types.InheritanceEdge{ParentName: m[3], Kind: "extends", SymbolIndex: idx})
			}
			if m[4] != "" {
				edges = append(edges, types.InheritanceEdge{ParentName: m[4], Kind: "extends", SymbolIndex: idx})
			}
			continue
		}

		if m := cppStructRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[2], Kind: types.KindStruct, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := cppNamespaceRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[2], Kind: types.KindPackage, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := cppEnumRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[2], Kind: types.KindEnum, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := cppFunctionRe.FindStringSubmatch(line); m != nil {
			name := m[4]
			if name == "if" || name == "for" || name == "while" || name == "switch" || name == "catch" {
				continue
			}
			symbols = append(symbols, types.Symbol{Name: name, Kind: types.KindFunction, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}
	}

	return symbols, edges
}
