package parser

import (
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	ktClassRe     = regexp.MustCompile(`(?m)^(\s*)(public\s+|private\s+|internal\s+)?(abstract\s+|open\s+|sealed\s+|data\s+)?class\s+(\w+)(?:\([^)]*\))?(?:\s*:\s*([\w,\s()]+))?\s*\{?`)
	ktInterfaceRe = regexp.MustCompile(`(?m)^(\s*)(public\s+)?interface\s+(\w+)(?:\s*:\s*([\w,\s()]+))?\s*\{?`)
	ktObjectRe    = regexp.MustCompile(`(?m)^(\s*)(public\s+)?object\s+(\w+)(?:\s*:\s*([\w,\s()]+))?\s*\{?`)
	ktEnumRe      = regexp.MustCompile(`(?m)^(\s*)(public\s+)?enum\s+class\s+(\w+)`)
	ktFunRe       = regexp.MustCompile(`(?m)^(\s*)(public\s+|private\s+|internal\s+)?(override\s+)?(suspend\s+)?fun\s+(?:<[^>]+>\s*)?(\w+)`)
)

func scanKotlin(content string) ([]types.Symbol, []types.InheritanceEdge) {
	lines := strings.Split(content, "\n")
	var symbols []types.Symbol
	var edges []types.InheritanceEdge

	addParents := func(idx int, list string) {
		if list == "" {
			return
		}
		for _, p := range splitAndTrim(list, ",") {
			name := firstWord(p)
			if name == "" {
				continue
			}
			kind := "extends"
			if len(name) > 1 && name[0] >= 'A' && name[0] <= 'Z' {
				kind = "implements"
			}
			edges = append(edges, types.InheritanceEdge{ParentName: name, Kind: kind, SymbolIndex: idx})
		}
	}

	for i, line := range lines {
		lineNo := i + 1

		if m := ktClassRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[4], Kind: types.KindClass, Line: lineNo, Signature: strings.TrimSpace(line)})
			addParents(len(symbols)-1, m[5])
			continue
		}
		if m := ktInterfaceRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindInterface, Line: lineNo, Signature: strings.TrimSpace(line)})
			addParents(len(symbols)-1, m[4])
			continue
		}
		if m := ktObjectRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindObject, Line: lineNo, Signature: strings.TrimSpace(line)})
			addParents(len(symbols)-1, m[4])
			continue
		}
		if m := ktEnumRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindEnum, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}
		if m := ktFunRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[5], Kind: types.KindFunction, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}
	}

	return symbols, edges
}
