package parser

import (
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	swiftClassRe    = regexp.MustCompile(`(?m)^(\s*)(public\s+|private\s+|internal\s+|fileprivate\s+|open\s+)?(final\s+)?class\s+(\w+)(?:\s*:\s*([\w,\s]+))?\s*\{`)
	swiftStructRe   = regexp.MustCompile(`(?m)^(\s*)(public\s+|private\s+|internal\s+)?struct\s+(\w+)(?:\s*:\s*([\w,\s]+))?\s*\{`)
	swiftProtocolRe = regexp.MustCompile(`(?m)^(\s*)(public\s+)?protocol\s+(\w+)(?:\s*:\s*([\w,\s]+))?\s*\{`)
	swiftEnumRe     = regexp.MustCompile(`(?m)^(\s*)(public\s+)?enum\s+(\w+)(?:\s*:\s*([\w,\s]+))?\s*\{`)
	swiftActorRe    = regexp.MustCompile(`(?m)^(\s*)(public\s+)?actor\s+(\w+)(?:\s*:\s*([\w,\s]+))?\s*\{`)
	swiftFuncRe     = regexp.MustCompile(`(?m)^(\s*)(public\s+|private\s+|internal\s+|fileprivate\s+|open\s+)?(static\s+|class\s+)?(override\s+)?func\s+(\w+)`)
	swiftExtensionRe = regexp.MustCompile(`(?m)^(\s*)extension\s+(\w+)(?:\s*:\s*([\w,\s]+))?\s*\{`)
)

func scanSwift(content string) ([]types.Symbol, []types.InheritanceEdge) {
	lines := strings.Split(content, "\n")
	var symbols []types.Symbol
	var edges []types.InheritanceEdge
	byName := map[string]int{}

	addConformances := func(idx int, list string) {
		if list == "" || idx < 0 {
			return
		}
		for _, name := range splitAndTrim(list, ",") {
			edges = append(edges, types.InheritanceEdge{ParentName: name, Kind: "conforms", SymbolIndex: idx})
		}
	}

	for i, line := range lines {
		lineNo := i + 1

		if m := swiftClassRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[4], Kind: types.KindClass, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			byName[m[4]] = idx
			addConformances(idx, m[5])
			continue
		}
		if m := swiftStructRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindStruct, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			byName[m[3]] = idx
			addConformances(idx, m[4])
			continue
		}
		if m := swiftProtocolRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindProtocol, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			byName[m[3]] = idx
			addConformances(idx, m[4])
			continue
		}
		if m := swiftEnumRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindEnum, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			byName[m[3]] = idx
			addConformances(idx, m[4])
			continue
		}
		if m := swiftActorRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[3], Kind: types.KindActor, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			byName[m[3]] = idx
			addConformances(idx, m[4])
			continue
		}
		if m := swiftExtensionRe.FindStringSubmatch(line); m != nil {
			if idx, ok := byName[m[2]]; ok {
				addConformances(idx, m[3])
			}
			continue
		}
		if m := swiftFuncRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[5], Kind: types.KindFunction, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}
	}

	return symbols, edges
}
