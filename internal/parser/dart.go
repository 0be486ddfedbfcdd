package parser

import (
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	dartClassRe      = regexp.MustCompile(`(?m)^(\s*)(?:(?:abstract|sealed|final|base|interface|mixin)\s+)*class\s+(\w+)(?:\s*<[^>]*>)?`)
	dartClassParents = regexp.MustCompile(`class\s+\w+(?:<[^>]*>)?\s+((?:extends|with|implements)\s+.+)$`)
	dartMixinRe      = regexp.MustCompile(`(?m)^(\s*)mixin\s+(\w+)(?:\s*<[^>]*>)?(?:\s+on\s+([^{]+))?`)
	dartEnumRe       = regexp.MustCompile(`(?m)^(\s*)enum\s+(\w+)(?:\s*<[^>]*>)?(?:\s+(?:with|implements)\s+([^{]+))?`)
	dartFuncRe       = regexp.MustCompile(`(?m)^(\s*)(?:static\s+)?(?:Future<[^>]*>|void|int|double|bool|String|var|[\w<>,\s]+)?\s*(\w+)\s*\(([^)]*)\)\s*(?:async\s*)?\{`)
)

func dartParents(line string) []string {
	m := dartClassParents.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	// Splits on any of the three keywords, keeping the type lists.
	parts := regexp.MustCompile(`\b(?:extends|with|implements)\b`).Split(m[1], -1)
	var out []string
	for _, p := range parts {
		out = append(out, splitAndTrim(p, ",")...)
	}
	return out
}

func scanDart(content string) ([]types.Symbol, []types.InheritanceEdge) {
	lines := strings.Split(content, "\n")
	var symbols []types.Symbol
	var edges []types.InheritanceEdge

	for i, line := range lines {
		lineNo := i + 1

		if m := dartClassRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[2], Kind: types.KindClass, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			for _, p := range dartParents(line) {
				edges = append(edges, types.InheritanceEdge{ParentName: p, Kind: "extends", SymbolIndex: idx})
			}
			continue
		}

		if m := dartMixinRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[2], Kind: types.KindInterface, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			if m[3] != "" {
				edges = append(edges, types.InheritanceEdge{ParentName: strings.TrimSpace(m[3]), Kind: "extends", SymbolIndex: idx})
			}
			continue
		}

		if m := dartEnumRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[2], Kind: types.KindEnum, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := dartFuncRe.FindStringSubmatch(line); m != nil {
			name := m[2]
			if name == "if" || name == "for" || name == "while" || name == "switch" {
				continue
			}
			symbols = append(symbols, types.Symbol{Name: name, Kind: types.KindFunction, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}
	}

	return symbols, edges
}
