package parser

import (
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	objcInterfaceRe = regexp.MustCompile(`(?m)^\s*@interface\s+(\w+)(?:\s*\([^)]*\))?(?:\s*:\s*(\w+))?(?:\s*<([^>]+)>)?`)
	objcProtocolRe  = regexp.MustCompile(`(?m)^\s*@protocol\s+(\w+)(?:\s*<([^>]+)>)?`)
	objcImplRe      = regexp.MustCompile(`(?m)^\s*@implementation\s+(\w+)`)
	objcMethodRe    = regexp.MustCompile(`(?m)^\s*[-+]\s*\([^)]+\)\s*(\w+)`)
	objcPropertyRe  = regexp.MustCompile(`(?m)^\s*@property\s*(?:\([^)]*\))?\s*\w+[\s*]*(\w+)\s*;`)
)

// scanObjC covers @interface/@protocol/@implementation declarations,
// methods, properties, grounded directly on the original Objective-C
// parser's regex set (superclass/protocol-list in the @interface line,
// one symbol per method/property line).
func scanObjC(content string) ([]types.Symbol, []types.InheritanceEdge) {
	lines := strings.Split(content, "\n")
	var symbols []types.Symbol
	var edges []types.InheritanceEdge

	for i, line := range lines {
		lineNo := i + 1

		if m := objcInterfaceRe.FindStringSubmatch(line); m != nil && m[1] != "" {
			symbols = append(symbols, types.Symbol{Name: m[1], Kind: types.KindClass, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			if m[2] != "" {
				edges = append(edges, types.InheritanceEdge{ParentName: m[2], Kind: "extends", SymbolIndex: idx})
			}
			if m[3] != "" {
				for _, p := range splitAndTrim(m[3], ",") {
					edges = append(edges, types.InheritanceEdge{ParentName: p, Kind: "implements", SymbolIndex: idx})
				}
			}
			continue
		}

		if m := objcProtocolRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[1], Kind: types.KindProtocol, Line: lineNo, Signature: strings.TrimSpace(line)})
			idx := len(symbols) - 1
			if m[2] != "" {
				for _, p := range splitAndTrim(m[2], ",") {
					edges = append(edges, types.InheritanceEdge{ParentName: p, Kind: "extends", SymbolIndex: idx})
				}
			}
			continue
		}

		if objcImplRe.MatchString(line) {
			continue
		}

		if m := objcPropertyRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[1], Kind: types.KindProperty, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := objcMethodRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[1], Kind: types.KindFunction, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}
	}

	return symbols, edges
}
