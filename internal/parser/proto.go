package parser

import (
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	protoPackageRe = regexp.MustCompile(`(?m)^package\s+([\w.]+)\s*;`)
	protoMessageRe = regexp.MustCompile(`(?m)^(\s*)message\s+(\w+)\s*\{`)
	protoServiceRe = regexp.MustCompile(`(?m)^service\s+(\w+)\s*\{`)
	protoRPCRe     = regexp.MustCompile(`(?m)^\s*rpc\s+(\w+)\s*\(\s*(?:stream\s+)?(\w+)\s*\)\s*returns\s*\(\s*(?:stream\s+)?(\w+)\s*\)`)
	protoEnumRe    = regexp.MustCompile(`(?m)^(\s*)enum\s+(\w+)\s*\{`)
)

// scanProto extracts messages (as classes), services (as interfaces),
// their rpc methods (as functions) and enums, matching the table shape
// the original Protocol Buffers parser produces.
func scanProto(content string) ([]types.Symbol, []types.InheritanceEdge) {
	lines := strings.Split(content, "\n")
	var symbols []types.Symbol
	var edges []types.InheritanceEdge

	for i, line := range lines {
		lineNo := i + 1

		if m := protoPackageRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[1], Kind: types.KindPackage, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := protoMessageRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[2], Kind: types.KindClass, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := protoServiceRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[1], Kind: types.KindInterface, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := protoRPCRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{
				Name:      m[1],
				Kind:      types.KindFunction,
				Line:      lineNo,
				Signature: strings.TrimSpace(line),
			})
			continue
		}

		if m := protoEnumRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[2], Kind: types.KindEnum, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}
	}

	return symbols, edges
}
