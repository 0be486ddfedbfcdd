package parser

import (
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	perlPackageRe = regexp.MustCompile(`(?m)^package\s+([\w:]+)\s*;`)
	perlSubRe     = regexp.MustCompile(`(?m)^\s*sub\s+(\w+)`)
)

// scanPerl extracts package declarations and subroutine definitions, the
// two symbol shapes exercised by the original implementation's Perl
// commands (cmd_perl_exports/cmd_perl_subs operate on plain regex
// sweeps rather than a structural parse, so this mirrors that directly).
func scanPerl(content string) ([]types.Symbol, []types.InheritanceEdge) {
	lines := strings.Split(content, "\n")
	var symbols []types.Symbol
	var edges []types.InheritanceEdge

	for i, line := range lines {
		lineNo := i + 1

		if m := perlPackageRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[1], Kind: types.KindPackage, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := perlSubRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[1], Kind: types.KindFunction, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}
	}

	return symbols, edges
}
