package parser

import (
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	goPackageRe    = regexp.MustCompile(`(?m)^package\s+(\w+)`)
	goImportOneRe  = regexp.MustCompile(`(?m)^import\s+(?:(\w+)\s+)?"([^"]+)"`)
	goImportOpenRe = regexp.MustCompile(`(?m)^import\s*\($`)
	goImportLineRe = regexp.MustCompile(`(?m)^(?:(\w+)\s+)?"([^"]+)"`)
	goFuncRe       = regexp.MustCompile(`(?m)^func\s+(\((\w+)\s+\*?(\w+)\)\s+)?(\w+)\s*\(([^)]*)\)`)
	goTypeRe       = regexp.MustCompile(`(?m)^type\s+(\w+)\s+(struct|interface)\s*\{`)
	goTypeAliasRe  = regexp.MustCompile(`(?m)^type\s+(\w+)\s+(?:=\s*)?([A-Za-z_][\w.\[\]]*)\s*$`)
	goConstRe      = regexp.MustCompile(`(?m)^const\s+(\w+)\s*(\w*)\s*=`)
	goVarRe        = regexp.MustCompile(`(?m)^var\s+(\w+)\s+`)
)

// lastPathSegment returns the final "/"-delimited component of an
// import path, the same fallback name the original parser assigns an
// import symbol when it isn't aliased.
func lastPathSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// scanGo extracts package, import (single and block form, aliased or
// not), struct/interface, type alias, function/method (with receiver),
// const, and package-level var declarations.
func scanGo(content string) ([]types.Symbol, []types.InheritanceEdge) {
	lines := strings.Split(content, "\n")
	var symbols []types.Symbol
	var edges []types.InheritanceEdge

	inImportBlock := false

	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		if inImportBlock {
			if trimmed == ")" {
				inImportBlock = false
				continue
			}
			if m := goImportLineRe.FindStringSubmatch(trimmed); m != nil {
				addGoImportSymbol(&symbols, &edges, m[1], m[2], lineNo, trimmed)
			}
			continue
		}

		if m := goPackageRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[1], Kind: types.KindPackage, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if goImportOpenRe.MatchString(line) {
			inImportBlock = true
			continue
		}

		if m := goImportOneRe.FindStringSubmatch(line); m != nil {
			addGoImportSymbol(&symbols, &edges, m[1], m[2], lineNo, strings.TrimSpace(line))
			continue
		}

		if m := goFuncRe.FindStringSubmatch(line); m != nil {
			sig := strings.TrimSpace(line)
			symbols = append(symbols, types.Symbol{Name: m[4], Kind: types.KindFunction, Line: lineNo, Signature: sig})
			if receiverType := m[3]; receiverType != "" {
				edges = append(edges, types.InheritanceEdge{
					ParentName:  receiverType,
					Kind:        "receiver",
					SymbolIndex: len(symbols) - 1,
				})
			}
			continue
		}

		if m := goTypeRe.FindStringSubmatch(line); m != nil {
			kind := types.KindStruct
			if m[2] == "interface" {
				kind = types.KindInterface
			}
			symbols = append(symbols, types.Symbol{Name: m[1], Kind: kind, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := goTypeAliasRe.FindStringSubmatch(line); m != nil && m[2] != "struct" && m[2] != "interface" {
			symbols = append(symbols, types.Symbol{Name: m[1], Kind: types.KindTypeAlias, Line: lineNo, Signature: strings.TrimSpace(line)})
			edges = append(edges, types.InheritanceEdge{
				ParentName:  m[2],
				Kind:        "alias",
				SymbolIndex: len(symbols) - 1,
			})
			continue
		}

		if m := goConstRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[1], Kind: types.KindConstant, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}

		if m := goVarRe.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, types.Symbol{Name: m[1], Kind: types.KindProperty, Line: lineNo, Signature: strings.TrimSpace(line)})
			continue
		}
	}

	return symbols, edges
}

// addGoImportSymbol appends an import Symbol plus its "from" edge to
// the imported path. name is the alias when one was captured, else the
// path's last segment is used as the symbol's name.
func addGoImportSymbol(symbols *[]types.Symbol, edges *[]types.InheritanceEdge, alias, path string, lineNo int, signature string) {
	name := alias
	if name == "" {
		name = lastPathSegment(path)
	}
	*symbols = append(*symbols, types.Symbol{Name: name, Kind: types.KindImport, Line: lineNo, Signature: signature})
	*edges = append(*edges, types.InheritanceEdge{
		ParentName:  path,
		Kind:        "from",
		SymbolIndex: len(*symbols) - 1,
	})
}
