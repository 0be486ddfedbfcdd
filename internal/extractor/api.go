// Package extractor finds framework-specific declarations inside a
// single source file: HTTP/RPC route registrations and configuration
// variable references. Both extractors work line-by-line against
// already-read file content so they can run inline with the rest of
// the per-file parse pass instead of a separate directory walk.
package extractor

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

// Route-registration patterns, one family per framework.
var (
	nestControllerPattern = regexp.MustCompile(`@Controller\(['"]([^'"]*)['"]\)`)
	nestMethodPatterns    = map[string]*regexp.Regexp{
		"GET":    regexp.MustCompile(`@Get\(['"]?([^'")\s]*)?['"]?\)`),
		"POST":   regexp.MustCompile(`@Post\(['"]?([^'")\s]*)?['"]?\)`),
		"PUT":    regexp.MustCompile(`@Put\(['"]?([^'")\s]*)?['"]?\)`),
		"PATCH":  regexp.MustCompile(`@Patch\(['"]?([^'")\s]*)?['"]?\)`),
		"DELETE": regexp.MustCompile(`@Delete\(['"]?([^'")\s]*)?['"]?\)`),
	}
	nestHandlerPattern = regexp.MustCompile(`(?m)^\s*(?:async\s+)?(\w+)\s*\(`)

	expressRouterPattern = regexp.MustCompile(`router\.(get|post|put|patch|delete)\s*\(\s*['"]([^'"]+)['"]`)
	expressAppPattern    = regexp.MustCompile(`app\.(get|post|put|patch|delete)\s*\(\s*['"]([^'"]+)['"]`)

	goGinPattern  = regexp.MustCompile(`(?:r|router|g|group)\.(GET|POST|PUT|PATCH|DELETE)\s*\(\s*"([^"]+)"`)
	goEchoPattern = regexp.MustCompile(`(?:e|echo|g|group)\.(GET|POST|PUT|PATCH|DELETE)\s*\(\s*"([^"]+)"`)

	flaskRoutePattern   = regexp.MustCompile(`@(?:app|bp|blueprint)\.(route|get|post|put|patch|delete)\s*\(\s*['"]([^'"]+)['"]`)
	fastapiRoutePattern = regexp.MustCompile(`@(?:app|router)\.(get|post|put|patch|delete)\s*\(\s*['"]([^'"]+)['"]`)
	djangoUrlPattern    = regexp.MustCompile(`path\s*\(\s*['"]([^'"]+)['"]`)

	springMappingPattern    = regexp.MustCompile(`@(GetMapping|PostMapping|PutMapping|PatchMapping|DeleteMapping|RequestMapping)\s*\(\s*(?:value\s*=\s*)?['"]?([^'")\s,]+)['"]?`)
	springControllerPattern = regexp.MustCompile(`@(?:Rest)?Controller\s*(?:\(\s*['"]([^'"]*)['"]\s*\))?`)
	springClassRequestMap   = regexp.MustCompile(`@RequestMapping\s*\(\s*(?:value\s*=\s*)?['"]([^'"]+)['"]`)

	aspnetRoutePattern    = regexp.MustCompile(`\[Http(Get|Post|Put|Patch|Delete)\s*\(\s*['"]?([^'")\]]*)?['"]?\s*\)\]`)
	aspnetControllerRoute = regexp.MustCompile(`\[Route\s*\(\s*['"]([^'"]+)['"]\s*\)\]`)
)

// ExtractAPIEndpoints scans a file's content for route registrations in
// whichever framework its extension suggests, returning one
// types.APIEndpoint per match with its 1-based line number.
func ExtractAPIEndpoints(filePath, content string) []types.APIEndpoint {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".tsx", ".js", ".jsx":
		return extractTSEndpoints(content, filePath)
	case ".go":
		return extractGoEndpoints(content)
	case ".py":
		return extractPythonEndpoints(content)
	case ".java", ".kt":
		return extractJavaEndpoints(content)
	case ".cs":
		return extractCSharpEndpoints(content, filePath)
	default:
		return nil
	}
}

func extractTSEndpoints(content, filePath string) []types.APIEndpoint {
	var endpoints []types.APIEndpoint
	lines := strings.Split(content, "\n")

	basePath := ""
	if m := nestControllerPattern.FindStringSubmatch(content); m != nil {
		basePath = "/" + strings.Trim(m[1], "/")
	}

	for i, line := range lines {
		for method, pattern := range nestMethodPatterns {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			path := basePath
			if len(m) > 1 && m[1] != "" {
				if sub := strings.Trim(m[1], "/"); sub != "" {
					path = basePath + "/" + sub
				}
			}

			handler := ""
			for j := i + 1; j < len(lines) && j < i+5; j++ {
				if hm := nestHandlerPattern.FindStringSubmatch(lines[j]); hm != nil {
					handler = hm[1]
					break
				}
			}

			endpoints = append(endpoints, types.APIEndpoint{
				Method:    method,
				Path:      path,
				Handler:   handler,
				Line:      i + 1,
				Framework: "nestjs",
			})
		}
	}

	for _, pattern := range []*regexp.Regexp{expressRouterPattern, expressAppPattern} {
		for _, match := range pattern.FindAllStringSubmatchIndex(content, -1) {
			if len(match) < 6 {
				continue
			}
			endpoints = append(endpoints, types.APIEndpoint{
				Method:    strings.ToUpper(content[match[2]:match[3]]),
				Path:      content[match[4]:match[5]],
				Line:      strings.Count(content[:match[0]], "\n") + 1,
				Framework: "express",
			})
		}
	}

	return endpoints
}

func extractGoEndpoints(content string) []types.APIEndpoint {
	var endpoints []types.APIEndpoint
	for _, pattern := range []*regexp.Regexp{goGinPattern, goEchoPattern} {
		for _, match := range pattern.FindAllStringSubmatchIndex(content, -1) {
			if len(match) < 6 {
				continue
			}
			endpoints = append(endpoints, types.APIEndpoint{
				Method:    content[match[2]:match[3]],
				Path:      content[match[4]:match[5]],
				Line:      strings.Count(content[:match[0]], "\n") + 1,
				Framework: "go-http",
			})
		}
	}
	return endpoints
}

func extractPythonEndpoints(content string) []types.APIEndpoint {
	var endpoints []types.APIEndpoint
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		if m := flaskRoutePattern.FindStringSubmatch(line); m != nil {
			method := strings.ToUpper(m[1])
			if method == "ROUTE" {
				method = "GET"
			}
			endpoints = append(endpoints, types.APIEndpoint{
				Method:    method,
				Path:      m[2],
				Handler:   nextPyHandler(lines, i, 3),
				Line:      i + 1,
				Framework: "flask",
			})
		}
		if m := fastapiRoutePattern.FindStringSubmatch(line); m != nil {
			endpoints = append(endpoints, types.APIEndpoint{
				Method:    strings.ToUpper(m[1]),
				Path:      m[2],
				Handler:   nextPyHandler(lines, i, 5),
				Line:      i + 1,
				Framework: "fastapi",
			})
		}
	}

	for _, match := range djangoUrlPattern.FindAllStringSubmatchIndex(content, -1) {
		if len(match) < 4 {
			continue
		}
		path := content[match[2]:match[3]]
		endpoints = append(endpoints, types.APIEndpoint{
			Method:    "ANY",
			Path:      "/" + strings.Trim(path, "/"),
			Line:      strings.Count(content[:match[0]], "\n") + 1,
			Framework: "django",
		})
	}

	return endpoints
}

func nextPyHandler(lines []string, from, window int) string {
	for j := from + 1; j < len(lines) && j < from+window+1; j++ {
		trimmed := strings.TrimSpace(lines[j])
		if !strings.HasPrefix(trimmed, "def ") && !strings.HasPrefix(trimmed, "async def ") {
			continue
		}
		parts := strings.Fields(trimmed)
		idx := 1
		if parts[0] == "async" {
			idx = 2
		}
		if len(parts) > idx {
			return strings.Split(parts[idx], "(")[0]
		}
	}
	return ""
}

func extractJavaEndpoints(content string) []types.APIEndpoint {
	var endpoints []types.APIEndpoint
	lines := strings.Split(content, "\n")

	basePath := ""
	if m := springControllerPattern.FindStringSubmatch(content); len(m) > 1 {
		basePath = m[1]
	}
	if m := springClassRequestMap.FindStringSubmatch(content); m != nil {
		basePath = m[1]
	}

	for i, line := range lines {
		m := springMappingPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		annotation, path := m[1], m[2]

		method := "GET"
		switch annotation {
		case "PostMapping":
			method = "POST"
		case "PutMapping":
			method = "PUT"
		case "PatchMapping":
			method = "PATCH"
		case "DeleteMapping":
			method = "DELETE"
		case "RequestMapping":
			if strings.Contains(line, "POST") {
				method = "POST"
			} else if strings.Contains(line, "PUT") {
				method = "PUT"
			}
		}

		fullPath := basePath
		if path != "" {
			fullPath = strings.TrimSuffix(basePath, "/") + "/" + strings.TrimPrefix(path, "/")
		}

		endpoints = append(endpoints, types.APIEndpoint{
			Method:    method,
			Path:      fullPath,
			Handler:   nextJavaLikeHandler(lines, i),
			Line:      i + 1,
			Framework: "spring",
		})
	}
	return endpoints
}

var javaMethodNamePattern = regexp.MustCompile(`(?:public|private|protected)?\s*\w+\s+(\w+)\s*\(`)

func nextJavaLikeHandler(lines []string, from int) string {
	for j := from + 1; j < len(lines) && j < from+5; j++ {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" || strings.HasPrefix(trimmed, "@") || strings.HasPrefix(trimmed, "//") {
			continue
		}
		if mm := javaMethodNamePattern.FindStringSubmatch(trimmed); mm != nil {
			return mm[1]
		}
		break
	}
	return ""
}

func extractCSharpEndpoints(content, filePath string) []types.APIEndpoint {
	var endpoints []types.APIEndpoint
	lines := strings.Split(content, "\n")

	basePath := ""
	if m := aspnetControllerRoute.FindStringSubmatch(content); m != nil {
		basePath = m[1]
		if strings.Contains(basePath, "[controller]") {
			base := filepath.Base(filePath)
			name := strings.TrimSuffix(strings.TrimSuffix(base, ".cs"), "Controller")
			basePath = strings.Replace(basePath, "[controller]", strings.ToLower(name), 1)
		}
	}

	methodNamePattern := regexp.MustCompile(`(?:public|private|protected|async)?\s*(?:async\s+)?(?:Task<)?[\w<>]+\)?\s+(\w+)\s*\(`)

	for i, line := range lines {
		m := aspnetRoutePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fullPath := basePath
		if m[2] != "" {
			fullPath = strings.TrimSuffix(basePath, "/") + "/" + strings.TrimPrefix(m[2], "/")
		}

		handler := ""
		for j := i + 1; j < len(lines) && j < i+5; j++ {
			trimmed := strings.TrimSpace(lines[j])
			if trimmed == "" || strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "//") {
				continue
			}
			if mm := methodNamePattern.FindStringSubmatch(trimmed); mm != nil {
				handler = mm[1]
			}
			break
		}

		endpoints = append(endpoints, types.APIEndpoint{
			Method:    strings.ToUpper(m[1]),
			Path:      "/" + strings.Trim(fullPath, "/"),
			Handler:   handler,
			Line:      i + 1,
			Framework: "aspnet",
		})
	}
	return endpoints
}
