package extractor

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

var (
	processEnvPattern = regexp.MustCompile(`process\.env\.(\w+)`)
	processEnvBracket = regexp.MustCompile(`process\.env\[['"](\w+)['"]\]`)
	configGetPattern  = regexp.MustCompile(`config(?:Service)?\.get[^(]*\(['"]([^'"]+)['"]`)

	osGetenvPattern     = regexp.MustCompile(`os\.Getenv\(['"](\w+)['"]\)`)
	osLookupEnvPattern  = regexp.MustCompile(`os\.LookupEnv\(['"](\w+)['"]\)`)
	viperGetPattern     = regexp.MustCompile(`viper\.Get(?:String|Int|Bool|Duration)?\(['"]([^'"]+)['"]\)`)
	envStructTagPattern = regexp.MustCompile(`env:"(\w+)"`)

	osEnvironPattern  = regexp.MustCompile(`os\.environ(?:\.get)?\[?['"](\w+)['"]\]?`)
	osGetenvPyPattern = regexp.MustCompile(`os\.getenv\(['"](\w+)['"]`)

	envFileLinePattern = regexp.MustCompile(`^(\w+)=(.*)$`)
)

// ExtractConfigVars scans a file's content for configuration variable
// references: dotenv key assignments, environment-variable reads, and
// Go struct env tags. One types.ConfigVar is returned per reference,
// deduplicated by key within the file; .env files return one entry per
// assignment line, without deduplication.
func ExtractConfigVars(filePath, content string) []types.ConfigVar {
	base := filepath.Base(filePath)
	if strings.HasPrefix(base, ".env") {
		return extractEnvFileVars(content)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	var patterns []*regexp.Regexp
	var source string
	switch ext {
	case ".ts", ".tsx", ".js", ".jsx":
		patterns = []*regexp.Regexp{processEnvPattern, processEnvBracket, configGetPattern}
		source = "env_usage"
	case ".go":
		patterns = []*regexp.Regexp{osGetenvPattern, osLookupEnvPattern, viperGetPattern}
		source = "env_usage"
	case ".py":
		patterns = []*regexp.Regexp{osEnvironPattern, osGetenvPyPattern}
		source = "env_usage"
	default:
		return nil
	}

	seen := make(map[string]bool)
	var vars []types.ConfigVar

	for _, pattern := range patterns {
		for _, match := range pattern.FindAllStringSubmatchIndex(content, -1) {
			if len(match) < 4 {
				continue
			}
			key := content[match[2]:match[3]]
			if seen[key] {
				continue
			}
			seen[key] = true
			vars = append(vars, types.ConfigVar{
				Key:    key,
				Source: source,
				Line:   strings.Count(content[:match[0]], "\n") + 1,
			})
		}
	}

	if ext == ".go" {
		for i, line := range strings.Split(content, "\n") {
			m := envStructTagPattern.FindStringSubmatch(line)
			if m == nil || seen[m[1]] {
				continue
			}
			seen[m[1]] = true
			vars = append(vars, types.ConfigVar{
				Key:    m[1],
				Source: "struct_tag",
				Line:   i + 1,
			})
		}
	}

	return vars
}

func extractEnvFileVars(content string) []types.ConfigVar {
	var vars []types.ConfigVar
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if m := envFileLinePattern.FindStringSubmatch(trimmed); m != nil {
			vars = append(vars, types.ConfigVar{
				Key:     m[1],
				Default: m[2],
				Source:  "dotenv",
				Line:    i + 1,
			})
		}
	}
	return vars
}
