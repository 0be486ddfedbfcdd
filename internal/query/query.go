// Package query implements the read-side lookups over an index store:
// file search, symbol search, inheritance/implementation lookups, and
// reference lookups.
package query

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/astindex/astindex/internal/errs"
	"github.com/astindex/astindex/internal/grep"
	"github.com/astindex/astindex/pkg/types"
)

// mutatingKeywordRe matches any of the rejected keywords as a whole
// token, bounded by non-word characters on both sides (whitespace,
// parens, a leading/trailing semicolon, ...) rather than just spaces,
// so a stacked statement like "SELECT 1;DELETE ..." is still caught.
var mutatingKeywordRe = regexp.MustCompile(`(?i)\b(INSERT|UPDATE|DELETE|DROP|ALTER|CREATE|ATTACH|DETACH|PRAGMA)\b`)

// ValidateReadOnly rejects anything but a SELECT/WITH/EXPLAIN statement,
// any statement that contains a mutating keyword as a standalone word
// anywhere in its text (string literals included), and anything with
// more than one statement (a trailing semicolon is tolerated). It exists so
// the ad-hoc query surface can run arbitrary read SQL without risking
// a write.
func ValidateReadOnly(sqlText string) error {
	trimmed := strings.TrimSpace(sqlText)
	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") && !strings.HasPrefix(upper, "EXPLAIN") {
		return fmt.Errorf("%w: only SELECT, WITH, and EXPLAIN queries are allowed", errs.ErrMutatingQuery)
	}
	if m := mutatingKeywordRe.FindString(trimmed); m != "" {
		return fmt.Errorf("%w: found %s", errs.ErrMutatingQuery, strings.ToUpper(m))
	}
	if strings.Contains(strings.TrimRight(trimmed, "; \t\n"), ";") {
		return fmt.Errorf("%w: multiple statements are not allowed", errs.ErrMutatingQuery)
	}
	return nil
}

// RunAdHoc validates sqlText as read-only, appends a LIMIT clause if one
// isn't already present, and returns the column names alongside each row
// rendered as a map keyed by column name.
func (e *Engine) RunAdHoc(sqlText string, limit int) ([]string, []map[string]any, error) {
	if err := ValidateReadOnly(sqlText); err != nil {
		return nil, nil, err
	}

	trimmed := strings.TrimRight(strings.TrimSpace(sqlText), ";")
	upper := strings.ToUpper(trimmed)
	query := trimmed
	if !strings.Contains(upper, "LIMIT") {
		query = fmt.Sprintf("%s LIMIT %d", trimmed, limit)
	}

	rows, err := e.db.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("run ad-hoc query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		obj := make(map[string]any, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				obj[c] = string(b)
			} else {
				obj[c] = vals[i]
			}
		}
		out = append(out, obj)
	}
	return cols, out, rows.Err()
}

// Engine runs read queries against an open database handle. Root is
// only needed by queries that fall back to scanning the filesystem
// when the index has nothing recorded, such as Usages.
type Engine struct {
	db   *sql.DB
	root string
}

// New wraps db for querying against the project rooted at root.
func New(db *sql.DB, root string) *Engine {
	return &Engine{db: db, root: root}
}

// FindFiles returns file paths containing pattern as a substring.
func (e *Engine) FindFiles(pattern string, limit int) ([]string, error) {
	rows, err := e.db.Query(`SELECT path FROM files WHERE path LIKE ? LIMIT ?`, "%"+pattern+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("find files: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

const searchResultColumns = `s.name, s.kind, s.line, s.signature, f.path`

func scanSearchResults(rows *sql.Rows) ([]types.SearchResult, error) {
	defer rows.Close()
	var out []types.SearchResult
	for rows.Next() {
		var r types.SearchResult
		var signature sql.NullString
		if err := rows.Scan(&r.Name, &r.Kind, &r.Line, &signature, &r.Path); err != nil {
			return nil, err
		}
		r.Signature = signature.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// FindSymbolsByName looks up symbols with an exact name match, falling
// back to a prefix search (shortest match first) if no exact match is
// found. kind narrows the match to a single symbol kind when non-empty.
func (e *Engine) FindSymbolsByName(name, kind string, limit int) ([]types.SearchResult, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if kind != "" {
		rows, err = e.db.Query(
			`SELECT `+searchResultColumns+` FROM symbols s JOIN files f ON s.file_id = f.id WHERE s.name = ? AND s.kind = ? LIMIT ?`,
			name, kind, limit,
		)
	} else {
		rows, err = e.db.Query(
			`SELECT `+searchResultColumns+` FROM symbols s JOIN files f ON s.file_id = f.id WHERE s.name = ? LIMIT ?`,
			name, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("find symbols by name: %w", err)
	}
	results, err := scanSearchResults(rows)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		return results, nil
	}

	pattern := name + "%"
	if kind != "" {
		rows, err = e.db.Query(
			`SELECT `+searchResultColumns+` FROM symbols s JOIN files f ON s.file_id = f.id WHERE s.name LIKE ? AND s.kind = ? ORDER BY length(s.name) LIMIT ?`,
			pattern, kind, limit,
		)
	} else {
		rows, err = e.db.Query(
			`SELECT `+searchResultColumns+` FROM symbols s JOIN files f ON s.file_id = f.id WHERE s.name LIKE ? ORDER BY length(s.name) LIMIT ?`,
			pattern, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("find symbols by prefix: %w", err)
	}
	results, err = scanSearchResults(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errs.ErrSymbolNotFound
	}
	return results, nil
}

// FindClassLike looks up a symbol by exact name restricted to the
// class-like kinds: the symbols that can appear on either side of an
// inheritance edge.
func (e *Engine) FindClassLike(name string, limit int) ([]types.SearchResult, error) {
	placeholders := make([]string, len(types.ClassLikeKinds))
	args := make([]any, 0, len(types.ClassLikeKinds)+2)
	args = append(args, name)
	for i, k := range types.ClassLikeKinds {
		placeholders[i] = "?"
		args = append(args, string(k))
	}
	args = append(args, limit)

	q := fmt.Sprintf(
		`SELECT %s FROM symbols s JOIN files f ON s.file_id = f.id WHERE s.name = ? AND s.kind IN (%s) LIMIT ?`,
		searchResultColumns, strings.Join(placeholders, ", "),
	)
	rows, err := e.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("find class-like: %w", err)
	}
	return scanSearchResults(rows)
}

// FindImplementations returns symbols that extend, implement, or conform
// to parentName, matching either an exact name or a qualified name ending
// in ".parentName".
func (e *Engine) FindImplementations(parentName string, limit int) ([]types.SearchResult, error) {
	pattern := "%." + parentName
	rows, err := e.db.Query(`
		SELECT s.name, s.kind, s.line, s.signature, f.path
		FROM inheritance i
		JOIN symbols s ON i.child_id = s.id
		JOIN files f ON s.file_id = f.id
		WHERE i.parent_name = ? OR i.parent_name LIKE ?
		LIMIT ?
	`, parentName, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("find implementations: %w", err)
	}
	return scanSearchResults(rows)
}

// escapeFTS5Query wraps query in double quotes so FTS5 treats it as a
// literal phrase instead of parsing it as a query expression.
func escapeFTS5Query(query string) string {
	if strings.TrimSpace(query) == "" {
		return ""
	}
	escaped := strings.ReplaceAll(query, `"`, `""`)
	return `"` + escaped + `"`
}

// SearchSymbols runs a full-text search over symbol names and
// signatures.
func (e *Engine) SearchSymbols(query string, limit int) ([]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	escaped := escapeFTS5Query(query)
	rows, err := e.db.Query(`
		SELECT s.name, s.kind, s.line, s.signature, f.path
		FROM symbols_fts fts
		JOIN symbols s ON fts.rowid = s.id
		JOIN files f ON s.file_id = f.id
		WHERE symbols_fts MATCH ?
		LIMIT ?
	`, escaped, limit)
	if err != nil {
		return nil, fmt.Errorf("search symbols: %w", err)
	}
	return scanSearchResults(rows)
}

// FindReferences returns use-sites of name ordered by file path then
// line.
func (e *Engine) FindReferences(name string, limit int) ([]types.RefResult, error) {
	rows, err := e.db.Query(`
		SELECT r.name, r.line, r.context, f.path
		FROM refs r
		JOIN files f ON r.file_id = f.id
		WHERE r.name = ?
		ORDER BY f.path, r.line
		LIMIT ?
	`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("find references: %w", err)
	}
	defer rows.Close()

	var out []types.RefResult
	for rows.Next() {
		var r types.RefResult
		var ctx sql.NullString
		if err := rows.Scan(&r.Name, &r.Line, &ctx, &r.Path); err != nil {
			return nil, err
		}
		r.Context = ctx.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// XMLUsageResult is a single Android XML/manifest reference to a class.
type XMLUsageResult struct {
	FilePath  string
	Line      int
	UsageType string
	ElementID string
}

// FindXMLUsages returns every Android layout/manifest reference to
// className.
func (e *Engine) FindXMLUsages(className string, limit int) ([]XMLUsageResult, error) {
	rows, err := e.db.Query(`
		SELECT file_path, line, usage_type, element_id
		FROM xml_usages
		WHERE class_name = ?
		ORDER BY file_path, line
		LIMIT ?
	`, className, limit)
	if err != nil {
		return nil, fmt.Errorf("find xml usages: %w", err)
	}
	defer rows.Close()

	var out []XMLUsageResult
	for rows.Next() {
		var r XMLUsageResult
		var usageType, elementID sql.NullString
		if err := rows.Scan(&r.FilePath, &r.Line, &usageType, &elementID); err != nil {
			return nil, err
		}
		r.UsageType, r.ElementID = usageType.String, elementID.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// StoryboardUsageResult is a single iOS storyboard/xib reference to a
// class.
type StoryboardUsageResult struct {
	FilePath     string
	Line         int
	UsageType    string
	StoryboardID string
}

// FindStoryboardUsages returns every iOS storyboard/xib reference to
// className.
func (e *Engine) FindStoryboardUsages(className string, limit int) ([]StoryboardUsageResult, error) {
	rows, err := e.db.Query(`
		SELECT file_path, line, usage_type, storyboard_id
		FROM storyboard_usages
		WHERE class_name = ?
		ORDER BY file_path, line
		LIMIT ?
	`, className, limit)
	if err != nil {
		return nil, fmt.Errorf("find storyboard usages: %w", err)
	}
	defer rows.Close()

	var out []StoryboardUsageResult
	for rows.Next() {
		var r StoryboardUsageResult
		var usageType, storyboardID sql.NullString
		if err := rows.Scan(&r.FilePath, &r.Line, &usageType, &storyboardID); err != nil {
			return nil, err
		}
		r.UsageType, r.StoryboardID = usageType.String, storyboardID.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// refCount returns how many refs rows exist for name, used by Usages to
// decide whether the index already has enough to answer without a
// filesystem scan.
func (e *Engine) refCount(name string) (int, error) {
	var n int
	err := e.db.QueryRow(`SELECT COUNT(*) FROM refs WHERE name = ?`, name).Scan(&n)
	return n, err
}

// usageCallSupportedExts mirrors the extensions the call-site grep
// fallback searches; kept narrow since usage sites are only meaningful
// in source files with call/member-access syntax.
var usageCallSupportedExts = []string{
	"go", "py", "rb", "rs", "java", "kt", "cs", "cpp", "cc", "cxx",
	"h", "hpp", "c", "swift", "m", "mm", "dart", "pm", "pl", "t",
	"ts", "tsx", "js", "jsx",
}

func usageCallPattern(name string) *regexp.Regexp {
	q := regexp.QuoteMeta(name)
	return regexp.MustCompile(`(?:^|[.\->&\s])` + q + `\s*\(`)
}

func usageDefPattern(name string) *regexp.Regexp {
	q := regexp.QuoteMeta(name)
	return regexp.MustCompile(`(?:func|fn|def|sub|fun)\s+` + q + `\s*\(`)
}

// Usages reports use-sites of name: references recorded in the index
// when any exist, or a parallel grep across the project tree for
// call-like occurrences of name when the index has none, excluding
// lines that look like the definition itself.
func (e *Engine) Usages(name string, limit int) ([]types.RefResult, error) {
	count, err := e.refCount(name)
	if err != nil {
		return nil, fmt.Errorf("count refs: %w", err)
	}
	if count > 0 {
		return e.FindReferences(name, limit)
	}
	if e.root == "" {
		return nil, nil
	}

	callRe := usageCallPattern(name)
	defRe := usageDefPattern(name)

	var out []types.RefResult
	err = grep.SearchLimited(e.root, callRe.String(), usageCallSupportedExts, limit, func(m grep.Match) {
		if defRe.MatchString(m.Text) {
			return
		}
		out = append(out, types.RefResult{Name: name, Line: m.Line, Context: strings.TrimSpace(m.Text), Path: m.Path})
	})
	if err != nil {
		return nil, fmt.Errorf("grep usages: %w", err)
	}
	return out, nil
}
