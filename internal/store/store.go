// Package store persists parsed project data to an on-disk SQLite
// database and provides the low-level write path the indexing pipeline
// drives one chunk at a time.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/astindex/astindex/pkg/types"
)

// Store wraps a single-connection SQLite database holding one project's
// index.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates the cache directory if needed, opens (or creates) the
// database at dbPath, applies schema, and returns a ready Store.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: dbPath}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the on-disk location of the database file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx, letting the
// write helpers below run either standalone or inside a transaction.
type queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// WithTransaction runs fn inside a transaction, committing on success and
// rolling back on error or panic.
func (s *Store) WithTransaction(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// UpsertFile inserts or replaces a file record and returns its row id.
func UpsertFile(q queryer, path string, mtime, size int64) (int64, error) {
	res, err := q.Exec(`INSERT OR REPLACE INTO files (path, mtime, size) VALUES (?, ?, ?)`, path, mtime, size)
	if err != nil {
		return 0, fmt.Errorf("upsert file %s: %w", path, err)
	}
	return res.LastInsertId()
}

// insertSymbol inserts a single symbol and returns its row id.
func insertSymbol(q queryer, fileID int64, sym types.Symbol) (int64, error) {
	res, err := q.Exec(
		`INSERT INTO symbols (file_id, name, kind, line, signature) VALUES (?, ?, ?, ?, ?)`,
		fileID, sym.Name, string(sym.Kind), sym.Line, nullableString(sym.Signature),
	)
	if err != nil {
		return 0, fmt.Errorf("insert symbol %s: %w", sym.Name, err)
	}
	return res.LastInsertId()
}

func insertInheritance(q queryer, childID int64, parentName, kind string) error {
	_, err := q.Exec(`INSERT INTO inheritance (child_id, parent_name, kind) VALUES (?, ?, ?)`, childID, parentName, kind)
	if err != nil {
		return fmt.Errorf("insert inheritance %s: %w", parentName, err)
	}
	return nil
}

func insertRef(q queryer, fileID int64, ref types.Ref) error {
	_, err := q.Exec(`INSERT INTO refs (file_id, name, line, context) VALUES (?, ?, ?, ?)`,
		fileID, ref.Name, ref.Line, nullableString(ref.Context))
	return err
}

func insertImportEdge(q queryer, fileID int64, imp types.ImportEdge) error {
	_, err := q.Exec(`INSERT INTO import_edges (file_id, target, kind, line) VALUES (?, ?, ?, ?)`,
		fileID, imp.Target, nullableString(imp.Kind), imp.Line)
	return err
}

func insertAPIEndpoint(q queryer, fileID int64, ep types.APIEndpoint) error {
	_, err := q.Exec(
		`INSERT INTO api_endpoints (file_id, method, path, handler, line, framework) VALUES (?, ?, ?, ?, ?, ?)`,
		fileID, ep.Method, ep.Path, nullableString(ep.Handler), ep.Line, nullableString(ep.Framework),
	)
	return err
}

func insertConfigVar(q queryer, fileID int64, cv types.ConfigVar) error {
	_, err := q.Exec(
		`INSERT INTO config_vars (file_id, key, line, default_value, source) VALUES (?, ?, ?, ?, ?)`,
		fileID, cv.Key, cv.Line, nullableString(cv.Default), cv.Source,
	)
	return err
}

// SetMetadata upserts a single project-level metadata key/value pair,
// such as the canonical project root or the no_ignore flag an index
// run used.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// GetMetadata returns a metadata value and whether it was present.
func (s *Store) GetMetadata(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// WriteParsedFile persists one parsed file's symbols, inheritance edges,
// references and imports within a single transaction. It resolves each
// InheritanceEdge.SymbolIndex to the real child id produced by the
// matching symbol insert, since symbols have no id until they are
// written.
func (s *Store) WriteParsedFile(pf *types.ParsedFile) error {
	return s.WithTransaction(func(tx *sql.Tx) error {
		return writeParsedFile(tx, pf)
	})
}

// WriteParsedFiles persists a batch of parsed files in one transaction,
// the unit the indexing pipeline flushes per chunk.
func (s *Store) WriteParsedFiles(files []*types.ParsedFile) error {
	return s.WithTransaction(func(tx *sql.Tx) error {
		for _, pf := range files {
			if err := writeParsedFile(tx, pf); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeParsedFile(q queryer, pf *types.ParsedFile) error {
	fileID, err := UpsertFile(q, pf.Path, pf.MTime, pf.Size)
	if err != nil {
		return err
	}

	// Clear any previously-indexed symbols/refs/imports for this file so
	// re-indexing doesn't leave stale rows behind; the symbols FK cascade
	// takes inheritance with it.
	if _, err := q.Exec(`DELETE FROM symbols WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("clear old symbols for %s: %w", pf.Path, err)
	}
	if _, err := q.Exec(`DELETE FROM refs WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("clear old refs for %s: %w", pf.Path, err)
	}
	if _, err := q.Exec(`DELETE FROM import_edges WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("clear old imports for %s: %w", pf.Path, err)
	}
	if _, err := q.Exec(`DELETE FROM api_endpoints WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("clear old endpoints for %s: %w", pf.Path, err)
	}
	if _, err := q.Exec(`DELETE FROM config_vars WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("clear old config vars for %s: %w", pf.Path, err)
	}

	symbolIDs := make([]int64, len(pf.Symbols))
	for i, sym := range pf.Symbols {
		id, err := insertSymbol(q, fileID, sym)
		if err != nil {
			return err
		}
		symbolIDs[i] = id
	}

	for _, edge := range pf.Inheritance {
		if edge.SymbolIndex < 0 || edge.SymbolIndex >= len(symbolIDs) {
			continue
		}
		if err := insertInheritance(q, symbolIDs[edge.SymbolIndex], edge.ParentName, edge.Kind); err != nil {
			return err
		}
	}

	for _, ref := range pf.Refs {
		if err := insertRef(q, fileID, ref); err != nil {
			return fmt.Errorf("insert ref %s: %w", ref.Name, err)
		}
	}

	for _, imp := range pf.Imports {
		if err := insertImportEdge(q, fileID, imp); err != nil {
			return fmt.Errorf("insert import %s: %w", imp.Target, err)
		}
	}

	for _, ep := range pf.APIEndpoints {
		if err := insertAPIEndpoint(q, fileID, ep); err != nil {
			return fmt.Errorf("insert endpoint %s %s: %w", ep.Method, ep.Path, err)
		}
	}

	for _, cv := range pf.ConfigVars {
		if err := insertConfigVar(q, fileID, cv); err != nil {
			return fmt.Errorf("insert config var %s: %w", cv.Key, err)
		}
	}

	return nil
}

// DeleteFile removes a file and everything that cascades from it (its
// symbols, refs, import edges, endpoints, config vars) by path. Used by
// incremental updates to drop rows for files that vanished since the
// last index.
func DeleteFile(q queryer, path string) error {
	_, err := q.Exec(`DELETE FROM files WHERE path = ?`, path)
	return err
}

// FileSnapshot is a (path, mtime) pair loaded from the store to compare
// against the filesystem during an incremental update.
type FileSnapshot struct {
	Path  string
	MTime int64
}

// AllFileSnapshots returns every indexed file's path and mtime.
func (s *Store) AllFileSnapshots() ([]FileSnapshot, error) {
	rows, err := s.db.Query(`SELECT path, mtime FROM files`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FileSnapshot
	for rows.Next() {
		var snap FileSnapshot
		if err := rows.Scan(&snap.Path, &snap.MTime); err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// ClearAll removes every row from every table, leaving the schema intact.
func (s *Store) ClearAll() error {
	return s.WithTransaction(func(tx *sql.Tx) error {
		tables := []string{
			"ios_asset_usages", "ios_assets", "storyboard_usages",
			"resource_usages", "resources", "xml_usages",
			"transitive_deps", "refs", "inheritance", "module_deps",
			"modules", "config_vars", "api_endpoints", "import_edges",
			"symbols", "files", "metadata",
		}
		for _, t := range tables {
			if _, err := tx.Exec("DELETE FROM " + t); err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
		}
		return nil
	})
}

// GetStats summarizes row counts across the index for reporting.
func (s *Store) GetStats() (types.Stats, error) {
	var stats types.Stats
	counts := []struct {
		table string
		dest  *int64
	}{
		{"files", &stats.FileCount},
		{"symbols", &stats.SymbolCount},
		{"modules", &stats.ModuleCount},
		{"refs", &stats.RefCount},
		{"xml_usages", &stats.XMLUsageCount},
		{"resources", &stats.ResourceCount},
		{"storyboard_usages", &stats.StoryboardUsageCount},
		{"ios_assets", &stats.IOSAssetCount},
		{"api_endpoints", &stats.APIEndpointCount},
		{"config_vars", &stats.ConfigVarCount},
		{"import_edges", &stats.ImportEdgeCount},
	}
	for _, c := range counts {
		row := s.db.QueryRow("SELECT COUNT(*) FROM " + c.table)
		if err := row.Scan(c.dest); err != nil {
			*c.dest = 0
		}
	}
	return stats, nil
}

// DB exposes the underlying *sql.DB for packages that need direct query
// access (the query engine, the dependency indexer, the cross-reference
// indexers).
func (s *Store) DB() *sql.DB {
	return s.db
}
