package store

import (
	"path/filepath"
	"testing"

	"github.com/astindex/astindex/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWriteParsedFileResolvesInheritanceEdges(t *testing.T) {
	s := openTestStore(t)

	pf := &types.ParsedFile{
		Path:  "widget.go",
		MTime: 1000,
		Size:  42,
		Symbols: []types.Symbol{
			{Name: "Widget", Kind: types.KindStruct, Line: 3},
			{Name: "Render", Kind: types.KindFunction, Line: 8},
		},
		Inheritance: []types.InheritanceEdge{
			{ParentName: "Base", Kind: "embeds", SymbolIndex: 0},
		},
	}

	if err := s.WriteParsedFile(pf); err != nil {
		t.Fatalf("write parsed file: %v", err)
	}

	var count int
	row := s.db.QueryRow(`
		SELECT COUNT(*) FROM inheritance i
		JOIN symbols s ON i.child_id = s.id
		WHERE s.name = 'Widget' AND i.parent_name = 'Base' AND i.kind = 'embeds'
	`)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 inheritance edge attached to Widget, got %d", count)
	}
}

func TestWriteParsedFileReindexClearsStaleSymbols(t *testing.T) {
	s := openTestStore(t)

	first := &types.ParsedFile{
		Path:    "a.go",
		Symbols: []types.Symbol{{Name: "Old", Kind: types.KindFunction, Line: 1}},
	}
	if err := s.WriteParsedFile(first); err != nil {
		t.Fatal(err)
	}

	second := &types.ParsedFile{
		Path:    "a.go",
		Symbols: []types.Symbol{{Name: "New", Kind: types.KindFunction, Line: 1}},
	}
	if err := s.WriteParsedFile(second); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM symbols WHERE name = 'Old'`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected stale symbol removed, found %d", count)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM symbols WHERE name = 'New'`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected new symbol present, found %d", count)
	}
}

func TestGetStatsAndClearAll(t *testing.T) {
	s := openTestStore(t)

	pf := &types.ParsedFile{
		Path:    "b.go",
		Symbols: []types.Symbol{{Name: "Foo", Kind: types.KindFunction, Line: 1}},
	}
	if err := s.WriteParsedFile(pf); err != nil {
		t.Fatal(err)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.FileCount != 1 || stats.SymbolCount != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	if err := s.ClearAll(); err != nil {
		t.Fatal(err)
	}
	stats, err = s.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.FileCount != 0 || stats.SymbolCount != 0 {
		t.Errorf("expected empty stats after ClearAll, got %+v", stats)
	}
}

func TestWriteParsedFilesBatch(t *testing.T) {
	s := openTestStore(t)

	files := []*types.ParsedFile{
		{Path: "one.go", Symbols: []types.Symbol{{Name: "One", Kind: types.KindFunction, Line: 1}}},
		{Path: "two.go", Symbols: []types.Symbol{{Name: "Two", Kind: types.KindFunction, Line: 1}}},
	}
	if err := s.WriteParsedFiles(files); err != nil {
		t.Fatal(err)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.FileCount != 2 || stats.SymbolCount != 2 {
		t.Errorf("expected 2 files and 2 symbols, got %+v", stats)
	}
}
