package query

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/astindex/astindex/internal/errs"
	"github.com/astindex/astindex/internal/store"
	"github.com/astindex/astindex/pkg/types"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	files := []*types.ParsedFile{
		{
			Path: "animal.py",
			Symbols: []types.Symbol{
				{Name: "Animal", Kind: types.KindClass, Line: 1, Signature: "class Animal"},
				{Name: "Dog", Kind: types.KindClass, Line: 10, Signature: "class Dog(Animal)"},
				{Name: "speak", Kind: types.KindFunction, Line: 2, Signature: "def speak(self)"},
			},
			Inheritance: []types.InheritanceEdge{
				{ParentName: "Animal", Kind: "extends", SymbolIndex: 1},
			},
			Refs: []types.Ref{
				{Name: "speak", Line: 20, Context: "d.speak()"},
			},
		},
	}
	if err := s.WriteParsedFiles(files); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return New(s.DB(), "")
}

func TestFindSymbolsByNameExactThenPrefix(t *testing.T) {
	e := newTestEngine(t)

	exact, err := e.FindSymbolsByName("Animal", "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(exact) != 1 || exact[0].Name != "Animal" {
		t.Errorf("expected exact match for Animal, got %+v", exact)
	}

	prefix, err := e.FindSymbolsByName("Ani", "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(prefix) != 1 || prefix[0].Name != "Animal" {
		t.Errorf("expected prefix fallback to find Animal, got %+v", prefix)
	}
}

func TestFindSymbolsByNameReturnsErrSymbolNotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.FindSymbolsByName("NoSuchSymbol", "", 10)
	if !errors.Is(err, errs.ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestFindClassLikeExcludesFunctions(t *testing.T) {
	e := newTestEngine(t)

	results, err := e.FindClassLike("speak", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected function speak excluded from class-like lookup, got %+v", results)
	}

	results, err = e.FindClassLike("Animal", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("expected Animal to be found as class-like, got %+v", results)
	}
}

func TestFindImplementations(t *testing.T) {
	e := newTestEngine(t)

	results, err := e.FindImplementations("Animal", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "Dog" {
		t.Errorf("expected Dog as an implementation of Animal, got %+v", results)
	}
}

func TestSearchSymbolsFTS(t *testing.T) {
	e := newTestEngine(t)

	results, err := e.SearchSymbols("speak", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "speak" {
		t.Errorf("expected FTS match for speak, got %+v", results)
	}
}

func TestFindReferences(t *testing.T) {
	e := newTestEngine(t)

	refs, err := e.FindReferences("speak", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 || refs[0].Line != 20 {
		t.Errorf("expected one reference to speak at line 20, got %+v", refs)
	}
}

func TestValidateReadOnlyRejectsMutation(t *testing.T) {
	cases := []struct {
		sql     string
		wantErr bool
	}{
		{"SELECT * FROM symbols", false},
		{"WITH x AS (SELECT 1) SELECT * FROM x", false},
		{"EXPLAIN QUERY PLAN SELECT * FROM symbols", false},
		{"DELETE FROM symbols", true},
		{"SELECT * FROM symbols; DROP TABLE symbols", true},
		{"SELECT 1;DELETE FROM symbols", true},
		{"UPDATE symbols SET name = 'x'", true},
		{"SELECT * FROM symbols;", false},
	}
	for _, c := range cases {
		err := ValidateReadOnly(c.sql)
		if (err != nil) != c.wantErr {
			t.Errorf("ValidateReadOnly(%q) error = %v, wantErr %v", c.sql, err, c.wantErr)
		}
	}
}

func TestRunAdHocAddsLimit(t *testing.T) {
	e := newTestEngine(t)

	cols, rows, err := e.RunAdHoc("SELECT name FROM symbols", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != 1 || cols[0] != "name" {
		t.Errorf("expected single name column, got %+v", cols)
	}
	if len(rows) != 1 {
		t.Errorf("expected LIMIT 1 applied, got %d rows", len(rows))
	}
}
