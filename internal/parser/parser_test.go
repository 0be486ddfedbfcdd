package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/astindex/astindex/pkg/types"
)

func setupTestFile(t *testing.T, content, ext string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample"+ext)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

func hasSymbol(symbols []types.Symbol, name string, kind types.SymbolKind) bool {
	for _, s := range symbols {
		if s.Name == name && s.Kind == kind {
			return true
		}
	}
	return false
}

func TestParseFileGo(t *testing.T) {
	content := `package sample

import (
	"context"
	alias "example.com/pkg/other"
)

type Widget struct {
	Base
	Name string
}

type WidgetID = string

var DefaultName string

func (w *Widget) Render() string {
	return w.Name
}

const MaxWidgets = 10
`
	path := setupTestFile(t, content, ".go")
	pf, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !hasSymbol(pf.Symbols, "Widget", types.KindStruct) {
		t.Errorf("expected struct Widget, got %+v", pf.Symbols)
	}
	if !hasSymbol(pf.Symbols, "Render", types.KindFunction) {
		t.Errorf("expected function Render, got %+v", pf.Symbols)
	}
	if !hasSymbol(pf.Symbols, "MaxWidgets", types.KindConstant) {
		t.Errorf("expected constant MaxWidgets, got %+v", pf.Symbols)
	}
	if !hasSymbol(pf.Symbols, "context", types.KindImport) {
		t.Errorf("expected import context, got %+v", pf.Symbols)
	}
	if !hasSymbol(pf.Symbols, "alias", types.KindImport) {
		t.Errorf("expected aliased import alias, got %+v", pf.Symbols)
	}
	if !hasSymbol(pf.Symbols, "WidgetID", types.KindTypeAlias) {
		t.Errorf("expected typealias WidgetID, got %+v", pf.Symbols)
	}
	if !hasSymbol(pf.Symbols, "DefaultName", types.KindProperty) {
		t.Errorf("expected package-level var DefaultName, got %+v", pf.Symbols)
	}

	foundReceiver, foundImportFrom, foundAlias := false, false, false
	for _, e := range pf.Inheritance {
		if e.ParentName == "Widget" && e.Kind == "receiver" {
			foundReceiver = true
		}
		if e.ParentName == "example.com/pkg/other" && e.Kind == "from" {
			foundImportFrom = true
		}
		if e.ParentName == "string" && e.Kind == "alias" {
			foundAlias = true
		}
	}
	if !foundReceiver {
		t.Errorf("expected receiver edge for Widget, got %+v", pf.Inheritance)
	}
	if !foundImportFrom {
		t.Errorf("expected from edge for example.com/pkg/other, got %+v", pf.Inheritance)
	}
	if !foundAlias {
		t.Errorf("expected alias edge for WidgetID -> string, got %+v", pf.Inheritance)
	}
}

func TestParseFileGoMethodReceiverEdge(t *testing.T) {
	content := `package sample

func (a *DeleteAction) Do(ctx Context) error {
	return nil
}
`
	path := setupTestFile(t, content, ".go")
	pf, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !hasSymbol(pf.Symbols, "Do", types.KindFunction) {
		t.Errorf("expected function Do, got %+v", pf.Symbols)
	}
	found := false
	for _, e := range pf.Inheritance {
		if e.ParentName == "DeleteAction" && e.Kind == "receiver" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected receiver edge for DeleteAction, got %+v", pf.Inheritance)
	}
}

func TestParseFilePython(t *testing.T) {
	content := `class Animal(Base, Mixin):
    def speak(self):
        pass

def standalone():
    pass
`
	path := setupTestFile(t, content, ".py")
	pf, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !hasSymbol(pf.Symbols, "Animal", types.KindClass) {
		t.Errorf("expected class Animal, got %+v", pf.Symbols)
	}
	if !hasSymbol(pf.Symbols, "speak", types.KindFunction) {
		t.Errorf("expected method speak, got %+v", pf.Symbols)
	}
	if !hasSymbol(pf.Symbols, "standalone", types.KindFunction) {
		t.Errorf("expected function standalone, got %+v", pf.Symbols)
	}
	wantBases := map[string]bool{"Base": false, "Mixin": false}
	for _, e := range pf.Inheritance {
		if _, ok := wantBases[e.ParentName]; ok {
			wantBases[e.ParentName] = true
		}
	}
	for base, found := range wantBases {
		if !found {
			t.Errorf("expected inheritance edge for base %q", base)
		}
	}
}

func TestParseFileJavaImplements(t *testing.T) {
	content := `public class Service implements Runnable, Closeable {
    public void run() {
    }
}
`
	path := setupTestFile(t, content, ".java")
	pf, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !hasSymbol(pf.Symbols, "Service", types.KindClass) {
		t.Errorf("expected class Service, got %+v", pf.Symbols)
	}
	kinds := map[string]string{}
	for _, e := range pf.Inheritance {
		kinds[e.ParentName] = e.Kind
	}
	if kinds["Runnable"] != "implements" || kinds["Closeable"] != "implements" {
		t.Errorf("expected implements edges, got %+v", pf.Inheritance)
	}
}

func TestParseFileSwiftConformance(t *testing.T) {
	content := `protocol Flyable {
}

class Bird: Animal, Flyable {
    func fly() {
    }
}
`
	path := setupTestFile(t, content, ".swift")
	pf, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !hasSymbol(pf.Symbols, "Bird", types.KindClass) {
		t.Errorf("expected class Bird, got %+v", pf.Symbols)
	}
	if !hasSymbol(pf.Symbols, "Flyable", types.KindProtocol) {
		t.Errorf("expected protocol Flyable, got %+v", pf.Symbols)
	}
	foundAnimal := false
	for _, e := range pf.Inheritance {
		if e.ParentName == "Animal" {
			foundAnimal = true
		}
	}
	if !foundAnimal {
		t.Errorf("expected conformance edge referencing Animal, got %+v", pf.Inheritance)
	}
}

func TestParseFileUnsupportedExtension(t *testing.T) {
	path := setupTestFile(t, "hello", ".md")
	pf, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(pf.Symbols) != 0 {
		t.Errorf("expected no symbols for unsupported extension, got %+v", pf.Symbols)
	}
}

func TestSupported(t *testing.T) {
	if !Supported(".go") {
		t.Error("expected .go to be supported")
	}
	if Supported(".md") {
		t.Error("expected .md to be unsupported")
	}
}
