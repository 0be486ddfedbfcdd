package calltree

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildFindsDirectCallersAndGrandcallers(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Service.kt"), `
fun chargeCard() {
    println("charging")
}

fun checkout() {
    chargeCard()
}

fun placeOrder() {
    checkout()
}
`)

	nodes, err := Build(root, "chargeCard", 3, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 || nodes[0].FuncName != "checkout" {
		t.Fatalf("expected checkout as direct caller, got %+v", nodes)
	}
	if len(nodes[0].Callers) != 1 || nodes[0].Callers[0].FuncName != "placeOrder" {
		t.Fatalf("expected placeOrder as caller of checkout, got %+v", nodes[0].Callers)
	}
}

func TestBuildMarksRecursiveCycles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Loop.kt"), `
fun stepA() {
    stepB()
}

fun stepB() {
    stepA()
}
`)

	nodes, err := Build(root, "stepA", 5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 || nodes[0].FuncName != "stepB" {
		t.Fatalf("expected stepB as caller, got %+v", nodes)
	}
	if len(nodes[0].Callers) != 1 || !nodes[0].Callers[0].Recursive {
		t.Fatalf("expected recursive marker on stepA reappearing, got %+v", nodes[0].Callers)
	}
}

func TestBuildRespectsMaxDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Chain.kt"), `
fun leaf() {}
fun mid() { leaf() }
fun top() { mid() }
`)

	nodes, err := Build(root, "leaf", 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 || nodes[0].FuncName != "mid" {
		t.Fatalf("expected mid as caller, got %+v", nodes)
	}
	if len(nodes[0].Callers) != 0 {
		t.Errorf("expected depth cutoff to prevent expanding mid's callers, got %+v", nodes[0].Callers)
	}
}
