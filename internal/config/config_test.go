package config

import (
	"path/filepath"
	"testing"
)

func TestProjectHashStableAndDistinct(t *testing.T) {
	a := ProjectHash("/home/user/project-a")
	b := ProjectHash("/home/user/project-a")
	c := ProjectHash("/home/user/project-b")

	if a != b {
		t.Errorf("expected stable hash across calls, got %q and %q", a, b)
	}
	if a == c {
		t.Errorf("expected distinct hashes for distinct paths, both %q", a)
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars (64-bit hash), got %d: %q", len(a), a)
	}
}

func TestDBPathHonorsEnvOverride(t *testing.T) {
	t.Setenv(DBPathEnvVar, "/tmp/custom/index.db")

	path, err := DBPath("/any/project")
	if err != nil {
		t.Fatal(err)
	}
	if path != "/tmp/custom/index.db" {
		t.Errorf("expected override path, got %q", path)
	}
}

func TestDBPathDefaultsUnderCacheDir(t *testing.T) {
	path, err := DBPath("/home/user/myproject")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "index.db" {
		t.Errorf("expected path to end in index.db, got %q", path)
	}
}
