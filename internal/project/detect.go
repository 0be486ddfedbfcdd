// Package project classifies a directory tree by the build-system marker
// files it finds at the root, without reading any file content.
package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/astindex/astindex/pkg/types"
)

func exists(root, name string) bool {
	_, err := os.Stat(filepath.Join(root, name))
	return err == nil
}

func hasEntryWithExt(root, ext string) bool {
	entries, err := os.ReadDir(root)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ext {
			return true
		}
	}
	return false
}

func hasSubdirWithFile(root, file string) bool {
	entries, err := os.ReadDir(root)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			if _, err := os.Stat(filepath.Join(root, e.Name(), file)); err == nil {
				return true
			}
		}
	}
	return false
}

// HasAndroidMarkers reports whether root looks like the root of a Gradle
// project.
func HasAndroidMarkers(root string) bool {
	return exists(root, "settings.gradle.kts") ||
		exists(root, "settings.gradle") ||
		exists(root, "build.gradle.kts") ||
		exists(root, "build.gradle")
}

// HasIOSMarkers reports whether root looks like an Xcode/SPM project.
func HasIOSMarkers(root string) bool {
	if exists(root, "Package.swift") {
		return true
	}
	return hasEntryWithExt(root, ".xcodeproj")
}

// Detect classifies root by marker files. When more than one platform's
// markers are present it reports ProjectMixed rather than guessing.
func Detect(root string) types.ProjectType {
	hasGradle := HasAndroidMarkers(root)

	hasSwift := exists(root, "Package.swift") ||
		hasEntryWithExt(root, ".xcodeproj") ||
		hasSubdirWithFile(root, "Package.swift")

	hasPerl := exists(root, "Makefile.PL") ||
		exists(root, "Build.PL") ||
		exists(root, "cpanfile") ||
		hasEntryWithExt(root, ".pm")

	hasFrontend := exists(root, "package.json")

	hasPython := exists(root, "pyproject.toml") ||
		exists(root, "setup.py") ||
		exists(root, "setup.cfg")

	hasGo := exists(root, "go.mod")

	hasRust := exists(root, "Cargo.toml")

	hasBazel := exists(root, "WORKSPACE") ||
		exists(root, "WORKSPACE.bazel") ||
		exists(root, "MODULE.bazel")

	flags := []bool{hasGradle, hasSwift, hasPerl, hasFrontend, hasPython, hasGo, hasRust, hasBazel}
	count := 0
	for _, f := range flags {
		if f {
			count++
		}
	}

	switch {
	case count > 1:
		return types.ProjectMixed
	case hasGradle:
		return types.ProjectAndroid
	case hasSwift:
		return types.ProjectIOS
	case hasPerl:
		return types.ProjectPerl
	case hasFrontend:
		return types.ProjectFrontend
	case hasPython:
		return types.ProjectPython
	case hasGo:
		return types.ProjectGo
	case hasRust:
		return types.ProjectRust
	case hasBazel:
		return types.ProjectBazel
	default:
		return types.ProjectUnknown
	}
}

// FindSubProjects reports the immediate subdirectories of root that
// carry their own project markers — a Gradle subproject, an SPM
// package, a Perl distribution, and so on. Used by the indexing
// pipeline to decide whether a large monorepo should be rebuilt one
// sub-project at a time rather than as a single flat walk.
func FindSubProjects(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var subs []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		child := filepath.Join(root, e.Name())
		if Detect(child) != types.ProjectUnknown {
			subs = append(subs, child)
		}
	}
	return subs
}
