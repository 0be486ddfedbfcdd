// Package errs collects the sentinel errors shared across the
// indexing, query, and CLI layers.
package errs

import "errors"

var (
	// ErrNotIndexed means no index database exists yet for a project.
	ErrNotIndexed = errors.New("project has not been indexed yet")

	// ErrRebuildInProgress means another rebuild holds the exclusive lock.
	ErrRebuildInProgress = errors.New("a rebuild is already in progress")

	// ErrMutatingQuery means an ad-hoc query tried to do anything other
	// than read.
	ErrMutatingQuery = errors.New("only read-only queries are allowed")

	// ErrSymbolNotFound means a lookup by exact or prefix name matched
	// nothing.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrModuleNotFound means a module name or path did not resolve.
	ErrModuleNotFound = errors.New("module not found")
)
