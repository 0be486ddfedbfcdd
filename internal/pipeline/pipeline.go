// Package pipeline drives a full or incremental index build: walking the
// project, parsing files across a bounded worker pool, and flushing
// parsed results to the store one chunk at a time.
package pipeline

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/astindex/astindex/internal/errs"
	"github.com/astindex/astindex/internal/extractor"
	"github.com/astindex/astindex/internal/imports"
	"github.com/astindex/astindex/internal/parser"
	"github.com/astindex/astindex/internal/project"
	"github.com/astindex/astindex/internal/store"
	"github.com/astindex/astindex/internal/walk"
	"github.com/astindex/astindex/pkg/types"
)

// domainExts are the extensions the API-endpoint and config-var
// extractors understand; other files only go through the symbol
// parser and import scanner.
var domainExts = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".go": true, ".py": true, ".java": true, ".kt": true, ".cs": true,
}

// Progress is called after every completed chunk with running totals.
type Progress func(parsed, total int)

// Pipeline indexes a project root into a Store.
type Pipeline struct {
	Root        string
	ExtraRoots  []string
	NoIgnore    bool
	WorkerCount int
	ChunkSize   int
	OnProgress  Progress
}

// New returns a Pipeline with worker count and chunk size defaulted from
// the runtime's CPU count and the package-wide chunk size constant.
func New(root string) *Pipeline {
	return &Pipeline{
		Root:        root,
		WorkerCount: workerCount(),
		ChunkSize:   types.DefaultChunkSize,
	}
}

func workerCount() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	if n < 1 {
		n = 1
	}
	return n
}

// subProjectFileThreshold is the quick-count trigger for switching a
// full rebuild from a single flat walk to a per-sub-project walk.
const subProjectFileThreshold = 65000

// Run walks the project (and any extra roots), parses every supported
// file across a bounded worker pool, and writes results to s in
// fixed-size chunks so memory use stays bounded regardless of project
// size. It returns the total number of files indexed.
//
// Before committing to a single flat walk, Run checks whether Root looks
// like a monorepo with multiple independently-marked sub-projects and a
// file count above subProjectFileThreshold; if so it rebuilds by
// iterating sub-projects individually (see runSubProjects) rather than
// holding one giant candidate slice in memory at once.
func (p *Pipeline) Run(s *store.Store) (int, error) {
	if len(p.ExtraRoots) == 0 {
		if subRoots := p.subProjectRootsIfApplicable(); len(subRoots) >= 2 {
			return p.runSubProjects(s, subRoots)
		}
	}

	candidates, err := p.collectAll()
	if err != nil {
		return 0, err
	}

	written, err := p.writeCandidates(s, candidates)
	if err != nil {
		return written, err
	}

	if err := p.writeMetadata(s); err != nil {
		return written, fmt.Errorf("write metadata: %w", err)
	}

	return written, nil
}

// subProjectRootsIfApplicable runs the quick file count the spec's
// automatic sub-projects switch is gated on and, if both the count and
// sub-project-count thresholds are met, returns the candidate
// sub-project directories. It returns nil when a flat walk should be
// used instead, including when walking for the quick count itself
// fails (the caller falls back to the normal path, which will surface
// any real walk error itself).
func (p *Pipeline) subProjectRootsIfApplicable() []string {
	subRoots := project.FindSubProjects(p.Root)
	if len(subRoots) < 2 {
		return nil
	}

	w := walk.New(p.Root, p.NoIgnore)
	count := 0
	_ = w.Walk(func(walk.Candidate) error {
		count++
		return nil
	})
	if count < subProjectFileThreshold {
		return nil
	}
	return subRoots
}

// runSubProjects rebuilds the shared database by indexing each
// sub-project directory in turn and aggregating into the same store,
// keeping peak memory bounded by one sub-project's candidate set
// instead of the whole monorepo's.
func (p *Pipeline) runSubProjects(s *store.Store, subRoots []string) (int, error) {
	total := 0
	for _, subRoot := range subRoots {
		sub := &Pipeline{
			Root:        subRoot,
			NoIgnore:    p.NoIgnore,
			WorkerCount: p.WorkerCount,
			ChunkSize:   p.ChunkSize,
			OnProgress:  p.OnProgress,
		}

		candidates, err := sub.collectAll()
		if err != nil {
			return total, fmt.Errorf("collect sub-project %s: %w", subRoot, err)
		}
		for i := range candidates {
			rel, relErr := filepath.Rel(p.Root, candidates[i].Path)
			if relErr == nil {
				candidates[i].RelPath = rel
			}
		}

		written, err := p.writeCandidates(s, candidates)
		total += written
		if err != nil {
			return total, fmt.Errorf("index sub-project %s: %w", subRoot, err)
		}
	}

	if err := p.writeMetadata(s); err != nil {
		return total, fmt.Errorf("write metadata: %w", err)
	}
	return total, nil
}

// collectAll walks Root and every ExtraRoots entry, tagging each
// candidate's RelPath with its source root so files from different
// roots with the same relative path don't collide in the files table.
func (p *Pipeline) collectAll() ([]walk.Candidate, error) {
	var all []walk.Candidate
	roots := append([]string{p.Root}, p.ExtraRoots...)

	for i, root := range roots {
		w := walk.New(root, p.NoIgnore)
		candidates, err := w.Collect()
		if err != nil {
			return nil, fmt.Errorf("collect files under %s: %w", root, err)
		}
		if i > 0 {
			for j := range candidates {
				candidates[j].RelPath = filepath.Join(filepath.Base(root), candidates[j].RelPath)
			}
		}
		all = append(all, candidates...)
	}
	return all, nil
}

func (p *Pipeline) writeCandidates(s *store.Store, candidates []walk.Candidate) (int, error) {
	workers := p.WorkerCount
	if workers < 1 {
		workers = workerCount()
	}
	chunkSize := p.ChunkSize
	if chunkSize < 1 {
		chunkSize = types.DefaultChunkSize
	}

	total := len(candidates)
	written := 0

	for start := 0; start < len(candidates); start += chunkSize {
		end := start + chunkSize
		if end > len(candidates) {
			end = len(candidates)
		}
		chunk := candidates[start:end]

		parsed, err := parseChunk(chunk, workers)
		if err != nil {
			return written, err
		}

		if err := s.WriteParsedFiles(parsed); err != nil {
			return written, fmt.Errorf("write chunk: %w", err)
		}

		written += len(parsed)
		if p.OnProgress != nil {
			p.OnProgress(written, total)
		}
	}

	return written, nil
}

// writeMetadata records the project-level facts an index run was built
// with, so later commands (and a future incremental update) can tell
// what the database actually reflects without re-deriving it.
func (p *Pipeline) writeMetadata(s *store.Store) error {
	if err := s.SetMetadata("project_root", p.Root); err != nil {
		return err
	}
	if err := s.SetMetadata("no_ignore", strconv.FormatBool(p.NoIgnore)); err != nil {
		return err
	}
	extraRoots, err := json.Marshal(p.ExtraRoots)
	if err != nil {
		return err
	}
	return s.SetMetadata("extra_roots", string(extraRoots))
}

// Update performs an incremental index: files whose mtime is not newer
// than the store's last recorded value are left untouched, new files and
// files with a newer mtime are (re)parsed, and files that no longer exist on disk are
// deleted from the store along with everything that cascades from
// them. It returns the number of files actually (re)parsed.
func (p *Pipeline) Update(s *store.Store) (int, error) {
	existing, err := s.AllFileSnapshots()
	if err != nil {
		return 0, fmt.Errorf("load existing snapshot: %w", err)
	}
	knownMTime := make(map[string]int64, len(existing))
	for _, snap := range existing {
		knownMTime[snap.Path] = snap.MTime
	}

	candidates, err := p.collectAll()
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(candidates))
	var changed []walk.Candidate
	for _, c := range candidates {
		seen[c.RelPath] = true
		if mtime, ok := knownMTime[c.RelPath]; !ok || c.MTime > mtime {
			changed = append(changed, c)
		}
	}

	var vanished []string
	for path := range knownMTime {
		if !seen[path] {
			vanished = append(vanished, path)
		}
	}

	written, err := p.writeCandidates(s, changed)
	if err != nil {
		return written, err
	}

	if len(vanished) > 0 {
		if err := s.WithTransaction(func(tx *sql.Tx) error {
			for _, path := range vanished {
				if err := store.DeleteFile(tx, path); err != nil {
					return fmt.Errorf("delete vanished file %s: %w", path, err)
				}
			}
			return nil
		}); err != nil {
			return written, err
		}
	}

	if err := p.writeMetadata(s); err != nil {
		return written, fmt.Errorf("write metadata: %w", err)
	}

	return written, nil
}

// parseChunk parses every candidate in chunk using a bounded goroutine
// pool, keeping at most `workers` files in memory at once. Parse
// failures are skipped rather than aborting the whole chunk, matching a
// best-effort index build.
type indexedCandidate struct {
	walk.Candidate
	index int
}

func parseChunk(chunk []walk.Candidate, workers int) ([]*types.ParsedFile, error) {
	jobs := make(chan indexedCandidate)
	results := make([]*types.ParsedFile, len(chunk))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				var pf *types.ParsedFile
				if c.Oversized {
					pf = &types.ParsedFile{}
				} else {
					parsed, err := parser.ParseFile(c.Path)
					if err != nil {
						continue
					}
					pf = parsed
					enrichParsedFile(pf, c.Path)
				}
				pf.Path = c.RelPath
				pf.MTime = c.MTime
				pf.Size = c.Size
				results[c.index] = pf
			}
		}()
	}

	for i, c := range chunk {
		jobs <- indexedCandidate{Candidate: c, index: i}
	}
	close(jobs)
	wg.Wait()

	out := make([]*types.ParsedFile, 0, len(chunk))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// enrichParsedFile runs the import scanner and, for extensions the
// domain-stack extractors understand, the API-endpoint and config-var
// extractors, adding their output to pf. It reads the file content a
// second time rather than threading it through the symbol parser,
// which keeps per-language parsers free of unrelated concerns.
func enrichParsedFile(pf *types.ParsedFile, absPath string) {
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return
	}
	content := string(raw)

	if edges, err := imports.ScanContent(pf.Path, content); err == nil {
		pf.Imports = edges
	}
	if domainExts[strings.ToLower(filepath.Ext(absPath))] {
		pf.APIEndpoints = extractor.ExtractAPIEndpoints(pf.Path, content)
		pf.ConfigVars = extractor.ExtractConfigVars(pf.Path, content)
	} else if strings.HasPrefix(filepath.Base(absPath), ".env") {
		pf.ConfigVars = extractor.ExtractConfigVars(pf.Path, content)
	}
}

// lockFileName is the exclusive rebuild lock: its presence means another
// process is already rebuilding this project's index.
const lockFileName = ".astindex.lock"

// AcquireRebuildLock creates an exclusive lock file in dbDir so only one
// rebuild runs against a given database at a time. The caller must
// remove the returned path when done.
func AcquireRebuildLock(dbDir string) (string, error) {
	lockPath := filepath.Join(dbDir, lockFileName)
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("%w (lock file %s exists)", errs.ErrRebuildInProgress, lockPath)
		}
		return "", fmt.Errorf("acquire rebuild lock: %w", err)
	}
	f.Close()
	return lockPath, nil
}

// ReleaseRebuildLock removes a lock acquired by AcquireRebuildLock.
func ReleaseRebuildLock(lockPath string) error {
	if lockPath == "" {
		return nil
	}
	err := os.Remove(lockPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DetectProjectType reports the project-type classification for root,
// surfaced by the CLI's stats/rebuild output.
func DetectProjectType(root string) types.ProjectType {
	return project.Detect(root)
}
