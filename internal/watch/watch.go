// Package watch triggers incremental re-indexing in response to
// filesystem change events, debounced so a burst of writes (a save-all,
// a branch checkout) collapses into a single update.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/astindex/astindex/internal/pipeline"
	"github.com/astindex/astindex/internal/store"
)

// skipDirs mirrors the walker's always-skip directory set so the
// watcher doesn't register thousands of handles under node_modules,
// vendor, and friends.
var skipDirs = map[string]bool{
	"node_modules": true, ".git": true, "vendor": true,
	"dist": true, "build": true, "target": true,
	"__pycache__": true, ".next": true, ".nuxt": true,
	"coverage": true, ".cache": true, ".gradle": true,
	".idea": true, "Pods": true, "DerivedData": true,
	"out": true, ".venv": true, ".dart_tool": true,
	".mypy_cache": true,
}

// Event is reported once per debounced batch of filesystem changes.
type Event struct {
	Updated int
	Err     error
}

// Run watches root for file changes and calls p.Update against s after
// each quiet period of length debounce, until stop is closed. It
// blocks until stop is closed or the watcher fails to initialize.
func Run(root string, p *pipeline.Pipeline, s *store.Store, debounce time.Duration, onEvent func(Event), stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addDirsRecursive(watcher, root); err != nil {
		return err
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C
		}

		select {
		case <-stop:
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if isSkippableDir(ev.Name) {
					continue
				}
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = watcher.Add(ev.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
		case <-timerC:
			timer = nil
			updated, err := p.Update(s)
			if onEvent != nil {
				onEvent(Event{Updated: updated, Err: err})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onEvent != nil {
				onEvent(Event{Err: err})
			}
		}
	}
}

func isSkippableDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if skipDirs[part] {
			return true
		}
	}
	return false
}

// addDirsRecursive registers root and every non-skipped subdirectory
// with watcher. fsnotify only watches the directories it's told about,
// not their descendants, so new subdirectories are picked up as they
// appear via the Create handling in Run.
func addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		name := info.Name()
		if path != root && (skipDirs[name] || strings.HasPrefix(name, ".")) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
