// Package grep runs a regular expression over every matching source
// file under a root directory, in parallel, with early termination
// once a caller-supplied result limit is reached.
package grep

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

// Match is one matching line.
type Match struct {
	Path string
	Line int
	Text string
}

var defaultSkipDirs = map[string]bool{
	"node_modules": true, ".git": true, "vendor": true,
	"dist": true, "build": true, "target": true,
	"__pycache__": true, ".next": true, ".nuxt": true,
	"coverage": true, ".cache": true,
}

func isSkipDir(name string) bool {
	return defaultSkipDirs[name] || strings.HasPrefix(name, ".")
}

// collectFiles walks root and returns every file whose extension is in
// extensions (without the leading dot).
func collectFiles(root string, extensions []string) []string {
	want := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		want[e] = true
	}

	var files []string
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && isSkipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if want[ext] {
			files = append(files, path)
		}
		return nil
	})
	return files
}

// SearchLimited runs pattern over every file under root with one of
// the given extensions, invoking handler for each matching line in
// the order workers report them (not a fixed file order), stopping
// early once limit matches
// have been handed to handler. A bounded worker pool searches files
// concurrently; a shared atomic flag lets every worker stop as soon
// as the limit is hit, without needing to drain already-queued work.
func SearchLimited(root, pattern string, extensions []string, limit int, handler func(Match)) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = 1
	}

	files := collectFiles(root, extensions)

	type job struct{ path string }
	jobs := make(chan job, len(files))
	for _, f := range files {
		jobs <- job{path: f}
	}
	close(jobs)

	results := make(chan Match, limit*3+64)
	var found int64
	var stop int32

	workers := numCPU()
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if atomic.LoadInt32(&stop) != 0 {
					return
				}
				searchFile(j.path, re, &found, &stop, int64(limit), results)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	count := 0
	for m := range results {
		if count >= limit {
			continue
		}
		handler(m)
		count++
	}

	return nil
}

func searchFile(path string, re *regexp.Regexp, found *int64, stop *int32, limit int64, results chan<- Match) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if atomic.LoadInt32(stop) != 0 {
			return
		}
		line := scanner.Text()
		if !re.MatchString(line) {
			continue
		}

		n := atomic.AddInt64(found, 1)
		if n > limit {
			atomic.StoreInt32(stop, 1)
			return
		}

		results <- Match{Path: path, Line: lineNum, Text: strings.TrimRight(line, "\r")}
	}
}

func numCPU() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}
