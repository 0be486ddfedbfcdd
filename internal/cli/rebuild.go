package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/astindex/astindex/internal/config"
	"github.com/astindex/astindex/internal/pipeline"
	"github.com/astindex/astindex/internal/store"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from scratch",
	Long: `Clear and fully rebuild the index database for the current project.

Unlike "astindex index", which is safe to run repeatedly as files change,
rebuild clears every table first, guarded by an exclusive lock so only one
rebuild runs against a database at a time.

This is useful after:
- Cloning a repository
- Large-scale renames or restructuring
- If the index gets corrupted

Example:
  astindex rebuild`,
	Run: runRebuild,
}

func runRebuild(cmd *cobra.Command, args []string) {
	root, err := projectRoot()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	dbPath, err := config.DBPath(root)
	if err != nil {
		fmt.Printf("Error resolving database path: %v\n", err)
		return
	}

	lockPath, err := pipeline.AcquireRebuildLock(filepath.Dir(dbPath))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer pipeline.ReleaseRebuildLock(lockPath)

	s, err := store.Open(dbPath)
	if err != nil {
		fmt.Printf("Error opening index: %v\n", err)
		return
	}
	defer s.Close()

	fmt.Println("Clearing existing index...")
	if err := s.ClearAll(); err != nil {
		fmt.Printf("Error clearing index: %v\n", err)
		return
	}

	fmt.Println("Rebuilding from scratch...")
	p := pipeline.New(root)
	indexed, err := p.Run(s)
	if err != nil {
		fmt.Printf("Warning: rebuild completed with errors: %v\n", err)
	}

	stats, err := s.GetStats()
	if err != nil {
		fmt.Printf("Error reading stats: %v\n", err)
		return
	}

	fmt.Println("Rebuild complete!")
	fmt.Println()
	fmt.Printf("  Files:   %d\n", indexed)
	fmt.Printf("  Symbols: %d\n", stats.SymbolCount)
	fmt.Printf("  Refs:    %d\n", stats.RefCount)
}
