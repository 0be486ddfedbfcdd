package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astindex/astindex/internal/config"
	"github.com/astindex/astindex/internal/pipeline"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Incrementally update the index for changed files",
	Long: `Re-index only files whose modification time has changed since
the last index or update, and drop anything that no longer exists on
disk. This is much cheaper than "astindex rebuild" for a project that
was already indexed.

Example:
  astindex update`,
	Run: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) {
	root, err := projectRoot()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if !config.Exists(root) {
		fmt.Println("No index found for this project.")
		fmt.Println("Run 'astindex index' to build one first.")
		return
	}

	s, err := openIndex(root)
	if err != nil {
		fmt.Printf("Error opening index: %v\n", err)
		return
	}
	defer s.Close()

	p := pipeline.New(root)
	updated, err := p.Update(s)
	if err != nil {
		fmt.Printf("Warning: update completed with errors: %v\n", err)
	}

	fmt.Printf("%d files re-indexed\n", updated)

	stats, err := s.GetStats()
	if err != nil {
		return
	}
	fmt.Printf("Index now holds %d files, %d symbols, %d references\n", stats.FileCount, stats.SymbolCount, stats.RefCount)
}
