package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astindex/astindex/internal/grep"
)

var todoLimit int

// todoExts covers every language the symbol parsers understand, so
// "todo" surfaces markers regardless of which language they live in.
var todoExts = []string{
	"go", "py", "java", "kt", "cs", "rs", "c", "h", "cpp", "hpp", "cc", "cxx",
	"rb", "swift", "m", "mm", "dart", "proto", "pm", "pl", "t", "pod", "ts", "tsx", "js", "jsx",
}

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "List TODO/FIXME comments across the project",
	Long: `Grep the project tree for TODO and FIXME comment markers.

Example:
  astindex todo
  astindex todo --limit 200`,
	Run: runTodo,
}

func init() {
	todoCmd.Flags().IntVarP(&todoLimit, "limit", "l", 100, "Max matches")
}

func runTodo(cmd *cobra.Command, args []string) {
	root, err := projectRoot()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	count := 0
	err = grep.SearchLimited(root, `(TODO|FIXME)[:(]`, todoExts, todoLimit, func(m grep.Match) {
		count++
		fmt.Printf("%s:%d: %s\n", m.Path, m.Line, m.Text)
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if count == 0 {
		fmt.Println("No TODO/FIXME markers found.")
		return
	}
	fmt.Printf("\nTotal: %d markers\n", count)
}
