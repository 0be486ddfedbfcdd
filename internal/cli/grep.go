package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astindex/astindex/internal/grep"
)

var (
	grepExts  []string
	grepLimit int
)

var grepCmd = &cobra.Command{
	Use:   "grep <pattern>",
	Short: "Parallel regex search over the project tree",
	Long: `Search the project tree directly (not the index) for a regular
expression, using a bounded worker pool and stopping as soon as the
result limit is reached.

Example:
  astindex grep "TODO\(.*\):"
  astindex grep "func Parse" --ext go --limit 50`,
	Args: cobra.ExactArgs(1),
	Run:  runGrep,
}

func init() {
	grepCmd.Flags().StringSliceVar(&grepExts, "ext", nil, "Restrict to these extensions (no dot, repeatable or comma-separated)")
	grepCmd.Flags().IntVarP(&grepLimit, "limit", "l", 100, "Max matches")
}

func runGrep(cmd *cobra.Command, args []string) {
	pattern := args[0]

	root, err := projectRoot()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	count := 0
	err = grep.SearchLimited(root, pattern, grepExts, grepLimit, func(m grep.Match) {
		count++
		fmt.Printf("%s:%d: %s\n", m.Path, m.Line, m.Text)
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("\nTotal: %d matches\n", count)
}
