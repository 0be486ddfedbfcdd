package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astindex/astindex/internal/calltree"
)

var callersLimit int

var callersCmd = &cobra.Command{
	Use:   "callers <function>",
	Short: "List direct callers of a function",
	Long: `Grep the project tree for call sites of a function and resolve
each one to its enclosing function.

Example:
  astindex callers parseRequest`,
	Args: cobra.ExactArgs(1),
	Run:  runCallers,
}

func init() {
	callersCmd.Flags().IntVarP(&callersLimit, "limit", "l", 50, "Max callers")
}

func runCallers(cmd *cobra.Command, args []string) {
	functionName := args[0]

	root, err := projectRoot()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	nodes, err := calltree.Build(root, functionName, 1, callersLimit)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if len(nodes) == 0 {
		fmt.Printf("No callers found for %s.\n", functionName)
		return
	}

	for _, n := range nodes {
		fmt.Printf("  %s:%d  %s\n", n.FilePath, n.Line, n.FuncName)
	}
	fmt.Printf("\nTotal: %d callers\n", len(nodes))
}
