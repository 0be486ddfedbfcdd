package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astindex/astindex/internal/calltree"
)

var (
	callTreeDepth       int
	callTreeLimitPerLvl int
)

var callTreeCmd = &cobra.Command{
	Use:   "calltree <function>",
	Short: "Build a caller hierarchy for a function",
	Long: `Build the chain of callers of a function, and their own callers,
down to a configurable depth. Recursion is detected and marked rather
than expanded again.

Example:
  astindex calltree handleRequest --depth 4`,
	Args: cobra.ExactArgs(1),
	Run:  runCallTree,
}

func init() {
	callTreeCmd.Flags().IntVar(&callTreeDepth, "depth", 3, "Max levels of callers to expand")
	callTreeCmd.Flags().IntVar(&callTreeLimitPerLvl, "limit-per-level", 10, "Max callers to expand at each level")
}

func runCallTree(cmd *cobra.Command, args []string) {
	functionName := args[0]

	root, err := projectRoot()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	nodes, err := calltree.Build(root, functionName, callTreeDepth, callTreeLimitPerLvl)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println(functionName)
	if len(nodes) == 0 {
		fmt.Println("  (no callers found)")
		return
	}
	printCallTree(nodes, "")
}

func printCallTree(nodes []*calltree.Node, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch := "├── "
		nextPrefix := prefix + "│   "
		if last {
			branch = "└── "
			nextPrefix = prefix + "    "
		}

		marker := ""
		if n.Recursive {
			marker = " (recursive)"
		}
		fmt.Printf("%s%s%s  %s:%d%s\n", prefix, branch, n.FuncName, n.FilePath, n.Line, marker)

		if !n.Recursive && len(n.Callers) > 0 {
			printCallTree(n.Callers, nextPrefix)
		}
	}
}
