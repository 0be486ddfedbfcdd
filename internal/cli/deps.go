package cli

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astindex/astindex/internal/depindex"
)

var depsCmd = &cobra.Command{
	Use:   "deps <module>",
	Short: "Show a module's direct dependencies",
	Long: `Show the direct dependency edges out of a build module, by name
or manifest path.

Example:
  astindex deps app
  astindex deps :core:network`,
	Args: cobra.ExactArgs(1),
	Run:  runDeps,
}

var dependentsCmd = &cobra.Command{
	Use:   "dependents <module>",
	Short: "Show what depends on a module",
	Long: `Show every module with a direct dependency edge into the given
module, by name or manifest path.

Example:
  astindex dependents :core:network`,
	Args: cobra.ExactArgs(1),
	Run:  runDependents,
}

func runDeps(cmd *cobra.Command, args []string) {
	printModuleEdges(args[0], depindex.GetModuleDeps, "depends on")
}

func runDependents(cmd *cobra.Command, args []string) {
	printModuleEdges(args[0], depindex.GetModuleDependents, "is depended on by")
}

func printModuleEdges(module string, lookup func(db *sql.DB, module string) ([]depindex.DepResult, error), verb string) {
	root, err := projectRoot()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	s, err := openIndex(root)
	if err != nil {
		fmt.Printf("Error opening index: %v\n", err)
		fmt.Println("Run 'astindex index' to build the index first.")
		return
	}
	defer s.Close()

	deps, err := lookup(s.DB(), module)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if len(deps) == 0 {
		fmt.Printf("%s %s nothing.\n", module, verb)
		return
	}

	fmt.Printf("%s %s:\n\n", module, verb)
	for _, d := range deps {
		fmt.Printf("  %-30s %-15s %s\n", d.Name, d.Kind, d.Path)
	}
}
