package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astindex/astindex/internal/depindex"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List discovered build modules",
	Long: `List every build module discovered during indexing: Gradle
subprojects, Swift Package Manager targets, CocoaPods pods, Carthage
dependencies, and Perl packages.

Example:
  astindex modules`,
	Run: runModules,
}

func runModules(cmd *cobra.Command, args []string) {
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

	modules, err := depindex.ListModules(s.DB())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if len(modules) == 0 {
		fmt.Println("No modules found.")
		return
	}

	for _, m := range modules {
		kind := m.Kind
		if kind == "" {
			kind = "gradle"
		}
		fmt.Printf("  %-30s %-10s %s\n", m.Name, kind, m.Path)
	}
	fmt.Printf("\nTotal: %d modules\n", len(modules))
}
