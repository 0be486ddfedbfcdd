package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astindex/astindex/internal/query"
)

var xrefLimit int

var xrefCmd = &cobra.Command{
	Use:   "xref <class-name>",
	Short: "Show Android XML and iOS storyboard usages of a class",
	Long: `Show every Android layout XML and iOS storyboard reference to a
class name: custom views, fragments, and view controllers wired up
outside the source code itself.

Example:
  astindex xref PaymentActivity`,
	Args: cobra.ExactArgs(1),
	Run:  runXref,
}

func init() {
	xrefCmd.Flags().IntVarP(&xrefLimit, "limit", "l", 50, "Max usages per category")
}

func runXref(cmd *cobra.Command, args []string) {
	className := args[0]

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

	e := query.New(s.DB(), root)

	xmlUsages, err := e.FindXMLUsages(className, xrefLimit)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	sbUsages, err := e.FindStoryboardUsages(className, xrefLimit)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if len(xmlUsages) == 0 && len(sbUsages) == 0 {
		fmt.Printf("No XML or storyboard usages found for %s.\n", className)
		return
	}

	if len(xmlUsages) > 0 {
		fmt.Println("Android XML usages:")
		for _, u := range xmlUsages {
			fmt.Printf("  %s:%d  %s  %s\n", u.FilePath, u.Line, u.UsageType, u.ElementID)
		}
		fmt.Println()
	}

	if len(sbUsages) > 0 {
		fmt.Println("iOS storyboard usages:")
		for _, u := range sbUsages {
			fmt.Printf("  %s:%d  %s  %s\n", u.FilePath, u.Line, u.UsageType, u.StoryboardID)
		}
	}
}
