package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astindex/astindex/internal/config"
	"github.com/astindex/astindex/internal/pipeline"
	"github.com/astindex/astindex/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index size and composition",
	Long: `Show detailed statistics about the current project's index.

Displays row counts across every indexed table plus the detected
project type.`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	root, err := projectRoot()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if !config.Exists(root) {
		fmt.Println("No index found for this project.")
		fmt.Println("Run 'astindex index' to build one.")
		return
	}

	s, err := openIndex(root)
	if err != nil {
		fmt.Printf("Error opening index: %v\n", err)
		return
	}
	defer s.Close()

	stats, err := s.GetStats()
	if err != nil {
		fmt.Printf("Error getting stats: %v\n", err)
		return
	}

	projectType := pipeline.DetectProjectType(root)

	fmt.Println("┌─────────────────────────────────────────────┐")
	fmt.Println("│              astindex Statistics             │")
	fmt.Println("├─────────────────────────────────────────────┤")
	fmt.Printf("│ Project type:        %-20s │\n", projectType.String())
	fmt.Println("│                                             │")
	fmt.Println("│ Source Index                                │")
	fmt.Printf("│   Files:             %-20d │\n", stats.FileCount)
	fmt.Printf("│   Symbols:           %-20d │\n", stats.SymbolCount)
	fmt.Printf("│   References:        %-20d │\n", stats.RefCount)
	fmt.Printf("│   Import edges:      %-20d │\n", stats.ImportEdgeCount)
	fmt.Println("│                                             │")
	fmt.Println("│ Modules                                     │")
	fmt.Printf("│   Build modules:     %-20d │\n", stats.ModuleCount)
	fmt.Println("│                                             │")
	fmt.Println("│ Domain Stack                                │")
	fmt.Printf("│   API endpoints:     %-20d │\n", stats.APIEndpointCount)
	fmt.Printf("│   Config vars:       %-20d │\n", stats.ConfigVarCount)
	fmt.Println("│                                             │")
	fmt.Println("│ Android / iOS                               │")
	fmt.Printf("│   XML usages:        %-20d │\n", stats.XMLUsageCount)
	fmt.Printf("│   Resources:         %-20d │\n", stats.ResourceCount)
	fmt.Printf("│   Storyboard usages: %-20d │\n", stats.StoryboardUsageCount)
	fmt.Printf("│   iOS assets:        %-20d │\n", stats.IOSAssetCount)
	fmt.Println("└─────────────────────────────────────────────┘")

	printMetadata(s)
}

func printMetadata(s *store.Store) {
	root, ok, err := s.GetMetadata("project_root")
	if err != nil || !ok {
		return
	}
	noIgnore, _, _ := s.GetMetadata("no_ignore")
	fmt.Println()
	fmt.Printf("Indexed root: %s\n", root)
	if noIgnore == "true" {
		fmt.Println("Built with --no-ignore")
	}
}
