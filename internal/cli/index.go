package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astindex/astindex/internal/config"
	"github.com/astindex/astindex/internal/depindex"
	"github.com/astindex/astindex/internal/pipeline"
	"github.com/astindex/astindex/internal/store"
	"github.com/astindex/astindex/internal/xref"
	"github.com/astindex/astindex/pkg/types"
)

var indexNoIgnore bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index or re-index the project in the current directory",
	Long: `Scan and index all supported source files under the current directory.

This extracts:
- Symbols (functions, classes, interfaces) and references
- Inheritance edges (extends/implements/conforms-to)
- Build module declarations and their dependency graph
- Android XML/resource usages and iOS storyboard/asset usages

Example:
  astindex index
  astindex index --no-ignore`,
	Run: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexNoIgnore, "no-ignore", false, "Do not respect .gitignore while walking the project")
}

func runIndex(cmd *cobra.Command, args []string) {
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

	s, err := store.Open(dbPath)
	if err != nil {
		fmt.Printf("Error opening index: %v\n", err)
		return
	}
	defer s.Close()

	fmt.Printf("Indexing %s...\n\n", root)

	p := pipeline.New(root)
	p.NoIgnore = indexNoIgnore
	p.OnProgress = func(parsed, total int) {
		fmt.Printf("  %d/%d files parsed\r", parsed, total)
	}

	indexed, err := p.Run(s)
	if err != nil {
		fmt.Printf("Warning: indexing completed with errors: %v\n", err)
	}
	fmt.Printf("  %d files indexed                \n", indexed)

	files, err := depindex.CollectModuleFiles(root)
	if err != nil {
		fmt.Printf("Warning: module discovery failed: %v\n", err)
	} else {
		modules, err := depindex.DiscoverModules(root, files)
		if err != nil {
			fmt.Printf("Warning: module discovery failed: %v\n", err)
		} else {
			ids, err := depindex.WriteModules(s.DB(), modules)
			if err != nil {
				fmt.Printf("Warning: writing modules failed: %v\n", err)
			} else {
				depCount, err := depindex.IndexModuleDependencies(s.DB(), root, files, ids)
				if err != nil {
					fmt.Printf("Warning: module dependency indexing failed: %v\n", err)
				} else if depCount > 0 {
					if _, err := depindex.BuildTransitiveDeps(s.DB()); err != nil {
						fmt.Printf("Warning: transitive dependency build failed: %v\n", err)
					}
				}
				fmt.Printf("  %d modules, %d dependency edges\n", len(modules), depCount)
			}
		}
	}

	projectType := pipeline.DetectProjectType(root)
	if projectType == types.ProjectAndroid || projectType == types.ProjectMixed {
		xmlCount, xmlErr := xref.IndexXMLUsages(s.DB(), root)
		resCount, usageCount, resErr := xref.IndexResources(s.DB(), root)
		if xmlErr == nil && resErr == nil {
			fmt.Printf("  %d XML usages, %d resources, %d resource usages\n", xmlCount, resCount, usageCount)
		}
	}
	if projectType == types.ProjectIOS || projectType == types.ProjectMixed {
		sbCount, sbErr := xref.IndexStoryboardUsages(s.DB(), root)
		assetCount, assetUsageCount, assetErr := xref.IndexIOSAssets(s.DB(), root)
		if sbErr == nil && assetErr == nil {
			fmt.Printf("  %d storyboard usages, %d assets, %d asset usages\n", sbCount, assetCount, assetUsageCount)
		}
	}

	fmt.Println("\nIndex stored at", dbPath)
}
