package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/astindex/astindex/internal/config"
	"github.com/astindex/astindex/internal/query"
	"github.com/astindex/astindex/internal/store"
)

var (
	searchKind  string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over indexed symbols",
	Long: `Search the symbol index with SQLite FTS5.

Matches symbol names and signatures. Narrow results to a single kind
(class, function, interface, ...) with --kind.

Example:
  astindex search "retry"
  astindex search "PaymentService" --kind class
  astindex search "parse" --limit 10`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchKind, "kind", "k", "", "Restrict to a single symbol kind")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "Max results")
}

func openIndex(root string) (*store.Store, error) {
	dbPath, err := config.DBPath(root)
	if err != nil {
		return nil, err
	}
	return store.Open(dbPath)
}

func runSearch(cmd *cobra.Command, args []string) {
	queryText := args[0]

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

	fmt.Printf("Searching for: %s\n", queryText)
	fmt.Println(strings.Repeat("-", 40))

	results, err := e.SearchSymbols(queryText, searchLimit)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if searchKind != "" {
		filtered := results[:0]
		for _, r := range results {
			if string(r.Kind) == searchKind {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	if len(results) == 0 {
		fmt.Println()
		fmt.Println("No results found.")
		return
	}

	fmt.Println()
	for _, r := range results {
		fmt.Printf("  %s:%d  %s %s\n", r.Path, r.Line, r.Kind, r.Name)
		if r.Signature != "" {
			fmt.Printf("    %s\n", r.Signature)
		}
	}
	fmt.Println()
	fmt.Printf("Total: %d results\n", len(results))
}
