package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/astindex/astindex/internal/query"
)

var queryLimit int

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run an ad-hoc read-only SQL query against the index",
	Long: `Run an arbitrary SELECT/WITH/EXPLAIN query against the index
database. Mutating statements are rejected; a LIMIT clause is appended
automatically if the query doesn't already have one.

Example:
  astindex query "SELECT path, COUNT(*) FROM symbols GROUP BY path ORDER BY 2 DESC"`,
	Args: cobra.ExactArgs(1),
	Run:  runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "l", 100, "Row limit appended when the query has none")
}

func runQuery(cmd *cobra.Command, args []string) {
	sqlText := args[0]

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

	cols, rows, err := e.RunAdHoc(sqlText, queryLimit)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if len(rows) == 0 {
		fmt.Println("No rows.")
		return
	}

	fmt.Println(strings.Join(cols, " | "))
	for _, row := range rows {
		vals := make([]string, len(cols))
		for i, c := range cols {
			vals[i] = fmt.Sprintf("%v", row[c])
		}
		fmt.Println(strings.Join(vals, " | "))
	}
	fmt.Printf("\n%d rows\n", len(rows))
}
