package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "astindex",
	Short: "A multi-language source index for fast symbol, reference, and module lookups",
	Long: `astindex indexes a source tree across many languages and frameworks
and answers symbol, reference, and module-dependency questions against it
from a local SQLite database.

Key Features:
  - Symbol and reference lookup across Go, Python, Java, C#, Rust, C/C++,
    Ruby, Swift, Kotlin, Objective-C, Dart, Protocol Buffers, and Perl
  - Class hierarchy queries (implementations, inheritance)
  - Gradle/Swift Package Manager/Perl module dependency graphs, including
    transitive reachability
  - Android XML/resource and iOS storyboard/asset usage tracking
  - Parallel grep, caller search, and call-tree construction
  - An ad-hoc read-only SQL surface over the index

Quick Start:
  astindex index            Build the index for the current directory
  astindex search <query>   Full-text search over indexed symbols
  astindex stats            Show index size and composition`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(dependentsCmd)
	rootCmd.AddCommand(grepCmd)
	rootCmd.AddCommand(todoCmd)
	rootCmd.AddCommand(callersCmd)
	rootCmd.AddCommand(callTreeCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(xrefCmd)
}

// projectRoot resolves the project root the same way every command
// does: the current working directory, made absolute.
func projectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Abs(cwd)
}
