package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/astindex/astindex/internal/config"
	"github.com/astindex/astindex/internal/pipeline"
	"github.com/astindex/astindex/internal/watch"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the project and incrementally update the index on change",
	Long: `Watch the project tree for filesystem changes and run the
equivalent of "astindex update" after each quiet period, until
interrupted.

Example:
  astindex watch
  astindex watch --debounce 2s`,
	Run: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Quiet period before an update runs")
}

func runWatch(cmd *cobra.Command, args []string) {
	root, err := projectRoot()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if !config.Exists(root) {
		fmt.Println("No index found for this project.")
		fmt.Println("Run 'astindex index' to build one first.")
		return
	}

	s, err := openIndex(root)
	if err != nil {
		fmt.Printf("Error opening index: %v\n", err)
		return
	}
	defer s.Close()

	fmt.Printf("Watching %s for changes (Ctrl+C to stop)...\n", root)

	p := pipeline.New(root)

	stop := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		close(stop)
	}()

	err = watch.Run(root, p, s, watchDebounce, func(ev watch.Event) {
		if ev.Err != nil {
			fmt.Printf("Warning: %v\n", ev.Err)
			return
		}
		if ev.Updated > 0 {
			fmt.Printf("%d files re-indexed\n", ev.Updated)
		}
	}, stop)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}
