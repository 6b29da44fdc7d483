package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zuhairmahd/AutopilotLogViewer/internal/filter"
	"github.com/zuhairmahd/AutopilotLogViewer/internal/parser"
	"github.com/zuhairmahd/AutopilotLogViewer/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "View a log file and re-render whenever it changes",
	Long: `Parse and print the file like view, then keep watching it. When the file
is appended to (or reappears after rotation) it is reparsed and the newly
visible records are printed. Filter selections survive every reload.

Examples:
  autopilotlogviewer watch setup.log
  autopilotlogviewer watch smsts.log --level Error`,
	Args: cobra.ExactArgs(1),
	RunE: runWatchFile,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatchFile(cmd *cobra.Command, args []string) error {
	path := args[0]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nshutting down...")
		cancel()
	}()

	w, err := watcher.New([]string{path})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if len(w.Paths()) == 0 {
		return fmt.Errorf("no file matched %q", path)
	}

	m := filter.NewModel()
	renderer := chooseRenderer()
	rendered := 0 // count of visible records already printed

	reload := func() {
		p, err := parser.Detect(path)
		if err != nil {
			log.Printf("reload failed: %v", err)
			return
		}
		records, skipped, err := parser.ParseFile(path, p)
		if err != nil {
			log.Printf("reload failed: %v", err)
			return
		}
		m.Load(records)
		applyFlagFilters(m)

		visible := m.Visible()
		if len(visible) < rendered {
			// File shrank (rotation); start over.
			rendered = 0
		}
		for _, rec := range visible[rendered:] {
			if err := renderer.Render(rec); err != nil {
				log.Printf("render error: %v", err)
			}
		}
		rendered = len(visible)
		if skipped > 0 {
			log.Printf("%d unparsable lines skipped in %s", skipped, path)
		}
	}

	reload()
	go w.Start(ctx)

	for range w.Reloads {
		reload()
	}
	return nil
}
