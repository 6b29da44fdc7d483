package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zuhairmahd/AutopilotLogViewer/internal/server"
	"github.com/zuhairmahd/AutopilotLogViewer/internal/watcher"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Serve the log file through the web dashboard",
	Long: `Parse the file and expose it over a local HTTP API with WebSocket reload
notifications. The file is reparsed automatically when it changes on disk;
filter selections made through the API survive reloads.

Examples:
  autopilotlogviewer serve setup.log
  autopilotlogviewer serve smsts.log --port 9090`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8080", "HTTP listen port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	path := args[0]

	s := server.New(path, servePort)
	if err := s.Reload(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nshutting down...")
		cancel()
		os.Exit(0)
	}()

	w, err := watcher.New([]string{path})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	go w.Start(ctx)
	go func() {
		for range w.Reloads {
			if err := s.Reload(); err != nil {
				log.Printf("reload failed: %v", err)
			}
		}
	}()

	fmt.Fprintf(os.Stderr, "dashboard listening on http://localhost:%s\n", servePort)
	return s.Run()
}
