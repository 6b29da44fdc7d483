package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zuhairmahd/AutopilotLogViewer/internal/filter"
	"github.com/zuhairmahd/AutopilotLogViewer/internal/output"
	"github.com/zuhairmahd/AutopilotLogViewer/internal/parser"
)

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Parse a log file and print the filtered records",
	Long: `Detect the file's line encoding (Standard or CMTrace), parse it, apply
the level/module/search filters, and print the visible records.

Examples:
  autopilotlogviewer view setup.log
  autopilotlogviewer view smsts.log --level Error,Warning
  autopilotlogviewer view app.log --search "device enrollment" --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	path := args[0]

	p, err := parser.Detect(path)
	if err != nil {
		return err
	}
	records, skipped, err := parser.ParseFile(path, p)
	if err != nil {
		return err
	}

	m := filter.NewModel()
	m.Load(records)
	applyFlagFilters(m)

	renderer := chooseRenderer()
	visible := m.Visible()
	for _, rec := range visible {
		if err := renderer.Render(rec); err != nil {
			log.Printf("render error: %v", err)
		}
	}

	fmt.Fprintf(os.Stderr, "%s: %s format, %d records, %d shown, %d lines skipped\n",
		path, p.Name(), len(records), len(visible), skipped)
	return nil
}

// applyFlagFilters narrows the model's dimensions from the CLI flags.
// An empty flag leaves the dimension fully selected.
func applyFlagFilters(m *filter.Model) {
	if names := splitList(levelFilter); len(names) > 0 {
		m.SetAllLevels(false)
		for _, name := range names {
			if !m.SetLevelSelected(name, true) {
				log.Printf("warning: level %q not present in file", name)
			}
		}
	}
	if names := splitList(moduleFilter); len(names) > 0 {
		m.SetAllModules(false)
		for _, name := range names {
			if !m.SetModuleSelected(name, true) {
				log.Printf("warning: module %q not present in file", name)
			}
		}
	}
	if searchText != "" {
		m.SetSearch(searchText)
	}
}

func splitList(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func chooseRenderer() output.Renderer {
	switch strings.ToLower(outputFmt) {
	case "json":
		return output.NewJSONRenderer()
	default:
		return output.NewTextRenderer()
	}
}
