package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var viewLatest bool

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Render a report file in the terminal",
	Long: `Prints a report file. Markdown reports are rendered with terminal
styling; text reports are printed as-is. With --latest (or no argument)
the most recent report in the results directory is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().BoolVar(&viewLatest, "latest", false, "View the most recent report in the results directory")
}

func runView(cmd *cobra.Command, args []string) error {
	var path string
	switch {
	case len(args) == 1 && !viewLatest:
		path = args[0]
	default:
		latest, err := latestReport(viper.GetString("results_dir"))
		if err != nil {
			return err
		}
		path = latest
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read report %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	if strings.EqualFold(filepath.Ext(path), ".md") {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if rendered, err := renderer.Render(string(data)); err == nil {
				fmt.Fprint(out, rendered)
				return nil
			}
		}
		// Fall back to the raw markdown when terminal rendering fails.
	}

	fmt.Fprint(out, string(data))
	return nil
}

// latestReport returns the newest report file in dir. The timestamped naming
// scheme makes lexicographic order chronological.
func latestReport(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "benchmark_*"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no reports found in %s", dir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
