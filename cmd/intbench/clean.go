package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cleanKeep   int
	cleanDryRun bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove old report and payload files from the results directory",
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().IntVar(&cleanKeep, "keep", 10, "Number of newest result files to keep")
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Show what would be removed without removing anything")
}

func runClean(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	dir := viper.GetString("results_dir")

	files, err := resultFiles(dir)
	if err != nil {
		return err
	}

	if len(files) <= cleanKeep {
		fmt.Fprintln(out, "Nothing to clean.")
		return nil
	}

	// Newest first; the timestamped names sort chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	doomed := files[cleanKeep:]

	for _, f := range doomed {
		if cleanDryRun {
			fmt.Fprintf(out, "Would remove %s\n", f)
			continue
		}
		if err := os.Remove(f); err != nil {
			fmt.Fprintf(out, "Error removing %s: %v\n", f, err)
		} else {
			fmt.Fprintf(out, "Removed %s\n", f)
		}
	}

	if cleanDryRun {
		fmt.Fprintf(out, "%d file(s) would be removed.\n", len(doomed))
	} else {
		fmt.Fprintln(out, "Cleanup complete.")
	}
	return nil
}

// resultFiles lists report and kept-payload files in the results directory.
func resultFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"benchmark_*", "payload_*.json"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}
