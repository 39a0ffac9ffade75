package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"intbench/internal/report"
	"intbench/internal/ui"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	pruneDays    int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded benchmark runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one run with its per-size results",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse runs in an interactive TUI",
	RunE:  runHistoryBrowse,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than a cutoff",
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyBrowseCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	historyPruneCmd.Flags().IntVar(&pruneDays, "days", 90, "Delete runs older than this many days")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := newHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTOTAL\tAVERAGE\tBINARY")
	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.1f\t%s\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.TotalScore,
			run.AverageScore,
			run.Binary,
		)
	}
	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := newHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.GetRun(id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %d not found", id)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run #%d\n", run.ID)
	fmt.Fprintf(out, "Date:     %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Binary:   %s\n", run.Binary)
	fmt.Fprintf(out, "Family:   %s\n", run.Family)
	if run.BaselinePath != "" {
		fmt.Fprintf(out, "Baseline: %s\n", run.BaselinePath)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "DIGITS\tMEASURED(S)\tBASELINE(S)\tVS BASE\tSCORE")
	for _, res := range run.Results {
		baseline := "n/a"
		ratio := "n/a"
		if res.Baseline != nil {
			baseline = fmt.Sprintf("%.6f", *res.Baseline)
		}
		if res.Ratio != nil {
			ratio = fmt.Sprintf("%.2fx", *res.Ratio)
		}
		fmt.Fprintf(w, "%d\t%.6f\t%s\t%s\t%d\n", res.Digits, res.Measured, baseline, ratio, res.Score)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal Score:   %d\n", run.TotalScore)
	fmt.Fprintf(out, "Average Score: %.1f (%s)\n", run.AverageScore, report.Assessment(run.AverageScore))
	return nil
}

func runHistoryBrowse(cmd *cobra.Command, args []string) error {
	store, err := newHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	return ui.StartHistoryTUI(store)
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, err := newHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	cutoff := timeNow().AddDate(0, 0, -pruneDays)
	removed, err := store.DeleteOlderThan(cutoff)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s) older than %s\n",
		removed, cutoff.Format("2006-01-02"))
	return nil
}
