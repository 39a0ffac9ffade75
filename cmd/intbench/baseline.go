package main

import (
	"fmt"
	"text/tabwriter"

	"intbench/internal/benchmark"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var baselineFile string

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Show the baseline dataset runs are scored against",
	RunE:  runBaseline,
}

func init() {
	rootCmd.AddCommand(baselineCmd)
	baselineCmd.Flags().StringVar(&baselineFile, "baseline", "data/baseline.json", "Baseline timings file")
}

func runBaseline(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("baseline") {
		baselineFile = viper.GetString("baseline")
	}

	ds, err := benchmark.LoadDataset(baselineFile)
	if err != nil {
		return err
	}
	if ds == nil {
		return fmt.Errorf("no baseline found at %s", baselineFile)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Baseline:  %s\n", baselineFile)
	fmt.Fprintf(out, "Timestamp: %s\n", ds.Info.Timestamp)
	fmt.Fprintf(out, "Seed:      %d\n", ds.Info.Seed)
	fmt.Fprintf(out, "Scoring:   baseline %d, max %d\n\n", ds.Scoring.BaselineScore, ds.Scoring.MaxScore)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "DIGITS\tBASELINE(S)")
	for _, digits := range ds.Sizes() {
		fmt.Fprintf(w, "%d\t%.6f\n", digits, ds.Times[digits])
	}
	w.Flush()

	return nil
}
