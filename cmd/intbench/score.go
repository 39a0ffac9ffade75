package main

import (
	"fmt"
	"os"

	"intbench/internal/benchmark"
	"intbench/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	scoreBaseline string
	scoreFamily   string
	scoreFormat   string
	scoreOutput   string
	scoreDetailed bool
)

var scoreCmd = &cobra.Command{
	Use:   "score <payload.json>",
	Short: "Score a saved benchmark payload without running anything",
	Long: `Reads a Google Benchmark JSON payload from disk, scores it against the
baseline and prints the report. Useful for re-scoring old payloads kept
with --keep-payload, or payloads produced on another machine.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreBaseline, "baseline", "data/baseline.json", "Baseline timings file")
	scoreCmd.Flags().StringVar(&scoreFamily, "family", benchmark.DefaultFamily, "Benchmark family to score")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "text", "Report format: text or markdown")
	scoreCmd.Flags().StringVar(&scoreOutput, "output", "", "Write the report into this directory instead of stdout")
	scoreCmd.Flags().BoolVar(&scoreDetailed, "detailed", false, "Append best/worst analysis to the report")
}

func runScore(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("baseline") {
		scoreBaseline = viper.GetString("baseline")
	}
	if !flags.Changed("family") {
		scoreFamily = viper.GetString("family")
	}

	var renderer report.Renderer
	var ext string
	switch scoreFormat {
	case "text":
		renderer = &report.TextRenderer{Detailed: scoreDetailed}
		ext = "txt"
	case "markdown":
		renderer = &report.MarkdownRenderer{}
		ext = "md"
	default:
		return fmt.Errorf("invalid format %q (expected text or markdown)", scoreFormat)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read payload %s: %w", args[0], err)
	}

	payload, err := benchmark.ParsePayload(data)
	if err != nil {
		return err
	}

	measurements := benchmark.Extract(payload, scoreFamily)
	if len(measurements) == 0 {
		return benchmark.ErrNoMeasurements
	}

	ds := loadBaseline(cmd, scoreBaseline)
	scoring := configScoring()
	var meta *benchmark.Info
	if ds != nil {
		scoring = ds.Scoring
		meta = &ds.Info
	}

	comps := benchmark.ScoreAll(measurements, ds, scoring)
	rep := report.Build(comps, meta, timeNow())

	if scoreOutput != "" {
		path, err := report.NewWriter(scoreOutput).Write(rep, renderer, ext)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}

	return renderer.Render(cmd.OutOrStdout(), rep)
}
