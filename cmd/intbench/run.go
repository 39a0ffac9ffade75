package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"intbench/internal/benchmark"
	"intbench/internal/build"
	"intbench/internal/history"
	"intbench/internal/notify"
	"intbench/internal/proc"
	"intbench/internal/report"
	"intbench/internal/telemetry"
	"intbench/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	runBuildDir    string
	runPreset      string
	runBinary      string
	runBaseline    string
	runResultsDir  string
	runFamily      string
	runFormat      string
	runImage       string
	runSkipBuild   bool
	runDetailed    bool
	runKeepPayload bool
	runNoHistory   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the benchmark, run it and score the results",
	Long: `Builds the integer benchmark target with CMake, executes it with JSON
output, scores the measured times against the baseline and writes a
timestamped report into the results directory.

With --image the build and the benchmark execute inside a toolchain
container with the current directory mounted as the workspace.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runBuildDir, "build-dir", "build", "CMake build directory")
	runCmd.Flags().StringVar(&runPreset, "preset", "", "CMake configure preset to apply before building")
	runCmd.Flags().StringVar(&runBinary, "binary", "", "Benchmark executable (overrides the default build location)")
	runCmd.Flags().StringVar(&runBaseline, "baseline", "data/baseline.json", "Baseline timings file")
	runCmd.Flags().StringVar(&runResultsDir, "results-dir", "results", "Directory for report files")
	runCmd.Flags().StringVar(&runFamily, "family", benchmark.DefaultFamily, "Benchmark family to score")
	runCmd.Flags().StringVar(&runFormat, "format", "text", "Report format: text, markdown or both")
	runCmd.Flags().StringVar(&runImage, "image", "", "Docker image to build and run inside")
	runCmd.Flags().BoolVar(&runSkipBuild, "skip-build", false, "Skip the CMake build step")
	runCmd.Flags().BoolVar(&runDetailed, "detailed", false, "Append best/worst analysis to the report")
	runCmd.Flags().BoolVar(&runKeepPayload, "keep-payload", false, "Keep the raw benchmark JSON next to the report")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "Do not record this run in the history store")
}

// applyRunConfigDefaults fills flags the user did not pass on the command
// line from configuration, so config.yaml and INTBENCH_* variables act as
// per-project defaults.
func applyRunConfigDefaults(cmd *cobra.Command) {
	flags := cmd.Flags()
	if !flags.Changed("build-dir") {
		runBuildDir = viper.GetString("build_dir")
	}
	if !flags.Changed("preset") {
		runPreset = viper.GetString("preset")
	}
	if !flags.Changed("binary") {
		runBinary = viper.GetString("binary")
	}
	if !flags.Changed("baseline") {
		runBaseline = viper.GetString("baseline")
	}
	if !flags.Changed("results-dir") {
		runResultsDir = viper.GetString("results_dir")
	}
	if !flags.Changed("family") {
		runFamily = viper.GetString("family")
	}
	if !flags.Changed("format") {
		runFormat = viper.GetString("format")
	}
	if !flags.Changed("image") {
		runImage = viper.GetString("docker.image")
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	applyRunConfigDefaults(cmd)

	switch runFormat {
	case "text", "markdown", "both":
	default:
		return fmt.Errorf("invalid format %q (expected text, markdown or both)", runFormat)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	metrics := telemetry.Default()

	scratchDir, err := os.MkdirTemp("", "intbench-run-*")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratchDir)

	runner, cleanup, err := newRunner(ctx, runImage)
	if err != nil {
		return failRun(metrics, err)
	}
	defer cleanup()

	builder := build.NewBuilder(runner)

	if !runSkipBuild {
		if runPreset != "" {
			fmt.Fprintf(out, "🔧 Configuring preset %s...\n", runPreset)
			if err := timeStep(metrics, "configure", func() error {
				return builder.Configure(ctx, runPreset)
			}); err != nil {
				return failRun(metrics, err)
			}
		}
		fmt.Fprintf(out, "🔨 Building target %s...\n", build.TargetName)
		if err := timeStep(metrics, "build", func() error {
			return builder.Build(ctx, runBuildDir)
		}); err != nil {
			return failRun(metrics, err)
		}
	}

	binPath := build.BinaryPath(runBuildDir, runBinary, runtime.GOOS)
	if err := build.CheckBinary(binPath); err != nil {
		return failRun(metrics, err)
	}

	fmt.Fprintf(out, "🚀 Running %s\n", binPath)
	var benchOut proc.Output
	if err := timeStep(metrics, "benchmark", func() error {
		var runErr error
		benchOut, runErr = runner.Run(ctx, proc.Command{
			Path: binPath,
			Args: []string{"--benchmark_format=json"},
		})
		return runErr
	}); err != nil {
		if s := strings.TrimSpace(benchOut.Stderr); s != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), s)
		}
		return failRun(metrics, fmt.Errorf("benchmark execution failed: %w", err))
	}

	payloadPath := filepath.Join(scratchDir, "payload.json")
	if err := os.WriteFile(payloadPath, []byte(benchOut.Stdout), 0644); err != nil {
		telemetry.LogError("Failed to stage benchmark payload", err, "path", payloadPath)
	}

	payload, err := benchmark.ParsePayload([]byte(benchOut.Stdout))
	if err != nil {
		return failRun(metrics, err)
	}

	measurements := benchmark.Extract(payload, runFamily)
	if len(measurements) == 0 {
		return failRun(metrics, benchmark.ErrNoMeasurements)
	}

	ds := loadBaseline(cmd, runBaseline)
	scoring := configScoring()
	var meta *benchmark.Info
	if ds != nil {
		scoring = ds.Scoring
		meta = &ds.Info
	}

	comps := benchmark.ScoreAll(measurements, ds, scoring)
	rep := report.Build(comps, meta, timeNow())

	for _, c := range comps {
		metrics.ObserveScore(c.Digits, c.Measured, c.Score)
	}
	metrics.TotalScore.Set(float64(rep.TotalScore))

	reportPath, err := writeReports(rep)
	if err != nil {
		return failRun(metrics, err)
	}

	if runKeepPayload {
		keepPayload(cmd, payloadPath, rep.GeneratedAt)
	}

	printRunSummary(out, rep)
	fmt.Fprintf(out, "Report written to %s\n", reportPath)

	if !runNoHistory && viper.GetBool("history.enabled") {
		recordHistory(cmd, rep, binPath)
	}

	metrics.RunsTotal.WithLabelValues("ok").Inc()
	telemetry.LogInfo("Benchmark run finished",
		"total", rep.TotalScore,
		"average", rep.AverageScore,
		"sizes", len(rep.Comparisons),
		"report", reportPath,
	)
	notifyRunEvent(notify.EventSuccess, summaryMessage(rep))

	return nil
}

// timeStep records the duration of one pipeline step.
func timeStep(metrics *telemetry.Metrics, step string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.StepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
	return err
}

// failRun marks the run failed in the metrics, sends the failure
// notification and passes the error through.
func failRun(metrics *telemetry.Metrics, err error) error {
	metrics.RunsTotal.WithLabelValues("error").Inc()
	notifyRunEvent(notify.EventFailure, fmt.Sprintf("Benchmark run failed: %v", err))
	return err
}

func notifyRunEvent(eventType, message string) {
	newNotifier().Notify(context.Background(), eventType, message)
}

// loadBaseline reads the baseline dataset. Baseline problems never fail a
// run: a missing file means scoring falls back to defaults, a malformed one
// is reported and then ignored.
func loadBaseline(cmd *cobra.Command, path string) *benchmark.Dataset {
	ds, err := benchmark.LoadDataset(path)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  Ignoring baseline: %v\n", err)
		telemetry.LogError("Ignoring baseline", err, "path", path)
		return nil
	}
	if ds == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "📊 No baseline available, scoring with defaults")
	}
	return ds
}

// writeReports renders the report in the requested format(s) and returns the
// path of the primary (first) report file.
func writeReports(rep report.Report) (string, error) {
	writer := report.NewWriter(runResultsDir)

	var primary string
	if runFormat == "text" || runFormat == "both" {
		path, err := writer.Write(rep, &report.TextRenderer{Detailed: runDetailed}, "txt")
		if err != nil {
			return "", err
		}
		primary = path
	}
	if runFormat == "markdown" || runFormat == "both" {
		path, err := writer.Write(rep, &report.MarkdownRenderer{}, "md")
		if err != nil {
			return "", err
		}
		if primary == "" {
			primary = path
		}
	}
	return primary, nil
}

// keepPayload copies the staged benchmark JSON next to the reports. Failures
// only warn; the report already exists at this point.
func keepPayload(cmd *cobra.Command, payloadPath string, generatedAt time.Time) {
	data, err := os.ReadFile(payloadPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to keep payload: %v\n", err)
		return
	}
	dest := filepath.Join(runResultsDir, fmt.Sprintf("payload_%s.json", generatedAt.Format("20060102_150405")))
	if err := os.WriteFile(dest, data, 0644); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to keep payload: %v\n", err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Payload written to %s\n", dest)
}

// printRunSummary prints the scored sizes as a console table.
func printRunSummary(out io.Writer, rep report.Report) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "DIGITS\tMEASURED(S)\tBASELINE(S)\tVS BASE\tSCORE")
	for _, c := range rep.Comparisons {
		baseline := "n/a"
		ratio := "n/a"
		if c.Baseline != nil {
			baseline = fmt.Sprintf("%.6f", *c.Baseline)
		}
		if c.Ratio != nil {
			ratio = fmt.Sprintf("%.2fx", *c.Ratio)
		}
		fmt.Fprintf(w, "%d\t%.6f\t%s\t%s\t%d\n", c.Digits, c.Measured, baseline, ratio, c.Score)
	}
	w.Flush()

	label := report.Assessment(rep.AverageScore)
	fmt.Fprintf(out, "\nTotal Score:   %d\n", rep.TotalScore)
	fmt.Fprintf(out, "Average Score: %.1f\n", rep.AverageScore)
	fmt.Fprintf(out, "Assessment:    %s\n", ui.RenderAssessment(rep.AverageScore, label))
}

// recordHistory saves the run to the history store. Storage problems only
// warn; the report on disk is the primary artifact.
func recordHistory(cmd *cobra.Command, rep report.Report, binPath string) {
	store, err := newHistoryStore()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: history disabled: %v\n", err)
		return
	}
	defer store.Close()

	run := history.Run{
		CreatedAt:    rep.GeneratedAt,
		Binary:       binPath,
		Family:       runFamily,
		BaselinePath: runBaseline,
		TotalScore:   rep.TotalScore,
		AverageScore: rep.AverageScore,
	}
	for _, c := range rep.Comparisons {
		run.Results = append(run.Results, history.Result{
			Digits:   c.Digits,
			Measured: c.Measured,
			Baseline: c.Baseline,
			Ratio:    c.Ratio,
			Score:    c.Score,
		})
	}

	id, err := store.SaveRun(run)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to record run: %v\n", err)
		return
	}
	telemetry.LogDebug("Recorded run in history", "id", id)
}

// summaryMessage builds the one-line notification text for a finished run.
func summaryMessage(rep report.Report) string {
	msg := fmt.Sprintf("Benchmark run finished: total %d, average %.1f (%s)",
		rep.TotalScore, rep.AverageScore, report.Assessment(rep.AverageScore))
	if a := report.Analyze(rep.Comparisons); a != nil && len(a.Regressions) > 0 {
		msg += fmt.Sprintf(", %d size(s) slower than baseline", len(a.Regressions))
	}
	return msg
}
