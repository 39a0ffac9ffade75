package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"syscall"

	"intbench/internal/benchmark"
	"intbench/internal/build"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Function variables for mocking
var execLookPath = exec.LookPath

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:          "doctor",
	Short:        "Diagnose potential issues with the benchmark environment",
	SilenceUsage: true, // Prevents printing usage on error
	Long: `The doctor command runs a series of checks to verify that the environment
is ready for benchmark runs. It checks the CMake toolchain, the baseline
file, the results directory, the history store and, when an image is
configured, Docker.`,
	RunE: runChecks,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// runChecks executes all the doctor checks and prints a summary.
func runChecks(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	checkPassed := true

	fmt.Fprintln(out, "🩺 Running doctor checks...")

	if !runToolChecks(cmd) {
		checkPassed = false
	}
	if !runBaselineChecks(cmd) {
		checkPassed = false
	}
	if !runResultsDirChecks(cmd) {
		checkPassed = false
	}
	if !runHistoryChecks(cmd) {
		checkPassed = false
	}
	if !runDockerChecks(cmd) {
		checkPassed = false
	}

	// Summary
	fmt.Fprintln(out, "\n🩺 Doctor Summary:")
	if checkPassed {
		fmt.Fprintln(out, "✅ All checks passed!")
		return nil
	}

	fmt.Fprintln(out, "❌ Some checks failed. Please review the output above.")
	return fmt.Errorf("doctor checks failed")
}

// runToolChecks verifies the build toolchain and general machine readiness.
func runToolChecks(cmd *cobra.Command) bool {
	out := cmd.OutOrStdout()
	allChecksPassed := true

	fmt.Fprintln(out, "\n🔎 Checking toolchain...")

	if path, err := execLookPath("cmake"); err != nil {
		fmt.Fprintln(out, "❌ cmake not found in PATH")
		allChecksPassed = false
	} else {
		fmt.Fprintf(out, "✅ cmake found at %s\n", path)
	}

	binPath := build.BinaryPath(viper.GetString("build_dir"), viper.GetString("binary"), runtime.GOOS)
	if err := build.CheckBinary(binPath); err != nil {
		fmt.Fprintf(out, "⚠️  Benchmark binary not built yet (%s); 'intbench run' builds it\n", binPath)
	} else {
		fmt.Fprintf(out, "✅ Benchmark binary present at %s\n", binPath)
	}

	diskSpaceOK, err := checkDiskSpace()
	if err != nil {
		fmt.Fprintf(out, "⚠️  Could not check disk space: %v\n", err)
	} else if !diskSpaceOK {
		fmt.Fprintln(out, "⚠️  Low disk space detected. Consider freeing up space.")
	} else {
		fmt.Fprintln(out, "✅ Sufficient disk space available")
	}

	return allChecksPassed
}

// runBaselineChecks loads the configured baseline. A missing baseline is
// only a warning since runs fall back to default scoring.
func runBaselineChecks(cmd *cobra.Command) bool {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n🔎 Checking baseline...")

	path := viper.GetString("baseline")
	ds, err := benchmark.LoadDataset(path)
	if err != nil {
		fmt.Fprintf(out, "❌ Baseline %s is malformed: %v\n", path, err)
		return false
	}
	if ds == nil {
		fmt.Fprintf(out, "⚠️  No baseline at %s; runs will score with defaults\n", path)
		return true
	}

	fmt.Fprintf(out, "✅ Baseline %s loaded (%d sizes, max score %d)\n", path, len(ds.Sizes()), ds.Scoring.MaxScore)
	return true
}

// runResultsDirChecks probes that reports can actually be written.
func runResultsDirChecks(cmd *cobra.Command) bool {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n🔎 Checking results directory...")

	dir := viper.GetString("results_dir")
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(out, "❌ Cannot create results directory %s: %v\n", dir, err)
		return false
	}

	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		fmt.Fprintf(out, "❌ Results directory %s is not writable: %v\n", dir, err)
		return false
	}
	probe.Close()
	os.Remove(probe.Name())

	fmt.Fprintf(out, "✅ Results directory %s is writable\n", dir)
	return true
}

// runHistoryChecks opens the configured history store.
func runHistoryChecks(cmd *cobra.Command) bool {
	out := cmd.OutOrStdout()
	if !viper.GetBool("history.enabled") {
		return true
	}

	fmt.Fprintln(out, "\n🔎 Checking history store...")

	store, err := newHistoryStore()
	if err != nil {
		fmt.Fprintf(out, "❌ Cannot open %s history store: %v\n", viper.GetString("history.type"), err)
		return false
	}
	store.Close()

	fmt.Fprintf(out, "✅ History store (%s) is reachable\n", viper.GetString("history.type"))
	return true
}

// runDockerChecks runs the Docker checks when container runs are configured.
func runDockerChecks(cmd *cobra.Command) bool {
	out := cmd.OutOrStdout()
	image := viper.GetString("docker.image")
	if image == "" {
		return true
	}

	fmt.Fprintln(out, "\n🔎 Checking Docker...")

	client, err := newDockerClient()
	if err != nil {
		fmt.Fprintf(out, "❌ Error creating docker client: %v\n", err)
		return false
	}
	defer client.Close()

	ctx := context.Background()
	if err := client.CheckDaemon(ctx); err != nil {
		fmt.Fprintf(out, "❌ Docker daemon is not reachable: %v\n", err)
		return false
	}
	fmt.Fprintln(out, "✅ Docker daemon is reachable")

	exists, err := client.CheckImage(ctx, image)
	if err != nil {
		fmt.Fprintf(out, "❌ Error checking image %s: %v\n", image, err)
		return false
	}
	if !exists {
		fmt.Fprintf(out, "⚠️  Image %s is not present locally; it will be pulled on the next run\n", image)
	} else {
		fmt.Fprintf(out, "✅ Image %s is present\n", image)
	}

	return true
}

// checkDiskSpace checks if there's sufficient disk space available.
// Returns true if disk space is OK (> 1GB free), false otherwise.
func checkDiskSpace() (bool, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs("/", &stat); err != nil {
		return false, err
	}

	freeBytes := stat.Bavail * uint64(stat.Bsize)
	freeGB := float64(freeBytes) / (1024 * 1024 * 1024)

	if freeGB < 1.0 {
		return false, nil
	}

	return true, nil
}
