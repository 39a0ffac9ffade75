package main

import (
	"fmt"
	"os"
	"strings"

	"intbench/internal/benchmark"
	"intbench/internal/config"
	"intbench/internal/history"
	"intbench/internal/telemetry"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "intbench",
	Short: "Build, run and score the integer multiplication benchmark",
	Long: `intbench drives the integer multiplication benchmark suite: it builds
the CMake target, runs the Google Benchmark binary, converts the reported
timings to seconds, scores them against a stored baseline, and writes
timestamped score reports.`,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Wrap Execute in panic recovery for graceful shutdown
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n=== CRITICAL ERROR: Command Execution Panic ===\n")
			fmt.Fprintf(os.Stderr, "Error: %v\n", r)
			fmt.Fprintf(os.Stderr, "Attempting graceful shutdown...\n")
			exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'intbench --help' for usage.")
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Missing .env is fine; values may come from the real environment.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config.yaml in the current directory.
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("INTBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// Set defaults
	viper.SetDefault("build_dir", "build")
	viper.SetDefault("preset", "")
	viper.SetDefault("binary", "")
	viper.SetDefault("baseline", "data/baseline.json")
	viper.SetDefault("results_dir", "results")
	viper.SetDefault("family", benchmark.DefaultFamily)
	viper.SetDefault("format", "text")
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")
	viper.SetDefault("metrics_addr", "")
	viper.SetDefault("docker.image", "")
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.type", "sqlite")
	viper.SetDefault("history.dsn", history.DefaultSQLitePath)
	viper.SetDefault("scoring.baseline_score", benchmark.DefaultScoring.BaselineScore)
	viper.SetDefault("scoring.max_score", benchmark.DefaultScoring.MaxScore)

	// Notification Defaults
	slackEnabled := false
	if os.Getenv("SLACK_BOT_USER_TOKEN") != "" {
		slackEnabled = true
	}
	viper.SetDefault("notifications.slack.enabled", slackEnabled)
	viper.SetDefault("notifications.slack.channel", "#benchmarks")
	viper.SetDefault("notifications.webhook.enabled", false)
	viper.SetDefault("notifications.webhook.url", "")
	viper.SetDefault("notifications.events.on_success", true)
	viper.SetDefault("notifications.events.on_failure", true)

	// If a config file is found, read it in. A missing file is not an error:
	// the setup command creates one, and defaults cover the rest.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		fmt.Fprintf(os.Stderr, "Warning: failed to read config file: %v\n", err)
	}

	// Validate configuration values
	if err := config.ValidateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}

	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))

	// Start Metrics Server
	if addr := viper.GetString("metrics_addr"); addr != "" {
		go func() {
			if err := telemetry.StartMetricsServer(addr); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to start metrics server: %v\n", err)
			}
		}()
	}
}

// configScoring reads the fallback scoring parameters from configuration.
// A baseline file that carries its own scoring_system takes precedence.
func configScoring() benchmark.Scoring {
	return benchmark.Scoring{
		BaselineScore: viper.GetInt("scoring.baseline_score"),
		MaxScore:      viper.GetInt("scoring.max_score"),
	}
}
