package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Wrapper for survey functions to allow mocking in tests
var (
	askOneFunc = survey.AskOne
)

// Wrapper for calling doctor command to allow mocking in tests
var runDoctorFunc = func(cmd *cobra.Command, args []string) {
	if err := runChecks(cmd, args); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Doctor reported problems: %v\n", err)
	}
}

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively set up the benchmark configuration",
	Long: `Runs an interactive wizard that writes config.yaml: build directory,
baseline file, report format, optional Docker image, history store and
notifications.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Welcome to intbench setup!")
	fmt.Fprintln(out, "--------------------------")

	answers := struct {
		BuildDir      string
		Baseline      string
		ResultsDir    string
		Format        string
		UseDocker     bool
		Image         string
		EnableHistory bool
		HistoryType   string
		HistoryDSN    string
		EnableSlack   bool
		SlackChannel  string
		SlackToken    string
		EnableWebhook bool
		WebhookURL    string
	}{}

	// 1. Build and paths
	if err := askOneFunc(&survey.Input{
		Message: "CMake build directory:",
		Default: viper.GetString("build_dir"),
	}, &answers.BuildDir); err != nil {
		return err
	}

	if err := askOneFunc(&survey.Input{
		Message: "Baseline timings file:",
		Default: viper.GetString("baseline"),
	}, &answers.Baseline); err != nil {
		return err
	}

	if err := askOneFunc(&survey.Input{
		Message: "Results directory:",
		Default: viper.GetString("results_dir"),
	}, &answers.ResultsDir); err != nil {
		return err
	}

	// 2. Report format
	if err := askOneFunc(&survey.Select{
		Message: "Default report format:",
		Options: []string{"text", "markdown", "both"},
		Default: "text",
	}, &answers.Format); err != nil {
		return err
	}

	// 3. Docker
	if err := askOneFunc(&survey.Confirm{
		Message: "Run builds inside a Docker toolchain image?",
		Default: false,
	}, &answers.UseDocker); err != nil {
		return err
	}

	if answers.UseDocker {
		if err := askOneFunc(&survey.Input{
			Message: "Toolchain image:",
			Default: "gcc:13",
		}, &answers.Image); err != nil {
			return err
		}
	}

	// 4. History store
	if err := askOneFunc(&survey.Confirm{
		Message: "Record runs in a history store?",
		Default: true,
	}, &answers.EnableHistory); err != nil {
		return err
	}

	if answers.EnableHistory {
		if err := askOneFunc(&survey.Select{
			Message: "History store type:",
			Options: []string{"sqlite", "postgres"},
			Default: "sqlite",
		}, &answers.HistoryType); err != nil {
			return err
		}

		dsnDefault := viper.GetString("history.dsn")
		if answers.HistoryType == "postgres" {
			dsnDefault = "postgres://localhost/intbench?sslmode=disable"
		}
		if err := askOneFunc(&survey.Input{
			Message: "History connection string:",
			Default: dsnDefault,
		}, &answers.HistoryDSN); err != nil {
			return err
		}
	}

	// 5. Notifications
	if err := askOneFunc(&survey.Confirm{
		Message: "Enable Slack notifications?",
		Default: false,
	}, &answers.EnableSlack); err != nil {
		return err
	}

	if answers.EnableSlack {
		if err := askOneFunc(&survey.Input{
			Message: "Slack Channel:",
			Default: "#benchmarks",
		}, &answers.SlackChannel); err != nil {
			return err
		}
		if err := askOneFunc(&survey.Password{
			Message: "Slack Bot Token:",
		}, &answers.SlackToken); err != nil {
			return err
		}
	}

	if err := askOneFunc(&survey.Confirm{
		Message: "Enable webhook notifications?",
		Default: false,
	}, &answers.EnableWebhook); err != nil {
		return err
	}

	if answers.EnableWebhook {
		if err := askOneFunc(&survey.Input{
			Message: "Webhook URL:",
		}, &answers.WebhookURL); err != nil {
			return err
		}
	}

	// --- Saving Configuration ---

	viper.Set("build_dir", answers.BuildDir)
	viper.Set("baseline", answers.Baseline)
	viper.Set("results_dir", answers.ResultsDir)
	viper.Set("format", answers.Format)
	if answers.UseDocker {
		viper.Set("docker.image", answers.Image)
	}
	viper.Set("history.enabled", answers.EnableHistory)
	if answers.EnableHistory {
		viper.Set("history.type", answers.HistoryType)
		viper.Set("history.dsn", answers.HistoryDSN)
	}
	if answers.EnableSlack {
		viper.Set("notifications.slack.enabled", true)
		viper.Set("notifications.slack.channel", answers.SlackChannel)
	}
	if answers.EnableWebhook {
		viper.Set("notifications.webhook.enabled", true)
		viper.Set("notifications.webhook.url", answers.WebhookURL)
	}

	// Write to config.yaml
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = "config.yaml"
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		fmt.Fprintf(out, "Warning: Could not write %s: %v\n", configFile, err)
	} else {
		fmt.Fprintf(out, "Configuration saved to %s\n", configFile)
	}

	// Write the Slack token to .env
	if answers.EnableSlack && answers.SlackToken != "" {
		writeEnvLine(out, "SLACK_BOT_USER_TOKEN", answers.SlackToken)
	}

	// Run Doctor
	runDoctor := false
	if err := askOneFunc(&survey.Confirm{
		Message: "Run system check (intbench doctor) now?",
		Default: true,
	}, &runDoctor); err != nil {
		return err
	}
	if runDoctor {
		runDoctorFunc(cmd, args)
	}

	fmt.Fprintln(out, "Setup complete.")
	return nil
}

// writeEnvLine appends KEY=value to .env unless the key is already present.
func writeEnvLine(out io.Writer, key, value string) {
	existingEnv, _ := os.ReadFile(".env")
	existingEnvStr := string(existingEnv)

	if strings.Contains(existingEnvStr, key+"=") {
		fmt.Fprintf(out, "Note: %s already exists in .env, skipping.\n", key)
		return
	}

	f, err := os.OpenFile(".env", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		fmt.Fprintf(out, "Error opening .env: %v\n", err)
		return
	}
	defer f.Close()

	content := ""
	if len(existingEnv) > 0 && !strings.HasSuffix(existingEnvStr, "\n") {
		content = "\n"
	}
	content += fmt.Sprintf("%s=%s\n", key, value)

	if _, err := f.WriteString(content); err != nil {
		fmt.Fprintf(out, "Error writing to .env: %v\n", err)
		return
	}
	fmt.Fprintln(out, "Secrets saved to .env")
}
