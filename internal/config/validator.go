package config

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/viper"
)

// ValidateConfig validates configuration values and returns an error if any
// are invalid. It must run after viper has loaded the configuration.
func ValidateConfig() error {
	var errors []string

	// Scoring bounds: 0 <= baseline_score <= max_score
	if viper.IsSet("scoring.baseline_score") || viper.IsSet("scoring.max_score") {
		base := viper.GetInt("scoring.baseline_score")
		max := viper.GetInt("scoring.max_score")
		if max <= 0 {
			errors = append(errors, fmt.Sprintf("scoring.max_score must be positive, got: %d", max))
		}
		if base < 0 {
			errors = append(errors, fmt.Sprintf("scoring.baseline_score must not be negative, got: %d", base))
		}
		if max > 0 && base > max {
			errors = append(errors, fmt.Sprintf("scoring.baseline_score must not exceed scoring.max_score, got: %d > %d", base, max))
		}
	}

	// Report format (if set)
	if viper.IsSet("format") {
		switch format := viper.GetString("format"); format {
		case "text", "markdown", "both":
		default:
			errors = append(errors, fmt.Sprintf("format must be text, markdown or both, got: %s", format))
		}
	}

	// Benchmark family must not be blank when set explicitly
	if viper.IsSet("family") && viper.GetString("family") == "" {
		errors = append(errors, "family must not be empty")
	}

	// Metrics listen address (if set, must be host:port)
	if addr := viper.GetString("metrics_addr"); addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			errors = append(errors, fmt.Sprintf("metrics_addr must be host:port, got: %s", addr))
		}
	}

	// History backend (if set)
	if viper.IsSet("history.type") {
		switch storeType := viper.GetString("history.type"); storeType {
		case "sqlite", "postgres", "":
		default:
			errors = append(errors, fmt.Sprintf("history.type must be sqlite or postgres, got: %s", storeType))
		}
	}

	// Results directory must not be blank when set explicitly
	if viper.IsSet("results_dir") && viper.GetString("results_dir") == "" {
		errors = append(errors, "results_dir must not be empty")
	}

	if len(errors) > 0 {
		errorMsg := errors[0]
		for i := 1; i < len(errors); i++ {
			errorMsg += "\n  " + errors[i]
		}
		return fmt.Errorf("configuration validation failed:\n  %s", errorMsg)
	}

	return nil
}

// ValidateAndExit validates the configuration and exits non-zero if
// validation fails, printing the errors to stderr.
func ValidateAndExit() {
	if err := ValidateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
