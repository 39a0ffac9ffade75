package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaselineCmd(t *testing.T) {
	baselinePath := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, os.WriteFile(baselinePath, []byte(sampleBaseline), 0644))

	viper.Reset()
	viper.Set("baseline", baselinePath)
	t.Cleanup(viper.Reset)

	out := new(bytes.Buffer)
	baselineCmd.SetOut(out)

	err := runBaseline(baselineCmd, nil)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Baseline:  "+baselinePath)
	assert.Contains(t, output, "Timestamp: 2026-08-20T12:00:00")
	assert.Contains(t, output, "Seed:      42")
	assert.Contains(t, output, "Scoring:   baseline 200, max 1000")
	assert.Contains(t, output, "DIGITS")
	assert.Contains(t, output, "0.500000")
	assert.Contains(t, output, "1.000000")

	// Sizes print in ascending order, so the 1000-digit time comes first.
	assert.Less(t, strings.Index(output, "0.500000"), strings.Index(output, "1.000000"))
}

func TestBaselineCmd_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")

	viper.Reset()
	viper.Set("baseline", missing)
	t.Cleanup(viper.Reset)

	baselineCmd.SetOut(new(bytes.Buffer))

	err := runBaseline(baselineCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no baseline found at "+missing)
}

func TestBaselineCmd_Malformed(t *testing.T) {
	baselinePath := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, os.WriteFile(baselinePath, []byte("{broken"), 0644))

	viper.Reset()
	viper.Set("baseline", baselinePath)
	t.Cleanup(viper.Reset)

	baselineCmd.SetOut(new(bytes.Buffer))

	err := runBaseline(baselineCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse baseline")
}
