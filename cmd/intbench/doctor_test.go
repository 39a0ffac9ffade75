package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"intbench/internal/docker"
	"intbench/internal/history"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupDoctorTest builds an environment where every check passes: cmake on
// the PATH, a built binary, a valid baseline, a writable results directory
// and a reachable history store. Docker checks stay disabled until a test
// configures an image.
func setupDoctorTest(t *testing.T) (out *bytes.Buffer) {
	t.Helper()

	tmpDir := t.TempDir()

	binDir := filepath.Join(tmpDir, "build", "benchmarks")
	require.NoError(t, os.MkdirAll(binDir, 0755))
	binPath := filepath.Join(binDir, "integer_benchmark")
	require.NoError(t, os.WriteFile(binPath, []byte("#!/bin/sh\n"), 0755))

	baselinePath := filepath.Join(tmpDir, "baseline.json")
	require.NoError(t, os.WriteFile(baselinePath, []byte(sampleBaseline), 0644))

	viper.Reset()
	viper.Set("build_dir", filepath.Join(tmpDir, "build"))
	viper.Set("binary", "")
	viper.Set("baseline", baselinePath)
	viper.Set("results_dir", filepath.Join(tmpDir, "results"))
	viper.Set("history.enabled", true)
	viper.Set("history.type", "sqlite")
	viper.Set("docker.image", "")
	t.Cleanup(viper.Reset)

	origLookPath := execLookPath
	execLookPath = func(file string) (string, error) {
		return "/usr/bin/" + file, nil
	}
	t.Cleanup(func() { execLookPath = origLookPath })

	origNewHistoryStore := newHistoryStore
	newHistoryStore = func() (history.Store, error) { return &memoryStore{}, nil }
	t.Cleanup(func() { newHistoryStore = origNewHistoryStore })

	out = new(bytes.Buffer)
	doctorCmd.SetOut(out)
	doctorCmd.SetErr(out)
	return out
}

func TestDoctorCmd_AllPass(t *testing.T) {
	out := setupDoctorTest(t)

	err := runChecks(doctorCmd, nil)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "🩺 Running doctor checks...")
	assert.Contains(t, output, "✅ cmake found at /usr/bin/cmake")
	assert.Contains(t, output, "✅ Benchmark binary present at ")
	assert.Contains(t, output, "✅ Baseline "+viper.GetString("baseline")+" loaded (2 sizes, max score 1000)")
	assert.Contains(t, output, "✅ Results directory "+viper.GetString("results_dir")+" is writable")
	assert.Contains(t, output, "✅ History store (sqlite) is reachable")
	assert.Contains(t, output, "✅ All checks passed!")
	assert.NotContains(t, output, "Checking Docker")
}

func TestDoctorCmd_MissingCmake(t *testing.T) {
	out := setupDoctorTest(t)
	execLookPath = func(file string) (string, error) {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
	}

	err := runChecks(doctorCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doctor checks failed")

	output := out.String()
	assert.Contains(t, output, "❌ cmake not found in PATH")
	assert.Contains(t, output, "❌ Some checks failed. Please review the output above.")
}

func TestDoctorCmd_UnbuiltBinaryWarns(t *testing.T) {
	out := setupDoctorTest(t)
	viper.Set("build_dir", filepath.Join(t.TempDir(), "empty-build"))

	err := runChecks(doctorCmd, nil)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "⚠️  Benchmark binary not built yet")
	assert.Contains(t, output, "✅ All checks passed!")
}

func TestDoctorCmd_MalformedBaseline(t *testing.T) {
	out := setupDoctorTest(t)
	badPath := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, os.WriteFile(badPath, []byte("{broken"), 0644))
	viper.Set("baseline", badPath)

	err := runChecks(doctorCmd, nil)
	require.Error(t, err)
	assert.Contains(t, out.String(), "❌ Baseline "+badPath+" is malformed")
}

func TestDoctorCmd_MissingBaselineWarns(t *testing.T) {
	out := setupDoctorTest(t)
	viper.Set("baseline", filepath.Join(t.TempDir(), "missing.json"))

	err := runChecks(doctorCmd, nil)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "⚠️  No baseline at ")
	assert.Contains(t, output, "runs will score with defaults")
	assert.Contains(t, output, "✅ All checks passed!")
}

func TestDoctorCmd_HistoryStoreError(t *testing.T) {
	out := setupDoctorTest(t)
	newHistoryStore = func() (history.Store, error) {
		return nil, errors.New("unable to open database file")
	}

	err := runChecks(doctorCmd, nil)
	require.Error(t, err)
	assert.Contains(t, out.String(), "❌ Cannot open sqlite history store")
}

func TestDoctorCmd_HistoryDisabled(t *testing.T) {
	out := setupDoctorTest(t)
	viper.Set("history.enabled", false)
	newHistoryStore = func() (history.Store, error) {
		return nil, errors.New("should not be called")
	}

	err := runChecks(doctorCmd, nil)
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "Checking history store")
}

func TestDoctorCmd_DockerImagePresent(t *testing.T) {
	out := setupDoctorTest(t)
	viper.Set("docker.image", "gcc:13")

	client, _ := docker.NewMockClient()
	origNewDockerClient := newDockerClient
	newDockerClient = func() (*docker.Client, error) { return client, nil }
	defer func() { newDockerClient = origNewDockerClient }()

	err := runChecks(doctorCmd, nil)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "✅ Docker daemon is reachable")
	assert.Contains(t, output, "✅ Image gcc:13 is present")
}

func TestDoctorCmd_DockerImageMissingWarns(t *testing.T) {
	out := setupDoctorTest(t)
	viper.Set("docker.image", "gcc:14")

	client, api := docker.NewMockClient()
	api.ImageListFunc = func(ctx context.Context, options image.ListOptions) ([]image.Summary, error) {
		return nil, nil
	}
	origNewDockerClient := newDockerClient
	newDockerClient = func() (*docker.Client, error) { return client, nil }
	defer func() { newDockerClient = origNewDockerClient }()

	err := runChecks(doctorCmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "⚠️  Image gcc:14 is not present locally")
}

func TestDoctorCmd_DockerDaemonDown(t *testing.T) {
	out := setupDoctorTest(t)
	viper.Set("docker.image", "gcc:13")

	client, api := docker.NewMockClient()
	api.PingFunc = func(ctx context.Context) (types.Ping, error) {
		return types.Ping{}, errors.New("connection refused")
	}
	origNewDockerClient := newDockerClient
	newDockerClient = func() (*docker.Client, error) { return client, nil }
	defer func() { newDockerClient = origNewDockerClient }()

	err := runChecks(doctorCmd, nil)
	require.Error(t, err)
	assert.Contains(t, out.String(), "❌ Docker daemon is not reachable")
}
