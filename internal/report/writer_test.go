package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"intbench/internal/benchmark"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterWritesTimestampedReport(t *testing.T) {
	dir := t.TempDir()
	comps := []benchmark.Comparison{{Digits: 1000, Measured: 0.001, Score: 200}}
	rep := Build(comps, nil, time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC))

	path, err := NewWriter(dir).Write(rep, TextRenderer{}, "txt")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "benchmark_20240102_150405.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "INTEGER BENCHMARK REPORT\n"))
}

func TestWriterCreatesResultsDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "results")
	rep := Build(nil, nil, time.Now())

	path, err := NewWriter(dir).Write(rep, TextRenderer{}, "txt")

	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestWriterMarkdownExtension(t *testing.T) {
	dir := t.TempDir()
	rep := Build(nil, nil, time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC))

	path, err := NewWriter(dir).Write(rep, MarkdownRenderer{}, "md")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "benchmark_20240102_150405.md"), path)
}

func TestWriterUnwritableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permissions are not enforced")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	rep := Build(nil, nil, time.Now())
	_, err := NewWriter(filepath.Join(dir, "results")).Write(rep, TextRenderer{}, "txt")

	assert.Error(t, err)
}
