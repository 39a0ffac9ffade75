package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"intbench/internal/proc"
)

// TargetName is both the CMake target and the executable produced by it.
const TargetName = "integer_benchmark"

// NotFoundError reports a benchmark executable missing from its resolved
// location, usually because the build step was skipped or failed silently.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("benchmark executable not found: %s", e.Path)
}

// Builder drives the CMake configure and build steps through a proc.Runner.
type Builder struct {
	runner proc.Runner
}

func NewBuilder(runner proc.Runner) *Builder {
	return &Builder{runner: runner}
}

// Configure applies a CMake preset. It is a no-op when preset is empty.
func (b *Builder) Configure(ctx context.Context, preset string) error {
	if preset == "" {
		return nil
	}
	if _, err := b.runner.Run(ctx, proc.Command{
		Path: "cmake",
		Args: []string{"--preset", preset},
	}); err != nil {
		return fmt.Errorf("cmake configure failed: %w", err)
	}
	return nil
}

// Build compiles the benchmark target inside buildDir.
func (b *Builder) Build(ctx context.Context, buildDir string) error {
	if _, err := b.runner.Run(ctx, proc.Command{
		Path: "cmake",
		Args: []string{"--build", buildDir, "--target", TargetName},
	}); err != nil {
		return fmt.Errorf("cmake build failed: %w", err)
	}
	return nil
}

// BinaryPath resolves the benchmark executable location. An explicit override
// wins over the conventional <buildDir>/benchmarks/<target> layout. On
// windows any existing extension is replaced with .exe, overrides included.
func BinaryPath(buildDir, override, goos string) string {
	path := override
	if path == "" {
		path = filepath.Join(buildDir, "benchmarks", TargetName)
	}
	if goos == "windows" {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".exe"
	}
	return path
}

// CheckBinary verifies the executable exists and is a regular file.
func CheckBinary(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return &NotFoundError{Path: path}
	}
	return nil
}
