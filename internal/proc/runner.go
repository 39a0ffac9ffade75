package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Command describes one external process invocation.
type Command struct {
	Path string
	Args []string
	Dir  string
}

// String renders the invocation the way a shell user would type it.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Output carries the captured streams of a completed process.
type Output struct {
	Stdout string
	Stderr string
}

// ProcessError reports a process that exited non-zero or never started.
// ExitCode is -1 when the process could not be started at all.
type ProcessError struct {
	Cmd      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.ExitCode >= 0 {
		msg := fmt.Sprintf("%s exited with code %d", e.Cmd, e.ExitCode)
		if s := strings.TrimSpace(e.Stderr); s != "" {
			msg += ": " + s
		}
		return msg
	}
	return fmt.Sprintf("%s failed to start: %v", e.Cmd, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Runner executes external commands. Command code takes the interface so
// tests can substitute a mock and the docker package can provide a
// container-backed implementation.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}

// ExecRunner runs commands on the host with os/exec, capturing stdout and
// stderr separately.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and waits for it to finish. Cancellation of ctx
// kills the process. On failure the returned error is a *ProcessError and the
// partial output is still returned.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Output, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return out, &ProcessError{
			Cmd:      c.String(),
			ExitCode: code,
			Stderr:   out.Stderr,
			Err:      err,
		}
	}
	return out, nil
}
