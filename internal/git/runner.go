package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external command in dir and returns its combined
// stdout and stderr. A non-nil error means the command failed to start or
// exited non-zero; the captured output is still returned.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner is the Runner backed by os/exec. It blocks until the process
// exits; cancellation is whatever ctx provides.
type ExecRunner struct{}

// NewExecRunner creates a Runner that spawns real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args in dir. An empty dir inherits the current
// working directory.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	// #nosec G204: args are built by Client, never from a shell string
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	// git writes most diagnostics to stderr, so both streams share one
	// buffer to keep messages in the order git printed them.
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return out.String(), &ExitError{
			Command: commandLine(name, args),
			Code:    code,
			Err:     err,
		}
	}
	return out.String(), nil
}

// ExitError describes a process that could not be run or exited non-zero.
type ExitError struct {
	// Command is the command line that was executed.
	Command string

	// Code is the process exit code, or -1 when the process never ran.
	Code int

	// Err is the underlying os/exec error.
	Err error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func commandLine(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}
