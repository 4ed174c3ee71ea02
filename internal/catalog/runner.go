package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"unicode/utf8"
)

// Runner runs an external program and returns its standard output.
// A run that writes to stderr or exits non-zero is a failure.
type Runner interface {
	Run(ctx context.Context, program string, args []string) ([]byte, error)
}

// ProcessError describes a subprocess that ran but failed.
type ProcessError struct {
	Program  string
	Stderr   string // non-empty when the process wrote to stderr
	ExitCode int    // non-zero when the process exited unsuccessfully
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("subprocess stderr: %s", e.Stderr)
	}
	return fmt.Sprintf("subprocess status: exit status %d", e.ExitCode)
}

// ExecRunner runs programs with os/exec. It has no timeout: a hung program
// blocks until ctx is canceled.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, program string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, program, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return nil, fmt.Errorf("running %s: %w", program, runErr)
	}
	if stderr.Len() > 0 {
		if !utf8.Valid(stderr.Bytes()) {
			return nil, fmt.Errorf("non-utf8 in %s stderr", program)
		}
		return nil, &ProcessError{Program: program, Stderr: stderr.String()}
	}
	if exitErr != nil {
		return nil, &ProcessError{Program: program, ExitCode: exitErr.ExitCode()}
	}
	return stdout.Bytes(), nil
}
