// Package execx runs external programs such as mysqldump and wp.
//
// Commands go through the Runner interface so adapters built on top of it
// can be tested with a FakeRunner instead of real binaries.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Cmd describes one invocation of an external program.
type Cmd struct {
	// Name is the program to run, resolved through PATH.
	Name string

	// Args are the program arguments.
	Args []string

	// Env is appended to the current process environment.
	Env []string

	// Dir is the working directory (empty for the current directory).
	Dir string

	// Stdout receives standard output. Nil discards it.
	Stdout io.Writer
}

// String renders the command line for logs. Env is left out since it may
// carry credentials.
func (c Cmd) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner runs external commands.
type Runner interface {
	// Run executes c and waits for it to finish. A non-zero exit status is
	// returned as *ExitError.
	Run(ctx context.Context, c Cmd) error
}

// ExitError is returned when a command exits with a non-zero status.
type ExitError struct {
	Cmd    string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with status %d", e.Cmd, e.Code)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Cmd, e.Code, e.Stderr)
}

// ExitCode returns the exit status carried by err, or -1 if err is not an
// *ExitError.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

// RealRunner implements Runner using os/exec.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Run executes c. Stderr is captured and attached to the returned error.
func (r *RealRunner) Run(ctx context.Context, c Cmd) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdout = c.Stdout

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Cmd:    c.Name,
			Code:   exitErr.ExitCode(),
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}
	return fmt.Errorf("failed to run %s: %w", c.Name, err)
}

// Output runs c and returns its standard output.
func Output(ctx context.Context, r Runner, c Cmd) ([]byte, error) {
	var stdout bytes.Buffer
	c.Stdout = &stdout
	if err := r.Run(ctx, c); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}
