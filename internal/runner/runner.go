//go:generate mockgen -destination=mock_runner.go -package=runner github.com/tonhe/sysglance/internal/runner Runner

// Package runner executes external programs and captures their output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// ErrExecution indicates that a program could not be launched at all.
// A program that starts and exits non-zero is not an ErrExecution.
var ErrExecution = errors.New("command could not be executed")

// ErrTimeout marks an ErrExecution caused by the run's deadline.
var ErrTimeout = errors.New("command timed out")

// Output holds the captured streams of a finished program.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Failed reports whether the program exited non-zero.
func (o Output) Failed() bool {
	return o.ExitCode != 0
}

// Runner is the boundary between resolvers and the operating system.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
	ReadFile(path string) (string, error)
	LookPath(name string) (string, error)
}

// ExecRunner runs programs with os/exec, bounding each run by a timeout.
type ExecRunner struct {
	timeout time.Duration
	log     zerolog.Logger
}

// NewExecRunner creates an ExecRunner. A zero timeout disables the bound.
func NewExecRunner(timeout time.Duration, log zerolog.Logger) *ExecRunner {
	return &ExecRunner{
		timeout: timeout,
		log:     log,
	}
}

// Run executes name with args and returns its captured output. Only launch
// failures and timeouts are returned as errors.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			r.log.Debug().Str("command", name).Dur("timeout", r.timeout).Msg("command timed out")
			return out, fmt.Errorf("%w: %w: %s", ErrExecution, ErrTimeout, name)
		case errors.As(err, &exitErr) && ctx.Err() == nil:
			out.ExitCode = exitErr.ExitCode()
		default:
			r.log.Debug().Err(err).Str("command", name).Msg("command failed to run")
			return out, fmt.Errorf("%w: %s: %w", ErrExecution, name, err)
		}
	}

	r.log.Trace().
		Str("command", name).
		Strs("args", args).
		Int("exit_code", out.ExitCode).
		Dur("elapsed", time.Since(start)).
		Msg("command finished")
	return out, nil
}

// ReadFile returns the contents of a text file such as /proc/net/dev.
func (r *ExecRunner) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LookPath reports where name is installed on PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
