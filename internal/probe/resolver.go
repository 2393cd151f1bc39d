// Package probe runs local system tools and parses their text output into
// typed records. Parsers are pure functions of their input; Resolver methods
// wrap them with process execution and degrade to fallback values on failure.
package probe

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/tonhe/sysglance/internal/runner"
)

// ErrUnavailable reports that a probe tool could not be run or failed.
var ErrUnavailable = errors.New("tool unavailable")

// Resolver executes probe commands through a Runner. The elevator is
// optional; when it is authenticated, probes that need root go through it.
type Resolver struct {
	runner   runner.Runner
	elevator *runner.Elevator
	log      zerolog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(r runner.Runner, elevator *runner.Elevator, log zerolog.Logger) *Resolver {
	return &Resolver{
		runner:   r,
		elevator: elevator,
		log:      log,
	}
}

// run executes a command and treats a non-zero exit as a failure.
func (r *Resolver) run(ctx context.Context, name string, args ...string) (string, bool) {
	out, err := r.runner.Run(ctx, name, args...)
	if err != nil {
		r.log.Debug().Err(err).Str("cmd", name).Msg("probe failed")
		return "", false
	}
	if out.Failed() {
		r.log.Debug().Str("cmd", name).Int("exit", out.ExitCode).Str("stderr", out.Stderr).Msg("probe exited non-zero")
		return out.Stdout, false
	}
	return out.Stdout, true
}

// privileged returns the runner to use for commands that may need root.
func (r *Resolver) privileged() func(ctx context.Context, name string, args ...string) (runner.Output, error) {
	if r.elevator != nil && r.elevator.Authenticated() {
		return r.elevator.Run
	}
	return r.runner.Run
}

func (r *Resolver) available(name string) bool {
	_, err := r.runner.LookPath(name)
	return err == nil
}
