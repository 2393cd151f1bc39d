package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// ErrCancelled indicates the user dismissed the privilege prompt.
var ErrCancelled = errors.New("elevation cancelled")

// DefaultLauncher is the privilege-escalation launcher used when none is configured.
const DefaultLauncher = "pkexec"

// PromptTimeout bounds a launcher run, which includes the time the user
// spends at the password prompt.
const PromptTimeout = 2 * time.Minute

var cancellationPhrases = []string{
	"dismissed",
	"Error executing command",
	"cancelled by user",
}

// IsCancellation reports whether stderr from the launcher means the prompt
// was dismissed rather than the command failing.
func IsCancellation(stderr string) bool {
	for _, phrase := range cancellationPhrases {
		if strings.Contains(stderr, phrase) {
			return true
		}
	}
	return false
}

// Elevator runs commands through a privilege-escalation launcher and keeps
// the process-wide "authenticated" flag. Once an elevated command has
// succeeded the flag stays set; credential caching is left to the launcher.
// The runner it wraps must allow for a human at the prompt; see
// PromptTimeout.
type Elevator struct {
	runner        Runner
	launcher      string
	authenticated atomic.Bool
}

// NewElevator wraps runner with the given launcher (pkexec when empty).
func NewElevator(r Runner, launcher string) *Elevator {
	if launcher == "" {
		launcher = DefaultLauncher
	}
	return &Elevator{runner: r, launcher: launcher}
}

// Launcher returns the launcher program name.
func (e *Elevator) Launcher() string {
	return e.launcher
}

// Run executes name with args through the launcher. A prompt left
// unanswered until the deadline is reported as ErrCancelled.
func (e *Elevator) Run(ctx context.Context, name string, args ...string) (Output, error) {
	out, err := e.runner.Run(ctx, e.launcher, append([]string{name}, args...)...)
	if errors.Is(err, ErrTimeout) {
		return out, fmt.Errorf("%w: %s prompt timed out", ErrCancelled, e.launcher)
	}
	return out, err
}

// Authenticate prompts through the launcher by running "true". It returns
// ErrCancelled when the prompt was dismissed.
func (e *Elevator) Authenticate(ctx context.Context) error {
	out, err := e.Run(ctx, "true")
	if err != nil {
		return err
	}
	if IsCancellation(out.Stderr) {
		return ErrCancelled
	}
	if out.Failed() {
		return fmt.Errorf("%s exited with status %d", e.launcher, out.ExitCode)
	}
	e.authenticated.Store(true)
	return nil
}

// Authenticated reports whether an elevated command has succeeded before.
func (e *Elevator) Authenticated() bool {
	return e.authenticated.Load()
}

// SetAuthenticated overrides the sticky flag.
func (e *Elevator) SetAuthenticated(v bool) {
	e.authenticated.Store(v)
}
