package journal

import (
	"fmt"
	"strings"

	"github.com/tonhe/sysglance/internal/runner"
)

// Outcome classifies one journal retrieval.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomePermissionDenied
	OutcomeCancelled
	OutcomeEmpty
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomePermissionDenied:
		return "permission denied"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeEmpty:
		return "empty"
	}
	return "unknown"
}

// Result is the text to display for one scope and how it was obtained.
type Result struct {
	Text    string
	Outcome Outcome
}

const permissionPhrase = "insufficient permissions"

// Placeholders for an empty journal.
const (
	NoSystemLogs = "No logs found"
	NoUserLogs   = "No user logs found"
)

// Classify interprets the output of a journalctl run. Cancellation is only
// recognized for elevated runs, where the launcher reports it.
func Classify(scope Scope, elevated bool, q Query, out runner.Output) Result {
	if elevated && runner.IsCancellation(out.Stderr) {
		return Result{Outcome: OutcomeCancelled}
	}
	if strings.Contains(out.Stderr, permissionPhrase) {
		return Result{Outcome: OutcomePermissionDenied, Text: remediation(q, out.Stdout)}
	}
	if text := strings.TrimSpace(out.Stdout); text != "" {
		return Result{Outcome: OutcomeOK, Text: text}
	}
	if scope == User {
		return Result{Outcome: OutcomeOK, Text: NoUserLogs}
	}
	return Result{Outcome: OutcomeOK, Text: NoSystemLogs}
}

// launchFailure renders a result for a journalctl that could not start.
func launchFailure(scope Scope, err error) Result {
	if scope == User {
		return Result{
			Outcome: OutcomeEmpty,
			Text:    fmt.Sprintf("Error loading user logs: %v\n\nNote: User logs may not be available or require additional permissions.", err),
		}
	}
	return Result{
		Outcome: OutcomeEmpty,
		Text:    fmt.Sprintf("Error loading logs: %v\n\nNote: journalctl may require additional permissions.", err),
	}
}

func remediation(q Query, accessible string) string {
	lines := q.MaxLines
	if lines <= 0 {
		lines = DefaultLines
	}
	if strings.TrimSpace(accessible) == "" {
		accessible = "No accessible logs found"
	}
	var b strings.Builder
	b.WriteString("System logs require elevated permissions.\n\n")
	b.WriteString("To view system logs, you can:\n")
	b.WriteString("1. Add your user to the 'systemd-journal' group:\n")
	b.WriteString("   sudo usermod -a -G systemd-journal $USER\n")
	b.WriteString("   (requires logout/login to take effect)\n\n")
	b.WriteString("2. Or run journalctl manually in terminal:\n")
	fmt.Fprintf(&b, "   journalctl -n %d --no-pager\n\n", lines)
	b.WriteString("Showing accessible logs instead:\n\n")
	b.WriteString(accessible)
	return b.String()
}
