package journal

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tonhe/sysglance/internal/runner"
)

func TestClassifyCancelled(t *testing.T) {
	for _, stderr := range []string{
		"Error executing command as another user: Request dismissed",
		"Request dismissed",
		"Authentication cancelled by user",
	} {
		res := Classify(System, true, DefaultQuery(), runner.Output{Stderr: stderr, ExitCode: 126})
		assert.Equal(t, OutcomeCancelled, res.Outcome, stderr)
		assert.Empty(t, res.Text)
	}
}

func TestClassifyCancellationNeedsElevation(t *testing.T) {
	res := Classify(System, false, DefaultQuery(), runner.Output{Stdout: "a line\n", Stderr: "dismissed"})
	assert.Equal(t, OutcomeOK, res.Outcome)
}

func TestClassifyPermissionDenied(t *testing.T) {
	out := runner.Output{
		Stdout: "Oct 16 09:00:01 host kernel: hello\n",
		Stderr: "Hint: You are currently not seeing messages from other users and the system.\n      Users in groups 'adm', 'systemd-journal' can see all messages.\n      Pass -q to turn off this notice.\nNo journal files were opened due to insufficient permissions.",
	}
	res := Classify(System, false, Query{MaxLines: 300}, out)
	assert.Equal(t, OutcomePermissionDenied, res.Outcome)
	assert.True(t, strings.HasPrefix(res.Text, "System logs require elevated permissions.\n\n"))
	assert.Contains(t, res.Text, "sudo usermod -a -G systemd-journal $USER")
	assert.Contains(t, res.Text, "journalctl -n 300 --no-pager")
	assert.True(t, strings.HasSuffix(res.Text, "Showing accessible logs instead:\n\nOct 16 09:00:01 host kernel: hello\n"))

	res = Classify(System, false, DefaultQuery(), runner.Output{Stderr: "insufficient permissions"})
	assert.True(t, strings.HasSuffix(res.Text, "No accessible logs found"))
}

func TestClassifyOK(t *testing.T) {
	res := Classify(System, true, DefaultQuery(), runner.Output{Stdout: "\nline one\nline two\n\n"})
	assert.Equal(t, Result{Outcome: OutcomeOK, Text: "line one\nline two"}, res)

	assert.Equal(t, Result{Outcome: OutcomeOK, Text: NoSystemLogs}, Classify(System, true, DefaultQuery(), runner.Output{}))
	assert.Equal(t, Result{Outcome: OutcomeOK, Text: NoUserLogs}, Classify(User, false, DefaultQuery(), runner.Output{Stdout: "  \n"}))
}

func TestLaunchFailure(t *testing.T) {
	res := launchFailure(System, errors.New("exec: \"pkexec\": executable file not found in $PATH"))
	assert.Equal(t, OutcomeEmpty, res.Outcome)
	assert.True(t, strings.HasPrefix(res.Text, "Error loading logs: exec:"))

	res = launchFailure(User, errors.New("boom"))
	assert.True(t, strings.HasPrefix(res.Text, "Error loading user logs: boom"))
}
