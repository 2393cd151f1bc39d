package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/tonhe/sysglance/internal/dashboard"
	"github.com/tonhe/sysglance/internal/engine"
	"github.com/tonhe/sysglance/internal/journal"
	"github.com/tonhe/sysglance/internal/logging"
	"github.com/tonhe/sysglance/internal/monitor"
	"github.com/tonhe/sysglance/internal/probe"
	"github.com/tonhe/sysglance/internal/runner"
)

func newTestApp(t *testing.T) AppModel {
	t.Helper()
	mon := monitor.New(dashboard.DefaultDashboard(), monitor.Deps{}, logging.NewTestLogger())
	m := NewAppModel(mon, engine.NewManager(), "0.1.0", logging.NewTestLogger())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(AppModel)
}

func press(t *testing.T, m AppModel, s string) AppModel {
	t.Helper()
	var msg tea.KeyMsg
	switch s {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	updated, _ := m.Update(msg)
	return updated.(AppModel)
}

func TestViewBeforeResize(t *testing.T) {
	mon := monitor.New(dashboard.DefaultDashboard(), monitor.Deps{}, logging.NewTestLogger())
	m := NewAppModel(mon, engine.NewManager(), "0.1.0", logging.NewTestLogger())
	if m.View() != "Loading..." {
		t.Errorf("View() before resize = %q", m.View())
	}
}

func TestTabNavigation(t *testing.T) {
	m := newTestApp(t)
	if m.tab != TabSystem {
		t.Fatalf("initial tab = %d", m.tab)
	}

	m = press(t, m, "3")
	if m.tab != TabNetwork {
		t.Errorf("after 3, tab = %d", m.tab)
	}
	m = press(t, m, "tab")
	if m.tab != TabLogs {
		t.Errorf("after tab, tab = %d", m.tab)
	}
	m = press(t, m, "tab")
	if m.tab != TabSystem {
		t.Errorf("tab should wrap to System, got %d", m.tab)
	}
	m = press(t, m, "shift+tab")
	if m.tab != TabLogs {
		t.Errorf("shift+tab should wrap to Logs, got %d", m.tab)
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newTestApp(t)
	m = press(t, m, "?")
	if !strings.Contains(ansi.Strip(m.View()), "Keyboard Shortcuts") {
		t.Fatal("help overlay should be shown")
	}
	m = press(t, m, "2")
	if m.tab != TabSystem {
		t.Error("keys other than close should be ignored while help is open")
	}
	m = press(t, m, "esc")
	if strings.Contains(ansi.Strip(m.View()), "Keyboard Shortcuts") {
		t.Error("esc should close the help overlay")
	}
}

func TestSortToggle(t *testing.T) {
	m := newTestApp(t)
	m = press(t, m, "s")
	if m.monitor.ProcessSort() != probe.ByMemory {
		t.Error("s should switch to memory ranking")
	}
	m = press(t, m, "s")
	if m.monitor.ProcessSort() != probe.ByCPU {
		t.Error("s should switch back to cpu ranking")
	}
}

func TestElevationMessages(t *testing.T) {
	tests := []struct {
		msg  ElevationMsg
		want string
	}{
		{ElevationMsg{Outcome: journal.OutcomeOK}, "Authenticated"},
		{ElevationMsg{Outcome: journal.OutcomeCancelled}, "Authentication cancelled"},
		{ElevationMsg{Outcome: journal.OutcomePermissionDenied}, "Permission denied"},
		{ElevationMsg{Err: journal.ErrBusy}, "Log request already in progress"},
	}
	for _, tt := range tests {
		m := newTestApp(t)
		updated, _ := m.Update(tt.msg)
		got := updated.(AppModel).message
		if got != tt.want {
			t.Errorf("message for %+v = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestViewComposition(t *testing.T) {
	m := newTestApp(t)
	out := ansi.Strip(m.View())
	for _, want := range []string{"sysglance", "1 System", "4 Logs", "sources OK", "q:quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAuthMessages(t *testing.T) {
	m := newTestApp(t)
	updated, _ := m.Update(AuthMsg{Err: runner.ErrCancelled})
	if got := updated.(AppModel).message; got != "Authentication cancelled" {
		t.Errorf("message = %q", got)
	}
	updated, _ = m.Update(AuthMsg{})
	if got := updated.(AppModel).message; got != "Authenticated" {
		t.Errorf("message = %q", got)
	}
}

func TestAuthenticateWithoutLauncher(t *testing.T) {
	m := newTestApp(t)
	if err := m.monitor.Authenticate(context.Background()); err == nil {
		t.Error("Authenticate() without an elevator should fail")
	}
}
