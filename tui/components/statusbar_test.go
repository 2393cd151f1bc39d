package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/tonhe/sysglance/tui/styles"
)

func TestRenderStatusBar(t *testing.T) {
	last := time.Date(2026, 1, 1, 9, 30, 15, 0, time.UTC)
	out := RenderStatusBar(styles.DefaultTheme, last, []string{"gpu"}, 4, "", []KeyHint{{"q", "quit"}}, 120)
	plain := ansi.Strip(out)
	if !strings.Contains(plain, "last: 09:30:15") {
		t.Errorf("expected last poll time, got %q", plain)
	}
	if !strings.Contains(plain, "3/4 sources OK (gpu)") {
		t.Errorf("expected failing source, got %q", plain)
	}
	if !strings.Contains(plain, "q:quit") {
		t.Errorf("expected key hint, got %q", plain)
	}
}

func TestRenderStatusBarNeverPolled(t *testing.T) {
	out := ansi.Strip(RenderStatusBar(styles.DefaultTheme, time.Time{}, nil, 2, "Authentication cancelled", nil, 100))
	if !strings.Contains(out, "last: never") || !strings.Contains(out, "2/2 sources OK") {
		t.Errorf("unexpected status bar %q", out)
	}
	if !strings.Contains(out, "Authentication cancelled") {
		t.Errorf("expected message, got %q", out)
	}
}

func TestRenderHeader(t *testing.T) {
	out := ansi.Strip(RenderHeader(styles.DefaultTheme, []string{"System", "Logs"}, 1, "default", "0.1.0", 80))
	for _, want := range []string{"sysglance", "1 System", "2 Logs", "default", "v0.1.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in header %q", want, out)
		}
	}
}
