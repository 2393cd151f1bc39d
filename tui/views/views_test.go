package views

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/tonhe/sysglance/internal/engine"
	"github.com/tonhe/sysglance/internal/inventory"
	"github.com/tonhe/sysglance/internal/journal"
	"github.com/tonhe/sysglance/internal/monitor"
	"github.com/tonhe/sysglance/internal/probe"
	"github.com/tonhe/sysglance/tui/styles"
)

func testSnapshot() *monitor.Snapshot {
	now := time.Now()
	return &monitor.Snapshot{
		Dashboard: "default",
		System: []inventory.Row{
			{Title: "OS", Subtitle: "Fedora Linux 40", Category: inventory.System},
			{Title: "Disk", Subtitle: "2 mounts", Category: inventory.Hardware, Children: []inventory.Row{
				{Title: "/", Subtitle: "20.00 GB / 100.00 GB (20%)", Category: inventory.Hardware},
			}},
		},
		Software: []inventory.Row{{Title: "Python", Subtitle: "3.12.1", Category: inventory.Software}},
		Interfaces: []probe.InterfaceRecord{
			{Name: "lo", State: probe.LinkUnknown, IPv4: "127.0.0.1", NetmaskBits: 8, MTU: 65536, RxBytes: "1.00 KB", TxBytes: "1.00 KB"},
			{Name: "wlp2s0", State: probe.LinkUp, IPv4: "192.168.1.20", NetmaskBits: 24, MTU: 1500, RxBytes: "2.00 GB", TxBytes: "300.00 MB"},
		},
		Rates: map[string][]engine.RateSample{
			"wlp2s0": {{Timestamp: now, RxRate: 1_500_000, TxRate: 20_000}},
		},
		Connectivity: probe.Connectivity{
			Firewall: probe.Summary{Status: "Authentication required", NeedsElevation: true},
			DNS: probe.Summary{Status: "Configured", Details: []probe.KeyValue{
				{Key: "IPv4 DNS", Value: "1.1.1.1"},
			}},
		},
		Devices: map[probe.Category][]probe.DeviceRecord{
			probe.Graphics: {{Driver: "i915", Description: "Intel UHD Graphics", Category: probe.Graphics}},
		},
		Modules: []probe.ModuleRecord{{Name: "snd_hda_intel", SizeBytes: 61440, UseCount: 4}},
		Processes: []probe.ProcessRecord{{Name: "firefox", CPU: 12.5, MemoryKB: 512000}},
		GPUSeries: make([]float64, 60),
		CPUSeries: make([]float64, 60),
		Logs: monitor.Logs{
			User:        journal.Result{Text: "user line one", Outcome: journal.OutcomeOK},
			SystemQuery: journal.DefaultQuery(),
			UserQuery:   journal.DefaultQuery(),
		},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSystemViewSections(t *testing.T) {
	v := NewSystemView(styles.DefaultTheme)
	v.SetSize(100, 60)
	v.SetSnapshot(testSnapshot())

	out := ansi.Strip(v.View())
	for _, want := range []string{
		"--- System ---", "Fedora Linux 40",
		"--- Software ---", "3.12.1",
		"Authentication required", "1.1.1.1",
		"Top Processes by CPU", "firefox", "12.5%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("system view missing %q", want)
		}
	}
	if strings.Contains(out, "20.00 GB / 100.00 GB") {
		t.Error("hardware rows should not appear on the system view")
	}
}

func TestSystemViewScrolls(t *testing.T) {
	v := NewSystemView(styles.DefaultTheme)
	v.SetSize(100, 3)
	v.SetSnapshot(testSnapshot())

	first := ansi.Strip(v.View())
	if !strings.Contains(first, "--- System ---") {
		t.Fatalf("first page should start with the System section, got %q", first)
	}
	v, _ = v.Update(keyMsg("down"))
	if strings.Contains(ansi.Strip(v.View()), "--- System ---") {
		t.Error("scrolling down should move past the first line")
	}
}

func TestSystemViewWaiting(t *testing.T) {
	v := NewSystemView(styles.DefaultTheme)
	v.SetSize(60, 10)
	if !strings.Contains(v.View(), "Collecting data...") {
		t.Error("view without a snapshot should show a placeholder")
	}
}

func TestHardwareViewDrivers(t *testing.T) {
	v := NewHardwareView(styles.DefaultTheme)
	v.SetSize(120, 80)
	v.SetSnapshot(testSnapshot())

	out := ansi.Strip(v.View())
	for _, want := range []string{
		"20.00 GB / 100.00 GB", "i915", "(version unknown)", "No devices found",
		"snd_hda_intel", "60.00 KB", "GPU", "CPU 0.0%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("hardware view missing %q", want)
		}
	}
}

func TestNetworkViewCursor(t *testing.T) {
	v := NewNetworkView(styles.DefaultTheme)
	v.SetSize(140, 30)
	v.SetSnapshot(testSnapshot())

	sel, ok := v.Selected()
	if !ok || sel.Name != "lo" {
		t.Fatalf("initial selection = %q, want lo", sel.Name)
	}
	v, _ = v.Update(keyMsg("down"))
	v, _ = v.Update(keyMsg("down"))
	sel, _ = v.Selected()
	if sel.Name != "wlp2s0" {
		t.Errorf("cursor should stop at the last row, got %q", sel.Name)
	}

	out := ansi.Strip(v.View())
	for _, want := range []string{"wlp2s0", "192.168.1.20", "1.5M", "/24", "In Traffic"} {
		if !strings.Contains(out, want) {
			t.Errorf("network view missing %q", want)
		}
	}
}

func TestNetworkViewCursorClamp(t *testing.T) {
	v := NewNetworkView(styles.DefaultTheme)
	v.SetSize(140, 30)
	v.SetSnapshot(testSnapshot())
	v, _ = v.Update(keyMsg("down"))

	snap := testSnapshot()
	snap.Interfaces = snap.Interfaces[:1]
	v.SetSnapshot(snap)
	if sel, _ := v.Selected(); sel.Name != "lo" {
		t.Errorf("cursor should clamp when interfaces vanish, got %q", sel.Name)
	}
}

func TestNetworkViewEmpty(t *testing.T) {
	v := NewNetworkView(styles.DefaultTheme)
	v.SetSize(80, 20)
	snap := testSnapshot()
	snap.Interfaces = nil
	v.SetSnapshot(snap)
	if !strings.Contains(v.View(), "No interfaces found") {
		t.Error("empty interface list should say so")
	}
}

func TestLogsViewScope(t *testing.T) {
	v := NewLogsView(styles.DefaultTheme)
	v.SetSize(100, 20)
	v.SetSnapshot(testSnapshot())

	if v.Scope() != journal.System {
		t.Fatal("logs view should start on the system journal")
	}
	if !strings.Contains(v.Text(), "Press [a] to authenticate") {
		t.Errorf("unauthenticated system journal should prompt, got %q", v.Text())
	}
	header := ansi.Strip(v.View())
	if !strings.Contains(header, "System Journal") || !strings.Contains(header, "Lines: 200") {
		t.Errorf("unexpected header: %q", header)
	}

	v.ToggleScope()
	if v.Scope() != journal.User || v.Text() != "user line one" {
		t.Errorf("user scope text = %q", v.Text())
	}
}

func TestLogsViewRequesting(t *testing.T) {
	v := NewLogsView(styles.DefaultTheme)
	v.SetSize(100, 20)
	snap := testSnapshot()
	snap.Logs.State = journal.StateRequesting
	v.SetSnapshot(snap)
	if v.Text() != "Waiting for authentication..." {
		t.Errorf("Text() = %q", v.Text())
	}
}

func TestHelpViewToggle(t *testing.T) {
	v := NewHelpView(styles.DefaultTheme)
	v.SetSize(100, 40)
	if v.IsVisible() {
		t.Fatal("help should start hidden")
	}
	v.Toggle()
	if !v.IsVisible() {
		t.Fatal("Toggle() should show help")
	}
	out := ansi.Strip(v.View())
	if !strings.Contains(out, "Authenticate for system logs") {
		t.Error("help should list the logs bindings")
	}
}

func TestHelpViewFitsBindings(t *testing.T) {
	for _, width := range []int{60, 80, 120} {
		v := NewHelpView(styles.DefaultTheme)
		v.SetSize(width, 40)
		v.Toggle()
		out := v.View()
		plain := ansi.Strip(out)

		for _, want := range []string{
			"╭─ Keyboard Shortcuts ─",
			"Sort processes by CPU / memory",
			"Authenticate for system logs",
			"Tab / S-Tab   Next / previous tab",
		} {
			if !strings.Contains(plain, want) {
				t.Errorf("width %d: help missing %q", width, want)
			}
		}
		for i, line := range strings.Split(out, "\n") {
			if w := ansi.StringWidth(line); w > width {
				t.Errorf("width %d: line %d is %d columns", width, i, w)
			}
		}
	}
}
