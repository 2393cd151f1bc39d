package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/sysglance/internal/inventory"
	"github.com/tonhe/sysglance/internal/monitor"
	"github.com/tonhe/sysglance/internal/probe"
	"github.com/tonhe/sysglance/internal/units"
	"github.com/tonhe/sysglance/tui/keys"
	"github.com/tonhe/sysglance/tui/styles"
)

const labelWidth = 16

// SystemView lists the host snapshot, installed software, connectivity
// summaries and the busiest processes.
type SystemView struct {
	theme  styles.Theme
	sty    *styles.Styles
	snap   *monitor.Snapshot
	scroll scroller
	width  int
	height int
}

// NewSystemView creates a new SystemView with the given theme.
func NewSystemView(theme styles.Theme) SystemView {
	return SystemView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetSnapshot replaces the data shown by the view.
func (v *SystemView) SetSnapshot(snap *monitor.Snapshot) {
	v.snap = snap
}

// SetSize updates the available dimensions for the view.
func (v *SystemView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Update handles scrolling keys.
func (v SystemView) Update(msg tea.Msg) (SystemView, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Up):
			v.scroll.up()
		case key.Matches(msg, keys.DefaultKeyMap.Down):
			v.scroll.down()
		case key.Matches(msg, keys.DefaultKeyMap.PageUp):
			v.scroll.page(-v.height)
		case key.Matches(msg, keys.DefaultKeyMap.PageDown):
			v.scroll.page(v.height)
		}
		if v.snap != nil {
			v.scroll.clamp(len(v.lines()), v.height)
		}
	}
	return v, nil
}

// View renders the system view.
func (v SystemView) View() string {
	if v.snap == nil {
		return renderWaiting(v.theme, v.width, v.height)
	}
	return v.scroll.render(v.lines(), v.height)
}

func (v SystemView) lines() []string {
	snap := v.snap
	var lines []string

	lines = append(lines, sectionHeader(v.sty, "System", v.width))
	lines = append(lines, rowLines(v.sty, snap.Rows(inventory.System), 0)...)
	lines = append(lines, "")

	lines = append(lines, sectionHeader(v.sty, "Software", v.width))
	lines = append(lines, rowLines(v.sty, snap.SoftwareRows(), 0)...)
	lines = append(lines, "")

	if rows := snap.Rows(inventory.Network); len(rows) > 0 {
		lines = append(lines, sectionHeader(v.sty, "Network", v.width))
		lines = append(lines, rowLines(v.sty, rows, 0)...)
		lines = append(lines, "")
	}

	lines = append(lines, sectionHeader(v.sty, "Connectivity", v.width))
	c := snap.Connectivity
	for _, s := range []struct {
		name    string
		summary probe.Summary
	}{
		{"Firewall", c.Firewall},
		{"WiFi", c.WiFi},
		{"Ethernet", c.Ethernet},
		{"DNS", c.DNS},
		{"VPN", c.VPN},
	} {
		lines = append(lines, v.summaryLines(s.name, s.summary)...)
	}
	lines = append(lines, "")

	sortLabel := "CPU"
	if snap.ProcessSort == probe.ByMemory {
		sortLabel = "Memory"
	}
	lines = append(lines, sectionHeader(v.sty, "Top Processes by "+sortLabel, v.width))
	lines = append(lines, v.processLines(snap.Processes)...)
	return lines
}

func (v SystemView) summaryLines(name string, s probe.Summary) []string {
	status := s.Status
	if status == "" {
		status = "..."
	}
	style := v.sty.Value
	if s.NeedsElevation {
		style = v.sty.StatusWarn
	}
	lines := []string{fmt.Sprintf("  %s%s", v.sty.Label.Render(padRight(name, labelWidth)), style.Render(status))}
	for _, d := range s.Details {
		lines = append(lines, labelValue(v.sty, "  "+d.Key, d.Value, labelWidth+2))
	}
	return lines
}

func (v SystemView) processLines(procs []probe.ProcessRecord) []string {
	if len(procs) == 0 {
		return []string{v.sty.TableCellDim.Render("  No process data")}
	}
	nameWidth := v.width - 24
	if nameWidth < 16 {
		nameWidth = 16
	}
	lines := []string{v.sty.TableHeader.Render(
		"  " + padRight("Name", nameWidth) + padLeft("CPU", 8) + padLeft("Memory", 12),
	)}
	for _, p := range procs {
		lines = append(lines, v.sty.TableRow.Render(
			"  "+padRight(p.Name, nameWidth)+
				padLeft(fmt.Sprintf("%.1f%%", p.CPU), 8)+
				padLeft(units.FormatBytes(p.MemoryKB*1024), 12),
		))
	}
	return lines
}

// rowLines renders snapshot rows with their children indented below them.
func rowLines(sty *styles.Styles, rows []inventory.Row, depth int) []string {
	if len(rows) == 0 && depth == 0 {
		return []string{sty.TableCellDim.Render("  Waiting for data...")}
	}
	indent := strings.Repeat("  ", depth)
	var lines []string
	for _, r := range rows {
		lines = append(lines, labelValue(sty, indent+r.Title, r.Subtitle, labelWidth+2*depth))
		lines = append(lines, rowLines(sty, r.Children, depth+1)...)
	}
	return lines
}

// renderWaiting renders a centered placeholder before the first snapshot.
func renderWaiting(theme styles.Theme, width, height int) string {
	msg := lipgloss.NewStyle().
		Foreground(theme.Base04).
		Align(lipgloss.Center).
		Render("Collecting data...")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}
