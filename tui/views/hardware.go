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
	"github.com/tonhe/sysglance/tui/components"
	"github.com/tonhe/sysglance/tui/keys"
	"github.com/tonhe/sysglance/tui/styles"
)

const hardwareChartHeight = 9

// HardwareView shows GPU and CPU usage charts above the hardware snapshot,
// per-category drivers and the most used kernel modules.
type HardwareView struct {
	theme  styles.Theme
	sty    *styles.Styles
	snap   *monitor.Snapshot
	scroll scroller
	width  int
	height int
}

// NewHardwareView creates a new HardwareView with the given theme.
func NewHardwareView(theme styles.Theme) HardwareView {
	return HardwareView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetSnapshot replaces the data shown by the view.
func (v *HardwareView) SetSnapshot(snap *monitor.Snapshot) {
	v.snap = snap
}

// SetSize updates the available dimensions for the view.
func (v *HardwareView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Update handles scrolling keys.
func (v HardwareView) Update(msg tea.Msg) (HardwareView, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Up):
			v.scroll.up()
		case key.Matches(msg, keys.DefaultKeyMap.Down):
			v.scroll.down()
		case key.Matches(msg, keys.DefaultKeyMap.PageUp):
			v.scroll.page(-v.listHeight())
		case key.Matches(msg, keys.DefaultKeyMap.PageDown):
			v.scroll.page(v.listHeight())
		}
		if v.snap != nil {
			v.scroll.clamp(len(v.lines()), v.listHeight())
		}
	}
	return v, nil
}

func (v HardwareView) listHeight() int {
	h := v.height - hardwareChartHeight - 1
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the charts and the scrollable hardware list.
func (v HardwareView) View() string {
	if v.snap == nil {
		return renderWaiting(v.theme, v.width, v.height)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		v.renderCharts(),
		"",
		v.scroll.render(v.lines(), v.listHeight()),
	)
}

// renderCharts draws the GPU and CPU series side by side.
func (v HardwareView) renderCharts() string {
	chartWidth := (v.width - 3) / 2
	if chartWidth < 15 {
		chartWidth = 15
	}
	gpuChart := components.RenderChart(v.snap.GPUSeries, chartWidth, hardwareChartHeight, components.ChartSpec{
		Title: "GPU " + v.snap.GPU.Stats.UtilizationString(),
		Max:   100,
	})
	cpuChart := components.RenderChart(v.snap.CPUSeries, chartWidth, hardwareChartHeight, components.ChartSpec{
		Title: fmt.Sprintf("CPU %.1f%%", v.snap.CPU),
		Max:   100,
	})

	gpuStyled := lipgloss.NewStyle().Foreground(v.theme.Base0B).Render(gpuChart)
	cpuStyled := lipgloss.NewStyle().Foreground(v.theme.Base0C).Render(cpuChart)
	sep := lipgloss.NewStyle().
		Foreground(v.theme.Base03).
		Render(strings.TrimSuffix(strings.Repeat(" | \n", hardwareChartHeight), "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, gpuStyled, sep, cpuStyled)
}

func (v HardwareView) lines() []string {
	snap := v.snap
	var lines []string

	lines = append(lines, sectionHeader(v.sty, "Hardware", v.width))
	lines = append(lines, rowLines(v.sty, snap.Rows(inventory.Hardware), 0)...)
	lines = append(lines, "")

	gpu := snap.GPU
	lines = append(lines, sectionHeader(v.sty, "GPU", v.width))
	lines = append(lines,
		labelValue(v.sty, "Name:", orDots(gpu.Info.Name), labelWidth),
		labelValue(v.sty, "Driver:", orDots(gpu.Info.Driver), labelWidth),
		labelValue(v.sty, "Memory:", fmt.Sprintf("%s / %s", orDots(gpu.Stats.MemoryUsed), orDots(gpu.Info.MemoryTotal)), labelWidth),
		labelValue(v.sty, "Temperature:", orDots(gpu.Stats.Temperature), labelWidth),
		labelValue(v.sty, "Power:", orDots(gpu.Stats.Power), labelWidth),
		fmt.Sprintf("  %s%s", v.sty.Label.Render(padRight("Utilization:", labelWidth)),
			v.sty.Utilization(gpu.Stats.Utilization).Render(gpu.Stats.UtilizationString())),
		"",
	)

	lines = append(lines, sectionHeader(v.sty, "Drivers", v.width))
	lines = append(lines, v.driverLines()...)
	lines = append(lines, "")

	lines = append(lines, sectionHeader(v.sty, "Kernel Modules", v.width))
	lines = append(lines, v.moduleLines()...)
	return lines
}

func (v HardwareView) driverLines() []string {
	var lines []string
	for _, c := range probe.Categories {
		lines = append(lines, v.sty.Label.Render("  "+c.String()))
		devices := v.snap.Devices[c]
		if len(devices) == 0 {
			lines = append(lines, v.sty.TableCellDim.Render("    No devices found"))
			continue
		}
		for _, d := range devices {
			version := "version unknown"
			if d.HasVersion {
				version = d.Version
			}
			lines = append(lines, fmt.Sprintf("    %s %s  %s",
				v.sty.Value.Render(d.Driver),
				v.sty.TableCellDim.Render("("+version+")"),
				v.sty.TableRow.Render(truncate(d.Description, v.width/2)),
			))
		}
	}
	return lines
}

func (v HardwareView) moduleLines() []string {
	if len(v.snap.Modules) == 0 {
		return []string{v.sty.TableCellDim.Render("  No module data")}
	}
	lines := []string{v.sty.TableHeader.Render(
		"  " + padRight("Module", 24) + padLeft("Size", 12) + padLeft("Used", 6) + "  " + padRight("Version", 16) + "Used by",
	)}
	for _, m := range v.snap.Modules {
		version := ""
		if m.HasVersion {
			version = m.Version
		}
		usedBy := strings.Join(m.UsedBy, ",")
		lines = append(lines, v.sty.TableRow.Render(
			"  "+padRight(m.Name, 24)+
				padLeft(units.FormatBytes(uint64(m.SizeBytes)), 12)+
				padLeft(fmt.Sprintf("%d", m.UseCount), 6)+"  "+
				padRight(version, 16)+
				truncate(usedBy, 32),
		))
	}
	return lines
}

func orDots(s string) string {
	if s == "" {
		return "..."
	}
	return s
}
