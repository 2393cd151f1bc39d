package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/sysglance/internal/engine"
	"github.com/tonhe/sysglance/internal/monitor"
	"github.com/tonhe/sysglance/internal/probe"
	"github.com/tonhe/sysglance/internal/units"
	"github.com/tonhe/sysglance/tui/components"
	"github.com/tonhe/sysglance/tui/keys"
	"github.com/tonhe/sysglance/tui/styles"
)

// Column width constants (minimum widths).
const (
	colInterface = 14
	colState     = 8
	colAddress   = 20
	colTotal     = 11
	colRate      = 11
	colSparkMin  = 12

	networkChartHeight = 10
)

// NetworkView is an interface table with throughput sparklines and, below
// it, rx/tx charts of the selected interface.
type NetworkView struct {
	theme  styles.Theme
	sty    *styles.Styles
	snap   *monitor.Snapshot
	cursor int
	offset int
	width  int
	height int
}

// NewNetworkView creates a new NetworkView with the given theme.
func NewNetworkView(theme styles.Theme) NetworkView {
	return NetworkView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// Update handles key messages for cursor navigation.
func (v NetworkView) Update(msg tea.Msg) (NetworkView, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Up):
			if v.cursor > 0 {
				v.cursor--
				v.ensureVisible()
			}
		case key.Matches(msg, keys.DefaultKeyMap.Down):
			if v.cursor < v.totalRows()-1 {
				v.cursor++
				v.ensureVisible()
			}
		}
	}
	return v, nil
}

// SetSnapshot updates the table data and clamps the cursor.
func (v *NetworkView) SetSnapshot(snap *monitor.Snapshot) {
	v.snap = snap
	if total := v.totalRows(); v.cursor >= total && total > 0 {
		v.cursor = total - 1
	}
}

// SetSize updates the available dimensions for the view.
func (v *NetworkView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Selected returns the interface under the cursor.
func (v NetworkView) Selected() (probe.InterfaceRecord, bool) {
	if v.snap == nil || v.cursor >= len(v.snap.Interfaces) {
		return probe.InterfaceRecord{}, false
	}
	return v.snap.Interfaces[v.cursor], true
}

// View renders the network view.
func (v NetworkView) View() string {
	if v.snap == nil {
		return renderWaiting(v.theme, v.width, v.height)
	}
	if len(v.snap.Interfaces) == 0 {
		msg := lipgloss.NewStyle().Foreground(v.theme.Base04).Render("No interfaces found")
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, msg)
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.renderTable(), "", v.renderDetail())
}

func (v NetworkView) totalRows() int {
	if v.snap == nil {
		return 0
	}
	return len(v.snap.Interfaces)
}

func (v NetworkView) tableHeight() int {
	h := v.height - networkChartHeight - 2
	if h < 3 {
		h = 3
	}
	return h
}

// ensureVisible adjusts the scroll offset so the cursor row is visible.
func (v *NetworkView) ensureVisible() {
	visible := v.tableHeight() - 1
	if visible < 1 {
		visible = 1
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}
}

// sparkWidth gives the trend column all remaining space.
func (v NetworkView) sparkWidth() int {
	fixed := colInterface + colState + colAddress + 2*colTotal + 2*colRate
	spark := v.width - fixed
	if spark < colSparkMin {
		spark = colSparkMin
	}
	return spark
}

func (v NetworkView) renderTable() string {
	wSpark := v.sparkWidth()
	h := v.sty.TableHeader
	lines := []string{fmt.Sprintf("%s%s%s%s%s%s%s%s",
		h.Render(padRight("Interface", colInterface)),
		h.Render(padRight("State", colState)),
		h.Render(padRight("Address", colAddress)),
		h.Render(padLeft("RX", colTotal)),
		h.Render(padLeft("TX", colTotal)),
		h.Render(padLeft("In", colRate)),
		h.Render(padLeft("Out", colRate)),
		h.Render(padRight(" Trend", wSpark)),
	)}

	visible := v.tableHeight() - 1
	end := v.offset + visible
	if end > len(v.snap.Interfaces) {
		end = len(v.snap.Interfaces)
	}
	for i := v.offset; i < end; i++ {
		lines = append(lines, v.renderRow(v.snap.Interfaces[i], wSpark, i == v.cursor))
	}
	return strings.Join(lines, "\n")
}

func (v NetworkView) renderRow(iface probe.InterfaceRecord, wSpark int, selected bool) string {
	rowStyle := v.sty.TableRow
	if selected {
		rowStyle = v.sty.TableRowSel
	}
	withSel := func(st lipgloss.Style) lipgloss.Style {
		if selected {
			return st.Background(v.theme.Base02)
		}
		return st
	}

	stateStyle := v.sty.StatusWarn
	switch iface.State {
	case probe.LinkUp:
		stateStyle = v.sty.StatusUp
	case probe.LinkDown:
		stateStyle = v.sty.StatusDown
	}

	address := iface.IPv4
	if address == "" {
		address = iface.IPv6
	}
	if address == "" {
		address = "-"
	}

	history := v.snap.Rates[iface.Name]
	in, out := currentRates(history)

	return fmt.Sprintf("%s%s%s%s%s%s%s%s",
		rowStyle.Render(padRight(iface.Name, colInterface)),
		withSel(stateStyle).Render(padRight(iface.State.String(), colState)),
		rowStyle.Render(padRight(address, colAddress)),
		rowStyle.Render(padLeft(iface.RxBytes, colTotal)),
		rowStyle.Render(padLeft(iface.TxBytes, colTotal)),
		rowStyle.Render(padLeft(units.FormatRate(in), colRate)),
		rowStyle.Render(padLeft(units.FormatRate(out), colRate)),
		withSel(v.sty.SparklineStyle).Render(" "+components.Sparkline(engine.RxRates(history), wSpark-1)),
	)
}

// renderDetail renders the selected interface's info panel beside its
// rx/tx charts.
func (v NetworkView) renderDetail() string {
	iface, ok := v.Selected()
	if !ok {
		return ""
	}
	history := v.snap.Rates[iface.Name]

	info := []string{
		labelValue(v.sty, "Interface:", iface.Name, 12),
		labelValue(v.sty, "MAC:", dashIfEmpty(iface.MAC), 12),
		labelValue(v.sty, "MTU:", mtuString(iface.MTU), 12),
		labelValue(v.sty, "IPv4:", dashIfEmpty(iface.IPv4), 12),
		labelValue(v.sty, "Netmask:", netmaskString(iface.NetmaskBits), 12),
		labelValue(v.sty, "IPv6:", dashIfEmpty(iface.IPv6), 12),
	}
	infoPanel := lipgloss.NewStyle().Width(40).Render(strings.Join(info, "\n"))

	chartWidth := (v.width - 40 - 3) / 2
	if chartWidth < 15 {
		chartWidth = 15
	}
	inChart := components.RenderChart(engine.RxRates(history), chartWidth, networkChartHeight, components.ChartSpec{
		Title: "In Traffic",
		Label: units.FormatRate,
	})
	outChart := components.RenderChart(engine.TxRates(history), chartWidth, networkChartHeight, components.ChartSpec{
		Title: "Out Traffic",
		Label: units.FormatRate,
	})
	sep := lipgloss.NewStyle().
		Foreground(v.theme.Base03).
		Render(strings.TrimSuffix(strings.Repeat(" | \n", networkChartHeight), "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		infoPanel,
		lipgloss.NewStyle().Foreground(v.theme.Base0B).Render(inChart),
		sep,
		lipgloss.NewStyle().Foreground(v.theme.Base0C).Render(outChart),
	)
}

// currentRates returns the newest rx/tx rates of a history.
func currentRates(history []engine.RateSample) (in, out float64) {
	if len(history) == 0 {
		return 0, 0
	}
	last := history[len(history)-1]
	return last.RxRate, last.TxRate
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func mtuString(mtu int) string {
	if mtu <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", mtu)
}

func netmaskString(bits int) string {
	if bits < 0 {
		return "-"
	}
	return fmt.Sprintf("/%d", bits)
}
