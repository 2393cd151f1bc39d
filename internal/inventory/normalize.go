package inventory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tonhe/sysglance/internal/units"
)

// NotConfigured is shown for a swap area of zero size.
const NotConfigured = "Not configured"

// normalizer carries state between entries of one Normalize call. The swap
// entry is held until the next disk entry consumes it.
type normalizer struct {
	rows []Row
	swap *usageResult
}

// Normalize maps snapshot entries onto display rows. Entries with an
// error, an unknown type or an undecodable payload are skipped.
func Normalize(entries []Entry) []Row {
	n := &normalizer{}
	for _, e := range entries {
		if e.Error != "" {
			continue
		}
		n.handle(ParseKind(e.Type), e.Result)
	}
	return n.rows
}

func (n *normalizer) handle(kind Kind, raw json.RawMessage) {
	switch kind {
	case KindOS:
		var r osResult
		if decode(raw, &r) {
			n.flat("OS", firstNonEmpty(r.PrettyName, r.Name), "computer", System)
		}
	case KindHost:
		var r hostResult
		if decode(raw, &r) {
			n.flat("Host", r.Name, "computer", System)
		}
	case KindKernel:
		var r kernelResult
		if decode(raw, &r) {
			n.flat("Kernel", strings.TrimSpace(r.Name+" "+r.Release), "emblem-system", System)
		}
	case KindUptime:
		var r uptimeResult
		if decode(raw, &r) {
			n.flat("Uptime", FormatUptime(r.Uptime), "document-open-recent", System)
		}
	case KindPackages:
		var r packagesResult
		if decode(raw, &r) {
			n.flat("Packages", packagesSubtitle(r), "package", System)
		}
	case KindShell:
		var r shellResult
		if decode(raw, &r) {
			n.flat("Shell", strings.TrimSpace(r.ExeName+" "+r.Version), "utilities-terminal", System)
		}
	case KindDisplay:
		var r []displayResult
		if decode(raw, &r) {
			n.flat("Display", displaySubtitle(r), "video-display", Hardware)
		}
	case KindDE:
		var r deResult
		if decode(raw, &r) {
			subtitle := firstNonEmpty(r.PrettyName, r.Name)
			if r.Version != "" {
				subtitle = strings.TrimSpace(r.PrettyName + " " + r.Version)
			}
			n.flat("Desktop Environment", subtitle, "computer", System)
		}
	case KindWM:
		var r wmResult
		if decode(raw, &r) && r.PrettyName != "" {
			subtitle := r.PrettyName
			if r.ProtocolName != "" {
				subtitle = fmt.Sprintf("%s (%s)", r.PrettyName, r.ProtocolName)
			}
			n.flat("Window Manager", subtitle, "computer", System)
		}
	case KindTheme, KindIcons, KindFont:
		var r prettyResult
		if decode(raw, &r) {
			title := map[Kind]string{KindTheme: "Theme", KindIcons: "Icons", KindFont: "Font"}[kind]
			n.flat(title, firstNonEmpty(r.Pretty, r.Name), "preferences-desktop-theme", System)
		}
	case KindCursor:
		var r cursorResult
		if decode(raw, &r) && r.Name != "" {
			subtitle := r.Name
			if r.Size != "" {
				subtitle = fmt.Sprintf("%s (%spx)", r.Name, r.Size)
			}
			n.flat("Cursor", subtitle, "input-mouse", System)
		}
	case KindCPU:
		var r cpuResult
		if decode(raw, &r) && r.CPU != "" {
			subtitle := fmt.Sprintf("%s - %d physical cores / %d logical cores", r.CPU, r.Cores.Physical, r.Cores.Logical)
			n.flat("CPU", subtitle, "cpu", Hardware)
		}
	case KindGPU:
		n.flat("GPU", gpuSubtitle(raw), "video-display", Hardware)
	case KindMemory:
		var r usageResult
		if decode(raw, &r) {
			n.flat("Memory", units.UsageString(r.Used, r.Total), "memory", Hardware)
		}
	case KindSwap:
		var r usageResult
		if decode(raw, &r) {
			n.swap = &r
		}
	case KindDisk:
		var r []diskResult
		if decode(raw, &r) {
			n.rows = append(n.rows, n.mountGroup(r))
		}
	case KindBattery:
		if row, ok := batteryGroup(raw); ok {
			n.rows = append(n.rows, row)
		}
	case KindLocale:
		var r localeResult
		if decode(raw, &r) {
			n.flat("Locale", r.Result, "preferences-desktop-locale", System)
		}
	case KindLocalIP, KindPublicIP, KindWiFi:
		// Reported by the connectivity probes instead.
	}
}

// flat appends a single row when both title and subtitle are present.
func (n *normalizer) flat(title, subtitle, icon string, category Category) {
	if title == "" || subtitle == "" {
		return
	}
	n.rows = append(n.rows, Row{Title: title, Subtitle: subtitle, Icon: icon, Category: category})
}

func (n *normalizer) mountGroup(mounts []diskResult) Row {
	group := Row{
		Title:    "Mount points",
		Subtitle: plural(len(mounts), "mount point"),
		Icon:     "drive-harddisk",
		Category: Hardware,
	}
	for _, m := range mounts {
		group.Children = append(group.Children, Row{
			Title:    m.Mountpoint,
			Subtitle: units.UsageString(m.Bytes.Used, m.Bytes.Total),
			Category: Hardware,
		})
	}
	if n.swap != nil {
		subtitle := NotConfigured
		if n.swap.Total > 0 {
			subtitle = units.UsageString(n.swap.Used, n.swap.Total)
		}
		group.Children = append(group.Children, Row{Title: "Swap", Subtitle: subtitle, Category: Hardware})
		n.swap = nil
	}
	return group
}

func batteryGroup(raw json.RawMessage) (Row, bool) {
	var batteries []batteryResult
	if !decode(raw, &batteries) {
		var single batteryResult
		if !decode(raw, &single) {
			return Row{}, false
		}
		batteries = []batteryResult{single}
	}
	if len(batteries) == 0 {
		return Row{}, false
	}
	b := batteries[0]

	pct := "N/A"
	if b.Capacity != nil {
		pct = fmt.Sprintf("%.1f%%", *b.Capacity)
	}
	icon := "battery"
	if strings.Contains(b.Status, "Charging") {
		icon = "battery-full-charging"
	}
	group := Row{
		Title:    "Battery",
		Subtitle: fmt.Sprintf("%s - %s", pct, firstNonEmpty(b.Status, "Unknown")),
		Icon:     icon,
		Category: Hardware,
	}

	add := func(title, subtitle string) {
		group.Children = append(group.Children, Row{Title: title, Subtitle: subtitle, Category: Hardware})
	}
	if b.ModelName != "" {
		add("Model", b.ModelName)
	}
	if b.Manufacturer != "" {
		add("Manufacturer", b.Manufacturer)
	}
	if b.Capacity != nil {
		add("Capacity", pct)
	}
	if b.Status != "" {
		add("Status", b.Status)
	}
	if b.Technology != "" {
		add("Technology", b.Technology)
	}
	if b.CycleCount != nil {
		add("Cycle Count", strconv.Itoa(*b.CycleCount))
	}
	if b.Voltage != nil {
		add("Voltage", fmt.Sprintf("%.2f V", *b.Voltage))
	}
	if b.Temperature != nil {
		add("Temperature", fmt.Sprintf("%.1f °C", *b.Temperature))
	}
	return group, true
}

func packagesSubtitle(r packagesResult) string {
	var parts []string
	if r.Dpkg > 0 {
		parts = append(parts, fmt.Sprintf("%d (dpkg)", r.Dpkg))
	}
	if r.Rpm > 0 {
		parts = append(parts, fmt.Sprintf("%d (rpm)", r.Rpm))
	}
	if r.Pacman > 0 {
		parts = append(parts, fmt.Sprintf("%d (pacman)", r.Pacman))
	}
	if flatpak := r.FlatpakSystem + r.FlatpakUser; flatpak > 0 {
		parts = append(parts, fmt.Sprintf("%d (flatpak)", flatpak))
	}
	if r.Snap > 0 {
		parts = append(parts, fmt.Sprintf("%d (snap)", r.Snap))
	}
	return strings.Join(parts, ", ")
}

func displaySubtitle(displays []displayResult) string {
	lines := make([]string, 0, len(displays))
	for _, d := range displays {
		res := fmt.Sprintf("%dx%d", d.Output.Width, d.Output.Height)
		if d.Output.RefreshRate > 0 {
			res += "@" + strconv.FormatFloat(d.Output.RefreshRate, 'f', -1, 64) + " Hz"
		}
		lines = append(lines, fmt.Sprintf("%s - %s", d.Name, res))
	}
	return strings.Join(lines, "\n")
}

func gpuSubtitle(raw json.RawMessage) string {
	var many []gpuResult
	if decode(raw, &many) {
		lines := make([]string, 0, len(many))
		for _, g := range many {
			lines = append(lines, strings.TrimSpace(g.Vendor+" "+g.Name))
		}
		return strings.Join(lines, "\n")
	}
	var one gpuResult
	if decode(raw, &one) && one.Name != "" {
		return strings.TrimSpace(one.Vendor + " " + one.Name)
	}
	return ""
}

// FormatUptime renders milliseconds as "<d> days, <h> hours, <m> mins",
// omitting zero components.
func FormatUptime(ms uint64) string {
	seconds := ms / 1000
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	mins := (seconds % 3600) / 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d days", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hours", hours))
	}
	if mins > 0 {
		parts = append(parts, fmt.Sprintf("%d mins", mins))
	}
	if len(parts) == 0 {
		return "0 mins"
	}
	return strings.Join(parts, ", ")
}

func decode(raw json.RawMessage, v any) bool {
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
