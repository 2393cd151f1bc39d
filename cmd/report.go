package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/tonhe/sysglance/internal/dashboard"
	"github.com/tonhe/sysglance/internal/inventory"
	"github.com/tonhe/sysglance/internal/monitor"
	"github.com/tonhe/sysglance/internal/probe"
	"github.com/tonhe/sysglance/internal/units"
)

// reportConcurrency bounds the sources collected at once.
const reportConcurrency = 4

// Report is the serializable form of a Snapshot.
type Report struct {
	Dashboard    string            `json:"dashboard" yaml:"dashboard"`
	Generated    time.Time         `json:"generated" yaml:"generated"`
	System       []inventory.Row   `json:"system,omitempty" yaml:"system,omitempty"`
	Hardware     []inventory.Row   `json:"hardware,omitempty" yaml:"hardware,omitempty"`
	Software     []inventory.Row   `json:"software,omitempty" yaml:"software,omitempty"`
	Interfaces   []InterfaceReport `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Connectivity []SectionReport   `json:"connectivity,omitempty" yaml:"connectivity,omitempty"`
	Drivers      []DriverReport    `json:"drivers,omitempty" yaml:"drivers,omitempty"`
	Modules      []ModuleReport    `json:"modules,omitempty" yaml:"modules,omitempty"`
	GPU          *GPUReport        `json:"gpu,omitempty" yaml:"gpu,omitempty"`
	CPUPercent   *float64          `json:"cpu_percent,omitempty" yaml:"cpu_percent,omitempty"`
	Processes    []ProcessReport   `json:"processes,omitempty" yaml:"processes,omitempty"`
	Failures     []string          `json:"failures,omitempty" yaml:"failures,omitempty"`
}

type InterfaceReport struct {
	Name    string `json:"name" yaml:"name"`
	State   string `json:"state" yaml:"state"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	IPv6    string `json:"ipv6,omitempty" yaml:"ipv6,omitempty"`
	MAC     string `json:"mac,omitempty" yaml:"mac,omitempty"`
	MTU     int    `json:"mtu,omitempty" yaml:"mtu,omitempty"`
	RxBytes string `json:"rx_bytes,omitempty" yaml:"rx_bytes,omitempty"`
	TxBytes string `json:"tx_bytes,omitempty" yaml:"tx_bytes,omitempty"`
}

type SectionReport struct {
	Name           string           `json:"name" yaml:"name"`
	Status         string           `json:"status" yaml:"status"`
	NeedsElevation bool             `json:"needs_elevation,omitempty" yaml:"needs_elevation,omitempty"`
	Details        []probe.KeyValue `json:"details,omitempty" yaml:"details,omitempty"`
}

type DriverReport struct {
	Category    string `json:"category" yaml:"category"`
	Driver      string `json:"driver" yaml:"driver"`
	Description string `json:"description" yaml:"description"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
}

type ModuleReport struct {
	Name     string   `json:"name" yaml:"name"`
	Size     string   `json:"size" yaml:"size"`
	UseCount int      `json:"use_count" yaml:"use_count"`
	UsedBy   []string `json:"used_by,omitempty" yaml:"used_by,omitempty"`
	Version  string   `json:"version,omitempty" yaml:"version,omitempty"`
}

type GPUReport struct {
	Name        string `json:"name" yaml:"name"`
	Driver      string `json:"driver" yaml:"driver"`
	MemoryTotal string `json:"memory_total" yaml:"memory_total"`
	Utilization string `json:"utilization" yaml:"utilization"`
	MemoryUsed  string `json:"memory_used" yaml:"memory_used"`
	Temperature string `json:"temperature" yaml:"temperature"`
	Power       string `json:"power" yaml:"power"`
}

type ProcessReport struct {
	Name     string  `json:"name" yaml:"name"`
	CPU      float64 `json:"cpu" yaml:"cpu"`
	MemoryKB uint64  `json:"memory_kb" yaml:"memory_kb"`
}

func reportCmd(args []string) {
	fs := pflag.NewFlagSet("report", pflag.ExitOnError)
	format := fs.StringP("format", "f", "text", "output format: text, json or yaml")
	dashName := fs.StringP("dashboard", "d", "", "dashboard whose sources are collected")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: sysglance report [--format text|json|yaml] [--dashboard NAME]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	env := mustEnv(*dashName)
	defer env.Close()

	if err := PrintReport(env, os.Stdout, *format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// PrintReport collects every source once and writes the result.
func PrintReport(env *Env, w io.Writer, format string) error {
	env.Monitor.CollectOnce(reportConcurrency)
	rep := BuildReport(env.Monitor.Snapshot(), time.Now())
	return WriteReport(w, format, rep, outputWidth())
}

// BuildReport converts a Snapshot into a Report.
func BuildReport(snap monitor.Snapshot, now time.Time) Report {
	rep := Report{
		Dashboard: snap.Dashboard,
		Generated: now,
		System:    snap.Rows(inventory.System),
		Hardware:  snap.Rows(inventory.Hardware),
		Software:  snap.Rows(inventory.Software),
		Failures:  snap.Failing(),
	}

	for _, iface := range snap.Interfaces {
		rep.Interfaces = append(rep.Interfaces, InterfaceReport{
			Name:    iface.Name,
			State:   iface.State.String(),
			Address: iface.CIDR(),
			IPv6:    iface.IPv6,
			MAC:     iface.MAC,
			MTU:     iface.MTU,
			RxBytes: iface.RxBytes,
			TxBytes: iface.TxBytes,
		})
	}

	if snap.Ready[dashboard.KindConnectivity] {
		c := snap.Connectivity
		for _, s := range []struct {
			name string
			sum  probe.Summary
		}{
			{"Firewall", c.Firewall}, {"WiFi", c.WiFi}, {"Ethernet", c.Ethernet}, {"DNS", c.DNS}, {"VPN", c.VPN},
		} {
			rep.Connectivity = append(rep.Connectivity, SectionReport{
				Name:           s.name,
				Status:         s.sum.Status,
				NeedsElevation: s.sum.NeedsElevation,
				Details:        s.sum.Details,
			})
		}
	}

	for _, cat := range probe.Categories {
		for _, d := range snap.Devices[cat] {
			rep.Drivers = append(rep.Drivers, DriverReport{
				Category:    cat.String(),
				Driver:      d.Driver,
				Description: d.Description,
				Version:     d.Version,
			})
		}
	}

	for _, m := range snap.Modules {
		rep.Modules = append(rep.Modules, ModuleReport{
			Name:     m.Name,
			Size:     units.FormatBytes(uint64(m.SizeBytes)),
			UseCount: m.UseCount,
			UsedBy:   m.UsedBy,
			Version:  m.Version,
		})
	}

	if snap.Ready[dashboard.KindGPU] {
		g := snap.GPU
		rep.GPU = &GPUReport{
			Name:        g.Info.Name,
			Driver:      g.Info.Driver,
			MemoryTotal: g.Info.MemoryTotal,
			Utilization: g.Stats.UtilizationString(),
			MemoryUsed:  g.Stats.MemoryUsed,
			Temperature: g.Stats.Temperature,
			Power:       g.Stats.Power,
		}
	}

	if snap.Ready[dashboard.KindCPU] {
		pct := snap.CPU
		rep.CPUPercent = &pct
	}

	for _, p := range snap.Processes {
		rep.Processes = append(rep.Processes, ProcessReport{Name: p.Name, CPU: p.CPU, MemoryKB: p.MemoryKB})
	}
	return rep
}

// WriteReport renders rep in the given format. width sizes the text rules.
func WriteReport(w io.Writer, format string, rep Report, width int) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return writeText(w, rep, width)
	}
	return fmt.Errorf("unknown format %q", format)
}

func outputWidth() int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 20 {
			return w
		}
	}
	return 80
}

type textWriter struct {
	w     io.Writer
	width int
	err   error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) section(title string) {
	rule := t.width - len(title) - 4
	if rule < 3 {
		rule = 3
	}
	t.printf("\n── %s %s\n", title, strings.Repeat("─", rule))
}

func (t *textWriter) rows(rows []inventory.Row, indent string) {
	for _, r := range rows {
		t.printf("%s%-16s %s\n", indent, r.Title, r.Subtitle)
		t.rows(r.Children, indent+"  ")
	}
}

func writeText(w io.Writer, rep Report, width int) error {
	t := &textWriter{w: w, width: width}
	t.printf("sysglance report (%s) %s\n", rep.Dashboard, rep.Generated.Format(time.RFC1123))

	for _, s := range []struct {
		title string
		rows  []inventory.Row
	}{
		{"System", rep.System}, {"Hardware", rep.Hardware}, {"Software", rep.Software},
	} {
		if len(s.rows) > 0 {
			t.section(s.title)
			t.rows(s.rows, "  ")
		}
	}

	if rep.GPU != nil || rep.CPUPercent != nil {
		t.section("Usage")
		if rep.CPUPercent != nil {
			t.printf("  %-16s %.1f%%\n", "CPU", *rep.CPUPercent)
		}
		if g := rep.GPU; g != nil {
			t.printf("  %-16s %s\n", "GPU", g.Name)
			t.printf("  %-16s %s\n", "Driver", g.Driver)
			t.printf("  %-16s %s / %s\n", "Memory", g.MemoryUsed, g.MemoryTotal)
			t.printf("  %-16s %s\n", "Utilization", g.Utilization)
			t.printf("  %-16s %s\n", "Temperature", g.Temperature)
			t.printf("  %-16s %s\n", "Power", g.Power)
		}
	}

	if len(rep.Drivers) > 0 {
		t.section("Drivers")
		for _, d := range rep.Drivers {
			version := ""
			if d.Version != "" {
				version = " v" + d.Version
			}
			t.printf("  %-9s %s%s  %s\n", d.Category, d.Driver, version, d.Description)
		}
	}

	if len(rep.Modules) > 0 {
		t.section("Kernel Modules")
		for _, m := range rep.Modules {
			t.printf("  %-20s %10s  used by %d", m.Name, m.Size, m.UseCount)
			if len(m.UsedBy) > 0 {
				t.printf(" (%s)", strings.Join(m.UsedBy, ", "))
			}
			t.printf("\n")
		}
	}

	t.section("Network Interfaces")
	if len(rep.Interfaces) == 0 {
		t.printf("  No interfaces found\n")
	}
	for _, i := range rep.Interfaces {
		t.printf("  %-12s %-7s %s\n", i.Name, i.State, i.Address)
		if i.IPv6 != "" {
			t.printf("  %-12s %-7s %s\n", "", "inet6", i.IPv6)
		}
		if i.RxBytes != "" {
			t.printf("  %-12s %-7s rx %s  tx %s\n", "", "", i.RxBytes, i.TxBytes)
		}
	}

	if len(rep.Connectivity) > 0 {
		t.section("Connectivity")
		for _, c := range rep.Connectivity {
			t.printf("  %-10s %s\n", c.Name, c.Status)
			for _, kv := range c.Details {
				t.printf("  %-10s   %s: %s\n", "", kv.Key, kv.Value)
			}
		}
	}

	if len(rep.Processes) > 0 {
		t.section("Top Processes")
		for _, p := range rep.Processes {
			t.printf("  %-24s %6.1f%%  %s\n", p.Name, p.CPU, units.FormatBytes(p.MemoryKB*1024))
		}
	}

	if len(rep.Failures) > 0 {
		failures := append([]string(nil), rep.Failures...)
		sort.Strings(failures)
		t.printf("\nSources with errors: %s\n", strings.Join(failures, ", "))
	}
	return t.err
}
