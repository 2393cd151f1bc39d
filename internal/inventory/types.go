// Package inventory turns a host snapshot feed into categorized display
// rows. Entries come from fastfetch's JSON output or, when fastfetch is
// missing, from a native gopsutil collector that emits the same shapes.
package inventory

import "encoding/json"

// Category is the section a row is displayed under.
type Category int

const (
	System Category = iota
	Hardware
	Software
	Network
)

func (c Category) String() string {
	switch c {
	case System:
		return "System"
	case Hardware:
		return "Hardware"
	case Software:
		return "Software"
	case Network:
		return "Network"
	}
	return "Unknown"
}

// Row is one normalized display line. Group rows (mount points, battery)
// carry their detail lines in Children.
type Row struct {
	Title    string   `json:"title" yaml:"title"`
	Subtitle string   `json:"subtitle" yaml:"subtitle"`
	Icon     string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Category Category `json:"-" yaml:"-"`
	Children []Row    `json:"children,omitempty" yaml:"children,omitempty"`
}

// Entry is one raw snapshot record.
type Entry struct {
	Type   string          `json:"type"`
	Error  string          `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// Kind is the closed set of snapshot entry types.
type Kind int

const (
	KindUnknown Kind = iota
	KindOS
	KindHost
	KindKernel
	KindUptime
	KindPackages
	KindShell
	KindDisplay
	KindDE
	KindWM
	KindTheme
	KindIcons
	KindFont
	KindCursor
	KindCPU
	KindGPU
	KindMemory
	KindSwap
	KindDisk
	KindBattery
	KindLocale
	KindLocalIP
	KindPublicIP
	KindWiFi
)

var kindNames = map[string]Kind{
	"OS":       KindOS,
	"Host":     KindHost,
	"Kernel":   KindKernel,
	"Uptime":   KindUptime,
	"Packages": KindPackages,
	"Shell":    KindShell,
	"Display":  KindDisplay,
	"DE":       KindDE,
	"WM":       KindWM,
	"Theme":    KindTheme,
	"Icons":    KindIcons,
	"Font":     KindFont,
	"Cursor":   KindCursor,
	"CPU":      KindCPU,
	"GPU":      KindGPU,
	"Memory":   KindMemory,
	"Swap":     KindSwap,
	"Disk":     KindDisk,
	"Battery":  KindBattery,
	"Locale":   KindLocale,
	"LocalIP":  KindLocalIP,
	"PublicIP": KindPublicIP,
	"WiFi":     KindWiFi,
}

// ParseKind maps an entry type onto a Kind.
func ParseKind(s string) Kind {
	if k, ok := kindNames[s]; ok {
		return k
	}
	return KindUnknown
}

// Payload shapes, matching fastfetch's JSON result objects.

type osResult struct {
	Name       string `json:"name"`
	PrettyName string `json:"prettyName"`
}

type hostResult struct {
	Name string `json:"name"`
}

type kernelResult struct {
	Name    string `json:"name"`
	Release string `json:"release"`
}

type uptimeResult struct {
	Uptime uint64 `json:"uptime"`
}

type packagesResult struct {
	Dpkg          int `json:"dpkg"`
	Rpm           int `json:"rpm"`
	Pacman        int `json:"pacman"`
	FlatpakSystem int `json:"flatpakSystem"`
	FlatpakUser   int `json:"flatpakUser"`
	Snap          int `json:"snap"`
}

type shellResult struct {
	ExeName string `json:"exeName"`
	Version string `json:"version"`
}

type displayResult struct {
	Name   string `json:"name"`
	Output struct {
		Width       int     `json:"width"`
		Height      int     `json:"height"`
		RefreshRate float64 `json:"refreshRate"`
	} `json:"output"`
}

type deResult struct {
	Name       string `json:"name"`
	PrettyName string `json:"prettyName"`
	Version    string `json:"version"`
}

type wmResult struct {
	PrettyName   string `json:"prettyName"`
	ProtocolName string `json:"protocolName"`
}

type prettyResult struct {
	Name   string `json:"name"`
	Pretty string `json:"pretty"`
}

type cursorResult struct {
	Name string      `json:"name"`
	Size json.Number `json:"size"`
}

type cpuResult struct {
	CPU   string `json:"cpu"`
	Cores struct {
		Physical int `json:"physical"`
		Logical  int `json:"logical"`
	} `json:"cores"`
}

type gpuResult struct {
	Name   string `json:"name"`
	Vendor string `json:"vendor"`
}

type usageResult struct {
	Used  uint64 `json:"used"`
	Total uint64 `json:"total"`
}

type diskResult struct {
	Mountpoint string      `json:"mountpoint"`
	Bytes      usageResult `json:"bytes"`
}

type batteryResult struct {
	ModelName    string   `json:"modelName"`
	Manufacturer string   `json:"manufacturer"`
	Technology   string   `json:"technology"`
	Status       string   `json:"status"`
	Capacity     *float64 `json:"capacity"`
	CycleCount   *int     `json:"cycleCount"`
	Voltage      *float64 `json:"voltage"`
	Temperature  *float64 `json:"temperature"`
}

type localeResult struct {
	Result string `json:"result"`
}
