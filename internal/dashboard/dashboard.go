package dashboard

import "time"

// Kind names a data source a dashboard can poll.
type Kind string

const (
	KindSystem       Kind = "system"
	KindSoftware     Kind = "software"
	KindNetwork      Kind = "network"
	KindConnectivity Kind = "connectivity"
	KindDrivers      Kind = "drivers"
	KindModules      Kind = "modules"
	KindGPU          Kind = "gpu"
	KindCPU          Kind = "cpu"
	KindProcesses    Kind = "processes"
	KindLogs         Kind = "logs"
)

// Kinds lists every known source kind in display order.
var Kinds = []Kind{
	KindSystem, KindSoftware, KindNetwork, KindConnectivity, KindDrivers,
	KindModules, KindGPU, KindCPU, KindProcesses, KindLogs,
}

// DefaultIntervals is the poll interval of each kind when a dashboard
// does not set one.
var DefaultIntervals = map[Kind]time.Duration{
	KindSystem:       60 * time.Second,
	KindSoftware:     5 * time.Minute,
	KindNetwork:      2 * time.Second,
	KindConnectivity: 30 * time.Second,
	KindDrivers:      10 * time.Second,
	KindModules:      10 * time.Second,
	KindGPU:          2 * time.Second,
	KindCPU:          2 * time.Second,
	KindProcesses:    5 * time.Second,
	KindLogs:         10 * time.Second,
}

// Valid reports whether k is a known source kind.
func (k Kind) Valid() bool {
	_, ok := DefaultIntervals[k]
	return ok
}

// Dashboard represents a complete dashboard configuration loaded from TOML.
type Dashboard struct {
	Name       string   `toml:"name"`
	MaxHistory int      `toml:"max_history"`
	Sources    []Source `toml:"sources"`
}

// Source is one polled data source.
type Source struct {
	Kind        Kind          `toml:"kind"`
	IntervalStr string        `toml:"interval"`
	Interval    time.Duration `toml:"-"`
	Disabled    bool          `toml:"disabled"`
}

// Enabled returns the sources that are switched on.
func (d *Dashboard) Enabled() []Source {
	var out []Source
	for _, s := range d.Sources {
		if !s.Disabled {
			out = append(out, s)
		}
	}
	return out
}

// Has reports whether an enabled source of kind k exists.
func (d *Dashboard) Has(k Kind) bool {
	for _, s := range d.Enabled() {
		if s.Kind == k {
			return true
		}
	}
	return false
}

// DefaultDashboard returns the built-in dashboard polling every kind at its
// default interval.
func DefaultDashboard() *Dashboard {
	dash := &Dashboard{Name: "default", MaxHistory: 60}
	for _, k := range Kinds {
		dash.Sources = append(dash.Sources, Source{Kind: k, Interval: DefaultIntervals[k]})
	}
	return dash
}
