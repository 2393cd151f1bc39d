package monitor

import (
	"sort"

	"github.com/tonhe/sysglance/internal/dashboard"
	"github.com/tonhe/sysglance/internal/engine"
	"github.com/tonhe/sysglance/internal/inventory"
	"github.com/tonhe/sysglance/internal/journal"
	"github.com/tonhe/sysglance/internal/probe"
)

// Logs is the published state of both journals.
type Logs struct {
	System        journal.Result
	User          journal.Result
	SystemQuery   journal.Query
	UserQuery     journal.Query
	State         journal.State
	LastState     journal.State
	Authenticated bool
}

// Snapshot is a point-in-time copy of everything the monitor publishes.
// Ready records which sources have produced a value.
type Snapshot struct {
	Dashboard    string
	System       []inventory.Row
	Software     []inventory.Row
	Interfaces   []probe.InterfaceRecord
	Rates        map[string][]engine.RateSample
	Connectivity probe.Connectivity
	Devices      map[probe.Category][]probe.DeviceRecord
	Modules      []probe.ModuleRecord
	GPU          GPU
	GPUSeries    []float64
	CPU          float64
	CPUSeries    []float64
	Processes    []probe.ProcessRecord
	ProcessSort  probe.ProcessSort
	Logs         Logs
	Tasks        []engine.TaskInfo
	Ready        map[dashboard.Kind]bool
}

func latest[T any](t *engine.Task[T], kind dashboard.Kind, ready map[dashboard.Kind]bool) T {
	var zero T
	if t == nil {
		return zero
	}
	v, ok := t.Latest()
	ready[kind] = ok
	return v
}

// Snapshot assembles the latest value of every task.
func (m *Monitor) Snapshot() Snapshot {
	ready := make(map[dashboard.Kind]bool)
	snap := Snapshot{
		Dashboard:    m.dash.Name,
		System:       latest(m.system, dashboard.KindSystem, ready),
		Software:     latest(m.software, dashboard.KindSoftware, ready),
		Interfaces:   latest(m.network, dashboard.KindNetwork, ready),
		Connectivity: latest(m.connectivity, dashboard.KindConnectivity, ready),
		Devices:      latest(m.drivers, dashboard.KindDrivers, ready),
		Modules:      latest(m.modules, dashboard.KindModules, ready),
		GPU:          latest(m.gpu, dashboard.KindGPU, ready),
		CPU:          latest(m.cpu, dashboard.KindCPU, ready),
		Processes:    latest(m.processes, dashboard.KindProcesses, ready),
		GPUSeries:    m.gpuSeries.All(),
		CPUSeries:    m.cpuSeries.All(),
		ProcessSort:  m.ProcessSort(),
		Rates:        m.Rates(),
		Ready:        ready,
	}
	latest(m.logs, dashboard.KindLogs, ready)

	if j := m.deps.Journal; j != nil {
		current, last := j.State()
		snap.Logs = Logs{
			System:        j.Current(journal.System),
			User:          j.Current(journal.User),
			SystemQuery:   j.Query(journal.System),
			UserQuery:     j.Query(journal.User),
			State:         current,
			LastState:     last,
			Authenticated: j.Authenticated(),
		}
	}

	for _, job := range m.Jobs() {
		snap.Tasks = append(snap.Tasks, job.Info())
	}
	return snap
}

// Rates copies every interface's rate history, oldest first.
func (m *Monitor) Rates() map[string][]engine.RateSample {
	m.rateMu.RLock()
	defer m.rateMu.RUnlock()
	out := make(map[string][]engine.RateSample, len(m.rates))
	for name, rb := range m.rates {
		out[name] = rb.All()
	}
	return out
}

// Failing returns the names of tasks whose last run failed, sorted.
func (s Snapshot) Failing() []string {
	var names []string
	for _, t := range s.Tasks {
		if t.State == engine.TaskError {
			names = append(names, t.Name)
		}
	}
	sort.Strings(names)
	return names
}

// SoftwareRows returns the snapshot rows of a category, with the software
// probe's rows appended to the Software category.
func (s Snapshot) SoftwareRows() []inventory.Row {
	var rows []inventory.Row
	for _, r := range s.System {
		if r.Category == inventory.Software {
			rows = append(rows, r)
		}
	}
	return append(rows, s.Software...)
}

// Rows returns the snapshot rows of a category.
func (s Snapshot) Rows(c inventory.Category) []inventory.Row {
	if c == inventory.Software {
		return s.SoftwareRows()
	}
	var rows []inventory.Row
	for _, r := range s.System {
		if r.Category == c {
			rows = append(rows, r)
		}
	}
	return rows
}
