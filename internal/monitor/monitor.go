// Package monitor schedules one engine task per dashboard source and
// assembles their latest results into a Snapshot.
package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"golang.org/x/sync/errgroup"

	"github.com/tonhe/sysglance/internal/dashboard"
	"github.com/tonhe/sysglance/internal/engine"
	"github.com/tonhe/sysglance/internal/inventory"
	"github.com/tonhe/sysglance/internal/journal"
	"github.com/tonhe/sysglance/internal/probe"
	"github.com/tonhe/sysglance/internal/runner"
)

// TopProcessCount is the number of processes kept per poll.
const TopProcessCount = 10

// CPUSampler returns the total CPU utilization in percent.
type CPUSampler func(ctx context.Context) (float64, error)

// SampleCPU measures utilization since the previous call through gopsutil.
func SampleCPU(ctx context.Context) (float64, error) {
	pct, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(pct) == 0 {
		return 0, errors.New("no cpu utilization reported")
	}
	return pct[0], nil
}

// Deps are the services the monitor polls.
type Deps struct {
	Resolver  *probe.Resolver
	Software  *inventory.SoftwareProbe
	Snapshots []inventory.Source
	Journal   *journal.Service
	Elevator  *runner.Elevator
	CPU       CPUSampler
}

// GPU pairs the static GPU description with its latest live sample.
type GPU struct {
	Info  probe.GPUInfo
	Stats probe.GPUStats
}

// Monitor owns the scheduled tasks and the series they feed.
type Monitor struct {
	dash *dashboard.Dashboard
	deps Deps
	log  zerolog.Logger

	system       *engine.Task[[]inventory.Row]
	software     *engine.Task[[]inventory.Row]
	network      *engine.Task[[]probe.InterfaceRecord]
	connectivity *engine.Task[probe.Connectivity]
	drivers      *engine.Task[map[probe.Category][]probe.DeviceRecord]
	modules      *engine.Task[[]probe.ModuleRecord]
	gpu          *engine.Task[GPU]
	cpu          *engine.Task[float64]
	processes    *engine.Task[[]probe.ProcessRecord]
	logs         *engine.Task[journal.State]
	jobs         map[dashboard.Kind]engine.Job

	gpuSeries   *engine.RingBuffer[float64]
	cpuSeries   *engine.RingBuffer[float64]
	processSort atomic.Int32

	gpuMu   sync.Mutex
	gpuInfo *probe.GPUInfo

	rateMu   sync.RWMutex
	rates    map[string]*engine.RingBuffer[engine.RateSample]
	counters map[string]engine.CounterSample
}

// New builds a task for every enabled source of dash. Sources whose
// service is missing from deps are skipped.
func New(dash *dashboard.Dashboard, deps Deps, log zerolog.Logger) *Monitor {
	if deps.CPU == nil {
		deps.CPU = SampleCPU
	}
	m := &Monitor{
		dash:      dash,
		deps:      deps,
		log:       log,
		jobs:      make(map[dashboard.Kind]engine.Job),
		gpuSeries: engine.NewSeries(engine.SeriesCapacity),
		cpuSeries: engine.NewSeries(engine.SeriesCapacity),
		rates:     make(map[string]*engine.RingBuffer[engine.RateSample]),
		counters:  make(map[string]engine.CounterSample),
	}

	for _, src := range dash.Enabled() {
		name := string(src.Kind)
		switch src.Kind {
		case dashboard.KindSystem:
			if len(deps.Snapshots) > 0 {
				m.system = engine.NewTask(name, src.Interval, m.collectSystem, log)
				m.jobs[src.Kind] = m.system
			}
		case dashboard.KindSoftware:
			if deps.Software != nil {
				m.software = engine.NewTask(name, src.Interval, m.collectSoftware, log)
				m.jobs[src.Kind] = m.software
			}
		case dashboard.KindNetwork:
			if deps.Resolver != nil {
				m.network = engine.NewTask(name, src.Interval, m.collectNetwork, log)
				m.jobs[src.Kind] = m.network
			}
		case dashboard.KindConnectivity:
			if deps.Resolver != nil {
				m.connectivity = engine.NewTask(name, src.Interval, m.collectConnectivity, log)
				m.jobs[src.Kind] = m.connectivity
			}
		case dashboard.KindDrivers:
			if deps.Resolver != nil {
				m.drivers = engine.NewTask(name, src.Interval, m.collectDrivers, log)
				m.jobs[src.Kind] = m.drivers
			}
		case dashboard.KindModules:
			if deps.Resolver != nil {
				m.modules = engine.NewTask(name, src.Interval, m.collectModules, log)
				m.jobs[src.Kind] = m.modules
			}
		case dashboard.KindGPU:
			if deps.Resolver != nil {
				m.gpu = engine.NewTask(name, src.Interval, m.collectGPU, log)
				m.jobs[src.Kind] = m.gpu
			}
		case dashboard.KindCPU:
			m.cpu = engine.NewTask(name, src.Interval, m.collectCPU, log)
			m.jobs[src.Kind] = m.cpu
		case dashboard.KindProcesses:
			if deps.Resolver != nil {
				m.processes = engine.NewTask(name, src.Interval, m.collectProcesses, log)
				m.jobs[src.Kind] = m.processes
			}
		case dashboard.KindLogs:
			if deps.Journal != nil {
				m.logs = engine.NewTask(name, src.Interval, m.collectLogs, log)
				m.jobs[src.Kind] = m.logs
			}
		}
	}
	return m
}

// Jobs returns the scheduled tasks in dashboard order.
func (m *Monitor) Jobs() []engine.Job {
	var jobs []engine.Job
	for _, src := range m.dash.Enabled() {
		if j, ok := m.jobs[src.Kind]; ok {
			jobs = append(jobs, j)
		}
	}
	return jobs
}

// Start hands every task to the manager.
func (m *Monitor) Start(mgr *engine.Manager) error {
	for _, j := range m.Jobs() {
		if err := mgr.Start(j); err != nil {
			return err
		}
	}
	return nil
}

// CollectOnce runs every task once, at most limit at a time, and waits for
// all of them.
func (m *Monitor) CollectOnce(limit int) {
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, j := range m.Jobs() {
		g.Go(func() error {
			j.Trigger()
			return nil
		})
	}
	_ = g.Wait()
}

// Journal returns the journal service, or nil when logs are not polled.
func (m *Monitor) Journal() *journal.Service {
	return m.deps.Journal
}

// Authenticate prompts through the privilege launcher. On success the
// connectivity source is re-polled so elevated firewall details appear.
func (m *Monitor) Authenticate(ctx context.Context) error {
	if m.deps.Elevator == nil {
		return errors.New("no privilege launcher configured")
	}
	if err := m.deps.Elevator.Authenticate(ctx); err != nil {
		return err
	}
	if j, ok := m.jobs[dashboard.KindConnectivity]; ok {
		go j.Trigger()
	}
	return nil
}

// ProcessSort returns the current process ranking key.
func (m *Monitor) ProcessSort() probe.ProcessSort {
	return probe.ProcessSort(m.processSort.Load())
}

// SetProcessSort changes the ranking key used from the next processes poll.
func (m *Monitor) SetProcessSort(by probe.ProcessSort) {
	m.processSort.Store(int32(by))
}

func (m *Monitor) collectSystem(ctx context.Context) ([]inventory.Row, error) {
	return inventory.Collect(ctx, m.log, m.deps.Snapshots...)
}

func (m *Monitor) collectSoftware(ctx context.Context) ([]inventory.Row, error) {
	return m.deps.Software.Rows(ctx), nil
}

func (m *Monitor) collectNetwork(ctx context.Context) ([]probe.InterfaceRecord, error) {
	ifaces, err := m.deps.Resolver.Interfaces(ctx)
	if err != nil {
		return nil, err
	}
	m.recordRates(ifaces, time.Now())
	return ifaces, nil
}

func (m *Monitor) collectConnectivity(ctx context.Context) (probe.Connectivity, error) {
	return m.deps.Resolver.Connectivity(ctx), nil
}

func (m *Monitor) collectDrivers(ctx context.Context) (map[probe.Category][]probe.DeviceRecord, error) {
	return m.deps.Resolver.AllDevices(ctx), nil
}

func (m *Monitor) collectModules(ctx context.Context) ([]probe.ModuleRecord, error) {
	return m.deps.Resolver.TopModules(ctx)
}

// collectGPU reads the static description once and a live sample on every
// run. The series receives zero when no utilization is available.
func (m *Monitor) collectGPU(ctx context.Context) (GPU, error) {
	m.gpuMu.Lock()
	if m.gpuInfo == nil {
		info := m.deps.Resolver.GPUInfo(ctx)
		m.gpuInfo = &info
	}
	info := *m.gpuInfo
	m.gpuMu.Unlock()

	stats := m.deps.Resolver.GPUStats(ctx)
	if stats.HasUtilization {
		m.gpuSeries.Add(stats.Utilization)
	} else {
		m.gpuSeries.Add(0)
	}
	return GPU{Info: info, Stats: stats}, nil
}

func (m *Monitor) collectCPU(ctx context.Context) (float64, error) {
	pct, err := m.deps.CPU(ctx)
	if err != nil {
		return 0, err
	}
	m.cpuSeries.Add(pct)
	return pct, nil
}

func (m *Monitor) collectProcesses(ctx context.Context) ([]probe.ProcessRecord, error) {
	return m.deps.Resolver.Processes(ctx, m.ProcessSort(), TopProcessCount)
}

func (m *Monitor) collectLogs(ctx context.Context) (journal.State, error) {
	// A pending authentication prompt owns the journal until it returns.
	if err := m.deps.Journal.Refresh(ctx); err != nil && !errors.Is(err, journal.ErrBusy) {
		return journal.StateIdle, err
	}
	_, last := m.deps.Journal.State()
	return last, nil
}

// recordRates turns successive counter readings into per-interface rate
// histories. Interfaces that disappeared lose their history.
func (m *Monitor) recordRates(ifaces []probe.InterfaceRecord, now time.Time) {
	m.rateMu.Lock()
	defer m.rateMu.Unlock()

	seen := make(map[string]bool, len(ifaces))
	for _, iface := range ifaces {
		if !iface.HasCounters {
			continue
		}
		seen[iface.Name] = true
		curr := engine.CounterSample{RxBytes: iface.RxRaw, TxBytes: iface.TxRaw, Timestamp: now}
		if prev, ok := m.counters[iface.Name]; ok {
			rate, err := engine.CalculateRate(prev, curr)
			switch {
			case err == nil:
				m.history(iface.Name).Add(rate)
			case errors.Is(err, engine.ErrCounterWrap):
				m.log.Debug().Str("interface", iface.Name).Msg("counter reset, skipping sample")
			}
		}
		m.counters[iface.Name] = curr
	}
	for name := range m.counters {
		if !seen[name] {
			delete(m.counters, name)
			delete(m.rates, name)
		}
	}
}

// history returns the rate buffer of an interface, creating it on first
// use. The caller must hold rateMu.
func (m *Monitor) history(name string) *engine.RingBuffer[engine.RateSample] {
	rb, ok := m.rates[name]
	if !ok {
		rb = engine.NewRingBuffer[engine.RateSample](m.dash.MaxHistory)
		m.rates[name] = rb
	}
	return rb
}
