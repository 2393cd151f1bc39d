package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tonhe/sysglance/internal/dashboard"
	"github.com/tonhe/sysglance/internal/engine"
	"github.com/tonhe/sysglance/internal/journal"
	"github.com/tonhe/sysglance/internal/logging"
	"github.com/tonhe/sysglance/internal/probe"
	"github.com/tonhe/sysglance/internal/runner"
)

func dashWith(kinds ...dashboard.Kind) *dashboard.Dashboard {
	dash := &dashboard.Dashboard{Name: "test", MaxHistory: 5}
	for _, k := range kinds {
		dash.Sources = append(dash.Sources, dashboard.Source{Kind: k, Interval: time.Hour})
	}
	return dash
}

func newTestMonitor(t *testing.T, dash *dashboard.Dashboard, cpu CPUSampler) (*Monitor, *runner.MockRunner) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mock := runner.NewMockRunner(ctrl)
	elevator := runner.NewElevator(mock, "pkexec")
	log := logging.NewTestLogger()
	deps := Deps{
		Resolver: probe.NewResolver(mock, elevator, log),
		Journal:  journal.NewService(mock, elevator, 0, log),
		Elevator: elevator,
		CPU:      cpu,
	}
	return New(dash, deps, log), mock
}

func TestNewSkipsSourcesWithoutService(t *testing.T) {
	m, _ := newTestMonitor(t, dashWith(dashboard.KindSystem, dashboard.KindSoftware, dashboard.KindCPU, dashboard.KindGPU), nil)

	var names []string
	for _, j := range m.Jobs() {
		names = append(names, j.Name())
	}
	assert.Equal(t, []string{"cpu", "gpu"}, names)
}

func TestCPUSeries(t *testing.T) {
	samples := []float64{12.5, 40}
	calls := 0
	cpu := func(context.Context) (float64, error) {
		v := samples[calls]
		calls++
		return v, nil
	}
	m, _ := newTestMonitor(t, dashWith(dashboard.KindCPU), cpu)

	m.CollectOnce(1)
	m.CollectOnce(1)

	snap := m.Snapshot()
	assert.Equal(t, 40.0, snap.CPU)
	assert.True(t, snap.Ready[dashboard.KindCPU])
	require.Len(t, snap.CPUSeries, engine.SeriesCapacity)
	assert.Equal(t, []float64{12.5, 40}, snap.CPUSeries[engine.SeriesCapacity-2:])
	assert.Zero(t, snap.CPUSeries[0])
}

func TestCPUErrorKeepsSeries(t *testing.T) {
	cpu := func(context.Context) (float64, error) { return 0, errors.New("no /proc/stat") }
	m, _ := newTestMonitor(t, dashWith(dashboard.KindCPU), cpu)

	m.CollectOnce(0)

	snap := m.Snapshot()
	assert.False(t, snap.Ready[dashboard.KindCPU])
	assert.Equal(t, []string{"cpu"}, snap.Failing())
	assert.Len(t, snap.CPUSeries, engine.SeriesCapacity)
}

func TestGPUWithoutNVIDIAPushesZero(t *testing.T) {
	m, mock := newTestMonitor(t, dashWith(dashboard.KindGPU), nil)
	mock.EXPECT().LookPath("nvidia-smi").Return("", errors.New("not found")).Times(3)
	mock.EXPECT().Run(gomock.Any(), "lspci").
		Return(runner.Output{Stdout: "00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 620\n"}, nil).
		Times(1)

	m.CollectOnce(1)
	m.CollectOnce(1)

	snap := m.Snapshot()
	assert.Equal(t, "Intel Corporation UHD Graphics 620", snap.GPU.Info.Name)
	assert.Equal(t, probe.NoDriverInfo, snap.GPU.Info.Driver)
	assert.False(t, snap.GPU.Stats.HasUtilization)
	assert.Len(t, snap.GPUSeries, engine.SeriesCapacity)
	for _, v := range snap.GPUSeries {
		assert.Zero(t, v)
	}
}

func TestGPUUtilizationSeries(t *testing.T) {
	m, mock := newTestMonitor(t, dashWith(dashboard.KindGPU), nil)
	mock.EXPECT().LookPath("nvidia-smi").Return("/usr/bin/nvidia-smi", nil).AnyTimes()
	mock.EXPECT().Run(gomock.Any(), "nvidia-smi", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, args ...string) (runner.Output, error) {
			switch args[0] {
			case "--query-gpu=utilization.gpu":
				return runner.Output{Stdout: "73\n"}, nil
			case "--query-gpu=name":
				return runner.Output{Stdout: "NVIDIA GeForce RTX 3060\n"}, nil
			}
			return runner.Output{Stdout: "1\n"}, nil
		}).AnyTimes()

	m.CollectOnce(1)

	snap := m.Snapshot()
	assert.Equal(t, "NVIDIA GeForce RTX 3060", snap.GPU.Info.Name)
	assert.Equal(t, 73.0, snap.GPUSeries[len(snap.GPUSeries)-1])
}

func TestRecordRates(t *testing.T) {
	m, _ := newTestMonitor(t, dashWith(), nil)
	t0 := time.Now()

	m.recordRates([]probe.InterfaceRecord{
		{Name: "eth0", RxRaw: 1000, TxRaw: 500, HasCounters: true},
		{Name: "wlan0"},
	}, t0)
	assert.Empty(t, m.Rates())

	m.recordRates([]probe.InterfaceRecord{
		{Name: "eth0", RxRaw: 2000, TxRaw: 1500, HasCounters: true},
	}, t0.Add(10*time.Second))

	rates := m.Rates()
	require.Len(t, rates["eth0"], 1)
	assert.InDelta(t, 800, rates["eth0"][0].RxRate, 0.001)
	assert.InDelta(t, 800, rates["eth0"][0].TxRate, 0.001)
	assert.NotContains(t, rates, "wlan0")
}

func TestRecordRatesSkipsCounterReset(t *testing.T) {
	m, _ := newTestMonitor(t, dashWith(), nil)
	t0 := time.Now()

	m.recordRates([]probe.InterfaceRecord{{Name: "eth0", RxRaw: 5000, TxRaw: 5000, HasCounters: true}}, t0)
	m.recordRates([]probe.InterfaceRecord{{Name: "eth0", RxRaw: 10, TxRaw: 10, HasCounters: true}}, t0.Add(time.Second))
	assert.Empty(t, m.Rates()["eth0"])

	m.recordRates([]probe.InterfaceRecord{{Name: "eth0", RxRaw: 20, TxRaw: 10, HasCounters: true}}, t0.Add(2*time.Second))
	require.Len(t, m.Rates()["eth0"], 1)
	assert.InDelta(t, 80, m.Rates()["eth0"][0].RxRate, 0.001)
}

func TestRecordRatesForgetsRemovedInterfaces(t *testing.T) {
	m, _ := newTestMonitor(t, dashWith(), nil)
	t0 := time.Now()
	eth := probe.InterfaceRecord{Name: "eth0", RxRaw: 1, TxRaw: 1, HasCounters: true}

	m.recordRates([]probe.InterfaceRecord{eth}, t0)
	m.recordRates([]probe.InterfaceRecord{eth}, t0.Add(time.Second))
	require.Contains(t, m.Rates(), "eth0")

	m.recordRates(nil, t0.Add(2*time.Second))
	assert.NotContains(t, m.Rates(), "eth0")
}

func TestRateHistoryIsBounded(t *testing.T) {
	m, _ := newTestMonitor(t, dashWith(), nil)
	t0 := time.Now()
	for i := 0; i < 20; i++ {
		m.recordRates([]probe.InterfaceRecord{
			{Name: "eth0", RxRaw: uint64(i * 100), TxRaw: 0, HasCounters: true},
		}, t0.Add(time.Duration(i)*time.Second))
	}
	assert.Len(t, m.Rates()["eth0"], 5)
}

func TestLogsSnapshot(t *testing.T) {
	m, mock := newTestMonitor(t, dashWith(dashboard.KindLogs), nil)
	mock.EXPECT().Run(gomock.Any(), "journalctl", "--user", "--no-pager", "-n", "200", "-o", "short").
		Return(runner.Output{Stdout: "user line\n"}, nil)

	m.CollectOnce(1)

	snap := m.Snapshot()
	assert.True(t, snap.Ready[dashboard.KindLogs])
	assert.Equal(t, "user line", snap.Logs.User.Text)
	assert.Equal(t, journal.OutcomeEmpty, snap.Logs.System.Outcome)
	assert.False(t, snap.Logs.Authenticated)
	assert.Equal(t, journal.StateSucceeded, snap.Logs.LastState)
}

func TestProcessSort(t *testing.T) {
	m, mock := newTestMonitor(t, dashWith(dashboard.KindProcesses), nil)
	mock.EXPECT().Run(gomock.Any(), "ps", "-eo", "comm,%cpu,rss", "--no-headers").
		Return(runner.Output{Stdout: "firefox 30.0 400000\nXorg 5.0 900000\n"}, nil).Times(2)

	m.CollectOnce(1)
	assert.Equal(t, "firefox", m.Snapshot().Processes[0].Name)

	m.SetProcessSort(probe.ByMemory)
	m.CollectOnce(1)
	snap := m.Snapshot()
	assert.Equal(t, probe.ByMemory, snap.ProcessSort)
	assert.Equal(t, "Xorg", snap.Processes[0].Name)
}

func TestStartRegistersJobs(t *testing.T) {
	cpu := func(context.Context) (float64, error) { return 1, nil }
	m, _ := newTestMonitor(t, dashWith(dashboard.KindCPU), cpu)
	mgr := engine.NewManager()
	require.NoError(t, m.Start(mgr))
	defer mgr.StopAll()

	infos := mgr.List()
	require.Len(t, infos, 1)
	assert.Equal(t, "cpu", infos[0].Name)
	assert.Equal(t, time.Hour, infos[0].Interval)
}

func TestAuthenticate(t *testing.T) {
	m, mock := newTestMonitor(t, dashWith(dashboard.KindCPU), nil)
	mock.EXPECT().Run(gomock.Any(), "pkexec", "true").Return(runner.Output{}, nil)

	require.NoError(t, m.Authenticate(context.Background()))
	assert.True(t, m.Snapshot().Logs.Authenticated)
}

func TestAuthenticateCancelled(t *testing.T) {
	m, mock := newTestMonitor(t, dashWith(dashboard.KindCPU), nil)
	mock.EXPECT().Run(gomock.Any(), "pkexec", "true").
		Return(runner.Output{Stderr: "Error executing command as another user: Request dismissed", ExitCode: 126}, nil)

	err := m.Authenticate(context.Background())
	assert.ErrorIs(t, err, runner.ErrCancelled)
	assert.False(t, m.Snapshot().Logs.Authenticated)
}
