package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tonhe/sysglance/internal/runner"
)

func TestParseGPUName(t *testing.T) {
	text := "00:00.0 Host bridge: Intel Corporation Xeon E3-1200 v6\n00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 620 (rev 07)\n"
	name, ok := ParseGPUName(text)
	require.True(t, ok)
	assert.Equal(t, "Intel Corporation UHD Graphics 620 (rev 07)", name)

	_, ok = ParseGPUName("00:00.0 Host bridge: Intel Corporation Xeon E3-1200 v6\n")
	assert.False(t, ok)
}

func TestParseUtilization(t *testing.T) {
	v, ok := ParseUtilization(" 37\n")
	require.True(t, ok)
	assert.Equal(t, 37.0, v)

	_, ok = ParseUtilization("[N/A]")
	assert.False(t, ok)
}

func TestResolverGPUStatsNVIDIA(t *testing.T) {
	r, mock := newTestResolver(t)
	mock.EXPECT().LookPath("nvidia-smi").Return("/usr/bin/nvidia-smi", nil)
	mock.EXPECT().Run(gomock.Any(), "nvidia-smi", "--query-gpu=utilization.gpu", "--format=csv,noheader,nounits").
		Return(runner.Output{Stdout: "42\n"}, nil)
	mock.EXPECT().Run(gomock.Any(), "nvidia-smi", "--query-gpu=memory.used", "--format=csv,noheader").
		Return(runner.Output{Stdout: "1024 MiB\n"}, nil)
	mock.EXPECT().Run(gomock.Any(), "nvidia-smi", "--query-gpu=temperature.gpu", "--format=csv,noheader,nounits").
		Return(runner.Output{Stdout: "55\n"}, nil)
	mock.EXPECT().Run(gomock.Any(), "nvidia-smi", "--query-gpu=power.draw", "--format=csv,noheader").
		Return(runner.Output{Stdout: "12.34 W\n"}, nil)

	stats := r.GPUStats(context.Background())
	assert.True(t, stats.HasUtilization)
	assert.Equal(t, 42.0, stats.Utilization)
	assert.Equal(t, "42.0%", stats.UtilizationString())
	assert.Equal(t, "1024 MiB", stats.MemoryUsed)
	assert.Equal(t, "55°C", stats.Temperature)
	assert.Equal(t, "12.34 W", stats.Power)
}

func TestResolverGPUStatsWithoutNVIDIA(t *testing.T) {
	r, mock := newTestResolver(t)
	mock.EXPECT().LookPath("nvidia-smi").Return("", errors.New("not found"))

	stats := r.GPUStats(context.Background())
	assert.False(t, stats.HasUtilization)
	assert.Zero(t, stats.Utilization)
	assert.Equal(t, NotApplicable, stats.UtilizationString())
	assert.Equal(t, NotApplicable, stats.Temperature)
}

func TestResolverGPUInfoFallback(t *testing.T) {
	r, mock := newTestResolver(t)
	mock.EXPECT().LookPath("nvidia-smi").Return("", errors.New("not found"))
	mock.EXPECT().Run(gomock.Any(), "lspci").
		Return(runner.Output{Stdout: "00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 620\n"}, nil)

	info := r.GPUInfo(context.Background())
	assert.False(t, info.NVIDIA)
	assert.Equal(t, "Intel Corporation UHD Graphics 620", info.Name)
	assert.Equal(t, NoDriverInfo, info.Driver)
	assert.Equal(t, NotApplicable, info.MemoryTotal)
}

func TestResolverGPUInfoNVIDIA(t *testing.T) {
	r, mock := newTestResolver(t)
	mock.EXPECT().LookPath("nvidia-smi").Return("/usr/bin/nvidia-smi", nil)
	mock.EXPECT().Run(gomock.Any(), "nvidia-smi", "--query-gpu=name", "--format=csv,noheader").
		Return(runner.Output{Stdout: "NVIDIA GeForce RTX 3060\n"}, nil)
	mock.EXPECT().Run(gomock.Any(), "nvidia-smi", "--query-gpu=driver_version", "--format=csv,noheader").
		Return(runner.Output{Stdout: "550.54.14\n"}, nil)
	mock.EXPECT().Run(gomock.Any(), "nvidia-smi", "--query-gpu=memory.total", "--format=csv,noheader").
		Return(runner.Output{}, runner.ErrExecution)

	info := r.GPUInfo(context.Background())
	assert.True(t, info.NVIDIA)
	assert.Equal(t, "NVIDIA GeForce RTX 3060", info.Name)
	assert.Equal(t, "550.54.14", info.Driver)
	assert.Equal(t, NotApplicable, info.MemoryTotal)
}
