package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tonhe/sysglance/internal/logging"
	"github.com/tonhe/sysglance/internal/runner"
)

const lspciFixture = `00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 620 (rev 07)
	Subsystem: Dell Device 081c
	Kernel driver in use: i915
	Kernel modules: i915
00:14.3 Network controller: Intel Corporation Cannon Point-LP CNVi [Wireless-AC] (rev 30)
	Subsystem: Intel Corporation Wireless-AC 9560
	Kernel driver in use: iwlwifi
	Kernel modules: iwlwifi
00:1f.3 Audio device: Intel Corporation Cannon Point-LP High Definition Audio Controller (rev 30)
	Subsystem: Dell Device 081c
01:00.0 3D controller: NVIDIA Corporation GP108M [GeForce MX150] (rev a1)
	Subsystem: Dell Device 081c
	Flags: bus master, fast devsel, latency 0
	Memory at ec000000 (32-bit, non-prefetchable)
	Capabilities: <access denied>
	Kernel driver in use: nvidia
02:00.0 Non-Volatile memory controller: Samsung Electronics Co Ltd NVMe SSD Controller SM981/PM981/PM983
	Subsystem: Samsung Electronics Co Ltd SSD 970 EVO Plus
	Kernel driver in use: nvme
`

func newTestResolver(t *testing.T) (*Resolver, *runner.MockRunner) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mock := runner.NewMockRunner(ctrl)
	return NewResolver(mock, nil, logging.NewTestLogger()), mock
}

func TestParseDevicesGraphics(t *testing.T) {
	devices := ParseDevices(lspciFixture, Graphics, DeviceLookahead)
	require.Len(t, devices, 2)

	assert.Equal(t, "i915", devices[0].Driver)
	assert.Equal(t, "Intel Corporation UHD Graphics 620 (rev 07)", devices[0].Description)
	assert.Equal(t, Graphics, devices[0].Category)

	// The driver line sits five lines below the device line.
	assert.Equal(t, UnknownDriver, devices[1].Driver)
	assert.Equal(t, "NVIDIA Corporation GP108M [GeForce MX150] (rev a1)", devices[1].Description)
}

func TestParseDevicesPerCategory(t *testing.T) {
	network := ParseDevices(lspciFixture, Network, DeviceLookahead)
	require.Len(t, network, 1)
	assert.Equal(t, "iwlwifi", network[0].Driver)

	audio := ParseDevices(lspciFixture, Audio, DeviceLookahead)
	require.Len(t, audio, 1)
	assert.Equal(t, UnknownDriver, audio[0].Driver, "driver of the next device must not be borrowed")

	storage := ParseDevices(lspciFixture, Storage, DeviceLookahead)
	require.Len(t, storage, 1)
	assert.Equal(t, "nvme", storage[0].Driver)

	assert.Empty(t, ParseDevices(lspciFixture, USB, DeviceLookahead))
}

func TestParseDevicesLookaheadBoundary(t *testing.T) {
	within := "00:02.0 VGA compatible controller: Acme GPU\n\ta\n\tb\n\tc\n\tKernel driver in use: acme\n"
	devices := ParseDevices(within, Graphics, DeviceLookahead)
	require.Len(t, devices, 1)
	assert.Equal(t, "acme", devices[0].Driver)

	beyond := "00:02.0 VGA compatible controller: Acme GPU\n\ta\n\tb\n\tc\n\td\n\tKernel driver in use: acme\n"
	devices = ParseDevices(beyond, Graphics, DeviceLookahead)
	require.Len(t, devices, 1)
	assert.Equal(t, UnknownDriver, devices[0].Driver)
}

func TestParseDevicesIgnoresDetailLines(t *testing.T) {
	text := "00:1f.6 Ethernet controller: Intel Corporation Ethernet Connection\n\tSubsystem: Dell Wireless Display Adapter\n"
	assert.Empty(t, ParseDevices(text, Graphics, DeviceLookahead))
	assert.Len(t, ParseDevices(text, Network, DeviceLookahead), 1)
}

func TestParseDevicesIdempotent(t *testing.T) {
	first := ParseDevices(lspciFixture, Graphics, DeviceLookahead)
	second := ParseDevices(lspciFixture, Graphics, DeviceLookahead)
	assert.Equal(t, first, second)
}

func TestParseModinfoVersion(t *testing.T) {
	v, ok := ParseModinfoVersion("filename:       /lib/modules/nvidia.ko\nversion:        550.54.14\nsrcversion:     ABC123\n")
	require.True(t, ok)
	assert.Equal(t, "550.54.14", v)

	_, ok = ParseModinfoVersion("filename:       /lib/modules/i915.ko\nsrcversion:     ABC123\nvermagic:       6.8.0\n")
	assert.False(t, ok)
}

func TestResolverDevices(t *testing.T) {
	r, mock := newTestResolver(t)
	mock.EXPECT().Run(gomock.Any(), "lspci", "-k").Return(runner.Output{Stdout: lspciFixture}, nil)
	mock.EXPECT().Run(gomock.Any(), "modinfo", "i915").Return(runner.Output{Stdout: "version: 1.6.0\n"}, nil)

	devices, err := r.Devices(context.Background(), Graphics)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.True(t, devices[0].HasVersion)
	assert.Equal(t, "1.6.0", devices[0].Version)
	assert.False(t, devices[1].HasVersion)
}

func TestResolverDevicesVersionLookupFailure(t *testing.T) {
	r, mock := newTestResolver(t)
	mock.EXPECT().Run(gomock.Any(), "lspci", "-k").Return(runner.Output{Stdout: lspciFixture}, nil)
	mock.EXPECT().Run(gomock.Any(), "modinfo", "iwlwifi").Return(runner.Output{}, runner.ErrExecution)

	devices, err := r.Devices(context.Background(), Network)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "iwlwifi", devices[0].Driver)
	assert.False(t, devices[0].HasVersion)
}

func TestResolverAllDevicesIsolatesFailures(t *testing.T) {
	r, mock := newTestResolver(t)
	gomock.InOrder(
		mock.EXPECT().Run(gomock.Any(), "lspci", "-k").Return(runner.Output{}, runner.ErrExecution),
		mock.EXPECT().Run(gomock.Any(), "lspci", "-k").Return(runner.Output{Stdout: lspciFixture}, nil).Times(4),
	)
	mock.EXPECT().Run(gomock.Any(), "modinfo", gomock.Any()).Return(runner.Output{ExitCode: 1}, nil).AnyTimes()

	all := r.AllDevices(context.Background())
	assert.Empty(t, all[Graphics])
	assert.Len(t, all[Network], 1)
	assert.Len(t, all[Storage], 1)
	assert.Len(t, all[Audio], 1)
	assert.Empty(t, all[USB])
}
