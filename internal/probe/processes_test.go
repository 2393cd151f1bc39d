package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tonhe/sysglance/internal/runner"
)

const psFixture = `Web Content     12.5 204800
bash             0.0 905120
Xorg             3.1  81920
bad line
`

func TestParseProcesses(t *testing.T) {
	procs := ParseProcesses(psFixture)
	require.Len(t, procs, 3)
	assert.Equal(t, ProcessRecord{Name: "Web Content", CPU: 12.5, MemoryKB: 204800}, procs[0])
}

func TestTopProcesses(t *testing.T) {
	procs := ParseProcesses(psFixture)

	byCPU := TopProcesses(procs, ByCPU, 2)
	require.Len(t, byCPU, 2)
	assert.Equal(t, "Web Content", byCPU[0].Name)
	assert.Equal(t, "Xorg", byCPU[1].Name)

	byMem := TopProcesses(procs, ByMemory, 5)
	require.Len(t, byMem, 3)
	assert.Equal(t, "bash", byMem[0].Name)
}

func TestResolverProcesses(t *testing.T) {
	r, mock := newTestResolver(t)
	mock.EXPECT().Run(gomock.Any(), "ps", "-eo", "comm,%cpu,rss", "--no-headers").
		Return(runner.Output{Stdout: psFixture}, nil)

	procs, err := r.Processes(context.Background(), ByCPU, 1)
	require.NoError(t, err)
	require.Len(t, procs, 1)
	assert.Equal(t, "Web Content", procs[0].Name)
}
