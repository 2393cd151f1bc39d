package probe

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ProcessSort selects the ranking key for TopProcesses.
type ProcessSort int

const (
	ByCPU ProcessSort = iota
	ByMemory
)

// ProcessRecord is one row of `ps -eo comm,%cpu,rss`.
type ProcessRecord struct {
	Name     string
	CPU      float64
	MemoryKB uint64
}

// ParseProcesses parses headerless `ps -eo comm,%cpu,rss` output. The
// command name may contain spaces, so the numeric columns are read from
// the right.
func ParseProcesses(text string) []ProcessRecord {
	var procs []ProcessRecord
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		n := len(fields)
		cpu, err := strconv.ParseFloat(fields[n-2], 64)
		if err != nil {
			continue
		}
		rss, err := strconv.ParseUint(fields[n-1], 10, 64)
		if err != nil {
			continue
		}
		procs = append(procs, ProcessRecord{
			Name:     strings.Join(fields[:n-2], " "),
			CPU:      cpu,
			MemoryKB: rss,
		})
	}
	return procs
}

// TopProcesses returns the n heaviest processes by the given key.
func TopProcesses(procs []ProcessRecord, by ProcessSort, n int) []ProcessRecord {
	ranked := make([]ProcessRecord, len(procs))
	copy(ranked, procs)
	sort.SliceStable(ranked, func(i, j int) bool {
		if by == ByMemory {
			return ranked[i].MemoryKB > ranked[j].MemoryKB
		}
		return ranked[i].CPU > ranked[j].CPU
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Processes lists the top n processes.
func (r *Resolver) Processes(ctx context.Context, by ProcessSort, n int) ([]ProcessRecord, error) {
	out, ok := r.run(ctx, "ps", "-eo", "comm,%cpu,rss", "--no-headers")
	if !ok {
		return nil, fmt.Errorf("list processes: ps: %w", ErrUnavailable)
	}
	return TopProcesses(ParseProcesses(out), by, n), nil
}
