package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/tonhe/sysglance/internal/runner"
	"github.com/tonhe/sysglance/internal/units"
)

// ErrNoSource is returned when every snapshot source failed.
var ErrNoSource = errors.New("no snapshot source available")

// Source produces raw snapshot entries.
type Source interface {
	Name() string
	Entries(ctx context.Context) ([]Entry, error)
}

// Collect normalizes the entries of the first source that succeeds.
func Collect(ctx context.Context, log zerolog.Logger, sources ...Source) ([]Row, error) {
	for _, s := range sources {
		entries, err := s.Entries(ctx)
		if err != nil {
			log.Debug().Err(err).Str("source", s.Name()).Msg("snapshot source failed")
			continue
		}
		return Normalize(entries), nil
	}
	return nil, ErrNoSource
}

// FastfetchSource reads `fastfetch --format json`.
type FastfetchSource struct {
	runner runner.Runner
}

// NewFastfetchSource creates a FastfetchSource.
func NewFastfetchSource(r runner.Runner) *FastfetchSource {
	return &FastfetchSource{runner: r}
}

func (s *FastfetchSource) Name() string { return "fastfetch" }

// Entries runs fastfetch and decodes its entry list.
func (s *FastfetchSource) Entries(ctx context.Context) ([]Entry, error) {
	out, err := s.runner.Run(ctx, "fastfetch", "--format", "json")
	if err != nil {
		return nil, err
	}
	if out.Failed() {
		return nil, fmt.Errorf("fastfetch exited with status %d", out.ExitCode)
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(out.Stdout), &entries); err != nil {
		return nil, fmt.Errorf("decode fastfetch output: %w", err)
	}
	return entries, nil
}

// HostSource collects the core entries natively through gopsutil.
type HostSource struct{}

// NewHostSource creates a HostSource.
func NewHostSource() *HostSource {
	return &HostSource{}
}

func (s *HostSource) Name() string { return "gopsutil" }

// Entries gathers OS, host, kernel, uptime, CPU, memory, swap and disk
// entries. Individual collector failures drop only their entry.
func (s *HostSource) Entries(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	add := func(kind string, v any) {
		raw, err := json.Marshal(v)
		if err != nil {
			return
		}
		entries = append(entries, Entry{Type: kind, Result: raw})
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("host info: %w", err)
	}
	add("OS", osResult{
		Name:       info.Platform,
		PrettyName: strings.TrimSpace(units.CapitalizeWords(info.Platform) + " " + info.PlatformVersion),
	})
	add("Host", hostResult{Name: info.Hostname})
	add("Kernel", kernelResult{Name: units.CapitalizeWords(info.OS), Release: info.KernelVersion})
	add("Uptime", uptimeResult{Uptime: info.Uptime * 1000})

	if cpus, err := cpu.InfoWithContext(ctx); err == nil && len(cpus) > 0 {
		var r cpuResult
		r.CPU = cpus[0].ModelName
		r.Cores.Physical, _ = cpu.CountsWithContext(ctx, false)
		r.Cores.Logical, _ = cpu.CountsWithContext(ctx, true)
		add("CPU", r)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		add("Memory", usageResult{Used: vm.Used, Total: vm.Total})
	}
	if sw, err := mem.SwapMemoryWithContext(ctx); err == nil {
		add("Swap", usageResult{Used: sw.Used, Total: sw.Total})
	}

	if parts, err := disk.PartitionsWithContext(ctx, false); err == nil {
		var disks []diskResult
		for _, p := range parts {
			usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
			if err != nil || usage.Total == 0 {
				continue
			}
			disks = append(disks, diskResult{
				Mountpoint: p.Mountpoint,
				Bytes:      usageResult{Used: usage.Used, Total: usage.Total},
			})
		}
		add("Disk", disks)
	}

	return entries, nil
}
