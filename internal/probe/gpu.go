package probe

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// GPU fallbacks shown when nvidia-smi is not installed.
const (
	NoDriverInfo  = "N/A (nvidia-smi not available)"
	NotApplicable = "N/A"
	NoGPUDetected = "Unable to detect GPU"
)

// GPUInfo is the static description of the primary GPU.
type GPUInfo struct {
	Name        string
	Driver      string
	MemoryTotal string
	NVIDIA      bool
}

// GPUStats is one live sample of the primary GPU.
type GPUStats struct {
	Utilization    float64
	HasUtilization bool
	MemoryUsed     string
	Temperature    string
	Power          string
}

// HasNVIDIA reports whether nvidia-smi is on the PATH.
func (r *Resolver) HasNVIDIA() bool {
	return r.available("nvidia-smi")
}

func (r *Resolver) queryGPU(ctx context.Context, field string, withUnits bool) (string, bool) {
	format := "--format=csv,noheader"
	if !withUnits {
		format += ",nounits"
	}
	out, ok := r.run(ctx, "nvidia-smi", "--query-gpu="+field, format)
	if !ok {
		return "", false
	}
	line, _, _ := strings.Cut(out, "\n")
	line = strings.TrimSpace(line)
	return line, line != ""
}

// ParseGPUName returns the description of the first display controller in
// plain `lspci` output.
func ParseGPUName(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(deviceFreeText(line))
		if strings.Contains(lower, "vga") || strings.Contains(lower, "3d") || strings.Contains(lower, "display") {
			if name := deviceDescription(line); name != "" {
				return name, true
			}
		}
	}
	return "", false
}

// ParseUtilization parses a nounits percentage sample.
func ParseUtilization(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// GPUInfo collects name, driver and memory size.
func (r *Resolver) GPUInfo(ctx context.Context) GPUInfo {
	if r.HasNVIDIA() {
		info := GPUInfo{NVIDIA: true, Name: NoGPUDetected, Driver: NotApplicable, MemoryTotal: NotApplicable}
		if v, ok := r.queryGPU(ctx, "name", true); ok {
			info.Name = v
		}
		if v, ok := r.queryGPU(ctx, "driver_version", true); ok {
			info.Driver = v
		}
		if v, ok := r.queryGPU(ctx, "memory.total", true); ok {
			info.MemoryTotal = v
		}
		return info
	}

	info := GPUInfo{Name: NoGPUDetected, Driver: NoDriverInfo, MemoryTotal: NotApplicable}
	if out, ok := r.run(ctx, "lspci"); ok {
		if name, found := ParseGPUName(out); found {
			info.Name = name
		}
	}
	return info
}

// GPUStats samples utilization, memory, temperature and power draw.
// Without nvidia-smi every field is N/A and utilization reads zero.
func (r *Resolver) GPUStats(ctx context.Context) GPUStats {
	stats := GPUStats{MemoryUsed: NotApplicable, Temperature: NotApplicable, Power: NotApplicable}
	if !r.HasNVIDIA() {
		return stats
	}

	if v, ok := r.queryGPU(ctx, "utilization.gpu", false); ok {
		stats.Utilization, stats.HasUtilization = ParseUtilization(v)
	}
	if v, ok := r.queryGPU(ctx, "memory.used", true); ok {
		stats.MemoryUsed = v
	}
	if v, ok := r.queryGPU(ctx, "temperature.gpu", false); ok {
		stats.Temperature = fmt.Sprintf("%s°C", v)
	}
	if v, ok := r.queryGPU(ctx, "power.draw", true); ok {
		stats.Power = v
	}
	return stats
}

// UtilizationString renders the utilization sample for display.
func (s GPUStats) UtilizationString() string {
	if !s.HasUtilization {
		return NotApplicable
	}
	return fmt.Sprintf("%.1f%%", s.Utilization)
}
