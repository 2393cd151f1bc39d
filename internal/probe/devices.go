package probe

import (
	"context"
	"fmt"
	"strings"
)

const (
	// DeviceLookahead is how many lines after a device line are searched
	// for its driver.
	DeviceLookahead = 4

	// UnknownDriver is reported when no driver is bound to a device.
	UnknownDriver = "Unknown"

	driverMarker = "Kernel driver in use:"
)

// ParseDevices extracts the devices of one category from `lspci -k` output.
// Device lines start at column zero; their detail lines are indented. A
// device's driver is taken from a "Kernel driver in use:" line within
// lookahead lines of the device line, otherwise it is UnknownDriver.
func ParseDevices(text string, category Category, lookahead int) []DeviceRecord {
	lines := strings.Split(text, "\n")
	keywords := category.Keywords()

	var devices []DeviceRecord
	for i, line := range lines {
		if strings.TrimSpace(line) == "" || isIndented(line) {
			continue
		}
		if !containsAny(deviceFreeText(line), keywords) {
			continue
		}

		dev := DeviceRecord{
			Driver:      UnknownDriver,
			Description: deviceDescription(line),
			Category:    category,
		}
		for j := i + 1; j <= i+lookahead && j < len(lines); j++ {
			if !isIndented(lines[j]) {
				break
			}
			if idx := strings.Index(lines[j], driverMarker); idx >= 0 {
				if name := strings.TrimSpace(lines[j][idx+len(driverMarker):]); name != "" {
					dev.Driver = name
				}
				break
			}
		}
		devices = append(devices, dev)
	}
	return devices
}

// ParseModinfoVersion returns the value of the "version:" field of modinfo
// output. Other fields ending in "version" (srcversion) are ignored.
func ParseModinfoVersion(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) != "version" {
			continue
		}
		if v := strings.TrimSpace(value); v != "" {
			return v, true
		}
	}
	return "", false
}

// ModuleVersion looks up a kernel module's version. Any failure reports
// the version as absent.
func (r *Resolver) ModuleVersion(ctx context.Context, name string) (string, bool) {
	if name == "" || name == UnknownDriver {
		return "", false
	}
	out, ok := r.run(ctx, "modinfo", name)
	if !ok {
		return "", false
	}
	return ParseModinfoVersion(out)
}

// Devices enumerates the PCI devices of one category and resolves the
// version of each bound driver.
func (r *Resolver) Devices(ctx context.Context, category Category) ([]DeviceRecord, error) {
	out, ok := r.run(ctx, "lspci", "-k")
	if !ok {
		return nil, fmt.Errorf("enumerate %s devices: lspci: %w", category, ErrUnavailable)
	}

	devices := ParseDevices(out, category, DeviceLookahead)
	for i := range devices {
		devices[i].Version, devices[i].HasVersion = r.ModuleVersion(ctx, devices[i].Driver)
	}
	return devices, nil
}

// AllDevices enumerates every category independently. A category whose
// enumeration fails is reported with no devices.
func (r *Resolver) AllDevices(ctx context.Context) map[Category][]DeviceRecord {
	result := make(map[Category][]DeviceRecord, len(Categories))
	for _, c := range Categories {
		devices, err := r.Devices(ctx, c)
		if err != nil {
			r.log.Warn().Err(err).Str("category", c.String()).Msg("device enumeration failed")
			devices = nil
		}
		result[c] = devices
	}
	return result
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, "\t") || strings.HasPrefix(line, " ")
}

// deviceFreeText drops the leading slot field ("00:02.0") of a device line.
func deviceFreeText(line string) string {
	_, rest, ok := strings.Cut(strings.TrimSpace(line), " ")
	if !ok {
		return ""
	}
	return rest
}

// deviceDescription is everything after the second colon of a device line.
func deviceDescription(line string) string {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) == 3 {
		return strings.TrimSpace(parts[2])
	}
	return strings.TrimSpace(deviceFreeText(line))
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
