package probe

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tonhe/sysglance/internal/units"
)

// ProcNetDev is the kernel's per-interface counter table.
const ProcNetDev = "/proc/net/dev"

var (
	ifaceHeaderRe = regexp.MustCompile(`^\d+:\s+([^:@\s]+)(?:@[^:\s]*)?:`)
	ifaceFlagsRe  = regexp.MustCompile(`<([^>]*)>`)
	ifaceMTURe    = regexp.MustCompile(`\bmtu (\d+)`)
)

// ParseInterfaces parses `ip addr show` output into one record per
// interface. Counters are not filled in; see ApplyCounters.
func ParseInterfaces(text string) []InterfaceRecord {
	var (
		ifaces []InterfaceRecord
		cur    *InterfaceRecord
	)
	flush := func() {
		if cur != nil {
			ifaces = append(ifaces, *cur)
			cur = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if m := ifaceHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			cur = &InterfaceRecord{Name: m[1], NetmaskBits: -1}
			if f := ifaceFlagsRe.FindStringSubmatch(line); f != nil {
				cur.State = LinkDown
				for _, flag := range strings.Split(f[1], ",") {
					if flag == "UP" {
						cur.State = LinkUp
						break
					}
				}
			}
			if mtu := ifaceMTURe.FindStringSubmatch(line); mtu != nil {
				cur.MTU, _ = strconv.Atoi(mtu[1])
			}
			continue
		}
		if cur == nil {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "link/ether":
			if cur.MAC == "" {
				cur.MAC = fields[1]
			}
		case "inet":
			addr, bits, hasBits := strings.Cut(fields[1], "/")
			cur.IPv4 = addr
			cur.NetmaskBits = -1
			if hasBits {
				if n, err := strconv.Atoi(bits); err == nil {
					cur.NetmaskBits = n
				}
			}
		case "inet6":
			if cur.IPv6 == "" {
				addr, _, _ := strings.Cut(fields[1], "/")
				cur.IPv6 = addr
			}
		}
	}
	flush()
	return ifaces
}

type counterPair struct {
	rx, tx uint64
}

// parseCounters reads the /proc/net/dev table, keyed by exact interface
// name. Receive bytes is the first column and transmit bytes the ninth.
func parseCounters(text string) map[string]counterPair {
	counters := make(map[string]counterPair)
	for _, line := range strings.Split(text, "\n") {
		name, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) < 9 {
			continue
		}
		rx, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			continue
		}
		tx, err := strconv.ParseUint(fields[8], 10, 64)
		if err != nil {
			continue
		}
		counters[strings.TrimSpace(name)] = counterPair{rx: rx, tx: tx}
	}
	return counters
}

// ApplyCounters returns a copy of ifaces with rx/tx byte counts filled in
// from a /proc/net/dev table. Interfaces without a matching row are left
// without counters.
func ApplyCounters(ifaces []InterfaceRecord, countersText string) []InterfaceRecord {
	counters := parseCounters(countersText)
	out := make([]InterfaceRecord, len(ifaces))
	for i, iface := range ifaces {
		if c, ok := counters[iface.Name]; ok {
			iface.RxRaw = c.rx
			iface.TxRaw = c.tx
			iface.RxBytes = units.FormatBytes(c.rx)
			iface.TxBytes = units.FormatBytes(c.tx)
			iface.HasCounters = true
		}
		out[i] = iface
	}
	return out
}

// Interfaces enumerates network interfaces with their byte counters. An
// unreadable counter table leaves the interfaces without counters.
func (r *Resolver) Interfaces(ctx context.Context) ([]InterfaceRecord, error) {
	out, ok := r.run(ctx, "ip", "addr", "show")
	if !ok {
		return nil, fmt.Errorf("enumerate interfaces: ip: %w", ErrUnavailable)
	}
	ifaces := ParseInterfaces(out)

	counters, err := r.runner.ReadFile(ProcNetDev)
	if err != nil {
		r.log.Warn().Err(err).Msg("reading interface counters")
		return ifaces, nil
	}
	return ApplyCounters(ifaces, counters), nil
}

// InterfaceIcon returns an icon hint for an interface name.
func InterfaceIcon(name string) string {
	switch {
	case strings.HasPrefix(name, "wl"), strings.HasPrefix(name, "wifi"):
		return "wireless"
	case strings.HasPrefix(name, "en"), strings.HasPrefix(name, "eth"):
		return "wired"
	case strings.HasPrefix(name, "lo"):
		return "server"
	case strings.HasPrefix(name, "docker"), strings.HasPrefix(name, "br"):
		return "workgroup"
	}
	return "wired"
}

// CIDR renders an address with its prefix length, when known.
func (i InterfaceRecord) CIDR() string {
	if i.IPv4 == "" {
		return ""
	}
	if i.NetmaskBits < 0 {
		return i.IPv4
	}
	return fmt.Sprintf("%s/%d", i.IPv4, i.NetmaskBits)
}
