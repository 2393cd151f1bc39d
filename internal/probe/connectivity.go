package probe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tonhe/sysglance/internal/runner"
	"github.com/tonhe/sysglance/internal/units"
)

// Status strings shared by the connectivity probes.
const (
	StatusNotAvailable = "Not available"
	StatusInfoMissing  = "Information not available"
	StatusAuthRequired = "Authentication required"
	StatusUnknown      = "Unknown"
	StatusNotConnected = "Not connected"
	StatusNoEthernet   = "No ethernet devices found"
	StatusNoVPN        = "No active VPN connections"
	StatusNoDNS        = "No DNS configuration found"
)

// MaxListedFirewallRules is the most rules listed individually; larger
// rule sets are reported as a count.
const MaxListedFirewallRules = 5

// ParseUFW classifies `ufw status` output.
func ParseUFW(stdout, stderr string) Summary {
	if runner.IsCancellation(stderr) || strings.Contains(stderr, "permission denied") || strings.Contains(stderr, "ERROR") {
		return Summary{Status: StatusAuthRequired, NeedsElevation: true}
	}

	switch {
	case strings.Contains(stdout, "Status: active"):
		var rules []string
		for _, line := range strings.Split(stdout, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.Contains(line, "Status:") || strings.Contains(line, "To") || strings.Contains(line, "--") {
				continue
			}
			rules = append(rules, line)
		}
		s := Summary{Status: "Active"}
		if len(rules) <= MaxListedFirewallRules {
			for _, rule := range rules {
				s.Details = append(s.Details, KeyValue{Key: "Rule", Value: rule})
			}
		} else {
			s.Details = []KeyValue{{Key: "Rules", Value: fmt.Sprintf("%d rules configured", len(rules))}}
		}
		return s
	case strings.Contains(stdout, "Status: inactive"):
		return Summary{Status: "Inactive"}
	}
	return Summary{Status: StatusUnknown}
}

// ParseFirewalld classifies `firewall-cmd --state` output.
func ParseFirewalld(stdout, stderr string) Summary {
	if runner.IsCancellation(stderr) || strings.Contains(strings.ToLower(stderr), "authorization") {
		return Summary{Status: StatusAuthRequired, NeedsElevation: true}
	}
	state := strings.TrimSpace(stdout)
	if state == "" {
		state = strings.TrimSpace(stderr)
	}
	if state == "" {
		return Summary{Status: StatusUnknown}
	}
	return Summary{Status: units.CapitalizeWords(state)}
}

// splitTerse splits one line of `nmcli -t` output on unescaped colons.
func splitTerse(line string) []string {
	var (
		fields []string
		cur    strings.Builder
	)
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		case c == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}

func terseLines(text string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, splitTerse(line))
	}
	return rows
}

// ParseWiFi classifies `nmcli -t -f ACTIVE,SSID,SIGNAL,SECURITY dev wifi`.
func ParseWiFi(stdout string) Summary {
	for _, f := range terseLines(stdout) {
		if len(f) < 4 || f[0] != "yes" {
			continue
		}
		ssid := f[1]
		if ssid == "" {
			ssid = StatusUnknown
		}
		s := Summary{Status: "Connected", Details: []KeyValue{{Key: "Connected to", Value: ssid}}}
		if f[2] != "" {
			s.Details = append(s.Details, KeyValue{Key: "Signal Strength", Value: f[2] + "%"})
		}
		if f[3] != "" {
			s.Details = append(s.Details, KeyValue{Key: "Security", Value: f[3]})
		}
		return s
	}
	return Summary{Status: StatusNotConnected}
}

// ParseEthernet classifies `nmcli -t -f DEVICE,TYPE,STATE,CONNECTION dev`.
func ParseEthernet(stdout string) Summary {
	s := Summary{Status: StatusNoEthernet}
	found, connected := false, false
	for _, f := range terseLines(stdout) {
		if len(f) < 4 || f[1] != "ethernet" {
			continue
		}
		found = true
		if f[2] == "connected" {
			connected = true
		}
		s.Details = append(s.Details,
			KeyValue{Key: "Device", Value: f[0]},
			KeyValue{Key: "State", Value: f[2]},
		)
		if f[3] != "" {
			s.Details = append(s.Details, KeyValue{Key: "Connection", Value: f[3]})
		}
	}
	switch {
	case connected:
		s.Status = "Connected"
	case found:
		s.Status = "Disconnected"
	}
	return s
}

// ParseVPN classifies `nmcli -t -f NAME,TYPE,STATE con show --active`.
func ParseVPN(stdout string) Summary {
	s := Summary{Status: StatusNoVPN}
	for _, f := range terseLines(stdout) {
		if len(f) < 3 || !isTunnelType(f[1]) {
			continue
		}
		s.Status = "Active"
		s.Details = append(s.Details,
			KeyValue{Key: "Connection", Value: f[0]},
			KeyValue{Key: "Type", Value: f[1]},
			KeyValue{Key: "State", Value: f[2]},
		)
	}
	return s
}

func isTunnelType(t string) bool {
	return strings.Contains(t, "vpn") || strings.Contains(t, "tun") || strings.Contains(t, "wireguard")
}

// Firewall probes ufw, then firewalld. Once the elevator is authenticated
// the probe runs with elevated privileges.
func (r *Resolver) Firewall(ctx context.Context) Summary {
	run := r.privileged()

	if r.available("ufw") {
		out, err := run(ctx, "ufw", "status")
		if err == nil {
			return ParseUFW(out.Stdout, out.Stderr)
		}
		if errors.Is(err, runner.ErrCancelled) {
			return Summary{Status: StatusAuthRequired, NeedsElevation: true}
		}
		r.log.Debug().Err(err).Msg("ufw probe failed")
	}
	if r.available("firewall-cmd") {
		out, err := run(ctx, "firewall-cmd", "--state")
		if err == nil {
			return ParseFirewalld(out.Stdout, out.Stderr)
		}
		if errors.Is(err, runner.ErrCancelled) {
			return Summary{Status: StatusAuthRequired, NeedsElevation: true}
		}
		r.log.Debug().Err(err).Msg("firewall-cmd probe failed")
	}
	return Summary{Status: StatusNotAvailable}
}

func (r *Resolver) nmcli(ctx context.Context, parse func(string) Summary, args ...string) Summary {
	out, ok := r.run(ctx, "nmcli", args...)
	if !ok {
		return Summary{Status: StatusInfoMissing}
	}
	return parse(out)
}

// WiFi reports the active wireless connection.
func (r *Resolver) WiFi(ctx context.Context) Summary {
	return r.nmcli(ctx, ParseWiFi, "-t", "-f", "ACTIVE,SSID,SIGNAL,SECURITY", "dev", "wifi")
}

// Ethernet reports wired devices known to NetworkManager.
func (r *Resolver) Ethernet(ctx context.Context) Summary {
	return r.nmcli(ctx, ParseEthernet, "-t", "-f", "DEVICE,TYPE,STATE,CONNECTION", "dev")
}

// VPN reports active tunnel connections.
func (r *Resolver) VPN(ctx context.Context) Summary {
	return r.nmcli(ctx, ParseVPN, "-t", "-f", "NAME,TYPE,STATE", "con", "show", "--active")
}

// Connectivity runs every connectivity probe.
func (r *Resolver) Connectivity(ctx context.Context) Connectivity {
	return Connectivity{
		Firewall: r.Firewall(ctx),
		WiFi:     r.WiFi(ctx),
		Ethernet: r.Ethernet(ctx),
		DNS:      r.DNS(ctx),
		VPN:      r.VPN(ctx),
	}
}
