package probe

import (
	"context"
	"strings"
)

// ResolvConf is the resolver configuration file.
const ResolvConf = "/etc/resolv.conf"

// NotConfigured is shown for an empty nameserver family.
const NotConfigured = "Not configured"

// DNSConfig is the parsed content of a resolv.conf file.
type DNSConfig struct {
	IPv4          []string
	IPv6          []string
	SearchDomains []string
	Options       []string
}

// ParseResolvConf reads nameserver, search and options directives.
// Nameservers containing ':' are IPv6.
func ParseResolvConf(text string) DNSConfig {
	var cfg DNSConfig
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") || strings.HasPrefix(fields[0], ";") {
			continue
		}
		switch fields[0] {
		case "nameserver":
			if len(fields) < 2 {
				continue
			}
			if strings.Contains(fields[1], ":") {
				cfg.IPv6 = append(cfg.IPv6, fields[1])
			} else {
				cfg.IPv4 = append(cfg.IPv4, fields[1])
			}
		case "search":
			cfg.SearchDomains = append(cfg.SearchDomains, fields[1:]...)
		case "options":
			cfg.Options = append(cfg.Options, fields[1:]...)
		}
	}
	return cfg
}

// Summary renders the configuration. Both nameserver rows are always
// present once anything is configured.
func (c DNSConfig) Summary() Summary {
	if len(c.IPv4) == 0 && len(c.IPv6) == 0 && len(c.SearchDomains) == 0 {
		return Summary{Status: StatusNoDNS}
	}
	s := Summary{
		Status: "Configured",
		Details: []KeyValue{
			{Key: "Nameserver IPv4", Value: joinOr(c.IPv4, NotConfigured)},
			{Key: "Nameserver IPv6", Value: joinOr(c.IPv6, NotConfigured)},
		},
	}
	if len(c.SearchDomains) > 0 {
		s.Details = append(s.Details, KeyValue{Key: "Search Domains", Value: strings.Join(c.SearchDomains, ", ")})
	}
	if len(c.Options) > 0 {
		s.Details = append(s.Details, KeyValue{Key: "Options", Value: strings.Join(c.Options, ", ")})
	}
	return s
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

// DNS reports the system resolver configuration.
func (r *Resolver) DNS(ctx context.Context) Summary {
	text, err := r.runner.ReadFile(ResolvConf)
	if err != nil {
		r.log.Debug().Err(err).Msg("reading resolv.conf")
		return Summary{Status: StatusInfoMissing}
	}
	return ParseResolvConf(text).Summary()
}
