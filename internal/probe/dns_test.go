package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResolvConf(t *testing.T) {
	cfg := ParseResolvConf("nameserver 8.8.8.8\nnameserver 2001:4860:4860::8888\nsearch example.com\n")
	assert.Equal(t, []string{"8.8.8.8"}, cfg.IPv4)
	assert.Equal(t, []string{"2001:4860:4860::8888"}, cfg.IPv6)
	assert.Equal(t, []string{"example.com"}, cfg.SearchDomains)
	assert.Empty(t, cfg.Options)
}

func TestParseResolvConfCommentsAndOptions(t *testing.T) {
	text := "# Generated by NetworkManager\n; old style comment\nnameserver 127.0.0.53\noptions edns0 trust-ad\nsearch lan home.arpa\n"
	cfg := ParseResolvConf(text)
	assert.Equal(t, []string{"127.0.0.53"}, cfg.IPv4)
	assert.Empty(t, cfg.IPv6)
	assert.Equal(t, []string{"lan", "home.arpa"}, cfg.SearchDomains)
	assert.Equal(t, []string{"edns0", "trust-ad"}, cfg.Options)
}

func TestDNSSummaryAlwaysHasBothFamilies(t *testing.T) {
	s := ParseResolvConf("nameserver 127.0.0.53\noptions edns0\n").Summary()
	assert.Equal(t, "Configured", s.Status)
	assert.Equal(t, []KeyValue{
		{Key: "Nameserver IPv4", Value: "127.0.0.53"},
		{Key: "Nameserver IPv6", Value: NotConfigured},
		{Key: "Options", Value: "edns0"},
	}, s.Details)

	s = ParseResolvConf("nameserver 8.8.8.8\nnameserver 2001:4860:4860::8888\nsearch example.com\n").Summary()
	assert.Equal(t, []KeyValue{
		{Key: "Nameserver IPv4", Value: "8.8.8.8"},
		{Key: "Nameserver IPv6", Value: "2001:4860:4860::8888"},
		{Key: "Search Domains", Value: "example.com"},
	}, s.Details)
}

func TestDNSSummaryEmpty(t *testing.T) {
	s := ParseResolvConf("# nothing here\n").Summary()
	assert.Equal(t, StatusNoDNS, s.Status)
	assert.Empty(t, s.Details)
}

func TestResolverDNSUnreadable(t *testing.T) {
	r, mock := newTestResolver(t)
	mock.EXPECT().ReadFile(ResolvConf).Return("", errors.New("permission denied"))

	assert.Equal(t, StatusInfoMissing, r.DNS(context.Background()).Status)
}
