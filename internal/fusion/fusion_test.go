package fusion

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	p := Flatten(map[string]any{
		"country":   "India",
		"latitude":  37.386,
		"success":   true,
		"empty":     "",
		"missing":   nil,
		"languages": []any{"en", "hi"},
		"security":  map[string]any{"is_vpn": false},
	})
	assert.Equal(t, "India", p["country"])
	assert.Equal(t, "37.386", p["latitude"])
	assert.Equal(t, "true", p["success"])
	assert.Equal(t, "en, hi", p["languages"])
	assert.Equal(t, "false", p["security.is_vpn"])
	_, ok := p.Get("empty")
	assert.False(t, ok)
	_, ok = p.Get("missing")
	assert.False(t, ok)
}

func TestResolvePrecedence(t *testing.T) {
	s := Sources{
		ProviderIPAPI:   {"country_name": "India"},
		ProviderIPWhois: {"country": "IN", "city": "Mumbai"},
	}
	rec := Resolve("1.2.3.4", s)
	assert.Equal(t, "India", rec.Value("Country"))
	assert.Equal(t, "Mumbai", rec.Value("City"))
	assert.Equal(t, NA, rec.Value("Postal/ZIP Code"))
	assert.Equal(t, "1.2.3.4", rec.Value("IP Address"))
	assert.Equal(t, "Public", rec.Value("Address Type"))
}

func TestResolveFallsThroughOnlyWhenAbsent(t *testing.T) {
	s := Sources{
		ProviderIPWhois:   {"country": "India"},
		ProviderGeoLite:   {"country": "Germany"},
		ProviderIP2Region: {"country": "中国"},
	}
	assert.Equal(t, "India", Resolve("1.2.3.4", s).Value("Country"))

	s = Sources{ProviderIP2Region: {"country": "中国", "isp": "电信"}}
	rec := Resolve("1.2.3.4", s)
	assert.Equal(t, "中国", rec.Value("Country"))
	assert.Equal(t, "电信", rec.Value("ISP"))
}

func TestResolveCoordinates(t *testing.T) {
	s := Sources{
		ProviderIPAPI:   {"latitude": "37.386"},
		ProviderIPWhois: {"latitude": "37.4", "longitude": "-122.08"},
	}
	rec := Resolve("8.8.8.8", s)
	assert.Equal(t, "37.4", rec.Value("Latitude"))
	assert.Equal(t, "-122.08", rec.Value("Longitude"))
	assert.Equal(t, "37.4, -122.08", rec.Value("Coordinates"))

	rec = Resolve("8.8.8.8", Sources{})
	assert.Equal(t, NA, rec.Value("Coordinates"))
	assert.Equal(t, NA, rec.Value("Latitude"))
}

func TestResolveEveryFieldOnce(t *testing.T) {
	rec := Resolve("8.8.8.8", Sources{})
	keys := rec.Keys()
	seen := map[string]bool{}
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate %s", k)
		seen[k] = true
	}
	assert.Equal(t, len(IPRules)+3, len(keys))
	assert.Equal(t, "IP Address", keys[0])
	assert.Equal(t, "None detected", rec.Value("Threat Type"))
	assert.Equal(t, "Unknown", rec.Value("Threat Level"))
	assert.Equal(t, "No", rec.Value("Proxy Detected"))
	assert.Equal(t, "Not detected", rec.Value("Bot Status"))
}

func TestResolveSecurityFlags(t *testing.T) {
	// ipquality 与 ipwho.is 任一报告为 true 即为 Yes
	s := Sources{
		ProviderIPQuality: {"vpn": "false", "proxy": "true"},
		ProviderIPWhois:   {"security.is_vpn": "true", "security.is_tor": "true"},
	}
	rec := Resolve("1.1.1.1", s)
	assert.Equal(t, "Yes", rec.Value("VPN Detected"))
	assert.Equal(t, "Yes", rec.Value("Proxy Detected"))
	assert.Equal(t, "Yes", rec.Value("Tor Exit Node"))

	// ipquality 失败时的默认值不会遮盖 ipwho.is 的检测结果
	s = Sources{
		ProviderIPQuality: {"proxy": "false", "vpn": "false", "tor": "false", "fraud_score": "0", "bot_status": "false", "recent_abuse": "false"},
		ProviderIPWhois:   {"security.is_vpn": "true", "security.is_proxy": "true", "security.is_tor": "true"},
	}
	rec = Resolve("5.6.7.8", s)
	assert.Equal(t, "Yes", rec.Value("VPN Detected"))
	assert.Equal(t, "Yes", rec.Value("Proxy Detected"))
	assert.Equal(t, "Yes", rec.Value("Tor Exit Node"))

	rec = Resolve("5.6.7.8", Sources{ProviderIPQuality: {"vpn": "false"}, ProviderIPWhois: {"security.is_vpn": "false"}})
	assert.Equal(t, "No", rec.Value("VPN Detected"))

	rec = Resolve("1.1.1.1", Sources{ProviderIPAPI: {"mobile": "true"}, ProviderIPWhois: {"is_mobile": "false"}})
	assert.Equal(t, "Yes", rec.Value("Mobile Network"))
}

func TestResolveDomainFromOrg(t *testing.T) {
	rec := Resolve("8.8.8.8", Sources{ProviderIPAPI: {"org": "GOOGLE LLC"}})
	assert.Equal(t, "google", rec.Value("Domain"))
	assert.Equal(t, "GOOGLE LLC", rec.Value("ISP"))

	rec = Resolve("8.8.8.8", Sources{ProviderIPAPI: {"org": "GOOGLE LLC"}, ProviderIPWhois: {"connection.domain": "google.com"}})
	assert.Equal(t, "google.com", rec.Value("Domain"))
}

func TestThreatLevel(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	cases := []struct {
		score *float64
		want  string
	}{
		{nil, "Unknown"},
		{f(0), "Minimal"},
		{f(24.9), "Minimal"},
		{f(25), "Low"},
		{f(50), "Medium"},
		{f(74), "Medium"},
		{f(75), "High"},
		{f(84), "High"},
		{f(85), "Critical"},
		{f(100), "Critical"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ThreatLevel(c.score))
	}
	assert.Equal(t, "High", Resolve("1.1.1.1", Sources{ProviderIPQuality: {"fraud_score": "80"}}).Value("Threat Level"))
}

func TestAddressType(t *testing.T) {
	assert.Equal(t, "Private (Class A)", AddressType("10.0.0.1"))
	assert.Equal(t, "Private (Class B)", AddressType("172.16.5.4"))
	assert.Equal(t, "Public", AddressType("172.32.0.1"))
	assert.Equal(t, "Private (Class C)", AddressType("192.168.1.1"))
	assert.Equal(t, "Loopback", AddressType("127.0.0.1"))
	assert.Equal(t, "Link-Local", AddressType("169.254.10.1"))
	assert.Equal(t, "Multicast", AddressType("224.0.0.1"))
	assert.Equal(t, "Public", AddressType("8.8.8.8"))
	assert.Equal(t, "IPv6 or Invalid", AddressType("2001:db8::1"))
}

func TestGatherWaitsForAll(t *testing.T) {
	var calls int32
	fetchers := []Fetcher{
		{Provider: ProviderIPAPI, Fetch: func(ctx context.Context) (Partial, error) {
			atomic.AddInt32(&calls, 1)
			return Partial{"country_name": "India"}, nil
		}},
		{Provider: ProviderIPWhois, Fetch: func(ctx context.Context) (Partial, error) {
			atomic.AddInt32(&calls, 1)
			return nil, errors.New("down")
		}},
		{Provider: ProviderIPQuality, Fetch: func(ctx context.Context) (Partial, error) {
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&calls, 1)
			return Partial{"fraud_score": "0"}, nil
		}},
	}
	srcs, outs := Gather(context.Background(), fetchers)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.Len(t, outs, 3)
	assert.Equal(t, ProviderIPWhois, outs[1].Provider)
	assert.Error(t, outs[1].Err)
	assert.Contains(t, srcs, ProviderIPAPI)
	assert.Contains(t, srcs, ProviderIPQuality)
	assert.NotContains(t, srcs, ProviderIPWhois)
}
