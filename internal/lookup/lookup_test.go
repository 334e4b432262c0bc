package lookup

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osint-api/internal/config"
	"osint-api/internal/localdb"
	"osint-api/internal/sources"
	"osint-api/internal/upstream"
)

func newService(t *testing.T, h http.Handler) (*Service, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	base := srv.URL
	return &Service{Env: sources.Env{
		HTTP: upstream.New(2 * time.Second),
		Upstreams: config.Upstreams{
			IPAPI:      base + "/ipapi",
			IPWhois:    base + "/ipwhois",
			IPQuality:  base + "/ipquality",
			IFSC:       base + "/ifsc",
			DoH:        base + "/dns-query",
			MACVendors: base + "/mac",
			CallTracer: base + "/calltracer",
			VahanX:     base + "/vahanx",
		},
		DesktopUA: config.DefaultDesktopUA,
		MobileUA:  config.DefaultMobileUA,
		APIUA:     config.DefaultAPIUA,
		MinFields: 2,
	}}, &hits
}

type memCache struct {
	mu sync.Mutex
	m  map[string]*Result
}

func (c *memCache) Get(_ context.Context, k string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.m[k]
	return r, ok
}

func (c *memCache) Set(_ context.Context, k string, r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = map[string]*Result{}
	}
	c.m[k] = r
}

type memStats struct {
	mu       sync.Mutex
	outcomes []string
	recent   []string
}

func (s *memStats) IncrStats(_ context.Context, kind, outcome string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, kind+":"+outcome)
	return nil
}

func (s *memStats) RecordRecent(_ context.Context, ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = append(s.recent, ip)
	return nil
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind(" IFSC ")
	assert.True(t, ok)
	assert.Equal(t, KindIFSC, k)
	_, ok = ParseKind("foo")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		kind Kind
		in   string
		want string
	}{
		{KindPhone, "+91 98765-43210", "9876543210"},
		{KindVehicle, "mh12 ab 1234", "MH12AB1234"},
		{KindChallan, "dl-3c-ab-1234", "DL3CAB1234"},
		{KindVehicle, "DL 3C AB 1234", "DL3CAB1234"},
		{KindIFSC, "sbin0001234", "SBIN0001234"},
		{KindRTO, "mh01", "MH01"},
		{KindDomain, "https://www.Example.com/about", "example.com"},
		{KindUsername, "@johndoe", "johndoe"},
		{KindIP, "2001:db8::0001", "2001:db8::1"},
		{KindMAC, "00:1A:2B:3C:4D:5E", "00:1A:2B:3C:4D:5E"},
		{KindCrypto, "anything", "anything"},
	}
	for _, c := range cases {
		got, err := Normalize(c.kind, c.in)
		require.NoError(t, err, "%s %q", c.kind, c.in)
		assert.Equal(t, c.want, got)
	}

	rejects := []struct {
		kind Kind
		in   string
	}{
		{KindVehicle, "AB12"},
		{KindIFSC, "SBIN001234"},
		{KindPhone, "12345"},
		{KindEmail, "not-an-email"},
		{KindIP, "999.1.1.1"},
		{KindMAC, "zz:zz"},
		{KindDL, "12"},
		{KindCrypto, "   "},
	}
	for _, c := range rejects {
		_, err := Normalize(c.kind, c.in)
		e := AsError(err)
		assert.Equal(t, CodeInvalidInput, e.Code, "%s %q", c.kind, c.in)
		assert.Equal(t, http.StatusBadRequest, e.Status())
	}
}

func TestDispatchRejectsBeforeNetwork(t *testing.T) {
	s, hits := newService(t, http.NotFoundHandler())
	ctx := context.Background()

	_, err := s.Dispatch(ctx, "foo", "bar")
	e := AsError(err)
	assert.Equal(t, CodeUnknownKind, e.Code)
	assert.Equal(t, "Invalid lookup type", e.Message)

	_, err = s.Dispatch(ctx, "vehicle", "AB12")
	assert.Equal(t, CodeInvalidInput, AsError(err).Code)

	_, err = s.Dispatch(ctx, "", "")
	assert.Equal(t, "Missing type or query parameter", AsError(err).Message)

	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestDispatchVehicleEchoOnly(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vahanx/rc-search/MH12ZZ0000", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<p>MH12ZZ0000</p>`)
	})
	s, _ := newService(t, mux)
	_, err := s.Dispatch(context.Background(), "vehicle", "mh12 zz 0000")
	e := AsError(err)
	assert.Equal(t, CodeNotFound, e.Code)
	assert.Equal(t, http.StatusNotFound, e.Status())
	assert.Contains(t, e.Message, "No vehicle data found")
}

func TestDispatchUpstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	s, _ := newService(t, mux)
	s.Env.Upstreams.IFSC = "http://127.0.0.1:1"
	_, err := s.Dispatch(context.Background(), "ifsc", "SBIN0001234")
	e := AsError(err)
	assert.Equal(t, CodeUpstream, e.Code)
	assert.Equal(t, "IFSC lookup failed: upstream service unavailable", e.Message)
	assert.Equal(t, http.StatusBadGateway, e.Status())
}

func TestDispatchLocalKinds(t *testing.T) {
	s, hits := newService(t, http.NotFoundHandler())
	st := &memStats{}
	s.Stats = st
	ctx := context.Background()

	res, err := s.Dispatch(ctx, "crypto", "0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	require.NoError(t, err)
	assert.Equal(t, "Ethereum", res.Data.Value("Blockchain"))
	assert.False(t, res.Degraded)

	res, err = s.Dispatch(ctx, "crypto", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Unknown format", res.Data.Value("Format Valid"))

	res, err = s.Dispatch(ctx, "rto", "KA05")
	require.NoError(t, err)
	assert.True(t, res.Degraded)

	res, err = s.Dispatch(ctx, "username", "johndoe")
	require.NoError(t, err)
	assert.Contains(t, res.Data.Value("Profile URLs"), "GitHub: https://github.com/johndoe")

	assert.Zero(t, atomic.LoadInt32(hits))
	assert.Equal(t, []string{"crypto:ok", "crypto:ok", "rto:degraded", "username:ok"}, st.outcomes)
}

type fixedLocator struct{ loc localdb.Location }

func (f fixedLocator) Lookup(string) (localdb.Location, bool) { return f.loc, true }

func ipMux(whoisOK bool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ipapi/8.8.8.8/json/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ip":"8.8.8.8","city":"Mountain View","region":"California","country_name":"United States","country_code":"US","postal":"94043","latitude":37.42301,"longitude":-122.083352,"timezone":"America/Los_Angeles","org":"GOOGLE","asn":"AS15169"}`)
	})
	mux.HandleFunc("/ipwhois/8.8.8.8", func(w http.ResponseWriter, r *http.Request) {
		if !whoisOK {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"country":"United States","city":"Mountain View","is_mobile":false,"connection":{"isp":"Google LLC","org":"Google LLC","asn":15169,"domain":"google.com"}}`)
	})
	mux.HandleFunc("/ipquality/8.8.8.8", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"proxy":false,"vpn":true,"tor":false,"fraud_score":80,"bot_status":false,"recent_abuse":false}`)
	})
	return mux
}

func TestDispatchIPMerge(t *testing.T) {
	s, hits := newService(t, ipMux(true))
	cache := &memCache{}
	st := &memStats{}
	s.Cache = cache
	s.Stats = st
	s.GeoLite = fixedLocator{localdb.Location{Country: "United States", City: "Mountain View", TimeZone: "America/Los_Angeles"}}
	ctx := context.Background()

	res, err := s.Dispatch(ctx, "ip", "8.8.8.8")
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	d := res.Data
	assert.Equal(t, "8.8.8.8", d.Value("IP Address"))
	assert.Equal(t, "United States", d.Value("Country"))
	assert.Equal(t, "GOOGLE", d.Value("ISP"))
	assert.Equal(t, "Google LLC", d.Value("Organization"))
	assert.Equal(t, "google.com", d.Value("Domain"))
	assert.Equal(t, "37.42301", d.Value("Latitude"))
	assert.Equal(t, "37.42301, -122.083352", d.Value("Coordinates"))
	assert.Equal(t, "Yes", d.Value("VPN Detected"))
	assert.Equal(t, "No", d.Value("Proxy Detected"))
	assert.Equal(t, "High", d.Value("Threat Level"))
	assert.Equal(t, "Public", d.Value("Address Type"))
	assert.Equal(t, "None detected", d.Value("Threat Type"))
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))

	again, err := s.Dispatch(ctx, "ip", "8.8.8.8")
	require.NoError(t, err)
	assert.Same(t, res, again)
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
	assert.Equal(t, []string{"8.8.8.8", "8.8.8.8"}, st.recent)
}

func TestDispatchIPDegraded(t *testing.T) {
	s, _ := newService(t, ipMux(false))
	cache := &memCache{}
	s.Cache = cache
	s.IP2Region = fixedLocator{localdb.Location{Country: "美国", ISP: "谷歌"}}

	res, err := s.Dispatch(context.Background(), "ip", "8.8.8.8")
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, "United States", res.Data.Value("Country"))
	assert.Equal(t, "No", res.Data.Value("Data Center"))
	assert.Empty(t, cache.m)
}
