package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("UPSTREAM_TIMEOUT_MS", "")
	t.Setenv("SCRAPE_MIN_FIELDS", "")
	c := Load()
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "/api", c.APIBase)
	assert.Equal(t, 8*time.Second, c.UpstreamTimeout)
	assert.Equal(t, 3*time.Second, c.VisitorIPTimeout)
	assert.Equal(t, 2, c.MinScrapedFields)
	assert.Equal(t, time.Duration(0), c.IPCacheTTL)
	assert.Equal(t, "https://ipapi.co", c.Upstreams.IPAPI)
	assert.True(t, c.AdminAllowLocal)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT_MS", "2500")
	t.Setenv("SCRAPE_MIN_FIELDS", "0")
	t.Setenv("REDIS_ENABLE", "true")
	t.Setenv("IP_CACHE_TTL_SECONDS", "60")
	t.Setenv("ADMIN_ALLOW_CIDRS", "10.0.0.0/8, ,192.168.0.0/16")
	t.Setenv("RATE_LIMIT_QPS", "-3")
	c := Load()
	assert.Equal(t, 2500*time.Millisecond, c.UpstreamTimeout)
	assert.Equal(t, 1, c.MinScrapedFields)
	assert.True(t, c.RedisEnable)
	assert.Equal(t, time.Minute, c.IPCacheTTL)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.0.0/16"}, c.AdminAllowCIDRs)
	assert.Equal(t, 20.0, c.RateLimitQPS)
}
