package localdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixed map[string]Location

func (f fixed) Lookup(ip string) (Location, bool) {
	l, ok := f[ip]
	return l, ok
}

func TestParseRegion(t *testing.T) {
	l := parseRegion("中国|0|广东省|深圳市|电信")
	assert.Equal(t, "中国", l.Country)
	assert.Equal(t, "", l.Region)
	assert.Equal(t, "广东省", l.Province)
	assert.Equal(t, "深圳市", l.City)
	assert.Equal(t, "电信", l.ISP)

	l = parseRegion("美国|Unknown")
	assert.Equal(t, "美国", l.Country)
	assert.Equal(t, "", l.Region)
}

func TestLocationPartial(t *testing.T) {
	p := Location{Country: "India", Region: "MH", Province: "Maharashtra", Latitude: "19.07"}.Partial()
	assert.Equal(t, "Maharashtra", p["region"])
	assert.Equal(t, "India", p["country"])
	_, ok := p["latitude"]
	assert.False(t, ok, "latitude without longitude is dropped")
	_, ok = p["city"]
	assert.False(t, ok)
}

func TestChainFirstHit(t *testing.T) {
	a := fixed{"1.1.1.1": {Country: "A"}}
	b := fixed{"1.1.1.1": {Country: "B"}, "2.2.2.2": {Country: "B2"}}
	c := NewChain(nil, a, b)

	l, ok := c.Lookup("1.1.1.1")
	assert.True(t, ok)
	assert.Equal(t, "A", l.Country)
	l, ok = c.Lookup("2.2.2.2")
	assert.True(t, ok)
	assert.Equal(t, "B2", l.Country)
	_, ok = c.Lookup("3.3.3.3")
	assert.False(t, ok)
}

func TestDynamicSwitch(t *testing.T) {
	var d Dynamic
	assert.False(t, d.Ready())
	_, ok := d.Lookup("1.1.1.1")
	assert.False(t, ok)

	d.Set(fixed{"1.1.1.1": {Country: "X"}})
	assert.True(t, d.Ready())
	l, ok := d.Lookup("1.1.1.1")
	assert.True(t, ok)
	assert.Equal(t, "X", l.Country)

	d.Set(nil)
	assert.False(t, d.Ready())
}

func TestNilReaders(t *testing.T) {
	var g *GeoLite
	_, ok := g.Lookup("8.8.8.8")
	assert.False(t, ok)
	var r *IP2Region
	_, ok = r.Lookup("8.8.8.8")
	assert.False(t, ok)
}
