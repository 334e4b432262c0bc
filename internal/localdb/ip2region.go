package localdb

import (
	"strings"

	"github.com/lionsoul2014/ip2region/binding/golang/xdb"
)

// IP2Region：ip2region xdb 文件查询（按文件读取，不整体载入内存）
type IP2Region struct {
	v4 *xdb.Searcher
}

func NewIP2Region(v4Path string) (*IP2Region, error) {
	s, err := xdb.NewWithFileOnly(xdb.IPv4, v4Path)
	if err != nil {
		return nil, err
	}
	return &IP2Region{v4: s}, nil
}

func (c *IP2Region) Lookup(ip string) (Location, bool) {
	if c == nil || c.v4 == nil || ip == "" {
		return Location{}, false
	}
	region, err := c.v4.SearchByStr(ip)
	if err != nil || region == "" {
		return Location{}, false
	}
	l := parseRegion(region)
	if l.Country == "" && l.City == "" && l.ISP == "" {
		return Location{}, false
	}
	return l, true
}

func (c *IP2Region) Close() {
	if c != nil && c.v4 != nil {
		c.v4.Close()
	}
}

// parseRegion：国家|区域|省份|城市|ISP
func parseRegion(s string) Location {
	parts := strings.Split(s, "|")
	var l Location
	if len(parts) > 0 {
		l.Country = safe(parts[0])
	}
	if len(parts) > 1 {
		l.Region = safe(parts[1])
	}
	if len(parts) > 2 {
		l.Province = safe(parts[2])
	}
	if len(parts) > 3 {
		l.City = safe(parts[3])
	}
	if len(parts) > 4 {
		l.ISP = safe(parts[4])
	}
	return l
}

func safe(s string) string {
	if s == "0" || s == "" || strings.EqualFold(s, "unknown") {
		return ""
	}
	return s
}
