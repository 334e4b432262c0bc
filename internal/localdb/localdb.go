// 包 localdb：本地离线 IP 库（ip2region / GeoLite2），作为在线来源全部缺席时的补位
package localdb

import (
	"sync/atomic"
)

// Location：离线库查询结果；空串表示该库不提供此字段
type Location struct {
	Country     string
	CountryCode string
	Region      string
	Province    string
	City        string
	ISP         string
	Postal      string
	TimeZone    string
	Latitude    string
	Longitude   string
}

// Partial：转换为合并层使用的扁平键
// 约束：键名与在线来源保持一致（country/region/city/...），以便复用同一条规则链。
func (l Location) Partial() map[string]string {
	out := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set("country", l.Country)
	set("country_code", l.CountryCode)
	region := l.Province
	if region == "" {
		region = l.Region
	}
	set("region", region)
	set("city", l.City)
	set("isp", l.ISP)
	set("postal", l.Postal)
	set("timezone", l.TimeZone)
	if l.Latitude != "" && l.Longitude != "" {
		set("latitude", l.Latitude)
		set("longitude", l.Longitude)
	}
	return out
}

// Locator：离线库的统一查询接口
type Locator interface {
	Lookup(ip string) (Location, bool)
}

// Chain：按顺序查询多个离线库，首个命中即返回
type Chain struct {
	list []Locator
}

func NewChain(list ...Locator) *Chain {
	return &Chain{list: list}
}

func (c *Chain) Lookup(ip string) (Location, bool) {
	for _, s := range c.list {
		if s == nil {
			continue
		}
		if l, ok := s.Lookup(ip); ok {
			return l, true
		}
	}
	return Location{}, false
}

// 文档注释：可热切换的离线库包装器
// 背景：入口在后台加载离线库文件，加载完成后 Set；加载前查询一律未命中，不阻塞服务启动。
type Dynamic struct{ v atomic.Value }

type holder struct{ l Locator }

func (d *Dynamic) Lookup(ip string) (Location, bool) {
	x, _ := d.v.Load().(holder)
	if x.l == nil {
		return Location{}, false
	}
	return x.l.Lookup(ip)
}

// Set：切换当前实现；传入 nil 等价于停用
func (d *Dynamic) Set(l Locator) { d.v.Store(holder{l: l}) }

// Ready：是否已设置可用实现
func (d *Dynamic) Ready() bool {
	x, _ := d.v.Load().(holder)
	return x.l != nil
}
