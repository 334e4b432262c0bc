package fusion

import (
	"strings"
)

// NA：全部来源缺席时的占位值
const NA = "N/A"

// Ref：某数据源的某字段
type Ref struct {
	Provider Provider
	Key      string
}

func ref(p Provider, key string) Ref { return Ref{Provider: p, Key: key} }

// FlagMode：布尔字段的合并方式
type FlagMode int

const (
	// FirstReported：链上首个“报告了该字段”的来源决定结果（即使为 false）
	FirstReported FlagMode = iota
	// AnyTrue：链上任一来源为 true 即为真
	AnyTrue
)

// Flag：布尔字段的输出标签
type Flag struct {
	Mode FlagMode
	Yes  string
	No   string
}

// Rule：一个输出字段的合并规则
// 约束：Chain 自左向右求值，首个非缺席值胜出；Derive 在 Chain 全部缺席后求值；仍缺席时输出 Default（空则为 N/A）。
type Rule struct {
	Field   string
	Chain   []Ref
	Flag    *Flag
	Derive  func(ip string, s Sources) (string, bool)
	Default string
}

var (
	yesNo    = &Flag{Mode: FirstReported, Yes: "Yes", No: "No"}
	anyYesNo = &Flag{Mode: AnyTrue, Yes: "Yes", No: "No"}
)

// coordinateOrder：经纬度取值顺序；须同时具备纬度与经度
var coordinateOrder = []Provider{ProviderIPAPI, ProviderIPWhois, ProviderIPQuality, ProviderGeoLite}

// 文档注释：IP 合并规则表（声明式）
// 背景：字段顺序即输出顺序；本地离线来源只追加在链尾，仅在全部在线来源缺席时补位。
// 约束：Latitude/Longitude/Coordinates 由 coordinateOrder 单独求值，不在此表中。
var IPRules = []Rule{
	{Field: "IP Address", Derive: func(ip string, _ Sources) (string, bool) { return ip, ip != "" }},
	{Field: "Country", Chain: []Ref{ref(ProviderIPAPI, "country_name"), ref(ProviderIPWhois, "country"), ref(ProviderGeoLite, "country"), ref(ProviderIP2Region, "country")}},
	{Field: "Country Code", Chain: []Ref{ref(ProviderIPAPI, "country_code"), ref(ProviderIPWhois, "country_code"), ref(ProviderGeoLite, "country_code")}},
	{Field: "Region", Chain: []Ref{ref(ProviderIPAPI, "region"), ref(ProviderIPWhois, "region"), ref(ProviderGeoLite, "region"), ref(ProviderIP2Region, "region")}},
	{Field: "District", Chain: []Ref{ref(ProviderIPWhois, "district"), ref(ProviderIPAPI, "region")}},
	{Field: "City", Chain: []Ref{ref(ProviderIPAPI, "city"), ref(ProviderIPWhois, "city"), ref(ProviderGeoLite, "city"), ref(ProviderIP2Region, "city")}},
	{Field: "Postal/ZIP Code", Chain: []Ref{ref(ProviderIPAPI, "postal"), ref(ProviderIPWhois, "zipcode"), ref(ProviderIPWhois, "postal"), ref(ProviderGeoLite, "postal")}},
	{Field: "ISP", Chain: []Ref{ref(ProviderIPAPI, "org"), ref(ProviderIPWhois, "isp"), ref(ProviderIPWhois, "connection.isp"), ref(ProviderIPQuality, "ISP"), ref(ProviderIP2Region, "isp")}},
	{Field: "Organization", Chain: []Ref{ref(ProviderIPWhois, "org"), ref(ProviderIPWhois, "connection.org"), ref(ProviderIPAPI, "org")}},
	{Field: "ASN", Chain: []Ref{ref(ProviderIPAPI, "asn"), ref(ProviderIPWhois, "asn"), ref(ProviderIPWhois, "connection.asn")}},
	{Field: "AS", Chain: []Ref{ref(ProviderIPWhois, "as"), ref(ProviderIPAPI, "asn")}},
	{Field: "Domain", Chain: []Ref{ref(ProviderIPWhois, "domain"), ref(ProviderIPWhois, "connection.domain")}, Derive: orgDomain},
	{Field: "Net Speed", Chain: []Ref{ref(ProviderIPWhois, "connection_type"), ref(ProviderIPQuality, "connection_type")}},
	{Field: "Address Type", Derive: func(ip string, _ Sources) (string, bool) { return AddressType(ip), true }},
	{Field: "Usage Type", Chain: []Ref{ref(ProviderIPWhois, "usage_type"), ref(ProviderIPQuality, "usage_type")}},
	{Field: "Time Zone", Chain: []Ref{ref(ProviderIPAPI, "timezone"), ref(ProviderIPWhois, "timezone"), ref(ProviderIPWhois, "timezone.id"), ref(ProviderGeoLite, "timezone")}},
	{Field: "UTC Offset", Chain: []Ref{ref(ProviderIPAPI, "utc_offset")}},
	{Field: "Area Code", Chain: []Ref{ref(ProviderIPWhois, "area_code")}},
	{Field: "IDD Code", Chain: []Ref{ref(ProviderIPWhois, "calling_code"), ref(ProviderIPAPI, "country_calling_code")}},
	{Field: "Elevation", Chain: []Ref{ref(ProviderIPWhois, "elevation")}},
	{Field: "Weather Station", Chain: []Ref{ref(ProviderIPWhois, "weather_station_code")}},
	{Field: "Currency", Chain: []Ref{ref(ProviderIPAPI, "currency"), ref(ProviderIPWhois, "currency.code")}},
	{Field: "Languages", Chain: []Ref{ref(ProviderIPAPI, "languages"), ref(ProviderIPWhois, "languages")}},
	{Field: "Proxy Detected", Chain: []Ref{ref(ProviderIPQuality, "proxy"), ref(ProviderIPWhois, "security.is_proxy")}, Flag: anyYesNo},
	{Field: "Proxy Type", Chain: []Ref{ref(ProviderIPQuality, "proxy_type"), ref(ProviderIPWhois, "security.proxy_type")}},
	{Field: "VPN Detected", Chain: []Ref{ref(ProviderIPQuality, "vpn"), ref(ProviderIPWhois, "security.is_vpn")}, Flag: anyYesNo},
	{Field: "Tor Exit Node", Chain: []Ref{ref(ProviderIPQuality, "tor"), ref(ProviderIPWhois, "security.is_tor")}, Flag: anyYesNo},
	{Field: "Residential Proxy", Chain: []Ref{ref(ProviderIPQuality, "is_residential_proxy")}, Flag: yesNo},
	{Field: "Fraud Score", Chain: []Ref{ref(ProviderIPQuality, "fraud_score")}},
	{Field: "Threat Level", Derive: func(_ string, s Sources) (string, bool) { return ThreatLevel(FraudScore(s)), true }},
	{Field: "Threat Type", Chain: []Ref{ref(ProviderIPQuality, "threat_type")}, Default: "None detected"},
	{Field: "Bot Status", Chain: []Ref{ref(ProviderIPQuality, "bot_status")}, Flag: &Flag{Mode: FirstReported, Yes: "Detected", No: "Not detected"}},
	{Field: "Recent Abuse", Chain: []Ref{ref(ProviderIPQuality, "recent_abuse")}, Flag: yesNo},
	{Field: "Mobile Network", Chain: []Ref{ref(ProviderIPWhois, "is_mobile"), ref(ProviderIPAPI, "mobile")}, Flag: anyYesNo},
	{Field: "Hosting Provider", Chain: []Ref{ref(ProviderIPWhois, "is_hosting")}, Flag: yesNo},
	{Field: "Data Center", Chain: []Ref{ref(ProviderIPWhois, "is_datacenter")}, Flag: yesNo},
}

// orgDomain：由 ipapi 的 org 首词推断域名
func orgDomain(_ string, s Sources) (string, bool) {
	org, ok := s[ProviderIPAPI].Get("org")
	if !ok {
		return "", false
	}
	f := strings.Fields(org)
	if len(f) == 0 {
		return "", false
	}
	return strings.ToLower(f[0]), true
}
