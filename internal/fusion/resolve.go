package fusion

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"osint-api/internal/record"
)

// FirstPresent：沿链返回首个非缺席值
func FirstPresent(s Sources, chain []Ref) (string, bool) {
	for _, r := range chain {
		if v, ok := s[r.Provider].Get(r.Key); ok {
			return v, true
		}
	}
	return "", false
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func resolveFlag(s Sources, chain []Ref, f *Flag) string {
	if f.Mode == AnyTrue {
		for _, r := range chain {
			if v, ok := s[r.Provider].Get(r.Key); ok && truthy(v) {
				return f.Yes
			}
		}
		return f.No
	}
	if v, ok := FirstPresent(s, chain); ok && truthy(v) {
		return f.Yes
	}
	return f.No
}

// FraudScore：读取 ipquality 的欺诈分；缺席或无法解析时返回 nil
func FraudScore(s Sources) *float64 {
	v, ok := s[ProviderIPQuality].Get("fraud_score")
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil
	}
	return &f
}

// ThreatLevel：欺诈分到威胁等级
func ThreatLevel(score *float64) string {
	if score == nil {
		return "Unknown"
	}
	switch s := *score; {
	case s >= 85:
		return "Critical"
	case s >= 75:
		return "High"
	case s >= 50:
		return "Medium"
	case s >= 25:
		return "Low"
	}
	return "Minimal"
}

// 文档注释：按点分十进制首段粗分地址类别
// 约束：非四段（含全部 IPv6）一律返回 "IPv6 or Invalid"。
func AddressType(ip string) string {
	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return "IPv6 or Invalid"
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		return "IPv6 or Invalid"
	}
	b, _ := strconv.Atoi(parts[1])
	switch {
	case a == 10:
		return "Private (Class A)"
	case a == 172 && b >= 16 && b <= 31:
		return "Private (Class B)"
	case a == 192 && b == 168:
		return "Private (Class C)"
	case a == 127:
		return "Loopback"
	case a == 169 && b == 254:
		return "Link-Local"
	case a >= 224 && a <= 239:
		return "Multicast"
	}
	return "Public"
}

// coordinates：首个同时具备纬度与经度的来源
func coordinates(s Sources) (string, string, bool) {
	for _, p := range coordinateOrder {
		lat, ok1 := s[p].Get("latitude")
		lon, ok2 := s[p].Get("longitude")
		if ok1 && ok2 {
			return lat, lon, true
		}
	}
	return "", "", false
}

// 文档注释：按 IPRules 合并各来源，生成有序记录
// 约束：每个字段恰好出现一次；纯函数，不访问网络。
func Resolve(ip string, s Sources) *record.Record {
	rec := record.New()
	lat, lon, hasCoords := coordinates(s)
	for _, r := range IPRules {
		rec.Set(r.Field, resolveRule(ip, s, r))
		if r.Field == "Postal/ZIP Code" {
			if hasCoords {
				rec.Set("Latitude", lat)
				rec.Set("Longitude", lon)
				rec.Set("Coordinates", lat+", "+lon)
			} else {
				rec.Set("Latitude", NA)
				rec.Set("Longitude", NA)
				rec.Set("Coordinates", NA)
			}
		}
	}
	return rec
}

func resolveRule(ip string, s Sources, r Rule) string {
	if r.Flag != nil {
		return resolveFlag(s, r.Chain, r.Flag)
	}
	if v, ok := FirstPresent(s, r.Chain); ok {
		return v
	}
	if r.Derive != nil {
		if v, ok := r.Derive(ip, s); ok {
			return v
		}
	}
	if r.Default != "" {
		return r.Default
	}
	return NA
}

// Fetcher：单个数据源的获取函数
type Fetcher struct {
	Provider Provider
	Fetch    func(ctx context.Context) (Partial, error)
}

// Outcome：单个数据源的获取结果
type Outcome struct {
	Provider Provider
	Err      error
}

// 文档注释：并发调用全部 Fetcher 并等待全部结束
// 约束：单个来源失败不取消其他来源；失败来源不进入 Sources，只记录在 Outcome 中；Outcome 顺序与入参一致。
func Gather(ctx context.Context, fetchers []Fetcher) (Sources, []Outcome) {
	parts := make([]Partial, len(fetchers))
	outs := make([]Outcome, len(fetchers))
	var wg sync.WaitGroup
	for i, f := range fetchers {
		wg.Add(1)
		go func(i int, f Fetcher) {
			defer wg.Done()
			p, err := f.Fetch(ctx)
			parts[i] = p
			outs[i] = Outcome{Provider: f.Provider, Err: err}
		}(i, f)
	}
	wg.Wait()
	srcs := Sources{}
	for i, o := range outs {
		if o.Err == nil && parts[i] != nil {
			srcs[o.Provider] = parts[i]
		}
	}
	return srcs, outs
}
