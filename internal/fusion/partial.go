package fusion

import (
	"strconv"
)

// Provider：参与合并的数据源标识
type Provider string

const (
	ProviderIPAPI     Provider = "ipapi"     // A: ipapi.co
	ProviderIPWhois   Provider = "ipwhois"   // B: ipwho.is
	ProviderIPQuality Provider = "ipquality" // C: ipqualityscore
	ProviderGeoLite   Provider = "geolite"   // 本地 GeoLite2（可选）
	ProviderIP2Region Provider = "ip2region" // 本地 ip2region（可选）
)

// Partial：单个数据源的扁平化结果（点分键 -> 文本值）
// 约束：键缺失或值为空串即视为“缺席”。
type Partial map[string]string

// Get：读取字段，空值视为缺席
func (p Partial) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p[key]
	return v, ok && v != ""
}

// Sources：一次合并的全部数据源结果；失败的数据源不出现在集合中
type Sources map[Provider]Partial

// Flatten：将解码后的 JSON 对象展开为点分键的 Partial
// 约束：数组按 JSON 文本以逗号连接标量；null 与空串丢弃；布尔为 "true"/"false"。
func Flatten(m map[string]any) Partial {
	out := Partial{}
	flattenInto(out, "", m)
	return out
}

func flattenInto(out Partial, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch x := v.(type) {
		case map[string]any:
			flattenInto(out, key, x)
		case []any:
			s := ""
			for i, e := range x {
				if sv, ok := scalar(e); ok {
					if i > 0 && s != "" {
						s += ", "
					}
					s += sv
				}
			}
			if s != "" {
				out[key] = s
			}
		default:
			if sv, ok := scalar(x); ok && sv != "" {
				out[key] = sv
			}
		}
	}
}

func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case nil:
		return "", false
	}
	return "", false
}
