package sources

import (
	"context"
	"fmt"
	"net/url"

	"osint-api/internal/fusion"
	"osint-api/internal/logger"
	"osint-api/internal/upstream"
)

// IPAPI：ipapi.co（合并来源 A）
func (e Env) IPAPI(ctx context.Context, ip string) (fusion.Partial, error) {
	return e.ipJSON(ctx, "ipapi", join(e.Upstreams.IPAPI, url.PathEscape(ip)+"/json/"), func(m map[string]any) error {
		if v, _ := m["error"].(bool); v {
			return fmt.Errorf("ipapi: %v", m["reason"])
		}
		return nil
	})
}

// IPWhois：ipwho.is（合并来源 B）；success:false 视为不可用
func (e Env) IPWhois(ctx context.Context, ip string) (fusion.Partial, error) {
	return e.ipJSON(ctx, "ipwhois", join(e.Upstreams.IPWhois, url.PathEscape(ip)), func(m map[string]any) error {
		if v, ok := m["success"].(bool); !ok || !v {
			return fmt.Errorf("ipwhois: %v", m["message"])
		}
		return nil
	})
}

// ipQualityDefaults：外呼失败时的安全默认值（无任何检测命中）
var ipQualityDefaults = fusion.Partial{
	"proxy":        "false",
	"vpn":          "false",
	"tor":          "false",
	"fraud_score":  "0",
	"bot_status":   "false",
	"recent_abuse": "false",
}

// 文档注释：ipqualityscore（合并来源 C）
// 约束：任何失败都返回安全默认值且 synthetic=true，不返回错误，保证安全类字段始终存在。
func (e Env) IPQuality(ctx context.Context, ip string) (fusion.Partial, bool) {
	p, err := e.ipJSON(ctx, "ipquality", join(e.Upstreams.IPQuality, url.PathEscape(ip)), func(m map[string]any) error {
		if v, ok := m["success"].(bool); ok && !v {
			return fmt.Errorf("ipquality: %v", m["message"])
		}
		return nil
	})
	if err != nil {
		out := make(fusion.Partial, len(ipQualityDefaults))
		for k, v := range ipQualityDefaults {
			out[k] = v
		}
		return out, true
	}
	return p, false
}

func (e Env) ipJSON(ctx context.Context, source, u string, check func(map[string]any) error) (fusion.Partial, error) {
	var m map[string]any
	err := e.HTTP.JSON(ctx, upstream.Request{
		Source: source,
		URL:    u,
		Header: upstream.Headers("User-Agent", e.APIUA),
	}, &m)
	if err == nil && check != nil {
		err = check(m)
	}
	if err != nil {
		logger.From(ctx).Info("ip_source_unavailable", "source", source, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fusion.Flatten(m), nil
}

// IPAPIComFields：/ip 端点请求的字段集合
const IPAPIComFields = "status,message,country,countryCode,region,regionName,city,zip,lat,lon,timezone,isp,org,as,query"

// IPAPIComError：ip-api.com 报告 status:"fail"
type IPAPIComError struct{ Msg string }

func (e *IPAPIComError) Error() string { return e.Msg }

// 文档注释：ip-api.com 单源查询（/ip 端点）
// 返回：上游 JSON 原样字段；status:"fail" 时返回 *IPAPIComError（信息取自上游 message）。
func (e Env) IPAPICom(ctx context.Context, ip string) (map[string]any, error) {
	var m map[string]any
	err := e.HTTP.JSON(ctx, upstream.Request{
		Source: "ipapicom",
		URL:    join(e.Upstreams.IPAPICom, "json/"+url.PathEscape(ip)) + "?fields=" + IPAPIComFields,
		Header: upstream.Headers("User-Agent", e.DesktopUA),
	}, &m)
	if err != nil {
		return nil, err
	}
	if s, _ := m["status"].(string); s == "fail" {
		msg, _ := m["message"].(string)
		if msg == "" {
			msg = "IP lookup failed"
		}
		return nil, &IPAPIComError{Msg: msg}
	}
	return m, nil
}
