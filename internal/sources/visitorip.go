package sources

import (
	"context"
	"strings"

	"osint-api/internal/logger"
	"osint-api/internal/upstream"
)

// UnableToDetect：访客 IP 无法确定时的占位值
const UnableToDetect = "Unable to detect"

// UsableVisitorIP：请求头给出的 IP 是否可直接使用（排除空值、回环与常见内网前缀）
func UsableVisitorIP(ip string) bool {
	switch ip {
	case "", UnableToDetect, "::1", "127.0.0.1":
		return false
	}
	for _, p := range []string{"192.168.", "10.", "172."} {
		if strings.HasPrefix(ip, p) {
			return false
		}
	}
	return true
}

// 文档注释：通过外部“我的 IP”服务探测出口 IP
// 约束：先 ipify，失败时再试 ip-api.com；c 应携带短超时。都失败返回空串。
func (e Env) DetectIP(ctx context.Context, c *upstream.Client) string {
	l := logger.From(ctx)
	var a struct {
		IP string `json:"ip"`
	}
	err := c.JSON(ctx, upstream.Request{Source: "ipify", URL: e.Upstreams.Ipify}, &a)
	if err == nil && a.IP != "" {
		return a.IP
	}
	l.Info("visitor_ip_ipify_failed", "err", err)

	var b struct {
		Query string `json:"query"`
	}
	if err := c.JSON(ctx, upstream.Request{Source: "ipapicom_self", URL: join(e.Upstreams.IPAPICom, "json/") + "?fields=query"}, &b); err != nil {
		l.Info("visitor_ip_ipapicom_failed", "err", err)
		return ""
	}
	return b.Query
}
