package api

import (
	"net/http"
	"strings"
)

// 文档注释：从代理头解析访问者 IP
// 背景：按 CF-Connecting-IP、X-Real-IP、X-Forwarded-For 首项的顺序取第一个非空值。
// 约束：不校验格式，可用性由调用方判断；三者均缺失时返回空串。
func headerIP(r *http.Request) string {
	h := r.Header
	if x := strings.TrimSpace(h.Get("cf-connecting-ip")); x != "" {
		return x
	}
	if x := strings.TrimSpace(h.Get("x-real-ip")); x != "" {
		return x
	}
	if x := h.Get("x-forwarded-for"); x != "" {
		return strings.TrimSpace(strings.Split(x, ",")[0])
	}
	return ""
}
