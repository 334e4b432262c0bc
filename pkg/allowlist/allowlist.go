// 包 allowlist：运维端点的来源 IP 白名单（单 IP + CIDR + 本地）
package allowlist

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
)

// 文档注释：IP/CIDR 白名单中间件
// 背景：/metrics 与 /stats 只对运维网段开放；其他请求统一返回 403。
// 约束：
// 1) 不依赖项目内部代码，便于在其他项目直接复用；
// 2) 支持 IPv4/IPv6 CIDR；
// 3) 来源 IP 以 RemoteAddr 为准；RealIPHeader 非空时优先取该头的首个有效 IP。
type Middleware struct {
	l            *slog.Logger
	allowIPs     map[string]struct{}
	allowCIDRs   []*net.IPNet
	realIPHeader string
	mu           sync.RWMutex
}

// Options：白名单构建参数
type Options struct {
	IPs          []string
	CIDRs        []string
	AllowLocal   bool
	RealIPHeader string
}

// New：构建中间件；非法条目记录日志后跳过
func New(l *slog.Logger, o Options) *Middleware {
	if l == nil {
		l = slog.Default()
	}
	m := &Middleware{l: l, allowIPs: map[string]struct{}{}, realIPHeader: strings.TrimSpace(o.RealIPHeader)}
	for _, p := range o.IPs {
		if ip := net.ParseIP(strings.TrimSpace(p)); ip != nil {
			m.allowIPs[ip.String()] = struct{}{}
		} else {
			l.Warn("allowlist_bad_ip", "value", p)
		}
	}
	if o.AllowLocal {
		m.allowIPs["127.0.0.1"] = struct{}{}
		m.allowIPs["::1"] = struct{}{}
	}
	m.Add(o.CIDRs...)
	return m
}

// Add：追加 CIDR（去重）
func (m *Middleware) Add(cidrs ...string) {
	var parsed []*net.IPNet
	for _, c := range cidrs {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, n, err := net.ParseCIDR(c); err == nil {
			parsed = append(parsed, n)
		} else {
			m.l.Warn("allowlist_bad_cidr", "value", c)
		}
	}
	m.mu.Lock()
	m.allowCIDRs = mergeCIDRs(m.allowCIDRs, parsed)
	m.mu.Unlock()
}

// Wrap：生成 http.Handler 中间件
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := m.extractIP(r)
		if ip == nil {
			m.l.Debug("allowlist_block", "reason", "no_ip")
			write403(w)
			return
		}
		if m.Allowed(ip) {
			next.ServeHTTP(w, r)
			return
		}
		m.l.Debug("allowlist_block", "ip", ip.String(), "path", r.URL.Path)
		write403(w)
	})
}

// Allowed：判断 IP 是否在允许集合
func (m *Middleware) Allowed(ip net.IP) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.allowIPs[ip.String()]; ok {
		return true
	}
	for _, n := range m.allowCIDRs {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func (m *Middleware) extractIP(r *http.Request) net.IP {
	if m.realIPHeader != "" {
		if raw := r.Header.Get(m.realIPHeader); raw != "" {
			first := strings.TrimSpace(strings.Split(raw, ",")[0])
			if ip := net.ParseIP(first); ip != nil {
				return ip
			}
		}
	}
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return net.ParseIP(host)
}

func write403(w http.ResponseWriter) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"success":false,"error":"Forbidden"}`))
}

// mergeCIDRs：合并并去重 CIDR 列表
func mergeCIDRs(old, add []*net.IPNet) []*net.IPNet {
	seen := map[string]bool{}
	out := make([]*net.IPNet, 0, len(old)+len(add))
	for _, n := range append(old, add...) {
		if seen[n.String()] {
			continue
		}
		seen[n.String()] = true
		out = append(out, n)
	}
	return out
}
