package sources

import (
	"context"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"osint-api/internal/logger"
	"osint-api/internal/metrics"
	"osint-api/internal/record"
)

// WhoisQuery：原始 WHOIS 文本查询；测试中替换
type WhoisQuery func(domain string) (string, error)

// NewWhoisQuery：基于 likexian/whois 的查询实现（带超时）
func NewWhoisQuery(timeout time.Duration) WhoisQuery {
	c := whois.NewClient().SetTimeout(timeout)
	return func(domain string) (string, error) { return c.Whois(domain) }
}

// 文档注释：WHOIS 补充字段（注册商、创建/到期时间、NS）
// 约束：任何失败都静默丢弃，只记录日志；只追加解析到的非空字段。
func EnrichWhois(ctx context.Context, q WhoisQuery, domain string, rec *record.Record) {
	if q == nil {
		return
	}
	type result struct {
		raw string
		err error
	}
	ch := make(chan result, 1)
	metrics.UpstreamRequestsTotal.WithLabelValues("whois").Inc()
	go func() {
		raw, err := q(domain)
		ch <- result{raw, err}
	}()
	var r result
	select {
	case <-ctx.Done():
		metrics.UpstreamFailTotal.WithLabelValues("whois").Inc()
		logger.From(ctx).Info("whois_canceled", "domain", domain)
		return
	case r = <-ch:
	}
	if r.err != nil {
		metrics.UpstreamFailTotal.WithLabelValues("whois").Inc()
		logger.From(ctx).Info("whois_failed", "domain", domain, "err", r.err)
		return
	}
	info, err := whoisparser.Parse(r.raw)
	if err != nil {
		logger.From(ctx).Info("whois_parse_failed", "domain", domain, "err", err)
		return
	}
	if info.Registrar != nil {
		rec.SetIf("Registrar", info.Registrar.Name, info.Registrar.Name != "")
	}
	if info.Domain != nil {
		rec.SetIf("Created", info.Domain.CreatedDate, info.Domain.CreatedDate != "")
		rec.SetIf("Expires", info.Domain.ExpirationDate, info.Domain.ExpirationDate != "")
		ns := strings.Join(info.Domain.NameServers, ", ")
		rec.SetIf("Name Servers", ns, ns != "")
	}
}
