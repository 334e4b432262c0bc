package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/miekg/dns"

	"osint-api/internal/logger"
	"osint-api/internal/record"
	"osint-api/internal/upstream"
)

const dnsMessage = "application/dns-message"

// 文档注释：DNS-over-HTTPS 查询（RFC 8484 wire format，POST）
// 返回：应答区记录；传输失败、非 2xx 或报文无法解析时返回错误。NXDOMAIN 等 Rcode 不视为错误，应答区为空即可。
func (e Env) resolve(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	q := new(dns.Msg)
	q.SetQuestion(dns.Fqdn(name), qtype)
	q.RecursionDesired = true
	packed, err := q.Pack()
	if err != nil {
		return nil, err
	}
	body, _, err := e.HTTP.Do(ctx, upstream.Request{
		Source: "doh",
		Method: "POST",
		URL:    e.Upstreams.DoH,
		Header: upstream.Headers("Content-Type", dnsMessage, "Accept", dnsMessage),
		Body:   bytes.NewReader(packed),
	})
	if err != nil {
		return nil, err
	}
	resp := new(dns.Msg)
	if err := resp.Unpack(body); err != nil {
		return nil, fmt.Errorf("doh: unpack: %w", err)
	}
	return resp.Answer, nil
}

var (
	commonProviders  = []string{"gmail.com", "yahoo.com", "outlook.com", "hotmail.com", "icloud.com"}
	disposableDomain = []string{"tempmail.com", "guerrillamail.com", "10minutemail.com", "throwaway.email"}
)

// 文档注释：邮箱分析（本地分类 + MX 记录）
// 约束：addr 已通过格式校验；DoH 失败时返回降级记录（degraded=true），不返回错误。
func (e Env) Email(ctx context.Context, addr string) (*record.Record, bool) {
	at := strings.LastIndex(addr, "@")
	local, domain := addr[:at], addr[at+1:]
	lower := strings.ToLower(domain)

	provider := "Custom/Business"
	for _, p := range commonProviders {
		if lower == p {
			provider = p
			break
		}
	}
	disposable := "No"
	for _, d := range disposableDomain {
		if strings.Contains(lower, d) {
			disposable = "Yes"
			break
		}
	}

	status, details, degraded := "", "", false
	answers, err := e.resolve(ctx, domain, dns.TypeMX)
	var mx []string
	for _, rr := range answers {
		if r, ok := rr.(*dns.MX); ok {
			mx = append(mx, fmt.Sprintf("%d %s", r.Preference, r.Mx))
		}
	}
	switch {
	case err != nil:
		logger.From(ctx).Info("email_mx_failed", "domain", domain, "err", err)
		status, details, degraded = "SMTP check failed", "Unable to verify mail servers", true
	case len(mx) > 0:
		status, details = "Domain has mail servers", "MX Records: "+strings.Join(mx, ", ")
	default:
		status, details = "No mail servers found", "Domain may not accept emails"
	}
	note := "Email format is valid but domain verification incomplete"
	if len(mx) > 0 {
		note = "Email format is valid and domain has active mail servers"
	}

	rec := record.New()
	rec.Set("Email", addr)
	rec.Set("Local Part", local)
	rec.Set("Domain", domain)
	rec.Set("Format Valid", "Yes")
	rec.Set("Email Provider", provider)
	rec.Set("Disposable Email", disposable)
	rec.Set("Domain TLD", tld(domain))
	rec.Set("SMTP Status", status)
	rec.Set("SMTP Details", details)
	rec.Set("Note", note)
	return rec, degraded
}

// CleanDomain：去掉协议、www. 前缀与路径
func CleanDomain(raw string) string {
	d := strings.TrimSpace(raw)
	for _, p := range []string{"https://", "http://"} {
		if strings.HasPrefix(strings.ToLower(d), p) {
			d = d[len(p):]
			break
		}
	}
	if strings.HasPrefix(strings.ToLower(d), "www.") {
		d = d[4:]
	}
	if i := strings.Index(d, "/"); i >= 0 {
		d = d[:i]
	}
	return d
}

// 文档注释：域名 A 记录解析
// 约束：name 已清洗；DoH 失败时仅返回本地可推导字段与说明（degraded=true）。
func (e Env) Domain(ctx context.Context, name string) (*record.Record, bool) {
	rec := record.New()
	rec.Set("Domain", name)
	answers, err := e.resolve(ctx, name, dns.TypeA)
	if err != nil {
		logger.From(ctx).Info("domain_dns_failed", "domain", name, "err", err)
		rec.Set("TLD", tld(name))
		rec.Set("Note", "Basic domain information extracted. Full WHOIS lookup requires additional services.")
		return rec, true
	}
	var ips []string
	for _, rr := range answers {
		if a, ok := rr.(*dns.A); ok {
			ips = append(ips, a.A.String())
		}
	}
	if len(ips) > 0 {
		rec.Set("DNS Status", "Active")
		rec.Set("IP Addresses", strings.Join(ips, ", "))
	} else {
		rec.Set("DNS Status", "No records found")
		rec.Set("IP Addresses", "Not resolved")
	}
	rec.Set("Record Type", "A (IPv4)")
	rec.Set("TLD", tld(name))
	if len(ips) > 0 {
		rec.Set("Note", "Domain is active and resolving")
	} else {
		rec.Set("Note", "Domain may be inactive or not registered")
	}
	return rec, false
}
